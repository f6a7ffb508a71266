// Package programmer maps device names to avrdude part numbers using the
// reference table bundled with the binary, and formats the AVRDUDE_FLAGS
// value that project Makefiles pass to avrdude.
package programmer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

// DefaultProgrammer is the avrdude programmer id used when none is configured.
const DefaultProgrammer = "dragon_isp"

//go:embed avrdude_partno.json
var bundledTable []byte

var (
	bundledOnce sync.Once
	bundled     Table
	bundledErr  error
)

// Table maps device names (as accepted by -mmcu) to avrdude part numbers.
type Table map[string]string

// Bundled returns the table shipped with the binary.
func Bundled() (Table, error) {
	bundledOnce.Do(func() {
		bundled, bundledErr = parse(bundledTable)
	})
	return bundled, bundledErr
}

func parse(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing part table: %w", err)
	}
	if t == nil {
		t = Table{}
	}
	return t, nil
}

// Part returns the avrdude part number for mcu.
func (t Table) Part(mcu string) (string, bool) {
	part, ok := t[mcu]
	return part, ok
}

// Args returns "-p <part> -c <programmer>" for mcu, or "" when the device
// is not in the table. An empty programmer selects DefaultProgrammer.
func (t Table) Args(mcu, programmer string) string {
	part, ok := t.Part(mcu)
	if !ok {
		return ""
	}
	if programmer == "" {
		programmer = DefaultProgrammer
	}
	return "-p " + part + " -c " + programmer
}
