package toolchain

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/Merlinas/SublimeAVR/internal/platform"
)

// Executable names of the toolchain programs.
const (
	CompilerName  = "avr-gcc"
	AssemblerName = "avr-as"
)

// ErrToolchainNotFound is returned when the compiler cannot be located.
var ErrToolchainNotFound = errors.New("toolchain not found")

// Locate returns the directory containing the named executable. Directories
// in searchPath (a list in the host's PATH format) are tried first, then the
// process PATH.
func Locate(name, searchPath string) (string, error) {
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, platform.ExecutableName(name))
		if platform.IsExecutable(candidate) {
			return filepath.Clean(dir), nil
		}
	}

	found, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: could not find %s: %v", ErrToolchainNotFound, name, err)
	}
	abs, err := filepath.Abs(found)
	if err != nil {
		abs = found
	}
	return filepath.Dir(abs), nil
}
