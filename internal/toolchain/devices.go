package toolchain

import (
	"context"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
)

// Footer lengths of the two known "avr-as -mlist-devices" output shapes.
// Assemblers that support the option print the list on stdout and end it
// with a single trailing artifact. Older assemblers reject the option and
// print the list inside an error banner on stderr; that banner ends with
// nine more tokens. The legacy value was measured against a single binutils
// release; check it against current output before depending on it.
const (
	FooterStdout       = 1
	FooterLegacyStderr = 9
)

// DeviceResult is the outcome of a device catalog query.
type DeviceResult struct {
	Devices []string
	// Legacy is set when the list was read from the stderr banner.
	Legacy   bool
	Degraded bool
}

// Devices asks the assembler for the list of supported devices.
func (p *Probe) Devices(ctx context.Context) DeviceResult {
	log := ctxlog.FromContext(ctx)
	out, err := p.runner().Run(ctx, p.tool(AssemblerName), []string{"-mlist-devices"}, "")
	if err != nil {
		log.Warn("device list query failed", "error", err)
		return DeviceResult{Degraded: true}
	}

	result := DeviceResult{}
	if out.Stderr != "" {
		result.Legacy = true
		result.Devices = ParseDeviceList(out.Stderr, FooterLegacyStderr)
	} else {
		result.Devices = ParseDeviceList(out.Stdout, FooterStdout)
	}
	result.Degraded = len(result.Devices) == 0
	log.Debug("device list", "count", len(result.Devices), "legacy", result.Legacy)
	return result
}

// ParseDeviceList skips the header line of dump, splits every remaining line
// on single spaces and drops the last footer tokens. Empty tokens count
// towards the footer, so a trailing newline is the stdout artifact.
func ParseDeviceList(dump string, footer int) []string {
	lines := strings.Split(dump, "\n")
	if len(lines) < 2 {
		return []string{}
	}

	var tokens []string
	for _, line := range lines[1:] {
		tokens = append(tokens, strings.Split(strings.TrimSpace(line), " ")...)
	}
	if len(tokens) <= footer {
		return []string{}
	}
	tokens = tokens[:len(tokens)-footer]

	devices := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			devices = append(devices, tok)
		}
	}
	return devices
}
