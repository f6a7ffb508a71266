// Package ui prints user-facing status output. On a terminal it uses pterm
// styling; otherwise it falls back to plain, prefix-marked lines so output
// stays readable in pipes and logs.
package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// displayWidth returns the visible width of s, ignoring ANSI codes.
func displayWidth(s string) int {
	return runewidth.StringWidth(ansiRegex.ReplaceAllString(s, ""))
}

// IsTerminal reports whether w is a character device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Printer writes status messages to one stream.
type Printer struct {
	w   io.Writer
	tty bool
}

// New returns a Printer for w, styled when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{w: w, tty: IsTerminal(w)}
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.tty {
		pterm.Success.WithWriter(p.w).Println(msg)
		return
	}
	fmt.Fprintf(p.w, "✓ %s\n", msg)
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.tty {
		pterm.Warning.WithWriter(p.w).Println(msg)
		return
	}
	fmt.Fprintf(p.w, "! %s\n", msg)
}

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.tty {
		pterm.Info.WithWriter(p.w).Println(msg)
		return
	}
	fmt.Fprintf(p.w, "  %s\n", msg)
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.tty {
		pterm.Error.WithWriter(p.w).Println(msg)
		return
	}
	fmt.Fprintf(p.w, "✗ %s\n", msg)
}

// Box prints lines inside a titled box.
func (p *Printer) Box(title string, lines ...string) {
	if !p.tty {
		if title != "" {
			fmt.Fprintf(p.w, "── %s ──\n", title)
		}
		for _, line := range lines {
			fmt.Fprintln(p.w, line)
		}
		return
	}

	maxLen := 0
	for _, line := range lines {
		if w := displayWidth(line); w > maxLen {
			maxLen = w
		}
	}
	padded := make([]string, len(lines))
	for i, line := range lines {
		padded[i] = line + strings.Repeat(" ", maxLen-displayWidth(line))
	}
	pterm.DefaultBox.WithTitle(title).WithWriter(p.w).Println(strings.Join(padded, "\n"))
}

// KeyValues prints aligned "key  value" rows, one per pair.
func (p *Printer) KeyValues(pairs [][2]string) {
	width := 0
	for _, kv := range pairs {
		if w := displayWidth(kv[0]); w > width {
			width = w
		}
	}
	for _, kv := range pairs {
		key := kv[0] + strings.Repeat(" ", width-displayWidth(kv[0]))
		if p.tty {
			key = pterm.Cyan(key)
		}
		fmt.Fprintf(p.w, "  %s  %s\n", key, kv[1])
	}
}

// Spinner wraps a pterm spinner.
type Spinner struct {
	p       *Printer
	spinner *pterm.SpinnerPrinter
	start   time.Time
}

// StartSpinner starts a spinner with message.
func (p *Printer) StartSpinner(message string) *Spinner {
	s := &Spinner{p: p, start: time.Now()}
	if !p.tty {
		fmt.Fprintf(p.w, "... %s\n", message)
		return s
	}
	s.spinner, _ = pterm.DefaultSpinner.WithWriter(p.w).Start(message)
	return s
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	elapsed := time.Since(s.start)
	if elapsed.Seconds() >= 0.05 {
		message = fmt.Sprintf("%s (%.1fs)", message, elapsed.Seconds())
	}
	if s.spinner != nil {
		s.spinner.Success(message)
		return
	}
	fmt.Fprintf(s.p.w, "✓ %s\n", message)
}

// Warn stops the spinner with a warning.
func (s *Spinner) Warn(message string) {
	if s.spinner != nil {
		s.spinner.Warning(message)
		return
	}
	fmt.Fprintf(s.p.w, "! %s\n", message)
}

// Fail stops the spinner with an error.
func (s *Spinner) Fail(message string) {
	if s.spinner != nil {
		s.spinner.Fail(message)
		return
	}
	fmt.Fprintf(s.p.w, "✗ %s\n", message)
}
