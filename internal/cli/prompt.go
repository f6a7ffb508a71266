package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// errCancelled is returned when the user backs out of a prompt.
var errCancelled = errors.New("cancelled")

// prompter asks questions on a line-oriented terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errCancelled
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// selectFromList shows a numbered menu and returns the chosen index.
// An empty answer or "q" cancels; an invalid answer asks again.
func (p *prompter) selectFromList(prompt string, items []string) (int, error) {
	fmt.Fprintf(p.out, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, item)
	}

	for {
		fmt.Fprintf(p.out, "Enter number [1-%d] (empty to cancel): ", len(items))
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" || strings.EqualFold(line, "q") {
			return 0, errCancelled
		}

		num, err := strconv.Atoi(line)
		if err == nil && num >= 1 && num <= len(items) {
			return num - 1, nil
		}
		// A typed name is accepted as well; device lists are long.
		for i, item := range items {
			if item == line {
				return i, nil
			}
		}
		fmt.Fprintf(p.out, "Invalid selection %q: choose 1-%d\n", line, len(items))
	}
}

// input asks for a line of text. An empty answer returns def.
func (p *prompter) input(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// confirm asks a yes/no question; anything but y/yes is no.
func (p *prompter) confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.readLine()
	if err != nil {
		if errors.Is(err, errCancelled) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
