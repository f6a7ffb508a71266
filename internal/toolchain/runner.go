package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Output captures the result of a tool invocation.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes a toolchain program. Implementations must report a
// non-zero exit through Output.ExitCode and reserve the error return for
// failures to start the program at all.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin string) (*Output, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run starts name with args, feeds stdin and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin string) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", name, err)
	}

	return output, nil
}
