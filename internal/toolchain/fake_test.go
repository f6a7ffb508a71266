package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// fakeRunner answers invocations from a table keyed by the joined argument list.
type fakeRunner struct {
	responses map[string]*Output
	failures  map[string]error
	calls     []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ string) (*Output, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, name+" "+key)
	if err, ok := f.failures[key]; ok {
		return nil, err
	}
	if out, ok := f.responses[key]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}
