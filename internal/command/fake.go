package command

import (
	"context"
	"fmt"
	"sync"
)

// FakeRunner records invocations and answers from a scripted handler. It is exported
// so tests in other packages can stand in for git and the generation engine.
type FakeRunner struct {
	mu      sync.Mutex
	Calls   []Cmd
	Handler func(Cmd) (Result, error)
}

func (f *FakeRunner) Run(_ context.Context, c Cmd) (Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, c)
	h := f.Handler
	f.mu.Unlock()
	if h == nil {
		return Result{}, nil
	}
	return h(c)
}

// CommandLines returns the recorded invocations rendered as strings.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.String())
	}
	return out
}

// FailOn returns a handler that fails the first command whose rendered line equals line.
func FailOn(line string, exitCode int) func(Cmd) (Result, error) {
	return func(c Cmd) (Result, error) {
		if c.String() == line {
			return Result{ExitCode: exitCode, Output: "scripted failure"}, fmt.Errorf("%w: %s: exit code %d", ErrNonZeroExit, c, exitCode)
		}
		return Result{}, nil
	}
}
