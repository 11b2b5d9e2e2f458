// Package command runs external programs (git, the generation engine) behind a narrow
// synchronous interface so pipeline code can be exercised with fakes.
package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/cryptogen/internal/logfields"
)

// ErrNonZeroExit indicates the command started but exited with a non-zero status.
var ErrNonZeroExit = stderrors.New("command exited with non-zero status")

// Cmd describes one external invocation.
type Cmd struct {
	Dir  string
	Name string
	Args []string
}

// String renders the command line for logs and diagnostics.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result captures the exit code and the combined stdout/stderr of a finished command.
type Result struct {
	ExitCode int
	Output   string
}

// Runner executes a command and blocks until it exits.
//
// Run returns a non-nil error when the command could not be started or exited
// non-zero; in the latter case the error wraps ErrNonZeroExit and Result still
// carries the captured output.
type Runner interface {
	Run(ctx context.Context, cmd Cmd) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Cmd) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	slog.Debug("Running command", logfields.Command(c.String()), logfields.Path(c.Dir))
	err := cmd.Run()
	res := Result{Output: out.String()}
	if res.Output != "" {
		slog.Debug("command output", logfields.Command(c.Name), slog.String("output", res.Output))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, fmt.Errorf("%w: %s: exit code %d", ErrNonZeroExit, c, res.ExitCode)
		}
		res.ExitCode = -1
		return res, fmt.Errorf("start %s: %w", c, err)
	}
	return res, nil
}
