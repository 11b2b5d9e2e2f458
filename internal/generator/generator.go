// Package generator invokes the external template expansion engine (FMPP) against a
// staged workspace.
package generator

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/cryptogen/internal/command"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
)

// DefaultBinary is the engine executable looked up on PATH.
const DefaultBinary = "fmpp"

// Engine expands templates from sourceRoot into destRoot using configPath.
// Its template semantics are opaque to the pipeline.
type Engine interface {
	Run(ctx context.Context, configPath, sourceRoot, destRoot string) (command.Result, error)
}

// FMPPEngine runs the fmpp binary through a command runner.
type FMPPEngine struct {
	Binary string
	Runner command.Runner
}

func (e *FMPPEngine) Run(ctx context.Context, configPath, sourceRoot, destRoot string) (command.Result, error) {
	bin := e.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	runner := e.Runner
	if runner == nil {
		runner = command.ExecRunner{}
	}
	return runner.Run(ctx, command.Cmd{
		Name: bin,
		Args: []string{"-C", configPath, "-S", sourceRoot, "-O", destRoot},
	})
}

// Invoker runs the engine exactly once per call and classifies failures.
type Invoker struct {
	engine Engine
}

// NewInvoker returns an Invoker for engine.
func NewInvoker(engine Engine) *Invoker {
	return &Invoker{engine: engine}
}

// Generate blocks until the engine exits. Any failure is a GenerationEngineError
// carrying the engine's combined output.
func (i *Invoker) Generate(ctx context.Context, configPath, inputRoot, outputRoot string) error {
	if _, err := os.Stat(inputRoot); err != nil {
		return errors.GenerationEngineError("staged input directory not found").
			WithCause(err).
			WithContext("path", inputRoot).
			Build()
	}
	slog.Info("Generating files", slog.String("config", configPath), slog.String("input", inputRoot), slog.String("output", outputRoot))

	res, err := i.engine.Run(ctx, configPath, inputRoot, outputRoot)
	if out := strings.TrimSpace(res.Output); out != "" {
		if err != nil {
			slog.Warn("generation engine output", slog.String("output", out))
		} else {
			slog.Debug("generation engine output", slog.String("output", out))
		}
	}
	if err != nil {
		msg := "generation engine failed"
		if !stderrors.Is(err, command.ErrNonZeroExit) {
			msg = "generation engine could not be started"
		}
		return errors.GenerationEngineError(msg).
			WithCause(err).
			WithContext("exit_code", res.ExitCode).
			WithContext("output", res.Output).
			Build()
	}
	slog.Info("Generation engine completed", logfields.Path(outputRoot))
	return nil
}
