package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

// Fixed subdirectory names under the workspace root.
const (
	InputDir     = "input"
	OutputDir    = "output"
	CommonDir    = "common_crypto"
	TemplatesDir = "templates"
)

// Layout is the directory skeleton of one workspace for one module.
type Layout struct {
	Root      string
	Input     string
	Module    string
	Common    string
	Templates string
	Output    string
}

// NewLayout computes the workspace skeleton rooted at root for module id.
func NewLayout(root string, id module.ID) Layout {
	input := filepath.Join(root, InputDir)
	return Layout{
		Root:      root,
		Input:     input,
		Module:    filepath.Join(input, id.String()),
		Common:    filepath.Join(input, CommonDir),
		Templates: filepath.Join(input, TemplatesDir),
		Output:    filepath.Join(root, OutputDir),
	}
}

// Dirs lists every directory of the skeleton in creation order.
func (l Layout) Dirs() []string {
	return []string{l.Input, l.Module, l.Common, l.Templates, l.Output}
}

// Create makes every missing directory of the skeleton. Existing directories are left alone.
func (l Layout) Create() error {
	for _, d := range l.Dirs() {
		if _, err := os.Stat(d); err == nil {
			continue
		}
		slog.Debug("Creating directory", logfields.Path(d))
		if err := os.MkdirAll(d, 0o750); err != nil {
			return errors.StagingIOError("failed to create workspace directory").
				WithCause(err).
				WithContext("path", d).
				Build()
		}
	}
	return nil
}
