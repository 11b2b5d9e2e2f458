package git

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/command"
)

// CLIClient implements VCS by running the git binary.
type CLIClient struct {
	Binary string
	Runner command.Runner
}

// NewCLIClient returns a VCS that shells out to git through runner.
func NewCLIClient(runner command.Runner) *CLIClient {
	return &CLIClient{Binary: "git", Runner: runner}
}

// Clone runs from the parent of path so the clone lands exactly at path.
func (c *CLIClient) Clone(ctx context.Context, url, path string) error {
	return c.run(ctx, filepath.Dir(path), "clone", url, filepath.Base(path))
}

func (c *CLIClient) Fetch(ctx context.Context, path string) error {
	return c.run(ctx, path, "fetch")
}

func (c *CLIClient) Checkout(ctx context.Context, path, branch string) error {
	return c.run(ctx, path, "checkout", branch)
}

func (c *CLIClient) Pull(ctx context.Context, path, _ string) error {
	return c.run(ctx, path, "pull")
}

func (c *CLIClient) run(ctx context.Context, dir string, args ...string) error {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}
	_, err := c.Runner.Run(ctx, command.Cmd{Dir: dir, Name: bin, Args: args})
	return err
}
