package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/foundation"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/normalization"
	"git.home.luguber.info/inful/cryptogen/internal/workspace"
)

var vcsNames = normalization.New("repository.vcs", map[string]string{
	VCSGoGit: VCSGoGit,
	"gogit":  VCSGoGit,
	VCSCLI:   VCSCLI,
	"git":    VCSCLI,
	"exec":   VCSCLI,
})

var fileRules = foundation.NewValidatorChain(
	foundation.Rule("library.name", "file_name", "must be a plain file name", func(c *Config) bool {
		n := c.Library.Name
		return filepath.IsLocal(n) && filepath.Base(n) == n
	}),
	foundation.Rule("repository.path", "outside_staging", "must not be inside the workspace input tree", func(c *Config) bool {
		return !within(filepath.Join(c.Workspace, workspace.InputDir), c.Repository.Path)
	}),
	foundation.Rule("apps_root", "outside_staging", "must not be inside the workspace input tree", func(c *Config) bool {
		return !within(filepath.Join(c.Workspace, workspace.InputDir), c.AppsRoot)
	}),
)

// validate checks command-line arguments first (argument errors, exit 2) and the
// merged file values second (config errors).
func validate(c *Config, o Overrides) error {
	if o.Module != "" {
		if c.Module == "" {
			return errors.ArgumentError("module identifier is blank").Build()
		}
		if err := c.Module.Check(); err != nil {
			return err
		}
		if _, err := c.Module.Value(); err != nil {
			return err
		}
	}
	if c.Clone && c.Repository.Branch == "" {
		return errors.ArgumentError("--clone requires --branch").Build()
	}
	if c.Clone && c.Repository.URL == "" {
		return errors.ArgumentError("--clone requires a repository URL").Build()
	}
	if o.Repository != "" && !c.HasGitDir() {
		return errors.ArgumentError("repository path is not a git checkout").
			WithContext("path", o.Repository).
			Build()
	}
	vcs, err := vcsNames.Parse(c.Repository.VCS)
	if err != nil {
		return err
	}
	c.Repository.VCS = vcs
	return fileRules.Validate(c).ToError()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}
