// Package config builds the immutable run configuration from defaults, an optional
// YAML file, .env files and command-line overrides.
package config

import (
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/cryptogen/internal/git"
	"git.home.luguber.info/inful/cryptogen/internal/module"
	"git.home.luguber.info/inful/cryptogen/internal/workspace"
)

// VCS backend names.
const (
	VCSGoGit = "go-git"
	VCSCLI   = "cli"
)

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Workspace   string           `yaml:"workspace"`
	Engine      EngineConfig     `yaml:"engine"`
	Repository  RepositoryConfig `yaml:"repository"`
	AppsRoot    string           `yaml:"apps_root"`
	Mappings    string           `yaml:"mappings,omitempty"`
	Library     LibraryConfig    `yaml:"library"`
	MetricsFile string           `yaml:"metrics_file,omitempty"`
	HistoryDB   string           `yaml:"history_db,omitempty"`
	Watch       WatchConfig      `yaml:"watch"`

	// Run scope; only settable from the command line.
	Module module.ID `yaml:"-"`
	Clone  bool      `yaml:"-"`
}

// EngineConfig locates the template engine and its configuration file.
type EngineConfig struct {
	Binary string `yaml:"binary"`
	Config string `yaml:"config"`
}

// RepositoryConfig describes the crypto sources repository.
type RepositoryConfig struct {
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Branch   string `yaml:"branch,omitempty"`
	VCS      string `yaml:"vcs"`
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// LibraryConfig names the prebuilt library installed by install-libs.
type LibraryConfig struct {
	Name string `yaml:"name"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Reference returns the repository reference for the run.
func (c *Config) Reference() git.Reference {
	return git.Reference{Path: c.Repository.Path, URL: c.Repository.URL, Branch: c.Repository.Branch}
}

// Credentials returns the optional HTTP credentials for the remote.
func (c *Config) Credentials() git.Credentials {
	return git.Credentials{Username: c.Repository.Username, Token: c.Repository.Token}
}

// Layout returns the staging workspace for the run's module.
func (c *Config) Layout() workspace.Layout {
	return workspace.NewLayout(c.Workspace, c.Module)
}

// HasGitDir reports whether the configured repository path holds a .git directory.
func (c *Config) HasGitDir() bool {
	return isDir(filepath.Join(c.Repository.Path, ".git"))
}
