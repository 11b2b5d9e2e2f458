// Package commands implements the cryptogen subcommands.
package commands

import (
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"

	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/mapping"
)

// Globals are bound into every command's Run method.
type Globals struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: cryptogen.yaml if present)" placeholder:"FILE"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate    GenerateCmd    `cmd:"" default:"withargs" help:"Generate crypto driver sources and copy them into the application projects"`
	InstallLibs InstallLibsCmd `cmd:"" name:"install-libs" help:"Install the prebuilt CAM library and headers into the application projects"`
	Watch       WatchCmd       `cmd:"" help:"Regenerate whenever the module, shared or template sources change"`
	History     HistoryCmd     `cmd:"" help:"List recent generation runs"`
	Mappings    MappingsCmd    `cmd:"" help:"Print the effective project mapping table"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Globals) error {
	level := charmlog.InfoLevel
	if c.Verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(g.Stderr, charmlog.Options{
		Level:           level,
		Prefix:          "cryptogen",
		ReportTimestamp: c.Verbose,
		TimeFormat:      time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// configPath returns the config file to read and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config == "" {
		return config.DefaultFile, false
	}
	return c.Config, true
}

func (c *CLI) load(o config.Overrides) (*config.Config, error) {
	path, explicit := c.configPath()
	return config.Load(path, explicit, o)
}

// loadTable returns the mapping table named by cfg (or the built-in one) with
// project targets resolved against the apps root.
func loadTable(cfg *config.Config) (*mapping.Table, error) {
	var (
		table *mapping.Table
		err   error
	)
	if cfg.Mappings != "" {
		table, err = mapping.Load(cfg.Mappings)
	} else {
		table, err = mapping.Default()
	}
	if err != nil {
		return nil, err
	}
	return table.Resolve(cfg.AppsRoot), nil
}
