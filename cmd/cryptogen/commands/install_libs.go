package commands

import (
	"fmt"

	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/libinstall"
)

// InstallLibsCmd implements the 'install-libs' command.
type InstallLibsCmd struct {
	Install  string `short:"i" required:"" help:"Library drop directory (contains libraries/)"`
	Mappings string `help:"Project mapping table (YAML); defaults to the built-in table"`
}

func (c *InstallLibsCmd) Run(globals *Globals, root *CLI) error {
	cfg, err := root.load(config.Overrides{Mappings: c.Mappings})
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	n, err := libinstall.Install(c.Install, cfg.Library.Name, table)
	if err != nil {
		return err
	}
	renderSuccess(globals.Stdout, fmt.Sprintf("Installation complete (%d files, %d projects)", n, len(table.Projects)))
	return nil
}
