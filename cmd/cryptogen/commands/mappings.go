package commands

import (
	"fmt"

	"git.home.luguber.info/inful/cryptogen/internal/config"
	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/mapping"
)

// MappingsCmd implements the 'mappings' command.
type MappingsCmd struct {
	Mappings string `help:"Project mapping table (YAML); defaults to the built-in table"`
	Resolved bool   `help:"Show targets resolved against apps_root"`
}

func (m *MappingsCmd) Run(globals *Globals, root *CLI) error {
	cfg, err := root.load(config.Overrides{Mappings: m.Mappings})
	if err != nil {
		return err
	}
	var table *mapping.Table
	if m.Resolved {
		table, err = loadTable(cfg)
	} else if cfg.Mappings != "" {
		table, err = mapping.Load(cfg.Mappings)
	} else {
		table, err = mapping.Default()
	}
	if err != nil {
		return err
	}
	data, err := table.Marshal()
	if err != nil {
		return errors.InternalError("encode mapping table").WithCause(err).Build()
	}
	_, _ = fmt.Fprint(globals.Stdout, string(data))
	return nil
}
