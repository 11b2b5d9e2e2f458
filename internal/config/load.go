package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

// DefaultFile is the config file read when --config is not given.
const DefaultFile = "cryptogen.yaml"

// Overrides are command-line values; zero values leave the file or default in place.
type Overrides struct {
	Repository  string
	Clone       bool
	URL         string
	Branch      string
	Module      string
	Mappings    string
	MetricsFile string
	HistoryDB   string
	VCS         string
}

// Load builds the run configuration. A missing file at path is fine; the built-in
// defaults apply. An explicitly named file must exist.
func Load(path string, explicit bool, o Overrides) (*Config, error) {
	loadEnvFiles()

	cfg := Defaults()
	if path != "" {
		if err := readFile(path, explicit, cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(cfg)
	applyEnv(cfg)
	applyOverrides(cfg, o)

	if err := validate(cfg, o); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, explicit bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return errors.ConfigError("cannot read configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.ConfigError("invalid configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

func applyOverrides(c *Config, o Overrides) {
	overrideIfSet(&c.Repository.Path, o.Repository)
	overrideIfSet(&c.Repository.URL, o.URL)
	overrideIfSet(&c.Repository.Branch, o.Branch)
	overrideIfSet(&c.Repository.VCS, o.VCS)
	overrideIfSet(&c.Mappings, o.Mappings)
	overrideIfSet(&c.MetricsFile, o.MetricsFile)
	overrideIfSet(&c.HistoryDB, o.HistoryDB)
	c.Clone = o.Clone
	if o.Module != "" {
		c.Module = module.Normalize(o.Module)
	}
}

func overrideIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
