// Package mapping holds the static table that maps generated components onto the
// downstream firmware projects.
package mapping

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
)

// CurrentVersion is the only table schema version this build understands.
const CurrentVersion = 1

//go:embed projects.yaml
var defaultTable []byte

// Project is one downstream firmware project.
type Project struct {
	Name string `yaml:"name"`
	// Target is the project's crypto directory; relative paths resolve against the apps root.
	Target string `yaml:"target"`
	// Shared are common_crypto component tags (crypto_<tag>.h / src/crypto_<tag>.c).
	Shared []string `yaml:"shared"`
	// Wrappers are driver wrapper tags; the module value is appended to each.
	Wrappers []string `yaml:"wrappers"`
	// LibraryHeaders are cam_<tag>.h headers installed next to the prebuilt library.
	LibraryHeaders []string `yaml:"library_headers,omitempty"`
}

// Table is the versioned, ordered project list.
type Table struct {
	Version  int       `yaml:"version"`
	Projects []Project `yaml:"projects"`
}

// Default returns the built-in project table.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// Load reads a table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read mapping table").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse decodes and validates a table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.ConfigError("failed to parse mapping table").WithCause(err).Build()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the structural invariants of the table.
func (t *Table) Validate() error {
	if t.Version != CurrentVersion {
		return errors.ConfigError(fmt.Sprintf("unsupported mapping table version %d", t.Version)).Build()
	}
	if len(t.Projects) == 0 {
		return errors.ConfigError("mapping table has no projects").Build()
	}
	seen := make(map[string]struct{}, len(t.Projects))
	for i, p := range t.Projects {
		if p.Name == "" {
			return errors.ConfigError(fmt.Sprintf("project #%d has no name", i)).Build()
		}
		if _, dup := seen[p.Name]; dup {
			return errors.ConfigError("duplicate project name").WithContext("project", p.Name).Build()
		}
		seen[p.Name] = struct{}{}
		if p.Target == "" {
			return errors.ConfigError("project has no target directory").WithContext("project", p.Name).Build()
		}
		for _, group := range [][]string{p.Shared, p.Wrappers, p.LibraryHeaders} {
			for _, tag := range group {
				if tag == "" {
					return errors.ConfigError("project has an empty component tag").WithContext("project", p.Name).Build()
				}
			}
		}
	}
	return nil
}

// Resolve returns a copy of the table whose relative targets are joined to appsRoot.
func (t *Table) Resolve(appsRoot string) *Table {
	out := &Table{Version: t.Version, Projects: make([]Project, len(t.Projects))}
	for i, p := range t.Projects {
		if !filepath.IsAbs(p.Target) {
			p.Target = filepath.Join(appsRoot, p.Target)
		}
		out.Projects[i] = p
	}
	return out
}

// Marshal renders the table as YAML.
func (t *Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
