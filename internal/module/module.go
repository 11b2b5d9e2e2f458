// Package module names a cryptographic IP inside the crypto_v4 source tree and checks
// that it is present before any generation work starts.
package module

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
)

// Separator splits the IP family prefix from the module value ("crypto_ecdsa" -> "ecdsa").
const Separator = "_"

// Fixed locations inside the source repository.
var (
	DriversDir   = filepath.Join("module_crypto", "src", "drivers")
	CommonDir    = filepath.Join("module_crypto", "src", "common_crypto")
	TemplatesDir = filepath.Join("module_crypto", "templates")
)

// ID is a normalized (lower-cased) module identifier.
type ID string

// Normalize lower-cases and trims a raw identifier.
func Normalize(raw string) ID {
	// Casers are stateful; build one per call.
	return ID(cases.Lower(language.Und).String(strings.TrimSpace(raw)))
}

func (id ID) String() string { return string(id) }

// Check rejects identifiers that are not a single local path element.
func (id ID) Check() error {
	s := string(id)
	if s == "" || s == "." || strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") || !filepath.IsLocal(s) {
		return errors.ArgumentError("module identifier must be a single name").
			WithContext("module", s).
			Build()
	}
	return nil
}

// Value returns the part of the identifier after the first separator.
func (id ID) Value() (string, error) {
	_, value, ok := strings.Cut(string(id), Separator)
	if !ok || value == "" {
		return "", errors.ArgumentError("unable to determine module value").
			WithContext("module", string(id)).
			WithContext("separator", Separator).
			Build()
	}
	return value, nil
}

// SourceDir is the module's driver sources inside repoPath.
func (id ID) SourceDir(repoPath string) string {
	return filepath.Join(repoPath, DriversDir, string(id))
}

// Validate confirms the module directory exists inside the repository.
func Validate(repoPath string, id ID) error {
	if err := id.Check(); err != nil {
		return err
	}
	dir := id.SourceDir(repoPath)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		b := errors.MissingModuleError("module does not exist in the repository").
			WithContext("module", string(id)).
			WithContext("repository", repoPath).
			WithContext("path", dir)
		if err != nil {
			b.WithCause(err)
		}
		return b.Build()
	}
	return nil
}
