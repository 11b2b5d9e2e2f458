// Package libinstall copies the prebuilt CAM library and its headers into every
// downstream project.
package libinstall

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/fsutil"
	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/mapping"
)

// LibrariesDir is the subdirectory of an install directory holding the library files.
const LibrariesDir = "libraries"

// LibraryDir is the library destination relative to a project target.
func LibraryDir(target string) string {
	return filepath.Join(target, "drivers", "library")
}

// Files lists the source files installed into project p: the library archive
// followed by cam_<tag>.h for each library header tag.
func Files(installDir, libName string, p mapping.Project) []string {
	src := filepath.Join(installDir, LibrariesDir)
	out := make([]string, 0, 1+len(p.LibraryHeaders))
	out = append(out, filepath.Join(src, libName))
	for _, h := range p.LibraryHeaders {
		out = append(out, filepath.Join(src, "cam_"+h+".h"))
	}
	return out
}

// Install copies the library and headers into every project in table order and
// stops at the first failure. It returns the number of files copied.
func Install(installDir, libName string, table *mapping.Table) (int, error) {
	if info, err := os.Stat(installDir); err != nil || !info.IsDir() {
		return 0, errors.ArgumentError("library installation directory not found").
			WithContext("path", installDir).
			Build()
	}

	slog.Info("Installing libraries", logfields.Path(installDir))
	total := 0
	for _, p := range table.Projects {
		dst := LibraryDir(p.Target)
		if err := fsutil.EnsureDirs(dst); err != nil {
			return total, errors.DistributionIOError("create library directory").
				WithCause(err).
				WithContext("project", p.Name).
				WithContext("path", dst).
				Build()
		}
		for _, src := range Files(installDir, libName, p) {
			if _, err := fsutil.CopyInto(src, dst); err != nil {
				return total, errors.DistributionIOError("copy library file").
					WithCause(err).
					WithContext("project", p.Name).
					WithContext("path", src).
					Build()
			}
			total++
		}
		slog.Info("Installed library files", logfields.Project(p.Name), logfields.Path(dst), logfields.Count(1+len(p.LibraryHeaders)))
	}
	return total, nil
}
