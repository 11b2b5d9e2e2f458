package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set with -ldflags at build time:
// go build -ldflags "-X git.home.luguber.info/inful/cryptogen/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also set with -ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version. When no version was injected
// it falls back to the module version recorded by the Go toolchain.
func String() string {
	v := Version
	if v == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("cryptogen %s (commit %s, built %s)", v, GitCommit, BuildTime)
}
