// Package distribute copies generated sources from the engine output tree into every
// downstream firmware project listed in the mapping table.
package distribute

import (
	"path/filepath"

	"git.home.luguber.info/inful/cryptogen/internal/mapping"
	"git.home.luguber.info/inful/cryptogen/internal/module"
	"git.home.luguber.info/inful/cryptogen/internal/workspace"
)

// CommonHeader is copied to every project regardless of its tags.
const CommonHeader = "crypto_common.h"

// Artifact is one generated file and the directory it lands in.
type Artifact struct {
	Source  string
	DestDir string
}

// Targets are the destination directories inside one project.
type Targets struct {
	Common     string
	CommonSrc  string
	Wrapper    string
	WrapperSrc string
}

// TargetsFor returns the destination directories under a project target.
func TargetsFor(target string) Targets {
	return Targets{
		Common:     filepath.Join(target, "common_crypto"),
		CommonSrc:  filepath.Join(target, "common_crypto", "src"),
		Wrapper:    filepath.Join(target, "drivers", "wrapper"),
		WrapperSrc: filepath.Join(target, "drivers", "wrapper", "src"),
	}
}

// Dirs lists the destination directories in creation order.
func (t Targets) Dirs() []string {
	return []string{t.Common, t.CommonSrc, t.Wrapper, t.WrapperSrc}
}

// Plan lists the artifacts for one project in copy order: the common header, then a
// header and source per shared tag, then a header and source per wrapper tag with the
// module value appended to the tag.
func Plan(outputRoot string, id module.ID, value string, p mapping.Project) []Artifact {
	common := filepath.Join(outputRoot, workspace.CommonDir)
	wrapper := filepath.Join(outputRoot, string(id), "wrapper")
	dst := TargetsFor(p.Target)

	out := make([]Artifact, 0, 1+2*len(p.Shared)+2*len(p.Wrappers))
	out = append(out, Artifact{Source: filepath.Join(common, CommonHeader), DestDir: dst.Common})
	for _, tag := range p.Shared {
		out = append(out,
			Artifact{Source: filepath.Join(common, "crypto_"+tag+".h"), DestDir: dst.Common},
			Artifact{Source: filepath.Join(common, "src", "crypto_"+tag+".c"), DestDir: dst.CommonSrc},
		)
	}
	for _, tag := range p.Wrappers {
		name := "crypto_" + tag + value + "_wrapper"
		out = append(out,
			Artifact{Source: filepath.Join(wrapper, name+".h"), DestDir: dst.Wrapper},
			Artifact{Source: filepath.Join(wrapper, "src", name+".c"), DestDir: dst.WrapperSrc},
		)
	}
	return out
}
