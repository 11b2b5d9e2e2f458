package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cryptogen/internal/foundation/errors"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// fakeRepo builds a minimal crypto_v4 checkout containing the given module.
func fakeRepo(t *testing.T, id module.ID) string {
	t.Helper()
	repo := t.TempDir()
	writeFile(t, filepath.Join(id.SourceDir(repo), "wrapper", "crypto_cam_wrapper.h.ftl"), "module")
	writeFile(t, filepath.Join(repo, module.CommonDir, "crypto_common.h.ftl"), "common")
	writeFile(t, filepath.Join(repo, module.TemplatesDir, "lib", "macros.ftl"), "templates")
	return repo
}

// snapshot maps relative file paths under root to their contents.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		rel, _ := filepath.Rel(root, path)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestStageCopiesAllGroups(t *testing.T) {
	id := module.ID("crypto_ecdsa")
	repo := fakeRepo(t, id)
	l := NewLayout(filepath.Join(t.TempDir(), "build"), id)

	require.NoError(t, NewStager().Stage(repo, id, l))

	assert.FileExists(t, filepath.Join(l.Module, "wrapper", "crypto_cam_wrapper.h.ftl"))
	assert.FileExists(t, filepath.Join(l.Common, "crypto_common.h.ftl"))
	assert.FileExists(t, filepath.Join(l.Templates, "lib", "macros.ftl"))
	assert.DirExists(t, l.Output)
}

func TestStageIsIdempotent(t *testing.T) {
	id := module.ID("crypto_ecdsa")
	repo := fakeRepo(t, id)
	l := NewLayout(filepath.Join(t.TempDir(), "build"), id)
	stager := NewStager()

	require.NoError(t, stager.Stage(repo, id, l))
	first := snapshot(t, l.Input)
	require.NoError(t, stager.Stage(repo, id, l))
	second := snapshot(t, l.Input)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestStageReplacesStaleFiles(t *testing.T) {
	id := module.ID("crypto_ecdsa")
	repo := fakeRepo(t, id)
	l := NewLayout(filepath.Join(t.TempDir(), "build"), id)
	writeFile(t, filepath.Join(l.Templates, "stale.ftl"), "old")

	require.NoError(t, NewStager().Stage(repo, id, l))

	assert.NoFileExists(t, filepath.Join(l.Templates, "stale.ftl"))
}

func TestStageMissingGroupHaltsRemainingGroups(t *testing.T) {
	id := module.ID("crypto_ecdsa")
	repo := fakeRepo(t, id)
	require.NoError(t, os.RemoveAll(filepath.Join(repo, module.CommonDir)))
	l := NewLayout(filepath.Join(t.TempDir(), "build"), id)
	writeFile(t, filepath.Join(l.Templates, "stale.ftl"), "old")

	err := NewStager().Stage(repo, id, l)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryStaging))

	// module group was copied before the failure and is kept
	assert.FileExists(t, filepath.Join(l.Module, "wrapper", "crypto_cam_wrapper.h.ftl"))
	// templates group was never attempted
	assert.FileExists(t, filepath.Join(l.Templates, "stale.ftl"))
	assert.NoFileExists(t, filepath.Join(l.Templates, "lib", "macros.ftl"))
}

func TestStageCopyFailureIsStagingError(t *testing.T) {
	id := module.ID("crypto_ecdsa")
	repo := fakeRepo(t, id)
	l := NewLayout(filepath.Join(t.TempDir(), "build"), id)
	calls := 0
	stager := &Stager{copyDir: func(_, _ string) error {
		calls++
		return os.ErrPermission
	}}

	err := stager.Stage(repo, id, l)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryStaging))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 1, calls)
}
