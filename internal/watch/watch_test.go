package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cryptogen/internal/module"
)

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/crypto_aes.c", false},
		{"templates/wrapper.ftl", false},
		{"src/.hidden", true},
		{"src/crypto_aes.c~", true},
		{"src/.crypto_aes.c.swp", true},
		{"src/crypto_aes.c.swx", true},
		{"src/#crypto_aes.c#", true},
		{"src/4913", true},
		{"Thumbs.db", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldIgnore(tt.path), tt.path)
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { fired.Add(1) })
	for range 5 {
		d.Trigger()
	}
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestDebouncerStop(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })
	d.Trigger()
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestSourceDirs(t *testing.T) {
	dirs := SourceDirs("repo", "cam_aes")
	assert.Equal(t, []string{
		filepath.Join("repo", module.DriversDir, "cam_aes"),
		filepath.Join("repo", module.CommonDir),
		filepath.Join("repo", module.TemplatesDir),
	}, dirs)
}

func TestWatcherRunsOnStartAndOnChange(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := New([]string{dir}, 20*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return assert.AnError
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "crypto_aes.c"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, time.Millisecond, func(context.Context) error { return nil })
	assert.Error(t, w.Run(t.Context()))
}
