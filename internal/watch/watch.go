// Package watch re-runs generation when the repository's module, shared or template
// sources change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/cryptogen/internal/logfields"
	"git.home.luguber.info/inful/cryptogen/internal/module"
)

// RunFunc performs one generation run. Its error is logged and the loop continues.
type RunFunc func(ctx context.Context) error

// SourceDirs are the repository directories whose changes trigger a run.
func SourceDirs(repoPath string, id module.ID) []string {
	return []string{
		id.SourceDir(repoPath),
		filepath.Join(repoPath, module.CommonDir),
		filepath.Join(repoPath, module.TemplatesDir),
	}
}

// Watcher runs fn once at start and again after every debounced burst of changes.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	fn       RunFunc
}

// New returns a Watcher over dirs.
func New(dirs []string, debounce time.Duration, fn RunFunc) *Watcher {
	return &Watcher{dirs: dirs, debounce: debounce, fn: fn}
}

// Run blocks until ctx is done. Runs never overlap; changes seen during a run
// collapse into a single follow-up run.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fw.Close()

	for _, d := range w.dirs {
		if _, err := os.Stat(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		addDirsRecursive(fw, d)
	}

	runReq := make(chan struct{}, 1)
	runReq <- struct{}{}
	deb := NewDebouncer(w.debounce, func() {
		select {
		case runReq <- struct{}{}:
		default:
		}
	})
	defer deb.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-runReq:
				w.runOnce(ctx)
			}
		}
	}()

	slog.Info("Watching for changes", slog.Int("dirs", len(w.dirs)))
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				wg.Wait()
				return nil
			}
			handleEvent(fw, ev, deb.Trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				wg.Wait()
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	slog.Info("Change detected; regenerating")
	if err := w.fn(ctx); err != nil {
		slog.Warn("regeneration failed", logfields.Error(err))
	}
}

func handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ShouldIgnore(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// ShouldIgnore reports whether a change to path is editor or OS noise.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db" || base == "4913"
}
