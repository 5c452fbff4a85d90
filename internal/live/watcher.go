package live

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/view"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a dataset file into a handle whenever it changes.
type Watcher struct {
	path     string
	handle   *view.Handle
	log      *slog.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher

	// OnReload, when set, is called after every reload attempt.
	OnReload func(error)

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches the directory holding path so that editors which save by
// rename are still picked up. A zero debounce uses the default.
func NewWatcher(h *view.Handle, path string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	return &Watcher{
		path:     abs,
		handle:   h,
		log:      log,
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.log.Debug("dataset changed", "file", ev.Name, "op", ev.Op.String())
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	err := w.Reload()
	if err != nil {
		w.log.Error("reload failed, keeping previous dataset", "file", w.path, "err", err)
	} else {
		w.log.Info("reloaded dataset", "file", w.path, "nodes", w.handle.NodeCount(), "edges", w.handle.EdgeCount())
	}
	if w.OnReload != nil {
		w.OnReload(err)
	}
}

// Reload reads the file and replaces the handle's dataset.
func (w *Watcher) Reload() error {
	elements, err := graph.ImportJSON(w.path)
	if err != nil {
		return err
	}
	return w.handle.Replace(elements)
}
