// Package watch reloads a body catalog file when it changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thurmanmarka/astroreturn"
)

// Update is one reload attempt. Exactly one of Catalog and Err is set.
type Update struct {
	Path    string
	Catalog *astroreturn.Catalog
	Err     error
}

// CatalogWatcher monitors a catalog file using fsnotify. It watches the
// parent directory so that editors which save by rename are picked up.
type CatalogWatcher struct {
	Path    string
	Updates <-chan Update // Read-only external channel

	updates  chan Update // Internal write channel
	quit     chan struct{}
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewCatalogWatcher creates a watcher for the catalog at path.
func NewCatalogWatcher(path string) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Update, 4)
	return &CatalogWatcher{
		Path:     abs,
		Updates:  ch,
		updates:  ch,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		debounce: 100 * time.Millisecond,
		watcher:  fw,
	}, nil
}

// Start begins watching. If it fails the watcher is released and Updates
// is closed; Stop must not be called.
func (w *CatalogWatcher) Start() error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		close(w.updates)
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Updates channel.
func (w *CatalogWatcher) Stop() {
	close(w.quit)
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.updates)
}

func (w *CatalogWatcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if !pending.IsZero() && now.Sub(pending) >= w.debounce {
				pending = time.Time{}
				w.reload()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *CatalogWatcher) reload() {
	c, err := astroreturn.LoadCatalogFile(w.Path)
	u := Update{Path: w.Path, Catalog: c, Err: err}
	if err != nil {
		u.Catalog = nil
	}

	select {
	case w.updates <- u:
	case <-w.quit:
	}
}
