package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const vestaTOML = `
[[body]]
id = "vesta"
period_days = 504
retrograde = true
`

func waitUpdate(t *testing.T, w *CatalogWatcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates:
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for catalog update")
		return Update{}
	}
}

func TestCatalogWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.toml")
	if err := os.WriteFile(path, []byte("extend_defaults = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewCatalogWatcher(path)
	if err != nil {
		t.Fatalf("NewCatalogWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(vestaTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	u := waitUpdate(t, w)
	if u.Err != nil {
		t.Fatalf("reload error: %v", u.Err)
	}
	if _, ok := u.Catalog.Lookup("vesta"); !ok {
		t.Error("reloaded catalog missing vesta")
	}
}

func TestCatalogWatcher_BadFileReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.toml")
	if err := os.WriteFile(path, []byte(vestaTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewCatalogWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[[body]]\nid = \"x\"\nperiod_days = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	u := waitUpdate(t, w)
	if u.Err == nil || u.Catalog != nil {
		t.Errorf("update = %+v, want an error and no catalog", u)
	}
}

func TestCatalogWatcher_StopWithoutReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bodies.toml")
	w, err := NewCatalogWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	if _, ok := <-w.Updates; ok {
		t.Error("Updates should be closed after Stop")
	}
}

func TestCatalogWatcher_StartFailureReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "bodies.toml")

	w, err := NewCatalogWatcher(path)
	if err != nil {
		t.Fatalf("NewCatalogWatcher: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("Start on a missing directory should fail")
	}

	select {
	case _, ok := <-w.Updates:
		if ok {
			t.Error("received an update from a watcher that never started")
		}
	case <-time.After(time.Second):
		t.Error("Updates not closed after a failed Start")
	}
}
