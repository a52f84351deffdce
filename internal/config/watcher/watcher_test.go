package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func waitEvent(t *testing.T, w *Watcher, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestWatcher_WriteIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.lua")
	if err := os.WriteFile(path, []byte("-- v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := os.WriteFile(path, []byte("-- v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitEvent(t, w, 2*time.Second)
	if !ok {
		t.Fatal("no event")
	}
	abs, _ := filepath.Abs(path)
	if ev.Path != abs {
		t.Errorf("Path = %q, want %q", ev.Path, abs)
	}
	if !ev.Op.Has(OpWrite) && !ev.Op.Has(OpCreate) {
		t.Errorf("Op = %v", ev.Op)
	}
}

func TestWatcher_BurstIsCoalesced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mattex.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(150*time.Millisecond))
	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if _, ok := waitEvent(t, w, 2*time.Second); !ok {
		t.Fatal("no event")
	}
	if ev, ok := waitEvent(t, w, 400*time.Millisecond); ok {
		t.Errorf("second event %+v, want one coalesced event", ev)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.lua")
	other := filepath.Join(dir, "other.lua")

	w := newTestWatcher(t, WithDebounce(10*time.Millisecond))
	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev, ok := waitEvent(t, w, 200*time.Millisecond); ok {
		t.Errorf("unexpected event %+v", ev)
	}

	// the watched file may appear later
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := waitEvent(t, w, 2*time.Second); !ok {
		t.Error("no event for created file")
	}
}

func TestWatcher_AddTwiceSharesDirectory(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t)

	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.lua")
	for _, p := range []string{a, a, b} {
		if err := w.Add(p); err != nil {
			t.Fatalf("Add(%s): %v", p, err)
		}
	}
	if got := len(w.Files()); got != 2 {
		t.Errorf("Files = %d, want 2", got)
	}
	if got := w.dirs[dir]; got != 2 {
		t.Errorf("dir refs = %d, want 2", got)
	}
}

func TestWatcher_AddMissingDirectory(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Add(filepath.Join(t.TempDir(), "nope", "x.lua")); err == nil {
		t.Error("Add in missing directory succeeded")
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := w.Add("x.lua"); err != ErrWatcherClosed {
		t.Errorf("Add after Close = %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events not closed")
	}
}

func TestOp(t *testing.T) {
	op := OpCreate | OpWrite
	if !op.Has(OpWrite) || op.Has(OpRemove) {
		t.Errorf("Has wrong for %b", op)
	}
	if OpRename.String() != "RENAME" || Op(0).String() != "UNKNOWN" {
		t.Error("String")
	}
}
