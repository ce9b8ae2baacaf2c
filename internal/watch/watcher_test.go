// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/invowk/umlgraph/internal/testutil"
)

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports the Run error.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for Run to return")
			return nil
		}
	}
}

func TestDocumentPatterns(t *testing.T) {
	t.Parallel()

	want := []string{"**/*.cue", "**/*.json", "**/*.toml", "**/*.yaml", "**/*.yml"}
	if got := DocumentPatterns(); !slices.Equal(got, want) {
		t.Errorf("DocumentPatterns() = %v, want %v", got, want)
	}
}

func TestDefaultIgnoresReturnsCopy(t *testing.T) {
	t.Parallel()

	got := DefaultIgnores()
	got[0] = "mutated"
	if DefaultIgnores()[0] == "mutated" {
		t.Error("DefaultIgnores() exposed the package slice")
	}
}

func TestRelevant(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir(), Ignore: []string{"build/**"}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })

	tests := []struct {
		rel  string
		want bool
	}{
		{"model.json", true},
		{"lib/money.yaml", true},
		{"lib/money.yml", true},
		{"shop.cue", true},
		{"shop.toml", true},
		{"notes.txt", false},
		{"model.json~", false},
		{".model.json.swp", false},
		{".git/config.json", false},
		{"build/out.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			rel, ok := w.relevant(filepath.Join(w.Root(), filepath.FromSlash(tt.rel)))
			if ok != tt.want {
				t.Fatalf("relevant(%q) = %v, want %v", tt.rel, ok, tt.want)
			}
			if ok && rel != tt.rel {
				t.Errorf("relevant(%q) returned %q", tt.rel, rel)
			}
		})
	}
}

func TestNewRejectsInvalidPatterns(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Root: t.TempDir(), Patterns: []string{"[unclosed"}}); err == nil {
		t.Error("expected error for invalid watch pattern")
	}
	if _, err := New(Config{Root: t.TempDir(), Ignore: []string{"{a,b"}}); err == nil {
		t.Error("expected error for invalid ignore pattern")
	}
}

func TestNewMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Root: filepath.Join(t.TempDir(), "missing")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("New() error = %v, want os.ErrNotExist", err)
	}
}

func TestWatcherCoalescesDocumentChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		mu    sync.Mutex
		calls [][]string
	)
	done := make(chan struct{}, 1)

	w, err := New(Config{
		Root:     dir,
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			calls = append(calls, changed)
			mu.Unlock()
			done <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	testutil.MustWriteFile(t, dir, "model.json", `{}`)
	testutil.MustWriteFile(t, dir, "notes.txt", "ignored")
	testutil.MustWriteFile(t, dir, "shop.yaml", "model: {}")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(250 * time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("got %d callbacks, want 1: %v", len(calls), calls)
	}
	if want := []string{"model.json", "shop.yaml"}; !slices.Equal(calls[0], want) {
		t.Errorf("changed = %v, want %v", calls[0], want)
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	changed := make(chan []string, 4)

	w, err := New(Config{
		Root:     dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, c []string) error {
			changed <- c
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() {
		if err := stop(); err != nil {
			t.Errorf("Run() error: %v", err)
		}
	}()

	if err := os.Mkdir(filepath.Join(dir, "lib"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the event loop time to register the new directory.
	time.Sleep(150 * time.Millisecond)
	testutil.MustWriteFile(t, dir, "lib/money.json", `{}`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if slices.Contains(c, "lib/money.json") {
				return
			}
		case <-deadline:
			t.Fatal("change in new directory was not reported")
		}
	}
}

func TestWatcherCallbackErrorKeepsRunning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32
	second := make(chan struct{})

	w, err := New(Config{
		Root:     dir,
		Debounce: 50 * time.Millisecond,
		OnChange: func(context.Context, []string) error {
			if calls.Add(1) == 2 {
				close(second)
			}
			return errors.New("model is invalid")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	testutil.MustWriteFile(t, dir, "a.json", `{}`)
	time.Sleep(300 * time.Millisecond)
	testutil.MustWriteFile(t, dir, "b.json", `{}`)

	select {
	case <-second:
	case <-time.After(5 * time.Second):
		t.Fatalf("got %d callbacks, want 2", calls.Load())
	}
	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherRunTwice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	// Wait until the first Run has claimed the watcher.
	for !w.started.Load() {
		time.Sleep(time.Millisecond)
	}

	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}
