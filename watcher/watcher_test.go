package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/texdown/watcher"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644), "failed to write %s", path)
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	dir := t.TempDir()
	path := filepath.Join(dir, "paper.td")
	writeFile(t, path, "## Draft ##")

	w, err := watcher.New(watcher.Config{Paths: []string{path}, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		writeFile(t, path, fmt.Sprintf("## Draft %d ##", i))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-onChange:
		assert.Equal(t, []string{path}, changed)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_BatchesSeveralFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	dir := t.TempDir()
	paper := filepath.Join(dir, "paper.td")
	rules := filepath.Join(dir, "rules.yaml")
	writeFile(t, paper, "text")
	writeFile(t, rules, "patterns: []")

	w, err := watcher.New(watcher.DefaultConfig(rules, paper))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	onChange, err := w.Start()
	require.NoError(t, err)

	writeFile(t, rules, "patterns: []\nstyles: []")
	writeFile(t, paper, "more text")

	select {
	case changed := <-onChange:
		assert.Equal(t, []string{paper, rules}, changed, "paths come sorted")
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "texdown")
	defer teardown()

	dir := t.TempDir()
	path := filepath.Join(dir, "paper.td")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "text")
	writeFile(t, other, "initial")

	w, err := watcher.New(watcher.Config{Paths: []string{path}, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	onChange, err := w.Start()
	require.NoError(t, err)

	writeFile(t, other, "other content")

	select {
	case <-onChange:
		t.Fatal("should not notify for unwatched files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.td")
	writeFile(t, path, "text")

	w, err := watcher.New(watcher.Config{Paths: []string{path}, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop(), "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "gone", "paper.td")))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	_, err = w.Start()
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("a.td", "b.td")
	assert.Equal(t, []string{"a.td", "b.td"}, cfg.Paths)
	assert.Equal(t, 200*time.Millisecond, cfg.DebounceDur)
}
