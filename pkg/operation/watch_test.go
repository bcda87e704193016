package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type watchEvent struct {
	path string
	res  *FileResult
	err  error
}

func startWatcher(t *testing.T, roots []string) (<-chan watchEvent, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(testContext(t))

	op, err := NewFixOperation(Options{})
	require.NoError(t, err)

	events := make(chan watchEvent, 32)
	w, err := NewWatcher(ctx, roots, WatchOptions{
		Operation: op,
		Debounce:  20 * time.Millisecond,
		OnResult: func(path string, res *FileResult, err error) {
			events <- watchEvent{path: path, res: res, err: err}
		},
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()

	stop := func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
	t.Cleanup(stop)
	return events, stop
}

// waitFor returns the first failed or modifying result for path
func waitFor(t *testing.T, events <-chan watchEvent, path string) watchEvent {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.path == path && (ev.err != nil || ev.res.Modified) {
				return ev
			}
		case <-timeout:
			t.Fatalf("no result for %s", path)
		}
	}
}

func TestWatcher_FixesWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0755))
	events, stop := startWatcher(t, []string{dir})

	path := filepath.Join(dir, "pkg", "app.py")
	require.NoError(t, os.WriteFile(path, []byte("# the colour grey\n"), 0644))

	ev := waitFor(t, events, path)
	require.NoError(t, ev.err)
	require.NotNil(t, ev.res)
	assert.True(t, ev.res.Modified)
	assert.Equal(t, 2, ev.res.Replacements)

	stop()
	assert.Equal(t, "# the color gray\n", readFile(t, path))
}

func TestWatcher_IgnoresUnruledFiles(t *testing.T) {
	dir := t.TempDir()
	events, stop := startWatcher(t, []string{dir})

	ignored := filepath.Join(dir, "image.png")
	watched := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(ignored, []byte("colour"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte("colour"), 0644))

	ev := waitFor(t, events, watched)
	require.NoError(t, ev.err)

	stop()
	assert.Equal(t, "color", readFile(t, watched))
	assert.Equal(t, "colour", readFile(t, ignored))
}

func TestWatcher_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "one.txt")
	other := filepath.Join(dir, "two.txt")
	writeFile(t, target, "", 0644)

	events, stop := startWatcher(t, []string{target})

	require.NoError(t, os.WriteFile(other, []byte("colour"), 0644))
	require.NoError(t, os.WriteFile(target, []byte("colour"), 0644))

	ev := waitFor(t, events, target)
	require.NoError(t, ev.err)

	stop()
	assert.Equal(t, "color", readFile(t, target))
	assert.Equal(t, "colour", readFile(t, other), "only the named file is watched")
}

func TestNewWatcher_Errors(t *testing.T) {
	_, err := NewWatcher(context.Background(), nil, WatchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation is required")

	op, err := NewFixOperation(Options{})
	require.NoError(t, err)
	_, err = NewWatcher(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, WatchOptions{Operation: op})
	require.Error(t, err)
}
