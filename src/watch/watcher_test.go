package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (schema, content string) {
	t.Helper()

	dir := t.TempDir()
	schema = filepath.Join(dir, "schema.json")
	content = filepath.Join(dir, "content")

	require.NoError(t, os.WriteFile(schema, []byte(`{}`), 0o644))
	require.NoError(t, os.Mkdir(content, 0o755))

	return schema, content
}

func TestRelevant(t *testing.T) {
	schema, content := setup(t)

	w, err := Watch(schema, content, 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"schema write", fsnotify.Event{Name: schema, Op: fsnotify.Write}, true},
		{"content create", fsnotify.Event{Name: filepath.Join(content, "a.json"), Op: fsnotify.Create}, true},
		{"content remove", fsnotify.Event{Name: filepath.Join(content, "a.json"), Op: fsnotify.Remove}, true},
		{"content chmod", fsnotify.Event{Name: filepath.Join(content, "a.json"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(content, "a.txt"), Op: fsnotify.Write}, false},
		{"sibling of schema", fsnotify.Event{Name: filepath.Join(filepath.Dir(schema), "other.json"), Op: fsnotify.Write}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.relevant(tc.ev))
		})
	}
}

func TestWatchDebouncesWrites(t *testing.T) {
	schema, content := setup(t)

	w, err := Watch(schema, content, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(content, "a.json"), []byte(`{}`), 0o644))
	}

	select {
	case err := <-w.Update:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}

	select {
	case err := <-w.Update:
		t.Fatalf("unexpected second update: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchMissingContentDir(t *testing.T) {
	schema, content := setup(t)

	_, err := Watch(schema, filepath.Join(content, "missing"), time.Millisecond)
	assert.Error(t, err)
}

func TestCloseEndsUpdates(t *testing.T) {
	schema, content := setup(t)

	w, err := Watch(schema, content, time.Hour)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(content, "a.json"), []byte(`{}`), 0o644))
	require.NoError(t, w.Close())

	done := make(chan struct{})
	go func() {
		for range w.Update {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Update was not closed")
	}
}
