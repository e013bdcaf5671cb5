package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	w, err := New(nil, path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"x"}`), 0644))

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	select {
	case got := <-w.Events:
		assert.Equal(t, abs, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for watched file")
	}
}

func TestWatcher_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	w, err := New(nil, path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
	_, ok = <-w.Errors
	assert.False(t, ok)
}

func TestWatcher_MissingDir(t *testing.T) {
	_, err := New(nil, filepath.Join(t.TempDir(), "nope", "scene.json"))
	assert.Error(t, err)
}
