package state

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/jester/pkg/command"
)

func TestStore_SaveLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "last.yaml"))
	workspace := WorkspaceKey([]string{"/p/a", "/p/b"})

	_, err := store.Load(workspace)
	assert.ErrorIs(t, err, ErrNoLastRun)

	req := Request{
		WorkingDir: "/p/a",
		File:       "/p/a/index.spec.js",
		Options:    command.Options{{Key: "t", Value: "adds"}, {Key: "coverage", Value: true}},
	}
	require.NoError(t, store.Save(workspace, req))

	got, err := store.Load(workspace)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	_, err = store.Load(WorkspaceKey([]string{"/other"}))
	assert.ErrorIs(t, err, ErrNoLastRun)
}

func TestStore_OverwritesPerWorkspace(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last.yaml"))

	require.NoError(t, store.Save("w1", Request{WorkingDir: "/one"}))
	require.NoError(t, store.Save("w2", Request{WorkingDir: "/two"}))
	require.NoError(t, store.Save("w1", Request{WorkingDir: "/uno"}))

	got, err := store.Load("w1")
	require.NoError(t, err)
	assert.Equal(t, "/uno", got.WorkingDir)

	got, err = store.Load("w2")
	require.NoError(t, err)
	assert.Equal(t, "/two", got.WorkingDir)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::: not yaml [\n"), 0o644))

	_, err := NewStore(path).Load("w")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoLastRun)
}

func TestStore_ConcurrentSaves(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "last.yaml"))

	var wg sync.WaitGroup
	for _, w := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(w, Request{WorkingDir: "/" + w}))
		}()
	}
	wg.Wait()

	for _, w := range []string{"a", "b", "c", "d"} {
		got, err := store.Load(w)
		require.NoError(t, err)
		assert.Equal(t, "/"+w, got.WorkingDir)
	}
}
