package command

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutPath(t *testing.T) {
	t.Helper()
	orig := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { lookPath = orig })
}

func writeBin(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
}

func TestFindExecutable(t *testing.T) {
	withoutPath(t)

	t.Run("not found", func(t *testing.T) {
		_, err := FindExecutable(filepath.Join(t.TempDir(), "foobar"))
		assert.ErrorIs(t, err, ErrExecutableNotFound)
	})

	t.Run("unix binary", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, "node_modules", ".bin", "jest")
		writeBin(t, want, 0o755)

		got, err := FindExecutable(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("windows shim wins", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, "node_modules", ".bin", "jest.cmd")
		writeBin(t, want, 0o755)
		writeBin(t, filepath.Join(dir, "node_modules", ".bin", "jest"), 0o755)

		got, err := FindExecutable(dir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("non executable skipped", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("no execute bit on windows")
		}
		dir := t.TempDir()
		writeBin(t, filepath.Join(dir, "node_modules", ".bin", "jest"), 0o644)

		_, err := FindExecutable(dir)
		assert.ErrorIs(t, err, ErrExecutableNotFound)
	})
}

func TestFindExecutable_FallsBackToPath(t *testing.T) {
	global := filepath.Join(t.TempDir(), "jest")
	writeBin(t, global, 0o755)

	orig := lookPath
	lookPath = func(string) (string, error) { return global, nil }
	t.Cleanup(func() { lookPath = orig })

	got, err := FindExecutable(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, global, got)
}

func TestIsExecutable(t *testing.T) {
	assert.False(t, IsExecutable(""))
	assert.False(t, IsExecutable(t.TempDir()))
	assert.False(t, IsExecutable(filepath.Join(t.TempDir(), "missing")))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("JESTER_TEST_BIN", "/opt/node/bin")

	assert.Equal(t, filepath.Join(home, "bin", "jest"), ExpandPath("~/bin/jest"))
	assert.Equal(t, "/opt/node/bin/jest", ExpandPath("$JESTER_TEST_BIN/jest"))
	assert.Equal(t, "/usr/bin/jest", ExpandPath("/usr/bin/jest"))
}
