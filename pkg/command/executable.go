package command

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrExecutableNotFound is returned when no runnable jest binary exists.
var ErrExecutableNotFound = errors.New("command: jest not executable")

// lookPath is swapped in tests to keep the developer's PATH out of results.
var lookPath = exec.LookPath

// ExecutableCandidates lists where FindExecutable looks, in order. The PATH
// entry is omitted when jest is not on PATH.
func ExecutableCandidates(workingDir string) []string {
	candidates := []string{
		filepath.Join(workingDir, "node_modules", ".bin", "jest.cmd"),
		filepath.Join(workingDir, "node_modules", ".bin", "jest"),
	}
	if p, err := lookPath("jest"); err == nil {
		candidates = append(candidates, p)
	}
	return candidates
}

// FindExecutable returns the first executable jest for workingDir: the
// Windows shim, the project-local binary, then jest on PATH.
func FindExecutable(workingDir string) (string, error) {
	for _, candidate := range ExecutableCandidates(workingDir) {
		if IsExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", ErrExecutableNotFound
}

// IsExecutable reports whether path is a regular file the current user may
// run. Windows has no execute bit, so any regular file qualifies there.
func IsExecutable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// ExpandPath expands a leading "~" to the home directory and then
// environment variables, in that order.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}
