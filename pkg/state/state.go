// Package state remembers the last planned jest run per workspace so it can
// be replayed.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/specvital/jester/pkg/command"
)

const fileName = "last.yaml"

// ErrNoLastRun is returned when nothing was run in a workspace so far.
var ErrNoLastRun = errors.New("state: no tests were run so far")

// Request is what gets replayed: the resolved working directory, the test
// file (empty for a suite run) and the merged options.
type Request struct {
	File       string          `yaml:"file,omitempty"`
	Options    command.Options `yaml:"options,omitempty"`
	WorkingDir string          `yaml:"working_dir"`
}

// Store persists one Request per workspace in a single YAML file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore uses path as the backing file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the backing file under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("state: resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "jester", fileName), nil
}

// WorkspaceKey identifies a workspace by its search roots.
func WorkspaceKey(roots []string) string {
	return strings.Join(roots, string(os.PathListSeparator))
}

// Save records req as the last run of workspace.
func (s *Store) Save(workspace string, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.read()
	if err != nil {
		return err
	}
	runs[workspace] = req

	data, err := yaml.Marshal(runs)
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("state: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), fileName+".*")
	if err != nil {
		return fmt.Errorf("state: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("state: replace %s: %w", s.path, err)
	}
	return nil
}

// Load returns the last run of workspace or ErrNoLastRun.
func (s *Store) Load(workspace string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.read()
	if err != nil {
		return Request{}, err
	}
	req, ok := runs[workspace]
	if !ok {
		return Request{}, ErrNoLastRun
	}
	return req, nil
}

func (s *Store) read() (map[string]Request, error) {
	runs := make(map[string]Request)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return runs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", s.path, err)
	}

	if err := yaml.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("state: parse %s: %w", s.path, err)
	}
	if runs == nil {
		runs = make(map[string]Request)
	}
	return runs, nil
}
