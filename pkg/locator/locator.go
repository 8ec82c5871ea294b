// Package locator finds the Jest configuration file that owns a test file.
package locator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/specvital/jester/pkg/logging"
)

const (
	FileJestConfigJS = "jest.config.js"
	FileJestConfigTS = "jest.config.ts"
)

// DefaultCandidateNames lists the probed config basenames in priority order.
// Jest can also read its config from package.json; that form is not probed.
var DefaultCandidateNames = []string{FileJestConfigJS, FileJestConfigTS}

// Locator resolves configuration files by walking a file's ancestor chain.
// A Locator holds no mutable state and is safe for concurrent use.
type Locator struct {
	names  []string
	logger *slog.Logger
	stat   func(string) (os.FileInfo, error)
}

// Option configures a Locator.
type Option func(*Locator)

// WithCandidateNames replaces the probed basenames. Empty input is ignored.
func WithCandidateNames(names ...string) Option {
	return func(l *Locator) {
		if len(names) > 0 {
			l.names = append([]string(nil), names...)
		}
	}
}

// WithLogger sets the logger used for the debug trail.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func New(opts ...Option) *Locator {
	l := &Locator{
		names: DefaultCandidateNames,
		stat:  os.Stat,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the nearest configuration file for targetFile, searching no
// higher than the common prefix of searchRoots. Invalid input and filesystem
// errors never surface; they simply yield ("", false).
func (l *Locator) Locate(targetFile string, searchRoots []string) (string, bool) {
	logger := l.log()
	logger.Debug("find configuration", "file", targetFile)
	logger.Debug("search roots", "count", len(searchRoots), "roots", searchRoots)

	if targetFile == "" || len(searchRoots) == 0 {
		return "", false
	}

	ancestors := AncestorChain(targetFile, CommonPrefix(searchRoots))
	logger.Debug("possible locations", "count", len(ancestors), "dirs", ancestors)

	for _, dir := range ancestors {
		for _, name := range l.names {
			candidate := filepath.Join(dir, name)
			if l.isFile(candidate) {
				logger.Debug("found configuration", "path", candidate)
				return candidate, true
			}
		}
	}

	logger.Debug("no configuration found", "file", targetFile)
	return "", false
}

// WorkingDirectory returns the directory holding the located configuration.
func (l *Locator) WorkingDirectory(targetFile string, searchRoots []string) (string, bool) {
	configPath, ok := l.Locate(targetFile, searchRoots)
	if !ok {
		return "", false
	}
	return filepath.Dir(configPath), true
}

// Result pairs a file with its located configuration.
type Result struct {
	File       string `json:"file"`
	ConfigPath string `json:"configPath,omitempty"`
	Found      bool   `json:"found"`
}

// LocateAll resolves every file concurrently with at most workers goroutines.
// Results keep the order of files. Only context cancellation returns an error.
func (l *Locator) LocateAll(ctx context.Context, files []string, searchRoots []string, workers int) ([]Result, error) {
	results := make([]Result, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, file := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			configPath, found := l.Locate(file, searchRoots)
			results[i] = Result{File: file, ConfigPath: configPath, Found: found}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (l *Locator) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return logging.For("locator")
}

// isFile treats any stat error, including permission denied, as absence.
func (l *Locator) isFile(path string) bool {
	info, err := l.stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// CommonPrefix returns the longest character prefix shared by all paths.
// It is a plain textual prefix: "/a/b" and "/a/bc" share "/a/b". The result
// is always a byte-for-byte prefix of every path; bytes that are not valid
// UTF-8 count as one character each.
func CommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := paths[0]
	for _, p := range paths[1:] {
		prefix = prefix[:commonPrefixLen(prefix, p)]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// commonPrefixLen compares a and b one encoded character at a time and
// returns the byte length of the shared prefix.
func commonPrefixLen(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) {
		_, wa := utf8.DecodeRuneInString(a[i:])
		_, wb := utf8.DecodeRuneInString(b[i:])
		if wa != wb || a[i:i+wa] != b[i:i+wb] {
			break
		}
		i += wa
	}
	return i
}

// AncestorChain lists the directories from targetFile's directory upward that
// still start with prefix, sorted so the deepest directory comes first.
// The walk stops at the first repeated directory, which is how the
// filesystem root (or "." for relative paths) terminates it.
func AncestorChain(targetFile, prefix string) []string {
	var ancestors []string
	visited := make(map[string]struct{})

	parent := filepath.Dir(targetFile)
	for {
		if _, seen := visited[parent]; seen {
			break
		}
		if !strings.HasPrefix(parent, prefix) {
			break
		}
		visited[parent] = struct{}{}
		ancestors = append(ancestors, parent)
		parent = filepath.Dir(parent)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(ancestors)))
	return ancestors
}

var defaultLocator = New()

// Locate uses a Locator with the default candidate names.
func Locate(targetFile string, searchRoots []string) (string, bool) {
	return defaultLocator.Locate(targetFile, searchRoots)
}

// WorkingDirectory uses a Locator with the default candidate names.
func WorkingDirectory(targetFile string, searchRoots []string) (string, bool) {
	return defaultLocator.WorkingDirectory(targetFile, searchRoots)
}
