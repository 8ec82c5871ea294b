// Package settings loads jester's user and project configuration files.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/specvital/jester/pkg/command"
)

const (
	AppName = "jester"

	// ProjectFileName is read from the directory holding the jest config.
	ProjectFileName = ".jester.yaml"
	// UserFileName is read from the user config directory.
	UserFileName = "settings.yaml"
)

// Settings is the merged configuration passed into the planner.
type Settings struct {
	// Debug enables the debug log trail. Nil means unset.
	Debug *bool `yaml:"debug,omitempty"`
	// Env is added to the environment of the planned command.
	Env map[string]string `yaml:"env,omitempty"`
	// FullTestName passes the enclosing describe names along with the block
	// name to jest -t. Nil means unset.
	FullTestName *bool `yaml:"full_test_name,omitempty"`
	// JestExecutable overrides executable discovery; "~" and $VARS expand.
	JestExecutable string `yaml:"jest_executable,omitempty"`
	// Options are default jest options, lowest precedence.
	Options command.Options `yaml:"options,omitempty"`
	// TestFilePatterns restricts which files may be run on their own.
	TestFilePatterns []string `yaml:"test_file_patterns,omitempty"`
}

// UserFilePath returns the default location of the user settings file.
func UserFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("settings: resolve config dir: %w", err)
	}
	return filepath.Join(dir, AppName, UserFileName), nil
}

// LoadFile decodes one settings file. A missing file yields zero Settings.
func LoadFile(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("settings: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	return s, nil
}

// Load reads the user file and, when projectDir is set, the project file in
// it, and merges them with project values taking precedence.
func Load(userPath, projectDir string) (Settings, error) {
	user, err := LoadFile(userPath)
	if err != nil {
		return Settings{}, err
	}
	if projectDir == "" {
		return user, nil
	}

	project, err := LoadFile(filepath.Join(projectDir, ProjectFileName))
	if err != nil {
		return Settings{}, err
	}
	return Merge(project, user), nil
}

// Merge overlays primary on fallback. Scalars come from primary when set,
// so an explicit false in primary switches off a fallback true. Options
// merge key by key, env merges with primary winning.
func Merge(primary, fallback Settings) Settings {
	out := fallback
	if primary.Debug != nil {
		out.Debug = primary.Debug
	}
	if primary.FullTestName != nil {
		out.FullTestName = primary.FullTestName
	}

	if primary.JestExecutable != "" {
		out.JestExecutable = primary.JestExecutable
	}
	if primary.TestFilePatterns != nil {
		out.TestFilePatterns = primary.TestFilePatterns
	}

	out.Options = command.Merge(primary.Options, fallback.Options)

	if len(primary.Env) > 0 || len(fallback.Env) > 0 {
		out.Env = make(map[string]string, len(primary.Env)+len(fallback.Env))
		for k, v := range fallback.Env {
			out.Env[k] = v
		}
		for k, v := range primary.Env {
			out.Env[k] = v
		}
	}
	return out
}

// DebugEnabled reports whether the debug trail was switched on.
func (s Settings) DebugEnabled() bool {
	return s.Debug != nil && *s.Debug
}

// UseFullTestName reports whether blocks run by their full name.
func (s Settings) UseFullTestName() bool {
	return s.FullTestName != nil && *s.FullTestName
}

// Executable returns the configured jest path with "~" and $VARS expanded.
func (s Settings) Executable() string {
	if s.JestExecutable == "" {
		return ""
	}
	return command.ExpandPath(s.JestExecutable)
}
