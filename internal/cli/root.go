// Package cli wires jester's packages into the cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/jester/pkg/logging"
	"github.com/specvital/jester/pkg/settings"
)

// Version is set at build time.
var Version = "dev"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	debug      bool
	json       bool
	logLevel   string
	roots      []string
	statePath  string
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "jester",
		Short: "Plan Jest runs for the file, block or project under your cursor",
		Long: `jester finds the Jest configuration that owns a test file, picks the
describe/test/it block under the cursor and prints the exact jest command
line to run it. Editors call it and run the printed command themselves.`,
		Version: Version,
		// Errors are reported by Execute; usage is noise for runtime failures.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.initLogging(cmd)
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "jester version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringArrayVarP(&g.roots, "root", "r", nil, "project folder bounding the config search (repeatable, default: current directory)")
	flags.BoolVar(&g.debug, "debug", false, "log the resolution trail to stderr")
	flags.BoolVar(&g.json, "json", false, "print results as JSON")
	flags.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&g.configPath, "config", "", "user settings file (default: <user config dir>/jester/settings.yaml)")
	flags.StringVar(&g.statePath, "state", "", "last-run state file (default: <user cache dir>/jester/last.yaml)")

	rootCmd.AddCommand(newLocateCmd(g))
	rootCmd.AddCommand(newWorkdirCmd(g))
	rootCmd.AddCommand(newNameCmd(g))
	rootCmd.AddCommand(newSuiteCmd(g))
	rootCmd.AddCommand(newFileCmd(g))
	rootCmd.AddCommand(newBlockCmd(g))
	rootCmd.AddCommand(newLastCmd(g))

	return rootCmd
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jester: %v\n", err)
		return 1
	}
	return 0
}

func (g *globalOptions) initLogging(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return err
	}

	// The settings file can switch on debug output as well.
	if !g.debug {
		if s, err := g.userSettings(); err == nil && s.DebugEnabled() {
			g.debug = true
		}
	}
	if g.debug {
		level = logging.LevelDebug
	}

	logging.Init(level, cmd.ErrOrStderr())
	return nil
}

func (g *globalOptions) searchRoots() ([]string, error) {
	if len(g.roots) > 0 {
		return absPaths(g.roots), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve current directory: %w", err)
	}
	return []string{wd}, nil
}

func (g *globalOptions) userSettingsPath() string {
	if g.configPath != "" {
		return g.configPath
	}
	path, err := settings.UserFilePath()
	if err != nil {
		return ""
	}
	return path
}

func (g *globalOptions) userSettings() (settings.Settings, error) {
	return settings.LoadFile(g.userSettingsPath())
}

// projectSettings merges the user file with the project file in workingDir.
func (g *globalOptions) projectSettings(workingDir string) (settings.Settings, error) {
	return settings.Load(g.userSettingsPath(), workingDir)
}
