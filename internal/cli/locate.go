package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/specvital/jester/pkg/locator"
)

var errNoConfiguration = errors.New("no jest configuration found")

func newLocateCmd(g *globalOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "locate FILE...",
		Short: "Print the nearest jest.config.js or jest.config.ts for each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := g.searchRoots()
			if err != nil {
				return err
			}

			results, err := locator.New().LocateAll(cmd.Context(), absPaths(args), roots, workers)
			if err != nil {
				return err
			}

			if g.json {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					switch {
					case len(results) == 1 && r.Found:
						fmt.Fprintln(cmd.OutOrStdout(), r.ConfigPath)
					case r.Found:
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.File, r.ConfigPath)
					case len(results) > 1:
						fmt.Fprintf(cmd.OutOrStdout(), "%s: -\n", r.File)
					}
				}
			}

			for _, r := range results {
				if !r.Found {
					return errNoConfiguration
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "files resolved concurrently")
	return cmd
}

func newWorkdirCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "workdir FILE",
		Short: "Print the directory jest should run in for FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := g.searchRoots()
			if err != nil {
				return err
			}

			dir, ok := locator.New().WorkingDirectory(absPath(args[0]), roots)
			if !ok {
				return errNoConfiguration
			}

			if g.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"workingDir": dir})
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// absPath makes editor-relative arguments absolute; the locator compares
// paths textually against absolute search roots.
func absPath(p string) string {
	if p == "" {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absPath(p)
	}
	return out
}
