package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/jester/pkg/selection"
)

var errNoBlock = errors.New("no test block at cursor")

func newNameCmd(g *globalOptions) *cobra.Command {
	var (
		pos  selection.Position
		full bool
	)

	cmd := &cobra.Command{
		Use:   "name FILE",
		Short: "Print the name of the describe/test/it block at the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			block, found, err := selection.FindTestName(cmd.Context(), source, args[0], pos)
			if err != nil {
				return err
			}
			if !found {
				return errNoBlock
			}

			if g.json {
				return writeJSON(cmd.OutOrStdout(), block)
			}
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), block.FullName())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), block.Name)
			}
			return nil
		},
	}
	addPositionFlags(cmd, &pos)
	cmd.Flags().BoolVar(&full, "full", false, "prefix the enclosing describe names")
	return cmd
}

func addPositionFlags(cmd *cobra.Command, pos *selection.Position) {
	cmd.Flags().IntVarP(&pos.Line, "line", "l", 1, "1-based cursor line")
	cmd.Flags().IntVarP(&pos.Column, "column", "c", 1, "1-based cursor column")
}
