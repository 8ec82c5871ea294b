package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specvital/jester/pkg/command"
	"github.com/specvital/jester/pkg/locator"
	"github.com/specvital/jester/pkg/logging"
	"github.com/specvital/jester/pkg/plan"
	"github.com/specvital/jester/pkg/selection"
	"github.com/specvital/jester/pkg/settings"
	"github.com/specvital/jester/pkg/state"
)

// runFlags are the flags shared by the suite, file, block and last commands.
type runFlags struct {
	opts []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.opts, "opt", "o", nil, "jest option as key=value, key (true) or key==value (glued); repeatable, ordered")
}

func (f *runFlags) options() (command.Options, error) {
	var out command.Options
	for _, raw := range f.opts {
		opt, err := command.ParseOption(raw)
		if err != nil {
			return nil, fmt.Errorf("--opt %q: %w", raw, err)
		}
		out = out.Set(opt.Key, opt.Value)
	}
	return out, nil
}

func newSuiteCmd(g *globalOptions) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "suite FILE",
		Short: "Plan a run of every test in the project owning FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.planFor(cmd, f, absPath(args[0]), func(p *plan.Planner, target string, roots []string, opts command.Options) (*plan.Plan, error) {
				return p.Suite(target, roots, opts)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newFileCmd(g *globalOptions) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "file FILE",
		Short: "Plan a run of the test file FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.planFor(cmd, f, absPath(args[0]), func(p *plan.Planner, target string, roots []string, opts command.Options) (*plan.Plan, error) {
				return p.File(target, roots, opts)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newBlockCmd(g *globalOptions) *cobra.Command {
	f := &runFlags{}
	var pos selection.Position
	cmd := &cobra.Command{
		Use:   "block FILE",
		Short: "Plan a run of the describe/test/it block at the cursor in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.planFor(cmd, f, absPath(args[0]), func(p *plan.Planner, target string, roots []string, opts command.Options) (*plan.Plan, error) {
				return p.Block(cmd.Context(), target, roots, nil, pos, opts)
			})
		},
	}
	f.register(cmd)
	addPositionFlags(cmd, &pos)
	return cmd
}

func newLastCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Plan the previous run of this workspace again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roots, err := g.searchRoots()
			if err != nil {
				return err
			}
			store, err := g.store()
			if err != nil {
				return err
			}

			req, err := store.Load(state.WorkspaceKey(roots))
			if err != nil {
				return err
			}
			logging.Info("cli", "replaying last run in %s", req.WorkingDir)
			s, err := g.projectSettings(req.WorkingDir)
			if err != nil {
				return err
			}

			planner := plan.NewPlanner(plan.WithSettings(s), plan.WithStore(store))
			result, err := planner.Last(roots)
			if err != nil {
				return err
			}
			return g.printPlan(cmd, result)
		},
	}
}

type planFunc func(p *plan.Planner, target string, roots []string, opts command.Options) (*plan.Plan, error)

// planFor loads settings for the project owning target, builds the planner
// and prints what build returns.
func (g *globalOptions) planFor(cmd *cobra.Command, f *runFlags, target string, build planFunc) error {
	roots, err := g.searchRoots()
	if err != nil {
		return err
	}
	opts, err := f.options()
	if err != nil {
		return err
	}
	logging.Debug("cli", "planning %s within %v", target, roots)

	loc := locator.New()
	var s settings.Settings
	if workingDir, ok := loc.WorkingDirectory(target, roots); ok {
		s, err = g.projectSettings(workingDir)
	} else {
		s, err = g.userSettings()
	}
	if err != nil {
		return err
	}

	popts := []plan.Option{plan.WithLocator(loc), plan.WithSettings(s)}
	if store, err := g.store(); err == nil {
		popts = append(popts, plan.WithStore(store))
	} else {
		logging.Warn("cli", "last run will not be recorded: %v", err)
	}

	result, err := build(plan.NewPlanner(popts...), target, roots, opts)
	if err != nil {
		return err
	}
	return g.printPlan(cmd, result)
}

func (g *globalOptions) store() (*state.Store, error) {
	path := g.statePath
	if path == "" {
		var err error
		if path, err = state.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return state.NewStore(path), nil
}

func (g *globalOptions) printPlan(cmd *cobra.Command, p *plan.Plan) error {
	if g.json {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), p.Header())
	return err
}
