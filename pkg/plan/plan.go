// Package plan resolves everything needed to run jest for a file, a block,
// a whole project, or the previous run, without running it.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/specvital/jester/pkg/command"
	"github.com/specvital/jester/pkg/locator"
	"github.com/specvital/jester/pkg/logging"
	"github.com/specvital/jester/pkg/selection"
	"github.com/specvital/jester/pkg/settings"
	"github.com/specvital/jester/pkg/state"
)

var (
	// ErrWorkingDirNotFound is returned when no jest config encloses the file.
	ErrWorkingDirNotFound = errors.New("plan: working directory not found")
	// ErrWorkingDirInvalid is returned when the working directory is not a directory.
	ErrWorkingDirInvalid = errors.New("plan: working directory does not exist or is not a valid directory")
	// ErrNotTestFile is returned for file and block runs on non test files.
	ErrNotTestFile = errors.New("plan: not a test file")
	// ErrTestFileNotFound is returned when the file to run does not exist.
	ErrTestFileNotFound = errors.New("plan: test file not found")
)

// Plan is a fully resolved jest invocation.
type Plan struct {
	Command    []string          `json:"cmd"`
	Env        map[string]string `json:"env,omitempty"`
	File       string            `json:"file,omitempty"`
	Options    command.Options   `json:"options,omitempty"`
	WorkingDir string            `json:"workingDir"`
}

// Header renders the env line (when set) and the command line, the way an
// output panel shows them before the test output.
func (p *Plan) Header() string {
	var b strings.Builder
	if len(p.Env) > 0 {
		pairs := make([]string, 0, len(p.Env))
		for _, k := range slices.Sorted(maps.Keys(p.Env)) {
			pairs = append(pairs, k+"="+p.Env[k])
		}
		fmt.Fprintf(&b, "env: %s\n", strings.Join(pairs, " "))
	}
	fmt.Fprintf(&b, "%s\n\n", strings.Join(p.Command, " "))
	return b.String()
}

// Planner builds Plans. Settings are passed in explicitly; the state store is optional.
type Planner struct {
	locator  *locator.Locator
	logger   *slog.Logger
	settings settings.Settings
	store    *state.Store
}

// Option configures a Planner.
type Option func(*Planner)

func WithLocator(l *locator.Locator) Option {
	return func(p *Planner) {
		if l != nil {
			p.locator = l
		}
	}
}

func WithSettings(s settings.Settings) Option {
	return func(p *Planner) { p.settings = s }
}

// WithStore enables remembering and replaying the last run.
func WithStore(s *state.Store) Option {
	return func(p *Planner) { p.store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPlanner(opts ...Option) *Planner {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	if p.locator == nil {
		p.locator = locator.New()
	}
	if p.logger == nil {
		p.logger = logging.For("plan")
	}
	return p
}

// Suite plans a run of the whole project owning target.
func (p *Planner) Suite(target string, roots []string, opts command.Options) (*Plan, error) {
	return p.Run(target, roots, state.Request{Options: opts})
}

// File plans a run of the single test file target.
func (p *Planner) File(target string, roots []string, opts command.Options) (*Plan, error) {
	if !command.IsTestFile(target, p.settings.TestFilePatterns) {
		return nil, fmt.Errorf("%w: %s", ErrNotTestFile, target)
	}
	return p.Run(target, roots, state.Request{File: target, Options: opts})
}

// Block plans a run of the block enclosing pos in target. When no named block
// encloses the cursor the whole file is run.
func (p *Planner) Block(ctx context.Context, target string, roots []string, source []byte, pos selection.Position, opts command.Options) (*Plan, error) {
	if !command.IsTestFile(target, p.settings.TestFilePatterns) {
		return nil, fmt.Errorf("%w: %s", ErrNotTestFile, target)
	}

	if source == nil {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTestFileNotFound, target)
		}
		source = data
	}

	block, found, err := selection.FindTestName(ctx, source, target, pos)
	if err != nil {
		return nil, err
	}
	if found {
		name := block.Name
		if p.settings.UseFullTestName() {
			name = block.FullName()
		}
		p.logger.Debug("selected block", "name", name, "kind", block.Kind, "line", block.Location.StartLine)
		opts = opts.Set("t", name)
	}

	return p.Run(target, roots, state.Request{File: target, Options: opts})
}

// Last replays the most recent run recorded for the workspace of roots.
func (p *Planner) Last(roots []string) (*Plan, error) {
	if p.store == nil {
		return nil, state.ErrNoLastRun
	}
	req, err := p.store.Load(state.WorkspaceKey(roots))
	if err != nil {
		return nil, err
	}
	return p.Run("", roots, req)
}

// Run resolves req into a Plan. An empty req.WorkingDir is derived from the
// jest config enclosing target. Successful plans are recorded for Last.
func (p *Planner) Run(target string, roots []string, req state.Request) (*Plan, error) {
	p.logger.Debug("run", "working_dir", req.WorkingDir, "file", req.File, "options", req.Options)

	workingDir := req.WorkingDir
	if workingDir == "" {
		dir, ok := p.locator.WorkingDirectory(target, roots)
		if !ok {
			return nil, ErrWorkingDirNotFound
		}
		workingDir = dir
	}

	if info, err := os.Stat(workingDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrWorkingDirInvalid, workingDir)
	}
	p.logger.Debug("working dir", "path", workingDir)

	executable := p.settings.Executable()
	if executable == "" {
		found, err := command.FindExecutable(workingDir)
		if err != nil {
			return nil, err
		}
		executable = found
	}

	opts := command.Merge(req.Options, p.settings.Options)
	p.logger.Debug("options", "options", opts)

	cmd := command.BuildArgs(opts, []string{executable})
	if req.File != "" {
		if info, err := os.Stat(req.File); err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", ErrTestFileNotFound, req.File)
		}
		cmd = append(cmd, req.File)
	}

	plan := &Plan{
		Command:    cmd,
		Env:        p.settings.Env,
		File:       req.File,
		Options:    opts,
		WorkingDir: workingDir,
	}
	p.logger.Debug("cmd", "cmd", cmd, "env", plan.Env)

	if p.store != nil {
		last := state.Request{File: req.File, Options: opts, WorkingDir: workingDir}
		if err := p.store.Save(state.WorkspaceKey(roots), last); err != nil {
			p.logger.Warn("could not record last run", "error", err)
		}
	}

	return plan, nil
}
