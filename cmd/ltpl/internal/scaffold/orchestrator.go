package scaffold

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/exec"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/ui"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/workspace"
)

// Orchestrator runs the scaffold pipeline for one resolved configuration.
type Orchestrator struct {
	runner    exec.CommandRunner
	settings  *config.Settings
	generator Generator
	steps     []Step
	out       io.Writer
	log       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGenerator replaces the sv generator.
func WithGenerator(g Generator) Option {
	return func(o *Orchestrator) { o.generator = g }
}

// WithSteps replaces the default step list.
func WithSteps(steps []Step) Option {
	return func(o *Orchestrator) { o.steps = steps }
}

// WithOutput sets where progress lines are printed (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// New returns an orchestrator running commands through runner.
func New(runner exec.CommandRunner, settings *config.Settings, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:   runner,
		settings: settings,
		steps:    DefaultSteps(),
		out:      os.Stdout,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the pipeline against cfg. The returned Result is non-nil even
// on error and records everything done up to the failure. Nothing is rolled
// back.
func (o *Orchestrator) Run(ctx context.Context, cfg config.Scaffold) (*Result, error) {
	res := &Result{}
	record := func(a Action) { res.Actions = append(res.Actions, a) }

	tools, err := NewToolchain(o.runner, o.settings, o.log)
	if err != nil {
		return res, err
	}
	tools.observe = record

	generator := o.generator
	if generator == nil {
		generator = NewSvGenerator(tools, o.settings.Generator)
	}

	env := &Env{
		Config: cfg,
		Project: workspace.New(cfg.ProjectPath, func(op workspace.Op, rel string) {
			record(Action{Kind: ActionKind(op), Target: rel})
		}),
		Tools:     tools,
		Generator: generator,
		Out:       o.out,
		Log:       o.log,
	}

	o.log.Debug("scaffolding project", "name", cfg.ProjectName, "path", cfg.ProjectPath)
	if err := runSteps(ctx, o.steps, env, res); err != nil {
		o.log.Debug("scaffold stopped", "executed", res.Executed, "error", err)
		return res, err
	}
	return res, nil
}

func progressLine(msg string) string {
	return ui.RenderStep(msg)
}
