// Package scaffold assembles a SvelteKit starter project by running an
// ordered list of steps: the base generator, then optional feature
// installers, then the final dependency install.
package scaffold

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/workspace"
)

// Step is one stage of the scaffold. A step whose Enabled guard returns
// false is skipped without side effects.
type Step struct {
	Name    string
	Enabled func(cfg config.Scaffold) bool // nil means always
	Run     func(ctx context.Context, env *Env) error
}

// Env is what a step acts on.
type Env struct {
	Config    config.Scaffold
	Project   *workspace.Workspace
	Tools     *Toolchain
	Generator Generator
	Out       io.Writer
	Log       *slog.Logger
}

// Progress prints a progress line.
func (e *Env) Progress(format string, args ...any) {
	fmt.Fprintln(e.Out, progressLine(fmt.Sprintf(format, args...)))
}

// ActionKind classifies recorded side effects.
type ActionKind string

const (
	ActionRun    ActionKind = "run"
	ActionWrite  ActionKind = ActionKind(workspace.OpWrite)
	ActionAppend ActionKind = ActionKind(workspace.OpAppend)
	ActionReset  ActionKind = ActionKind(workspace.OpReset)
	ActionMkdir  ActionKind = ActionKind(workspace.OpMkdir)
	ActionCopy   ActionKind = ActionKind(workspace.OpCopy)
)

// Action is one side effect performed during a run: a command line or a
// project-relative path.
type Action struct {
	Kind   ActionKind
	Target string
}

func (a Action) String() string {
	return string(a.Kind) + " " + a.Target
}

// Result describes what a run did, in order.
type Result struct {
	Executed []string
	Skipped  []string
	Actions  []Action
}

// runSteps folds over steps, stopping at the first failure.
func runSteps(ctx context.Context, steps []Step, env *Env, res *Result) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return lerrors.WrapWithDetails(lerrors.EAborted, "scaffold interrupted", err, map[string]string{"step": step.Name})
		}
		if step.Enabled != nil && !step.Enabled(env.Config) {
			env.Log.Debug("skipping step", "step", step.Name)
			res.Skipped = append(res.Skipped, step.Name)
			continue
		}

		env.Log.Debug("running step", "step", step.Name)
		if err := step.Run(ctx, env); err != nil {
			return wrapStepError(err, step.Name)
		}
		res.Executed = append(res.Executed, step.Name)
	}
	return nil
}

// wrapStepError tags err with the failing step. Coded errors keep their
// code; anything else becomes E_INTERNAL.
func wrapStepError(err error, stepName string) error {
	if se, ok := lerrors.AsScaffoldError(err); ok {
		details := map[string]string{"step": stepName}
		for k, v := range se.Details {
			details[k] = v
		}
		return lerrors.WrapWithDetails(se.Code, se.Msg, se.Cause, details)
	}
	return lerrors.WrapWithDetails(lerrors.EInternal, "internal error", err, map[string]string{"step": stepName})
}
