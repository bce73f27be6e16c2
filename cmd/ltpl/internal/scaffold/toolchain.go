package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/exec"
)

// packageManager describes how a package manager spells the commands the
// scaffold needs.
type packageManager struct {
	add  string   // verb for adding dependencies
	exec []string // prefix for running a locally installed binary
}

var packageManagers = map[string]packageManager{
	"pnpm": {add: "add", exec: []string{"pnpm"}},
	"npm":  {add: "install", exec: []string{"npx"}},
	"yarn": {add: "add", exec: []string{"yarn"}},
	"bun":  {add: "add", exec: []string{"bunx"}},
}

// Toolchain runs the package manager and the package launcher (npx) through
// a CommandRunner. Every command blocks until exit; a non-zero status is an
// error.
type Toolchain struct {
	runner   exec.CommandRunner
	settings *config.Settings
	pm       packageManager
	log      *slog.Logger

	observe func(Action)
}

// NewToolchain returns a toolchain for the configured package manager.
func NewToolchain(runner exec.CommandRunner, settings *config.Settings, log *slog.Logger) (*Toolchain, error) {
	pm, ok := packageManagers[settings.PackageManager]
	if !ok {
		return nil, lerrors.New(lerrors.EConfigInvalid, fmt.Sprintf("unsupported package manager %q", settings.PackageManager))
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Toolchain{runner: runner, settings: settings, pm: pm, log: log}, nil
}

// Settings returns the tool settings.
func (t *Toolchain) Settings() *config.Settings {
	return t.settings
}

// Add installs packages as dependencies (dev dependencies when dev is set).
func (t *Toolchain) Add(ctx context.Context, dir string, dev bool, pkgs ...string) error {
	args := []string{t.pm.add}
	if dev {
		args = append(args, "-D")
	}
	args = append(args, pkgs...)
	return t.Run(ctx, dir, t.settings.PackageManager, args...)
}

// Install installs every dependency of the project in dir.
func (t *Toolchain) Install(ctx context.Context, dir string) error {
	return t.Run(ctx, dir, t.settings.PackageManager, "install")
}

// Exec runs a binary installed in the project (e.g. "pnpm prisma generate").
func (t *Toolchain) Exec(ctx context.Context, dir, bin string, args ...string) error {
	full := append(append(append([]string{}, t.pm.exec[1:]...), bin), args...)
	return t.Run(ctx, dir, t.pm.exec[0], full...)
}

// Launch runs a package through the launcher (e.g. "npx shadcn-svelte@latest init").
func (t *Toolchain) Launch(ctx context.Context, dir, pkg string, args ...string) error {
	return t.Run(ctx, dir, t.settings.Launcher, append([]string{pkg}, args...)...)
}

// Run executes name with args in dir and maps failures to coded errors.
func (t *Toolchain) Run(ctx context.Context, dir, name string, args ...string) error {
	line := exec.CommandLine(name, args)
	t.log.Debug("running command", "dir", dir, "command", line)

	if t.observe != nil {
		t.observe(Action{Kind: ActionRun, Target: line})
	}

	res, err := t.runner.Run(ctx, name, args, exec.RunOpts{Dir: dir})
	details := map[string]string{"command": line, "dir": dir}
	if err != nil {
		if ctx.Err() != nil {
			return lerrors.WrapWithDetails(lerrors.EAborted, "interrupted while running "+name, err, details)
		}
		if exec.IsNotFound(err) {
			return lerrors.WrapWithDetails(lerrors.ECommandNotFound, name+" is not installed or not on PATH", err, details)
		}
		return lerrors.WrapWithDetails(lerrors.ECommandFailed, "failed to run "+name, err, details)
	}
	if res.ExitCode != 0 {
		details["exit_code"] = strconv.Itoa(res.ExitCode)
		return lerrors.NewWithDetails(lerrors.ECommandFailed, fmt.Sprintf("%s exited with status %d", name, res.ExitCode), details)
	}

	t.log.Debug("command finished", "command", line)
	return nil
}
