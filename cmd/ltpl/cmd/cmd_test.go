package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/exec"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/prompt"
)

// stubRunner records command lines, simulates the directories "sv create"
// and "prisma init" produce, and answers "--version".
type stubRunner struct {
	lines  []string
	failOn string
}

func (r *stubRunner) Run(_ context.Context, name string, args []string, opts exec.RunOpts) (exec.CmdResult, error) {
	line := exec.CommandLine(name, args)
	r.lines = append(r.lines, line)
	if r.failOn != "" && strings.Contains(line, r.failOn) {
		return exec.CmdResult{ExitCode: 1}, nil
	}
	if len(args) > 2 && args[1] == "create" {
		if err := os.MkdirAll(filepath.Join(opts.Dir, args[2], "src", "routes"), 0o755); err != nil {
			return exec.CmdResult{}, err
		}
	}
	if strings.Contains(line, "prisma init") {
		if err := os.MkdirAll(filepath.Join(opts.Dir, "prisma"), 0o755); err != nil {
			return exec.CmdResult{}, err
		}
	}
	if len(args) == 1 && args[0] == "--version" && opts.Stdout != nil {
		fmt.Fprintf(opts.Stdout, "%s 1.2.3\nextra\n", name)
	}
	return exec.CmdResult{}, nil
}

type answerDriver struct {
	name    string
	confirm bool
	err     error
}

func (d *answerDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return d.name, d.err
}

func (d *answerDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return d.confirm, d.err
}

type harness struct {
	app    *app
	runner *stubRunner
	cwd    string
	home   string
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		runner: &stubRunner{},
		cwd:    t.TempDir(),
		home:   t.TempDir(),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	h.app = &app{
		runner:      h.runner,
		newDriver:   func(string) (prompt.Driver, error) { return &answerDriver{confirm: true}, nil },
		interactive: func() bool { return false },
		getwd:       func() (string, error) { return h.cwd, nil },
		lookPath:    func(name string) (string, error) { return "/usr/bin/" + name, nil },
		out:         h.out,
		errOut:      h.errOut,
	}
	t.Cleanup(func() { config.SetHome("") })
	return h
}

func (h *harness) run(args ...string) int {
	args = append([]string{"--home", h.home}, args...)
	return run(context.Background(), h.app, args)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCreate_Preset(t *testing.T) {
	h := newHarness(t)
	preset := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, preset, "name: shop\ntailwind: false\nshadcn: false\nprisma_auth: false\n")

	code := h.run("--preset", preset)
	require.Equal(t, 0, code, h.errOut.String())

	project := filepath.Join(h.cwd, "shop")
	env, err := os.ReadFile(filepath.Join(project, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "STRIPE_SECRET_KEY")

	out := h.out.String()
	assert.Contains(t, out, "Creating new LTPL project: shop")
	assert.Contains(t, out, "Project created at "+project)
	assert.Contains(t, out, "cd shop")
	assert.Contains(t, out, "pnpm run dev")
	assert.Contains(t, out, "STRIPE_SECRET_KEY")
	assert.NotContains(t, out, "AUTH_SECRET")

	assert.Equal(t, "pnpm install", h.runner.lines[len(h.runner.lines)-1])
	for _, l := range h.runner.lines {
		assert.NotContains(t, l, "tailwindcss")
		assert.NotContains(t, l, "shadcn-svelte")
	}
}

func TestCreate_PromptsWhenInteractive(t *testing.T) {
	h := newHarness(t)
	h.app.interactive = func() bool { return true }
	var style string
	h.app.newDriver = func(s string) (prompt.Driver, error) {
		style = s
		return &answerDriver{name: "", confirm: false}, nil
	}

	code := h.run("--prompt", "line")
	require.Equal(t, 0, code, h.errOut.String())

	assert.Equal(t, config.PromptLine, style)
	assert.DirExists(t, filepath.Join(h.cwd, config.DefaultProjectName))
	assert.Contains(t, h.runner.lines, "npx sv@latest create ltpl-app --template minimal --no-types --no-add-ons --no-install")
	assert.NotContains(t, h.out.String(), "Fill in")
}

func TestCreate_NonInteractiveNeedsPreset(t *testing.T) {
	h := newHarness(t)

	code := h.run()
	assert.Equal(t, 2, code)
	assert.Contains(t, h.errOut.String(), "error_code: E_USAGE")
	assert.Empty(t, h.runner.lines)
}

func TestCreate_Aborted(t *testing.T) {
	h := newHarness(t)
	h.app.interactive = func() bool { return true }
	h.app.newDriver = func(string) (prompt.Driver, error) {
		return &answerDriver{err: lerrors.New(lerrors.EAborted, "prompt cancelled")}, nil
	}

	code := h.run()
	assert.Equal(t, 130, code)
	assert.Contains(t, h.errOut.String(), "Cancelled.")
	assert.Empty(t, h.runner.lines)
}

func TestCreate_SavePreset(t *testing.T) {
	h := newHarness(t)
	h.app.interactive = func() bool { return true }
	h.app.newDriver = func(string) (prompt.Driver, error) {
		return &answerDriver{name: "blog", confirm: false}, nil
	}
	saved := filepath.Join(t.TempDir(), "saved.yaml")

	code := h.run("--save-preset", saved)
	require.Equal(t, 0, code, h.errOut.String())

	p, err := config.LoadPreset(saved)
	require.NoError(t, err)
	assert.Equal(t, config.Answers{ProjectName: "blog"}, p.Answers())
}

func TestCreate_PackageManagerFlag(t *testing.T) {
	h := newHarness(t)
	preset := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, preset, "name: app\n")

	code := h.run("--preset", preset, "--package-manager", "npm")
	require.Equal(t, 0, code, h.errOut.String())

	assert.Contains(t, h.runner.lines, "npm install -D tailwindcss@latest postcss@latest autoprefixer@latest")
	assert.Contains(t, h.runner.lines, "npx prisma generate")
	assert.Equal(t, "npm install", h.runner.lines[len(h.runner.lines)-1])
	assert.Contains(t, h.out.String(), "npm run dev")

	project := filepath.Join(h.cwd, "app")
	assert.FileExists(t, filepath.Join(project, "prisma", "schema.prisma"))
	assert.FileExists(t, filepath.Join(project, "src", "hooks.server.ts"))
	assert.Contains(t, h.out.String(), "AUTH_SECRET")
	assert.Contains(t, h.out.String(), "STRIPE_SECRET_KEY")
}

func TestCreate_ConfigFileInHome(t *testing.T) {
	h := newHarness(t)
	writeFile(t, filepath.Join(h.home, "config.yaml"), "package_manager: bun\nversions:\n  tailwindcss: 3.4.1\n")
	preset := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, preset, "name: app\nshadcn: false\nprisma_auth: false\nstripe: false\n")

	code := h.run("--preset", preset)
	require.Equal(t, 0, code, h.errOut.String())
	assert.Contains(t, h.runner.lines, "bun add -D tailwindcss@3.4.1 postcss@latest autoprefixer@latest")
}

func TestCreate_InvalidSettings(t *testing.T) {
	h := newHarness(t)
	writeFile(t, filepath.Join(h.home, "config.yaml"), "package_manager: pip\n")

	code := h.run("--preset", "unused.yaml")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "error_code: E_CONFIG_INVALID")
}

func TestCreate_InvalidPreset(t *testing.T) {
	h := newHarness(t)
	preset := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, preset, "name: app\ntailwnd: true\n")

	code := h.run("--preset", preset)
	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "error_code: E_CONFIG_INVALID")
	assert.Empty(t, h.runner.lines)
}

func TestCreate_CommandFailure(t *testing.T) {
	h := newHarness(t)
	h.runner.failOn = "shadcn-svelte"
	preset := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, preset, "name: app\n")

	code := h.run("--preset", preset)
	assert.Equal(t, 1, code)

	errOut := h.errOut.String()
	assert.Contains(t, errOut, "error_code: E_COMMAND_FAILED")
	assert.Contains(t, errOut, "step: shadcn")
	assert.NotContains(t, h.out.String(), "Project created")
	assert.Equal(t, "npx shadcn-svelte@latest init", h.runner.lines[len(h.runner.lines)-1])
}

func TestCreate_ExistingDirectory(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(filepath.Join(h.cwd, "app"), 0o755))
	writeFile(t, filepath.Join(h.cwd, "app", "README.md"), "hi")
	preset := filepath.Join(t.TempDir(), "answers.yaml")
	writeFile(t, preset, "name: app\n")

	code := h.run("--preset", preset)
	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "E_PROJECT_EXISTS")
	assert.Empty(t, h.runner.lines)
}

func TestRoot_UsageErrors(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run("--no-such-flag"))
	assert.Equal(t, 2, h.run("extra-arg"))
}

func TestRoot_Version(t *testing.T) {
	h := newHarness(t)
	code := h.run("--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, h.out.String(), Version)
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)

	code := h.run("doctor")
	require.Equal(t, 0, code, h.errOut.String())

	out := h.out.String()
	assert.Contains(t, out, "package manager: pnpm")
	assert.Contains(t, out, "node   node 1.2.3")
	assert.Contains(t, out, "pnpm   pnpm 1.2.3")
	assert.Contains(t, out, "/usr/bin/npx")
	assert.NotContains(t, out, "extra")
	assert.Equal(t, []string{"node --version", "pnpm --version", "npx --version"}, h.runner.lines)
}

func TestDoctor_MissingTool(t *testing.T) {
	h := newHarness(t)
	h.app.lookPath = func(name string) (string, error) {
		if name == "pnpm" {
			return "", io.ErrUnexpectedEOF
		}
		return "/usr/bin/" + name, nil
	}

	code := h.run("doctor")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.out.String(), "not found on PATH")
	assert.Contains(t, h.errOut.String(), "missing: pnpm")
	assert.NotContains(t, h.runner.lines, "pnpm --version")
}

func TestDoctor_VersionFailureIsWarning(t *testing.T) {
	h := newHarness(t)
	h.runner.failOn = "npx --version"

	code := h.run("doctor")
	assert.Equal(t, 0, code, h.errOut.String())
	assert.Contains(t, h.out.String(), "version unknown: --version exited with status 1")
	assert.Contains(t, h.out.String(), "node   node 1.2.3")
}

func TestUniq(t *testing.T) {
	assert.Equal(t, []string{"node", "bun"}, uniq("node", "bun", "", "bun"))
}
