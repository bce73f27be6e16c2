package scaffold

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/templates"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/workspace"
)

// Step names.
const (
	StepBase       = "base"
	StepEnv        = "env"
	StepTailwind   = "tailwind"
	StepShadcn     = "shadcn"
	StepPrismaAuth = "prisma-auth"
	StepStripe     = "stripe"
	StepPage       = "page"
	StepInstall    = "install"
)

// Project-relative paths written by the steps.
const (
	EnvFile        = ".env"
	SvelteConfig   = "svelte.config.js"
	TailwindConfig = "tailwind.config.js"
	AppCSS         = "src/app.css"
	Layout         = "src/routes/+layout.svelte"
	PrismaSchema   = "prisma/schema.prisma"
	ServerDir      = "src/lib/server"
	PrismaClient   = "src/lib/server/prisma.ts"
	AuthConfig     = "src/auth.ts"
	AuthHooks      = "src/hooks.server.ts"
	Page           = "src/routes/+page.svelte"
	StaticDir      = "static"
	Logo           = "static/ltpl_logo.png"
)

// DefaultSteps returns the scaffold pipeline in execution order.
func DefaultSteps() []Step {
	return []Step{
		{Name: StepBase, Run: runBase},
		{Name: StepEnv, Run: runEnv},
		{Name: StepTailwind, Enabled: func(c config.Scaffold) bool { return c.UseTailwind }, Run: runTailwind},
		{Name: StepShadcn, Enabled: func(c config.Scaffold) bool { return c.UseComponentLibrary }, Run: runShadcn},
		{Name: StepPrismaAuth, Enabled: func(c config.Scaffold) bool { return c.UseDataAuthLayer }, Run: runPrismaAuth},
		{Name: StepStripe, Enabled: func(c config.Scaffold) bool { return c.UsePayments }, Run: runStripe},
		{Name: StepPage, Run: runPage},
		{Name: StepInstall, Run: runInstall},
	}
}

// runBase creates the SvelteKit skeleton. Every later step writes into the
// directory it creates.
func runBase(ctx context.Context, env *Env) error {
	cfg := env.Config

	empty, err := workspace.IsEmptyOrMissing(cfg.ProjectPath)
	if err != nil {
		return lerrors.Wrap(lerrors.EWriteFailed, "failed to inspect project directory", err)
	}
	if !empty {
		return lerrors.NewWithDetails(lerrors.EProjectExists, "directory "+cfg.ProjectPath+" already exists and is not empty", map[string]string{"path": cfg.ProjectPath})
	}

	env.Progress("Creating project directory...")
	opts := BaseOptions{
		Name:       cfg.ProjectName,
		Template:   "skeleton",
		Types:      cfg.TypesMode(),
		Prettier:   cfg.UseFormatter,
		ESLint:     cfg.UseLinter,
		Playwright: true,
		Vitest:     cfg.UseTestRunner,
	}
	if err := env.Generator.Generate(ctx, filepath.Dir(cfg.ProjectPath), opts); err != nil {
		return err
	}

	info, err := os.Stat(cfg.ProjectPath)
	if err != nil || !info.IsDir() {
		return lerrors.WrapWithDetails(lerrors.ECommandFailed, "project generator did not create "+cfg.ProjectPath, err, map[string]string{"path": cfg.ProjectPath})
	}
	return nil
}

func runEnv(_ context.Context, env *Env) error {
	env.Progress("Creating .env file...")
	return env.Project.ResetFile(EnvFile)
}

func runTailwind(ctx context.Context, env *Env) error {
	env.Progress("Installing Tailwind CSS...")
	dir := env.Project.Root
	s := env.Tools.Settings()

	if err := env.Tools.Add(ctx, dir, true, s.Spec("tailwindcss"), s.Spec("postcss"), s.Spec("autoprefixer")); err != nil {
		return err
	}
	if err := env.Tools.Launch(ctx, dir, "tailwindcss", "init", "-p"); err != nil {
		return err
	}

	files := []struct {
		dest  string
		asset string
	}{
		{SvelteConfig, templates.SvelteConfig},
		{TailwindConfig, templates.TailwindConfig},
		{AppCSS, templates.AppCSS},
		{Layout, templates.Layout},
	}
	for _, f := range files {
		if err := env.Project.WriteAsset(f.dest, f.asset, nil); err != nil {
			return err
		}
	}
	return nil
}

func runShadcn(ctx context.Context, env *Env) error {
	env.Progress("Installing shadcn-svelte...")
	return env.Tools.Launch(ctx, env.Project.Root, env.Tools.Settings().Spec("shadcn-svelte"), "init")
}

// runPrismaAuth installs Prisma and Auth.js. It resets .env before writing
// its credential block, discarding anything written there earlier.
func runPrismaAuth(ctx context.Context, env *Env) error {
	env.Progress("Installing Prisma and Auth.js...")
	dir := env.Project.Root
	tools := env.Tools
	s := tools.Settings()

	if err := tools.Add(ctx, dir, false, s.Ref("prisma")); err != nil {
		return err
	}
	if err := tools.Exec(ctx, dir, "prisma", "init", "--datasource-provider", "sqlite"); err != nil {
		return err
	}
	if err := env.Project.WriteAsset(PrismaSchema, templates.PrismaSchema, nil); err != nil {
		return err
	}
	if err := tools.Exec(ctx, dir, "prisma", "generate"); err != nil {
		return err
	}
	if err := env.Project.EnsureDir(ServerDir); err != nil {
		return err
	}
	if err := env.Project.WriteAsset(PrismaClient, templates.PrismaClient, nil); err != nil {
		return err
	}

	if err := tools.Add(ctx, dir, false, s.Ref("@auth/sveltekit")); err != nil {
		return err
	}
	if err := env.Project.WriteAsset(AuthConfig, templates.AuthConfig, nil); err != nil {
		return err
	}
	if err := tools.Add(ctx, dir, false, s.Ref("@auth/core")); err != nil {
		return err
	}
	if err := tools.Add(ctx, dir, false, s.Ref("@prisma/client"), s.Ref("@auth/prisma-adapter")); err != nil {
		return err
	}
	if err := tools.Add(ctx, dir, true, s.Ref("prisma")); err != nil {
		return err
	}

	if err := env.Project.ResetFile(EnvFile); err != nil {
		return err
	}
	if err := env.Project.WriteAsset(AuthHooks, templates.AuthHooks, nil); err != nil {
		return err
	}
	return env.Project.AppendAsset(EnvFile, templates.AuthEnv)
}

func runStripe(ctx context.Context, env *Env) error {
	env.Progress("Installing Stripe...")
	s := env.Tools.Settings()
	if err := env.Tools.Add(ctx, env.Project.Root, true, s.Ref("stripe"), s.Ref("@stripe/stripe-js"), s.Ref("svelte-stripe")); err != nil {
		return err
	}
	return env.Project.AppendAsset(EnvFile, templates.StripeEnv)
}

func runPage(_ context.Context, env *Env) error {
	env.Progress("Writing landing page...")
	if err := env.Project.WriteAsset(Page, templates.Page, templates.NewPageData(env.Config.ProjectName)); err != nil {
		return err
	}
	if err := env.Project.EnsureDir(StaticDir); err != nil {
		return err
	}
	return env.Project.CopyAsset(Logo, templates.Logo)
}

func runInstall(ctx context.Context, env *Env) error {
	env.Progress("Installing dependencies...")
	return env.Tools.Install(ctx, env.Project.Root)
}

// EnvKeys returns the variables a project scaffolded from cfg declares in
// .env, sorted.
func EnvKeys(cfg config.Scaffold) ([]string, error) {
	var keys []string
	if cfg.UseDataAuthLayer {
		k, err := templates.EnvKeys(templates.AuthEnv)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
	}
	if cfg.UsePayments {
		k, err := templates.EnvKeys(templates.StripeEnv)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
	}
	return keys, nil
}
