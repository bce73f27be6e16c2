package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/prompt"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/scaffold"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/ui"
)

type createFlags struct {
	preset     string
	savePreset string
}

// runCreate collects answers, resolves them against the working directory
// and runs the scaffold.
func (a *app) runCreate(ctx context.Context, flags createFlags) error {
	answers, err := a.answers(ctx, flags.preset)
	if err != nil {
		return err
	}

	if flags.savePreset != "" {
		data, err := config.Marshal(answers)
		if err != nil {
			return lerrors.Wrap(lerrors.EInternal, "failed to encode preset", err)
		}
		if err := os.WriteFile(flags.savePreset, data, 0o644); err != nil {
			return lerrors.WrapWithDetails(lerrors.EWriteFailed, "failed to save preset", err, map[string]string{"path": flags.savePreset})
		}
	}

	cwd, err := a.getwd()
	if err != nil {
		return lerrors.Wrap(lerrors.EInternal, "failed to get working directory", err)
	}
	cfg, err := config.Resolve(answers, cwd)
	if err != nil {
		return lerrors.Wrap(lerrors.EConfigInvalid, err.Error(), err)
	}

	fmt.Fprintf(a.out, "Creating new LTPL project: %s\n", cfg.ProjectName)
	orch := scaffold.New(a.runner, a.settings,
		scaffold.WithOutput(a.out),
		scaffold.WithLogger(a.log),
	)
	if _, err := orch.Run(ctx, cfg); err != nil {
		return err
	}

	return a.report(cfg)
}

// answers reads the preset when given, otherwise prompts.
func (a *app) answers(ctx context.Context, presetPath string) (config.Answers, error) {
	if presetPath != "" {
		p, err := config.LoadPreset(presetPath)
		if err != nil {
			return config.Answers{}, lerrors.WrapWithDetails(lerrors.EConfigInvalid, "invalid preset", err, map[string]string{"path": presetPath})
		}
		return p.Answers(), nil
	}

	if !a.interactive() {
		return config.Answers{}, lerrors.New(lerrors.EUsage, "stdin is not a terminal; pass --preset to scaffold non-interactively")
	}
	driver, err := a.newDriver(a.settings.Prompt)
	if err != nil {
		return config.Answers{}, err
	}
	return prompt.Collect(ctx, driver)
}

func (a *app) report(cfg config.Scaffold) error {
	keys, err := scaffold.EnvKeys(cfg)
	if err != nil {
		return lerrors.Wrap(lerrors.ETemplateMissing, "failed to read env template", err)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderPass(ui.IconPass+" Project created at "+cfg.ProjectPath))
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, ui.RenderHeading("To get started:"))
	fmt.Fprintln(a.out, ui.RenderCommand("cd "+cfg.ProjectName))
	fmt.Fprintln(a.out, ui.RenderCommand(a.settings.PackageManager+" run dev"))

	if len(keys) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, ui.RenderHeading("Fill in "+scaffold.EnvFile+":"))
		for _, k := range keys {
			fmt.Fprintln(a.out, "  "+ui.RenderMuted(k))
		}
	}
	return nil
}
