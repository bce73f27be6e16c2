// Package prompt asks the scaffold questions through a swappable Driver.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
)

// InputConfig configures a text prompt.
type InputConfig struct {
	Message     string
	Placeholder string
	Validator   func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
}

// Driver abstracts the terminal prompt library so the question flow can be
// tested without a terminal.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

// NewDriver returns the driver for a prompt style: "form" (huh) or "line"
// (survey).
func NewDriver(style string) (Driver, error) {
	switch style {
	case config.PromptForm, "":
		return &formDriver{theme: huh.ThemeDracula()}, nil
	case config.PromptLine:
		return &lineDriver{}, nil
	default:
		return nil, lerrors.New(lerrors.EConfigInvalid, fmt.Sprintf("unknown prompt style %q", style))
	}
}

// Interactive reports whether stdin is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// formDriver renders each question as a single-field huh form.
type formDriver struct {
	theme *huh.Theme
}

func (d *formDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var out string
	field := huh.NewInput().
		Title(cfg.Message).
		Placeholder(cfg.Placeholder).
		Value(&out)
	if cfg.Validator != nil {
		field = field.Validate(cfg.Validator)
	}
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	return out, nil
}

func (d *formDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	out := cfg.Default
	field := huh.NewConfirm().
		Title(cfg.Message).
		Affirmative("Yes").
		Negative("No").
		Value(&out)
	if err := d.run(ctx, field); err != nil {
		return false, err
	}
	return out, nil
}

func (d *formDriver) run(ctx context.Context, field huh.Field) error {
	if err := ctx.Err(); err != nil {
		return aborted(err)
	}
	form := huh.NewForm(huh.NewGroup(field)).WithTheme(d.theme)
	if err := form.RunWithContext(ctx); err != nil {
		return translateFormErr(ctx, err)
	}
	return nil
}

func translateFormErr(ctx context.Context, err error) error {
	if errors.Is(err, huh.ErrUserAborted) || ctx.Err() != nil {
		return aborted(err)
	}
	return lerrors.Wrap(lerrors.EInternal, "prompt failed", err)
}

// lineDriver asks questions one line at a time with survey.
type lineDriver struct{}

func (d *lineDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", aborted(err)
	}
	var out string
	q := &survey.Input{Message: cfg.Message}
	if cfg.Placeholder != "" {
		q.Help = "Leave blank for " + cfg.Placeholder
	}
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return cfg.Validator(s)
		}))
	}
	if err := survey.AskOne(q, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *lineDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, aborted(err)
	}
	var out bool
	q := &survey.Confirm{Message: cfg.Message, Default: cfg.Default}
	if err := survey.AskOne(q, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return aborted(err)
	}
	return lerrors.Wrap(lerrors.EInternal, "prompt failed", err)
}

func aborted(err error) error {
	return lerrors.Wrap(lerrors.EAborted, "prompt cancelled", err)
}
