package prompt

import (
	"context"

	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/config"
)

// Question messages, in the order they are asked.
const (
	MsgProjectName = "Project name:"
	MsgTypescript  = "Do you want to use TypeScript?"
	MsgTailwind    = "Do you want to use Tailwind CSS?"
	MsgPrettier    = "Do you want to use Prettier?"
	MsgESLint      = "Do you want to add linting with ESLint?"
	MsgVitest      = "Do you want to add test with Vitest?"
	MsgShadcn      = "Do you want to use Shadcn?"
	MsgPrismaAuth  = "Do you want to use Prisma and AuthJS?"
	MsgStripe      = "Do you want to use Stripe?"
)

// Collect asks every question in order and returns the raw answers. Every
// yes/no question defaults to yes. The first error stops the flow.
func Collect(ctx context.Context, d Driver) (config.Answers, error) {
	var a config.Answers

	name, err := d.Input(ctx, InputConfig{
		Message:     MsgProjectName,
		Placeholder: config.DefaultProjectName,
		Validator:   config.ValidateProjectNameAnswer,
	})
	if err != nil {
		return config.Answers{}, err
	}
	a.ProjectName = name

	confirms := []struct {
		msg string
		dst *bool
	}{
		{MsgTypescript, &a.UseTypescript},
		{MsgTailwind, &a.UseTailwind},
		{MsgPrettier, &a.UseFormatter},
		{MsgESLint, &a.UseLinter},
		{MsgVitest, &a.UseTestRunner},
		{MsgShadcn, &a.UseComponentLibrary},
		{MsgPrismaAuth, &a.UseDataAuthLayer},
		{MsgStripe, &a.UsePayments},
	}
	for _, c := range confirms {
		v, err := d.Confirm(ctx, ConfirmConfig{Message: c.msg, Default: true})
		if err != nil {
			return config.Answers{}, err
		}
		*c.dst = v
	}
	return a, nil
}
