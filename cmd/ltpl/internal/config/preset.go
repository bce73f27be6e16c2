package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is an answers file used instead of the interactive prompts.
// Unset booleans keep the prompt defaults.
type Preset struct {
	Name       string `yaml:"name,omitempty"`
	Typescript *bool  `yaml:"typescript,omitempty"`
	Tailwind   *bool  `yaml:"tailwind,omitempty"`
	Prettier   *bool  `yaml:"prettier,omitempty"`
	ESLint     *bool  `yaml:"eslint,omitempty"`
	Vitest     *bool  `yaml:"vitest,omitempty"`
	Shadcn     *bool  `yaml:"shadcn,omitempty"`
	PrismaAuth *bool  `yaml:"prisma_auth,omitempty"`
	Stripe     *bool  `yaml:"stripe,omitempty"`
}

// LoadPreset reads and decodes a preset file. An empty file is an empty
// preset. Unknown keys are rejected so typos do not fall back to defaults.
func LoadPreset(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("preset %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to read preset %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var p Preset
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}
	return &p, nil
}

// Answers merges the preset over DefaultAnswers.
func (p *Preset) Answers() Answers {
	a := DefaultAnswers()
	a.ProjectName = p.Name
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&a.UseTypescript, p.Typescript)
	apply(&a.UseTailwind, p.Tailwind)
	apply(&a.UseFormatter, p.Prettier)
	apply(&a.UseLinter, p.ESLint)
	apply(&a.UseTestRunner, p.Vitest)
	apply(&a.UseComponentLibrary, p.Shadcn)
	apply(&a.UseDataAuthLayer, p.PrismaAuth)
	apply(&a.UsePayments, p.Stripe)
	return a
}

// Marshal encodes answers back into preset form, useful for replaying a run.
func Marshal(a Answers) ([]byte, error) {
	p := Preset{
		Name:       a.ProjectName,
		Typescript: &a.UseTypescript,
		Tailwind:   &a.UseTailwind,
		Prettier:   &a.UseFormatter,
		ESLint:     &a.UseLinter,
		Vitest:     &a.UseTestRunner,
		Shadcn:     &a.UseComponentLibrary,
		PrismaAuth: &a.UseDataAuthLayer,
		Stripe:     &a.UsePayments,
	}
	return yaml.Marshal(&p)
}
