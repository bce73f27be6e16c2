package scaffold

import (
	"context"
	"path/filepath"
)

// BaseOptions configures the base SvelteKit project.
type BaseOptions struct {
	Name       string
	Template   string // "skeleton"
	Types      string // "typescript" or "null"
	Prettier   bool
	ESLint     bool
	Playwright bool
	Vitest     bool
}

// Generator creates the base project directory named opts.Name inside
// parentDir.
type Generator interface {
	Generate(ctx context.Context, parentDir string, opts BaseOptions) error
}

// svTemplates maps template identifiers to the names sv understands.
var svTemplates = map[string]string{
	"skeleton": "minimal",
}

// SvGenerator drives the sv CLI through the launcher:
//
//	npx sv@latest create <name> --template minimal --types ts --no-add-ons --no-install
//	npx sv@latest add prettier eslint vitest playwright --no-install
type SvGenerator struct {
	tools *Toolchain
	pkg   string
}

// NewSvGenerator returns a generator launching pkg (e.g. "sv@latest").
func NewSvGenerator(tools *Toolchain, pkg string) *SvGenerator {
	return &SvGenerator{tools: tools, pkg: pkg}
}

// CreateArgs returns the arguments passed to "sv create".
func CreateArgs(opts BaseOptions) []string {
	template := opts.Template
	if mapped, ok := svTemplates[template]; ok {
		template = mapped
	}

	args := []string{"create", opts.Name, "--template", template}
	if opts.Types == "typescript" {
		args = append(args, "--types", "ts")
	} else {
		args = append(args, "--no-types")
	}
	return append(args, "--no-add-ons", "--no-install")
}

// AddOns returns the sv add-ons requested by opts, in a fixed order.
func AddOns(opts BaseOptions) []string {
	var addOns []string
	if opts.Prettier {
		addOns = append(addOns, "prettier")
	}
	if opts.ESLint {
		addOns = append(addOns, "eslint")
	}
	if opts.Vitest {
		addOns = append(addOns, "vitest")
	}
	if opts.Playwright {
		addOns = append(addOns, "playwright")
	}
	return addOns
}

// Generate creates the project, then applies the add-ons inside it.
func (g *SvGenerator) Generate(ctx context.Context, parentDir string, opts BaseOptions) error {
	if err := g.tools.Launch(ctx, parentDir, g.pkg, CreateArgs(opts)...); err != nil {
		return err
	}

	addOns := AddOns(opts)
	if len(addOns) == 0 {
		return nil
	}
	args := append([]string{"add"}, addOns...)
	args = append(args, "--no-install")
	return g.tools.Launch(ctx, filepath.Join(parentDir, opts.Name), g.pkg, args...)
}
