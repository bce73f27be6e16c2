// Package config resolves the answers collected from the user into the
// immutable Scaffold record, and loads the optional tool settings and
// answer presets that shape a run.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultProjectName is used when the project name answer is empty.
const DefaultProjectName = "ltpl-app"

// Answers holds the raw prompt output, in prompt order.
type Answers struct {
	ProjectName         string
	UseTypescript       bool
	UseTailwind         bool
	UseFormatter        bool
	UseLinter           bool
	UseTestRunner       bool
	UseComponentLibrary bool
	UseDataAuthLayer    bool
	UsePayments         bool
}

// DefaultAnswers returns the prompt defaults: every feature enabled and no
// project name.
func DefaultAnswers() Answers {
	return Answers{
		UseTypescript:       true,
		UseTailwind:         true,
		UseFormatter:        true,
		UseLinter:           true,
		UseTestRunner:       true,
		UseComponentLibrary: true,
		UseDataAuthLayer:    true,
		UsePayments:         true,
	}
}

// Scaffold is the resolved set of user choices. It is produced once by
// Resolve and passed by value; nothing mutates it afterwards.
type Scaffold struct {
	ProjectName string
	ProjectPath string

	UseTypescript       bool
	UseTailwind         bool
	UseFormatter        bool
	UseLinter           bool
	UseTestRunner       bool
	UseComponentLibrary bool
	UseDataAuthLayer    bool
	UsePayments         bool
}

// Resolve applies the project name fallback, validates the name and derives
// the project path from cwd.
func Resolve(a Answers, cwd string) (Scaffold, error) {
	name := ResolveProjectName(a.ProjectName)
	if err := ValidateProjectName(name); err != nil {
		return Scaffold{}, fmt.Errorf("invalid project name %q: %w", name, err)
	}
	if cwd == "" {
		return Scaffold{}, fmt.Errorf("working directory is required")
	}

	return Scaffold{
		ProjectName:         name,
		ProjectPath:         filepath.Join(cwd, name),
		UseTypescript:       a.UseTypescript,
		UseTailwind:         a.UseTailwind,
		UseFormatter:        a.UseFormatter,
		UseLinter:           a.UseLinter,
		UseTestRunner:       a.UseTestRunner,
		UseComponentLibrary: a.UseComponentLibrary,
		UseDataAuthLayer:    a.UseDataAuthLayer,
		UsePayments:         a.UsePayments,
	}, nil
}

// ResolveProjectName returns the trimmed name, or DefaultProjectName when
// the answer is blank.
func ResolveProjectName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultProjectName
	}
	return name
}

// TypesMode returns the type-checking token handed to the base generator.
func (s Scaffold) TypesMode() string {
	if s.UseTypescript {
		return "typescript"
	}
	return "null"
}

var validProjectName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateProjectName checks that a project name is usable as a directory
// and npm package name: starts with a letter or digit, contains only
// letters, digits, dots, underscores, and hyphens.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	// More actionable messages for common mistakes (hidden dirs, flags, paths).
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("project name cannot start with a hyphen")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("project name cannot contain path separators")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("project name must start with a letter or number and contain only letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}

// ValidateProjectNameAnswer is the prompt-side validator: blank answers are
// accepted because Resolve substitutes DefaultProjectName.
func ValidateProjectNameAnswer(name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return ValidateProjectName(strings.TrimSpace(name))
}
