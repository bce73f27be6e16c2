package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/mod/semver"
)

// Settings configures the tools a run drives. They come from config.yaml in
// Home, LTPL_* environment variables and bound flags, in viper's usual
// precedence.
type Settings struct {
	PackageManager string            `mapstructure:"package_manager"`
	Launcher       string            `mapstructure:"launcher"`
	Generator      string            `mapstructure:"generator"`
	Prompt         string            `mapstructure:"prompt"`
	Versions       map[string]string `mapstructure:"versions"`
}

// Prompt styles.
const (
	PromptForm = "form"
	PromptLine = "line"
)

var packageManagers = map[string]bool{
	"pnpm": true,
	"npm":  true,
	"yarn": true,
	"bun":  true,
}

// distTags are npm dist-tags accepted as version pins.
var distTags = map[string]bool{
	"latest": true,
	"next":   true,
	"beta":   true,
	"alpha":  true,
	"canary": true,
	"rc":     true,
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("package_manager", "pnpm")
	v.SetDefault("launcher", "npx")
	v.SetDefault("generator", "sv@latest")
	v.SetDefault("prompt", PromptForm)
}

// NewViper returns a viper instance wired for ltpl: defaults, LTPL_ env
// prefix and config.yaml in Home (or the explicit file when set).
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("LTPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
		return v, nil
	}

	home, err := Home()
	if err != nil {
		return nil, err
	}
	v.SetConfigName("config")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config in %s: %w", home, err)
		}
	}
	return v, nil
}

// LoadSettings decodes and validates settings from v.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	s.PackageManager = strings.TrimSpace(s.PackageManager)
	s.Launcher = strings.TrimSpace(s.Launcher)
	s.Generator = strings.TrimSpace(s.Generator)
	s.Prompt = strings.TrimSpace(s.Prompt)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks tool names, prompt style and version pins.
func (s *Settings) Validate() error {
	if !packageManagers[s.PackageManager] {
		return fmt.Errorf("package_manager: %q is invalid (valid values: bun, npm, pnpm, yarn)", s.PackageManager)
	}
	if s.Launcher == "" {
		return fmt.Errorf("launcher cannot be empty")
	}
	if s.Generator == "" {
		return fmt.Errorf("generator cannot be empty")
	}
	if s.Prompt != PromptForm && s.Prompt != PromptLine {
		return fmt.Errorf("prompt: %q is invalid (valid values: form, line)", s.Prompt)
	}

	names := make([]string, 0, len(s.Versions))
	for name := range s.Versions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ValidatePin(s.Versions[name]); err != nil {
			return fmt.Errorf("versions.%s: %w", name, err)
		}
	}
	return nil
}

// Pin returns the version pin for pkg, defaulting to "latest".
func (s *Settings) Pin(pkg string) string {
	// viper lower-cases map keys
	if v, ok := s.Versions[strings.ToLower(pkg)]; ok && v != "" {
		return v
	}
	return "latest"
}

// Spec returns "pkg@pin".
func (s *Settings) Spec(pkg string) string {
	return pkg + "@" + s.Pin(pkg)
}

// Ref returns "pkg@pin" when pkg has an explicit pin, otherwise the bare
// package name so the package manager picks its usual range.
func (s *Settings) Ref(pkg string) string {
	if v, ok := s.Versions[strings.ToLower(pkg)]; ok && v != "" {
		return pkg + "@" + v
	}
	return pkg
}

// ValidatePin accepts npm dist-tags and semantic versions, optionally
// prefixed with ^ or ~. Partial versions such as "3" or "3.4" are allowed.
//
// Examples:
//
//	"latest" -> ok
//	"3.4.1"  -> ok
//	"^3.4"   -> ok
//	"v3"     -> ok
//	"3.x"    -> error
func ValidatePin(pin string) error {
	if distTags[pin] {
		return nil
	}
	v := strings.TrimLeft(pin, "^~")
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%q is not a semantic version or dist-tag", pin)
	}
	return nil
}
