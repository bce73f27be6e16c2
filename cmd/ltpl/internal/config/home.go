package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the ltpl home directory.
const HomeEnv = "LTPL_HOME"

var homeOverride string

// SetHome sets an override for the home directory, typically from a flag.
func SetHome(dir string) {
	homeOverride = dir
}

// Home returns the directory holding config.yaml.
// Priority: SetHome > LTPL_HOME env > ~/.ltpl default.
func Home() (string, error) {
	if homeOverride != "" {
		return homeOverride, nil
	}

	if envDir := os.Getenv(HomeEnv); envDir != "" {
		return envDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, ".ltpl"), nil
}
