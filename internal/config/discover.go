// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./m.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "m", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. M_CONFIG environment variable
//  2. ./m.toml (current directory)
//  3. $XDG_CONFIG_HOME/m/config.toml
//  4. /etc/m/config.toml
func Discover() (string, error) {
	// 1. Check M_CONFIG env var
	if envPath := os.Getenv("M_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("M_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	// Build search paths
	paths := []string{
		"./m.toml",
		DefaultPath(),
		"/etc/m/config.toml",
	}

	// 2-4. Check each path
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
