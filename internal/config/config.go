// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/obfusk/m/internal/player"
	"github.com/obfusk/m/internal/scan"
)

// Config is the root configuration structure.
type Config struct {
	LogLevel string        `toml:"log_level"`
	Library  LibraryConfig `toml:"library"`
	Player   PlayerConfig  `toml:"player"`
	Kodi     KodiConfig    `toml:"kodi"`
}

// LibraryConfig controls scanning and where progress records live.
type LibraryConfig struct {
	DataDir    string   `toml:"data_dir"`
	Extensions []string `toml:"extensions"`
	ShowHidden bool     `toml:"show_hidden"`
	Locale     string   `toml:"locale"`
}

// PlayerConfig selects and tunes the external player.
type PlayerConfig struct {
	Kind       string    `toml:"kind"`
	Binary     string    `toml:"binary"`
	ResumeBack string    `toml:"resume_back"`
	ExtraArgs  []string  `toml:"extra_args"`
	VLC        VLCConfig `toml:"vlc"`
	MPV        MPVConfig `toml:"mpv"`
}

type VLCConfig struct {
	InterfaceConfig string `toml:"interface_config"`
}

type MPVConfig struct {
	Socket         string `toml:"socket"`
	SampleInterval string `toml:"sample_interval"`
}

type KodiConfig struct {
	Database string `toml:"database"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Library.DataDir == "" {
		c.Library.DataDir = "~/.obfusk-m"
	}
	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = append([]string(nil), scan.DefaultExtensions...)
	}
	if c.Player.Kind == "" {
		c.Player.Kind = "vlc"
	}
	if c.Player.ResumeBack == "" {
		c.Player.ResumeBack = "5s"
	}
	if c.Player.VLC.InterfaceConfig == "" {
		c.Player.VLC.InterfaceConfig = "~/.config/vlc/vlc-qt-interface.conf"
	}
	if c.Player.MPV.SampleInterval == "" {
		c.Player.MPV.SampleInterval = "2s"
	}
	if c.Kodi.Database == "" {
		c.Kodi.Database = "~/.kodi/userdata/Database/MyVideos107.db"
	}

	c.Library.DataDir = expandHome(c.Library.DataDir)
	c.Player.VLC.InterfaceConfig = expandHome(c.Player.VLC.InterfaceConfig)
	c.Player.MPV.Socket = expandHome(c.Player.MPV.Socket)
	c.Kodi.Database = expandHome(c.Kodi.Database)
}

// ResumeBackoff returns player.resume_back as a duration. Invalid values
// are flagged by Validate; here they fall back to the default.
func (c *Config) ResumeBackoff() time.Duration {
	if d, err := time.ParseDuration(c.Player.ResumeBack); err == nil && d >= 0 {
		return d
	}
	return 5 * time.Second
}

// SampleInterval returns player.mpv.sample_interval as a duration.
func (c *Config) SampleInterval() time.Duration {
	if d, err := time.ParseDuration(c.Player.MPV.SampleInterval); err == nil && d > 0 {
		return d
	}
	return 2 * time.Second
}

// ScanOptions returns the scanner options this configuration resolves to.
func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		Extensions: c.Library.Extensions,
		ShowHidden: c.Library.ShowHidden,
		Locale:     c.Library.Locale,
	}
}

// PlayerSettings returns the player factory settings this configuration
// resolves to.
func (c *Config) PlayerSettings() player.Config {
	return player.Config{
		Binary:         c.Player.Binary,
		ExtraArgs:      c.Player.ExtraArgs,
		VLCConf:        c.Player.VLC.InterfaceConfig,
		MPVSocket:      c.Player.MPV.Socket,
		SampleInterval: c.SampleInterval(),
	}
}

// substituteEnvVars replaces ${VAR} references with environment values.
// ${VAR:-default} falls back when VAR is unset or empty; ${VAR:?message}
// records message as a missing-variable error instead. The second return
// lists everything that could not be resolved.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}
		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			missing = append(missing, fmt.Sprintf("%s: %s", name, msg))
			return match
		}
		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		missing = append(missing, expr)
		return match
	})
	return out, missing
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
