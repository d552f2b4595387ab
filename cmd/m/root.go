package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obfusk/m/internal/config"
	"github.com/obfusk/m/internal/playback"
	"github.com/obfusk/m/internal/player"
	"github.com/obfusk/m/internal/store"
)

var version = "dev"

var (
	configPath string
	targetDir  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "m",
	Short: "Minimalistic media manager",
	Long: `m - minimalistic media manager

Tracks which media files in a directory have been watched, are being
watched, or should be skipped, and resumes the next unfinished one in an
external player (VLC or mpv). Progress lives in plain JSON records, one
per directory.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&targetDir, "dir", "", "Directory to operate on (default: $PWD)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("m {{.Version}}\n")
}

// loadConfig resolves the effective configuration: the --config file if
// given, otherwise a discovered one, otherwise built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.Discover()
		if err != nil {
			// An explicit M_CONFIG that does not resolve is an error;
			// simply having no config file anywhere is not.
			if os.Getenv("M_CONFIG") != "" {
				return nil, err
			}
			return config.Default(), nil
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// workDir is the directory commands operate on. $PWD is preferred over
// os.Getwd so a directory entered through a symlink keeps the spelling
// the shell shows, and with it its record identity.
func workDir() string {
	if targetDir != "" {
		return targetDir
	}
	if pwd := os.Getenv("PWD"); pwd != "" {
		return pwd
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setup wires the pieces every playback command needs: resolved config,
// a session over the configured store and player, and the target
// directory.
func setup() (*config.Config, *playback.Session, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	log := newLogger(cfg)
	p, err := player.New(cfg.Player.Kind, cfg.PlayerSettings(), log)
	if err != nil {
		return nil, nil, "", err
	}
	st := store.New(cfg.Library.DataDir)
	sess := playback.NewSession(st, p, cfg.ResumeBackoff(), log)
	return cfg, sess, workDir(), nil
}
