package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obfusk/m/internal/store"
)

// withTargetDir temporarily sets the --dir flag value for a test and
// restores it after.
func withTargetDir(dir string) func() {
	old := targetDir
	targetDir = dir
	return func() { targetDir = old }
}

func TestWorkDir_FlagWins(t *testing.T) {
	defer withTargetDir("/media/series")()
	t.Setenv("PWD", "/elsewhere")

	assert.Equal(t, "/media/series", workDir())
}

func TestWorkDir_PWDKeepsSymlinkSpelling(t *testing.T) {
	defer withTargetDir("")()
	t.Setenv("PWD", "/media/by-title/alien")

	assert.Equal(t, "/media/by-title/alien", workDir())
}

func TestWorkDir_FallsBackToGetwd(t *testing.T) {
	defer withTargetDir("")()
	t.Setenv("PWD", "")

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, workDir())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "parseLogLevel(%q)", tt.in)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	old := configPath
	defer func() { configPath = old }()

	path := filepath.Join(t.TempDir(), "m.toml")
	require.NoError(t, os.WriteFile(path, []byte(`log_level = "debug"`), 0o644))
	configPath = path

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	old := configPath
	defer func() { configPath = old }()
	configPath = filepath.Join(t.TempDir(), "nope.toml")

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_DefaultsWhenNothingFound(t *testing.T) {
	old := configPath
	defer func() { configPath = old }()
	configPath = ""

	t.Setenv("M_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(origDir) }()
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "vlc", cfg.Player.Kind)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	old := configPath
	defer func() { configPath = old }()

	path := filepath.Join(t.TempDir(), "m.toml")
	content := `
[player]
kind = "kaffeine"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	configPath = path

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player.kind")
}

func TestFormatPosition(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{238 * time.Second, "00:03:58"},
		{3661 * time.Second, "01:01:01"},
		{25*time.Hour + 5*time.Second, "25:00:05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPosition(tt.in), "formatPosition(%v)", tt.in)
	}
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, ">", glyph(store.StatePlaying))
	assert.Equal(t, "x", glyph(store.StateDone))
	assert.Equal(t, "*", glyph(store.StateSkipped))
	assert.Equal(t, " ", glyph(store.StateNew))
}
