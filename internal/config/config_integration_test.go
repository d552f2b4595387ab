package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write a config using env substitution
	cfgPath := filepath.Join(tmp, "m", "config.toml")
	content := `
[library]
data_dir = "${M_WORKFLOW_DATA_DIR}"
locale = "${M_WORKFLOW_LOCALE:-en}"

[player]
kind = "mpv"
`
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// 2. Set required env vars (t.Setenv auto-restores on cleanup)
	t.Setenv("M_WORKFLOW_DATA_DIR", filepath.Join(tmp, "state"))

	// 3. Load
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked
	if cfg.Library.DataDir != filepath.Join(tmp, "state") {
		t.Errorf("expected data_dir substituted, got %q", cfg.Library.DataDir)
	}
	if cfg.Library.Locale != "en" {
		t.Errorf("expected locale default applied, got %q", cfg.Library.Locale)
	}

	// 5. Verify defaults applied around the explicit values
	if cfg.Player.Kind != "mpv" {
		t.Errorf("expected player kind mpv, got %q", cfg.Player.Kind)
	}
	if cfg.Player.ResumeBack != "5s" {
		t.Errorf("expected default resume_back, got %q", cfg.Player.ResumeBack)
	}

	// 6. The loaded config should validate cleanly
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected clean validation, got %v", errs)
	}

	// 7. Accessors carry the loaded values through
	if opts := cfg.ScanOptions(); opts.Locale != "en" {
		t.Errorf("expected scan locale en, got %q", opts.Locale)
	}
	if ps := cfg.PlayerSettings(); ps.SampleInterval != 2*time.Second {
		t.Errorf("expected default sample interval, got %v", ps.SampleInterval)
	}
}
