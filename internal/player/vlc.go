package player

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// VLC plays files with VLC and reads resume positions from the
// [RecentsMRL] section of its Qt interface configuration, which VLC
// rewrites on exit.
type VLC struct {
	binary    string
	extraArgs []string
	confPath  string
	log       *slog.Logger
}

// NewVLC creates a VLC player.
func NewVLC(cfg Config, log *slog.Logger) *VLC {
	binary := cfg.Binary
	if binary == "" {
		binary = "vlc"
	}
	conf := cfg.VLCConf
	if conf == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			conf = filepath.Join(dir, "vlc", "vlc-qt-interface.conf")
		}
	}
	return &VLC{binary: binary, extraArgs: cfg.ExtraArgs, confPath: conf, log: log}
}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath(v.binary)
	return err == nil
}

func (v *VLC) Play(ctx context.Context, path string, start time.Duration) error {
	if _, err := exec.LookPath(v.binary); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, v.binary)
	}

	args := v.args(path, start)
	v.log.Debug("launching player", "binary", v.binary, "args", args)
	if err := exec.CommandContext(ctx, v.binary, args...).Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrExit, err)
	}
	return nil
}

func (v *VLC) args(path string, start time.Duration) []string {
	args := []string{"--fullscreen", "--play-and-exit"}
	if start > 0 {
		args = append(args, "--start-time", strconv.FormatInt(int64(start.Seconds()), 10))
	}
	args = append(args, v.extraArgs...)
	return append(args, "--", path)
}

// Resume looks path up in VLC's recently-played list. The list holds one
// position per MRL in milliseconds; zero or negative means VLC considers
// the file finished.
func (v *VLC) Resume(path string) (Resume, bool) {
	data, err := os.ReadFile(v.confPath)
	if err != nil {
		return Resume{}, false
	}
	pos, ok := recentPosition(string(data), path)
	if !ok {
		return Resume{}, false
	}
	return sanitize(Resume{Position: pos})
}

// recentPosition extracts the stored position for path from the
// [RecentsMRL] section. Any malformed or partial input yields no position.
func recentPosition(conf, path string) (time.Duration, bool) {
	var list, times []string
	inSection := false
	for _, line := range strings.Split(conf, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "[RecentsMRL]":
			inSection = true
		case strings.HasPrefix(line, "["):
			inSection = false
		case inSection && strings.HasPrefix(line, "list="):
			list = splitConfList(strings.TrimPrefix(line, "list="))
		case inSection && strings.HasPrefix(line, "times="):
			times = splitConfList(strings.TrimPrefix(line, "times="))
		}
	}

	for i, raw := range list {
		if i >= len(times) {
			break
		}
		if mrlPath(raw) != path {
			continue
		}
		ms, err := strconv.ParseInt(times[i], 10, 64)
		if err != nil || ms <= 0 {
			return 0, false
		}
		return time.Duration(ms/1000) * time.Second, true
	}
	return 0, false
}

func splitConfList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// mrlPath decodes a file:// MRL into a filesystem path. Non-file MRLs
// yield "".
func mrlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return u.Path
}
