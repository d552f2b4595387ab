// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validPlayerKinds = map[string]bool{
	"vlc": true, "mpv": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	// Library validation
	for _, ext := range c.Library.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("library.extensions: %q must start with a dot", ext))
		}
	}
	if c.Library.Locale != "" {
		if _, err := language.Parse(c.Library.Locale); err != nil {
			errs = append(errs, fmt.Sprintf("library.locale: %q is not a valid BCP-47 tag", c.Library.Locale))
		}
	}

	// Player validation
	if !validPlayerKinds[c.Player.Kind] {
		errs = append(errs, fmt.Sprintf("player.kind: must be one of vlc, mpv; got %q", c.Player.Kind))
	}
	if d, err := time.ParseDuration(c.Player.ResumeBack); err != nil || d < 0 {
		errs = append(errs, fmt.Sprintf("player.resume_back: must be a non-negative duration, got %q", c.Player.ResumeBack))
	}
	if d, err := time.ParseDuration(c.Player.MPV.SampleInterval); err != nil || d <= 0 {
		errs = append(errs, fmt.Sprintf("player.mpv.sample_interval: must be a positive duration, got %q", c.Player.MPV.SampleInterval))
	}

	return errs
}
