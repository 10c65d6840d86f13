// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers file and environment values over the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// SnapshotDir is the directory contest snapshots are loaded from.
	SnapshotDir string `koanf:"snapshot_dir" validate:"required"`

	// ReloadInterval sets how often SnapshotDir is reloaded. Zero disables
	// periodic reloads.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`

	// MaxParticipations caps the participations of one contest. Zero
	// disables the cap.
	MaxParticipations int `koanf:"max_participations" validate:"gte=0"`

	// DefaultLocale is the name collation locale for contests without one.
	DefaultLocale string `koanf:"default_locale" validate:"required"`

	// DefaultLanguage is the detailed report language used when a request
	// names none.
	DefaultLanguage string `koanf:"default_language" validate:"required"`

	// DefaultScoreMode applies to tasks without a score mode.
	DefaultScoreMode string `koanf:"default_score_mode" validate:"oneof=max max_tokened_last"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		SnapshotDir:      "snapshots",
		ReloadInterval:   30 * time.Second,
		DefaultLocale:    "en",
		DefaultLanguage:  "en",
		DefaultScoreMode: "max",
		ShutdownTimeout:  10 * time.Second,
	}
}

// Locale returns the parsed default collation locale.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.DefaultLocale)
	if err != nil {
		return language.English
	}
	return tag
}

// Language returns the parsed default report language.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.DefaultLanguage)
	if err != nil {
		return language.English
	}
	return tag
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that both language settings parse.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("%w: %w: default_locale %q: %w", ErrInvalidConfig, ErrInvalidLanguage, c.DefaultLocale, err)
	}
	if _, err := language.Parse(c.DefaultLanguage); err != nil {
		return fmt.Errorf("%w: %w: default_language %q: %w", ErrInvalidConfig, ErrInvalidLanguage, c.DefaultLanguage, err)
	}
	return nil
}
