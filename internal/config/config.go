// Package config provides configuration management for breathe.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/breathe-cli/internal/domain"
)

// Config holds all configuration for the breathe application.
type Config struct {
	DefaultPattern string             `mapstructure:"default_pattern"`
	ShowSeconds    bool               `mapstructure:"show_seconds"`
	Selection      SelectionConfig    `mapstructure:"selection"`
	Notifications  NotificationConfig `mapstructure:"notifications"`
	Logging        LoggingConfig      `mapstructure:"logging"`
	Theme          ThemeConfig        `mapstructure:"theme"`
	Patterns       []PatternConfig    `mapstructure:"patterns"`
}

// ThemeConfig holds the colors used outside of the pattern gradients.
type ThemeConfig struct {
	ColorTitle string `mapstructure:"color_title"`
	ColorHelp  string `mapstructure:"color_help"`
	ColorTrack string `mapstructure:"color_track"`
	ColorMuted string `mapstructure:"color_muted"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorTitle: "#2C3E50",
		ColorHelp:  "#95A5A6",
		ColorTrack: "#3B3B4F",
		ColorMuted: "#6B7280",
	}
}

// SelectionConfig bounds the durations offered on the selection screen.
type SelectionConfig struct {
	MinDuration Duration `mapstructure:"min_duration"`
	MaxDuration Duration `mapstructure:"max_duration"`
	Step        Duration `mapstructure:"step"`
}

// Validate checks that the range is usable.
func (c SelectionConfig) Validate() error {
	if c.MinDuration < Duration(time.Second) {
		return fmt.Errorf("selection.min_duration must be at least 1s, got %s", c.MinDuration)
	}
	if c.MaxDuration < c.MinDuration {
		return fmt.Errorf("selection.max_duration %s is below min_duration %s", c.MaxDuration, c.MinDuration)
	}
	if c.Step < Duration(time.Second) {
		return fmt.Errorf("selection.step must be at least 1s, got %s", c.Step)
	}
	return nil
}

// Durations lists the selectable durations from min to max inclusive.
func (c SelectionConfig) Durations() []time.Duration {
	if c.Validate() != nil {
		return nil
	}
	var out []time.Duration
	for d := time.Duration(c.MinDuration); d <= time.Duration(c.MaxDuration); d += time.Duration(c.Step) {
		out = append(out, d)
	}
	return out
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig holds debug log settings. An empty file disables logging.
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// PatternConfig is a user-defined pattern from a [[patterns]] table.
type PatternConfig struct {
	ID            string   `mapstructure:"id"`
	Title         string   `mapstructure:"title"`
	Inhale        int      `mapstructure:"inhale"`
	Hold          int      `mapstructure:"hold"`
	Exhale        int      `mapstructure:"exhale"`
	HoldEmpty     int      `mapstructure:"hold_empty"`
	Duration      Duration `mapstructure:"duration"`
	Cycles        int      `mapstructure:"cycles"`
	GradientStart string   `mapstructure:"gradient_start"`
	GradientEnd   string   `mapstructure:"gradient_end"`
	TextColor     string   `mapstructure:"text_color"`
}

// ToDomain converts the table into a pattern. Colors fall back to a neutral
// palette; validation is left to the catalog.
func (p PatternConfig) ToDomain() domain.Pattern {
	pattern := domain.Pattern{
		ID:            p.ID,
		Title:         p.Title,
		Inhale:        p.Inhale,
		Hold:          p.Hold,
		Exhale:        p.Exhale,
		HoldEmpty:     p.HoldEmpty,
		DefaultCycles: p.Cycles,
		Gradient:      domain.Gradient{Start: p.GradientStart, End: p.GradientEnd},
		TextColor:     p.TextColor,
	}
	if p.Cycles == 0 {
		pattern.DefaultDuration = int(time.Duration(p.Duration) / time.Second)
	}
	if pattern.Gradient.Start == "" {
		pattern.Gradient.Start = "#CFD8DC"
	}
	if pattern.Gradient.End == "" {
		pattern.Gradient.End = "#78909C"
	}
	if pattern.TextColor == "" {
		pattern.TextColor = "#37474F"
	}
	return pattern
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultPattern: "grounding",
		ShowSeconds:    false,
		Selection: SelectionConfig{
			MinDuration: Duration(1 * time.Minute),
			MaxDuration: Duration(10 * time.Minute),
			Step:        Duration(1 * time.Minute),
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load reads the configuration at path, or at the default location when
// path is empty. A missing file yields the defaults; breathe never writes
// the file itself.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Selection.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Logging.File != "" {
		expanded, err := expandHome(cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		cfg.Logging.File = expanded
	}

	return &cfg, nil
}

// CustomPatterns converts every [[patterns]] table.
func (c *Config) CustomPatterns() []domain.Pattern {
	out := make([]domain.Pattern, 0, len(c.Patterns))
	for _, p := range c.Patterns {
		out = append(out, p.ToDomain())
	}
	return out
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".breathe", "config.toml"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("default_pattern", defaults.DefaultPattern)
	v.SetDefault("show_seconds", defaults.ShowSeconds)
	v.SetDefault("selection.min_duration", defaults.Selection.MinDuration.String())
	v.SetDefault("selection.max_duration", defaults.Selection.MaxDuration.String())
	v.SetDefault("selection.step", defaults.Selection.Step.String())
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetDefault("theme.color_title", defaults.Theme.ColorTitle)
	v.SetDefault("theme.color_help", defaults.Theme.ColorHelp)
	v.SetDefault("theme.color_track", defaults.Theme.ColorTrack)
	v.SetDefault("theme.color_muted", defaults.Theme.ColorMuted)
}
