// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultTimeout          = 3 * time.Second
	DefaultHideGap          = 250 * time.Millisecond
	DefaultSwipeSpeed       = 1.0
	DefaultSwipeDistance    = 90.0
	DefaultMinSwipeDistance = 20.0
	DefaultCellWidth        = 8.0
	DefaultTemplate         = "default"
	DefaultVolume           = 80
	DefaultMetricsAddr      = "127.0.0.1:9464"
	DefaultToastBackground  = "#3c3c3c"
	DefaultToastForeground  = "#f0f0f0"
	DefaultStatusFill       = "#1f6feb"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from the file extension. Anything that is
// not .yaml or .yml is read as TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Config represents the toastframe configuration.
type Config struct {
	Toast   ToastConfig   `toml:"toast" yaml:"toast"`
	Gesture GestureConfig `toml:"gesture" yaml:"gesture"`
	Layout  LayoutConfig  `toml:"layout" yaml:"layout"`
	Theme   ThemeConfig   `toml:"theme" yaml:"theme"`
	Audio   AudioConfig   `toml:"audio" yaml:"audio"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// ToastConfig holds queue timing.
type ToastConfig struct {
	Timeout Duration `toml:"timeout" yaml:"timeout"`   // e.g. "3s" or 3000
	HideGap Duration `toml:"hide_gap" yaml:"hide_gap"` // pause between two toasts
}

// GestureConfig holds the swipe-to-dismiss thresholds.
// Distances are in device-independent units, speed in units per millisecond.
type GestureConfig struct {
	SwipeSpeed       float64 `toml:"swipe_speed" yaml:"swipe_speed"`
	SwipeDistance    float64 `toml:"swipe_distance" yaml:"swipe_distance"`
	MinSwipeDistance float64 `toml:"min_swipe_distance" yaml:"min_swipe_distance"`
	CellWidth        float64 `toml:"cell_width" yaml:"cell_width"` // units per terminal column
}

// LayoutConfig contains layout template settings.
type LayoutConfig struct {
	Template     string `toml:"template" yaml:"template"`           // Template name without .xml extension
	TemplatesDir string `toml:"templates_dir" yaml:"templates_dir"` // Empty = <config dir>/templates
}

// ThemeConfig holds toast and status bar colors.
// Colors are "#rgb", "#rrggbb" or an ANSI color number.
type ThemeConfig struct {
	ToastBackground string `toml:"toast_background" yaml:"toast_background"`
	ToastForeground string `toml:"toast_foreground" yaml:"toast_foreground"`
	StatusFill      string `toml:"status_fill" yaml:"status_fill"`
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled" yaml:"enabled"`
	Volume  int         `toml:"volume" yaml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds" yaml:"sounds"`
}

// SoundConfig contains per-kind sound file paths.
type SoundConfig struct {
	Actionable    string `toml:"actionable" yaml:"actionable"`
	Informational string `toml:"informational" yaml:"informational"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toast: ToastConfig{
			Timeout: Duration(DefaultTimeout),
			HideGap: Duration(DefaultHideGap),
		},
		Gesture: GestureConfig{
			SwipeSpeed:       DefaultSwipeSpeed,
			SwipeDistance:    DefaultSwipeDistance,
			MinSwipeDistance: DefaultMinSwipeDistance,
			CellWidth:        DefaultCellWidth,
		},
		Layout: LayoutConfig{
			Template: DefaultTemplate,
		},
		Theme: ThemeConfig{
			ToastBackground: DefaultToastBackground,
			ToastForeground: DefaultToastForeground,
			StatusFill:      DefaultStatusFill,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  DefaultVolume,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    DefaultMetricsAddr,
		},
	}
}

// ConfigDir returns the toastframe configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastframe")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// TemplatesPath returns the directory user layout templates are read from.
func (c *Config) TemplatesPath() string {
	if c.Layout.TemplatesDir != "" {
		return expandPath(c.Layout.TemplatesDir)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "templates")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.Decode(data, FormatForPath(path)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Decode overlays data onto c.
func (c *Config) Decode(data []byte, format Format) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, c)
	}
	return toml.Unmarshal(data, c)
}

// Encode renders c in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(c)
	}
	return toml.Marshal(c)
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Encode(FormatForPath(path))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validColor accepts an empty string, a hex color or an ANSI color number.
func validColor(s string) bool {
	if s == "" || hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Toast.Timeout.Duration() < 100*time.Millisecond {
		return fmt.Errorf("toast timeout must be at least 100ms, got %s", c.Toast.Timeout.Duration())
	}
	if c.Toast.HideGap.Duration() < 0 || c.Toast.HideGap.Duration() > 5*time.Second {
		return fmt.Errorf("hide_gap must be between 0 and 5s, got %s", c.Toast.HideGap.Duration())
	}

	g := c.Gesture
	if g.SwipeSpeed <= 0 {
		return fmt.Errorf("swipe_speed must be positive, got %g", g.SwipeSpeed)
	}
	if g.MinSwipeDistance <= 0 || g.SwipeDistance <= 0 {
		return fmt.Errorf("swipe distances must be positive, got min=%g distance=%g", g.MinSwipeDistance, g.SwipeDistance)
	}
	if g.MinSwipeDistance >= g.SwipeDistance {
		return fmt.Errorf("min_swipe_distance (%g) must be less than swipe_distance (%g)", g.MinSwipeDistance, g.SwipeDistance)
	}
	if g.CellWidth <= 0 {
		return fmt.Errorf("cell_width must be positive, got %g", g.CellWidth)
	}

	for name, color := range map[string]string{
		"toast_background": c.Theme.ToastBackground,
		"toast_foreground": c.Theme.ToastForeground,
		"status_fill":      c.Theme.StatusFill,
	} {
		if !validColor(color) {
			return fmt.Errorf("invalid %s color %q, must be #rgb, #rrggbb or 0-255", name, color)
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New("metrics addr must be set when metrics are enabled")
	}

	return nil
}

// SoundFor returns the sound path for a toast kind name, with ~ expanded.
func (c *Config) SoundFor(kind string) string {
	switch kind {
	case "informational":
		return expandPath(c.Audio.Sounds.Informational)
	default:
		return expandPath(c.Audio.Sounds.Actionable)
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
