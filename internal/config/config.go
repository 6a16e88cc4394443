// Package config provides configuration management for the signal dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"signal-desk/internal/errors"
	"signal-desk/internal/models"
)

// Bounds for the display and push limits. Values outside the range are
// rejected by Validate; zero values fall back to the defaults.
const (
	MinRows     = 50
	MaxRows     = 300
	DefaultRows = 200

	MinPush     = 5
	MaxPush     = 50
	DefaultPush = 20
)

// Config holds all application configuration. It is loaded once at startup
// and passed into the pipeline as an immutable value; the pipeline itself
// never reads environment state.
type Config struct {
	Sources       SourcesConfig      `mapstructure:"sources"`
	Display       DisplayConfig      `mapstructure:"display"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Server        ServerConfig       `mapstructure:"server"`
}

// SourcesConfig holds the four scan feed locations. Each is either an
// HTTP(S) URL or a local file path.
type SourcesConfig struct {
	AM    string `mapstructure:"am"`
	Open  string `mapstructure:"open"`
	Lunch string `mapstructure:"lunch"`
	Power string `mapstructure:"power"`
}

// DisplayConfig holds presentation limits.
type DisplayConfig struct {
	MaxRows   int `mapstructure:"max_rows"`   // ranked rows shown, bounded 50-300
	PushCount int `mapstructure:"push_count"` // rows included in a push, bounded 5-50
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

// TelegramConfig holds Telegram push configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// WebhookConfig holds generic webhook push configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// ServerConfig holds dashboard server configuration.
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	RefreshInterval string `mapstructure:"refresh_interval"`
	JournalPath     string `mapstructure:"journal_path"`
}

// ParseRefreshInterval returns the dashboard refresh interval.
func (s ServerConfig) ParseRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/signal-desk"
	}
	return filepath.Join(home, ".config", "signal-desk")
}

// Default returns a Config with sensible defaults. The feed locations default
// to the local filenames the upstream bot writes next to the binary.
func Default() *Config {
	return &Config{
		Sources: SourcesConfig{
			AM:    "am_runners.json",
			Open:  "open_confirm.json",
			Lunch: "lunch_patterns.json",
			Power: "power_hour.json",
		},
		Display: DisplayConfig{
			MaxRows:   DefaultRows,
			PushCount: DefaultPush,
		},
		Notifications: NotificationConfig{},
		Server: ServerConfig{
			Port:            8080,
			RefreshInterval: "5m",
			JournalPath:     filepath.Join(DefaultConfigDir(), "desk.db"),
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AM_URL"); v != "" {
		cfg.Sources.AM = v
	}
	if v := os.Getenv("OPEN_URL"); v != "" {
		cfg.Sources.Open = v
	}
	if v := os.Getenv("LUNCH_URL"); v != "" {
		cfg.Sources.Lunch = v
	}
	if v := os.Getenv("POWER_URL"); v != "" {
		cfg.Sources.Power = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
		cfg.Notifications.Telegram.Enabled = true
		cfg.Notifications.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
		cfg.Notifications.Webhook.Enabled = true
		cfg.Notifications.Enabled = true
	}
}

// Validate validates the configuration. Zero limits fall back to defaults;
// out-of-range limits are an error.
func (c *Config) Validate() error {
	if c.Display.MaxRows == 0 {
		c.Display.MaxRows = DefaultRows
	}
	if c.Display.PushCount == 0 {
		c.Display.PushCount = DefaultPush
	}
	if c.Display.MaxRows < MinRows || c.Display.MaxRows > MaxRows {
		return errors.NewValidationError("display.max_rows", c.Display.MaxRows,
			fmt.Sprintf("must be between %d and %d", MinRows, MaxRows))
	}
	if c.Display.PushCount < MinPush || c.Display.PushCount > MaxPush {
		return errors.NewValidationError("display.push_count", c.Display.PushCount,
			fmt.Sprintf("must be between %d and %d", MinPush, MaxPush))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewValidationError("server.port", c.Server.Port, "must be a valid port number")
	}
	return nil
}

// ScanSources returns the configured scans in fixed display order, paired
// with their human-facing tags.
func (c *Config) ScanSources() []ScanSource {
	return []ScanSource{
		{ID: models.ScanPremarket, Tag: "08:00 Squeeze", Source: c.Sources.AM},
		{ID: models.ScanOpen, Tag: "10:00 Confirm", Source: c.Sources.Open},
		{ID: models.ScanLunch, Tag: "13:45 Pattern", Source: c.Sources.Lunch},
		{ID: models.ScanPower, Tag: "15:15 Power", Source: c.Sources.Power},
	}
}

// ScanSource pairs a scan id and tag with its feed location.
type ScanSource struct {
	ID     models.ScanID
	Tag    string
	Source string
}
