package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Remote   RemoteConfig
	Server   ServerConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// RemoteConfig holds remote table-store settings. An empty base URL runs
// the dashboard local-only.
type RemoteConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	APIKeyHeader string `mapstructure:"api_key_header"`
}

// ServerConfig holds HTTP settings for the UI-facing API.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone       string
	WeekStart      string `mapstructure:"week_start"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Load reads configuration from file and env. Env var overrides use prefix PAINEL_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "painel", "painel.db"))
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.api_key_header", "X-API-Key")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("ui.timezone", "America/Sao_Paulo")
	v.SetDefault("ui.week_start", "sunday")
	v.SetDefault("ui.currency_symbol", "R$")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PAINEL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "painel"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PAINEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// WeekStartDay maps the configured week start onto a time.Weekday. Unknown
// values fall back to Sunday.
func (c UIConfig) WeekStartDay() time.Weekday {
	switch strings.ToLower(strings.TrimSpace(c.WeekStart)) {
	case "monday":
		return time.Monday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

// Location resolves the configured timezone, falling back to local time.
func (c UIConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
