package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	UI     UIConfig
	Log    LogConfig
}

// ServerConfig holds remote API settings.
type ServerConfig struct {
	URL            string
	TokenEnv       string
	Token          string
	TimeoutSeconds int
	RatePerSecond  float64
	RateBurst      int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize int
	// WebBase is the server's web frontend, used to derive detail URLs
	// for navigation actions.
	WebBase string
}

// LogConfig holds file logging settings.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use
// prefix STOCKGRID_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.url", "http://localhost:8000")
	v.SetDefault("server.token_env", "STOCKGRID_TOKEN")
	v.SetDefault("server.token", "")
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.rate_per_second", 10.0)
	v.SetDefault("server.rate_burst", 5)
	v.SetDefault("ui.page_size", 25)
	v.SetDefault("ui.web_base", "")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "stockgrid", "stockgrid.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("STOCKGRID_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "stockgrid"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STOCKGRID")
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

// Token resolves the API token, preferring the environment variable
// over the value stored in the config file.
func (c Config) Token() string {
	if c.Server.TokenEnv != "" {
		if t := os.Getenv(c.Server.TokenEnv); t != "" {
			return t
		}
	}
	return c.Server.Token
}

// Save writes the provided config to disk, creating the config
// directory if needed. The token is stored in plain text; prefer the
// env var for anything shared.
func Save(cfg Config) error {
	path := os.Getenv("STOCKGRID_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "stockgrid", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.token_env", cfg.Server.TokenEnv)
	v.Set("server.token", cfg.Server.Token)
	v.Set("server.timeout_seconds", cfg.Server.TimeoutSeconds)
	v.Set("server.rate_per_second", cfg.Server.RatePerSecond)
	v.Set("server.rate_burst", cfg.Server.RateBurst)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.web_base", cfg.UI.WebBase)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
