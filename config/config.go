package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/engagevoice/engagevoice"
)

// EnvPrefix is the prefix for environment overrides, e.g. ENGAGEVOICE_CLIENT_ID
const EnvPrefix = "ENGAGEVOICE"

// Load loads the configuration from file and environment.
// A missing config file is not an error when no explicit path is given.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".engagevoice"))
		}

		// Check /etc
		v.AddConfigPath("/etc/engagevoice/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Connection defaults
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("server", engagevoice.DefaultServer)
	v.SetDefault("identity_server", engagevoice.DefaultIdentityServer)
	v.SetDefault("api_prefix", engagevoice.DefaultAPIPrefix)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("token_file", defaultTokenFile())

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func defaultTokenFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".engagevoice", "token.json")
	}
	return "engagevoice-token.json"
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := validateURL("server", cfg.Server); err != nil {
		return err
	}

	if !engagevoice.DetectServerMode(cfg.Server).IsLegacy() {
		if err := validateURL("identity_server", cfg.IdentityServer); err != nil {
			return err
		}
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return fmt.Errorf("client_id and client_secret are required for %s", cfg.Server)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL: %q", key, raw)
	}
	return nil
}
