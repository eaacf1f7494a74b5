package config

// Config represents the complete configuration structure
type Config struct {
	ClientID       string        `mapstructure:"client_id"`
	ClientSecret   string        `mapstructure:"client_secret"`
	Server         string        `mapstructure:"server"`
	IdentityServer string        `mapstructure:"identity_server"`
	APIPrefix      string        `mapstructure:"api_prefix"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	TokenFile      string        `mapstructure:"token_file"`
	Logging        LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
