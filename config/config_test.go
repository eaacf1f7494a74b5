package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/engagevoice/engagevoice"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
client_id: my-client
client_secret: my-secret
username: agent@example.com
password: hunter2
token_file: /tmp/ev-token.json
logging:
  level: debug
  format: json
  color: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-client", cfg.ClientID)
	assert.Equal(t, "my-secret", cfg.ClientSecret)
	assert.Equal(t, engagevoice.DefaultServer, cfg.Server)
	assert.Equal(t, engagevoice.DefaultIdentityServer, cfg.IdentityServer)
	assert.Equal(t, engagevoice.DefaultAPIPrefix, cfg.APIPrefix)
	assert.Equal(t, "agent@example.com", cfg.Username)
	assert.Equal(t, "/tmp/ev-token.json", cfg.TokenFile)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json", Color: false}, cfg.Logging)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
client_id: from-file
client_secret: secret
`)
	t.Setenv("ENGAGEVOICE_CLIENT_ID", "from-env")
	t.Setenv("ENGAGEVOICE_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.ClientID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadLegacyServerWithoutClientCredentials(t *testing.T) {
	path := writeConfig(t, `
server: https://portal.vacd.biz
username: admin
password: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, engagevoice.LegacyServer, cfg.Server)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ClientID:       "id",
			ClientSecret:   "secret",
			Server:         engagevoice.DefaultServer,
			IdentityServer: engagevoice.DefaultIdentityServer,
			Logging:        LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid modern",
			mutate: func(*Config) {},
		},
		{
			name: "valid legacy without client credentials",
			mutate: func(c *Config) {
				c.Server = "https://portal.virtualacd.biz"
				c.ClientID, c.ClientSecret = "", ""
			},
		},
		{
			name:    "missing server",
			mutate:  func(c *Config) { c.Server = "" },
			wantErr: "server is required",
		},
		{
			name:    "relative server",
			mutate:  func(c *Config) { c.Server = "engage.ringcentral.com" },
			wantErr: "server must be an absolute URL",
		},
		{
			name:    "relative identity server",
			mutate:  func(c *Config) { c.IdentityServer = "/restapi" },
			wantErr: "identity_server must be an absolute URL",
		},
		{
			name:    "modern without client id",
			mutate:  func(c *Config) { c.ClientID = "" },
			wantErr: "client_id and client_secret are required",
		},
		{
			name:    "invalid level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "invalid format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
