package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 480*time.Minute, cfg.AccessTokenExp())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "Admin", cfg.Admin.Username)
	assert.Equal(t, "Abc@12345", cfg.Admin.Password)
	assert.False(t, cfg.Seed.SampleData)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  mode: production
  allowed_origins: ["http://a.example"]
database:
  url: postgres://file/db
  max_conns: 4
jwt:
  secret: from-file
  algorithm: HS384
  access_token_minutes: 60
seed:
  sample_data: true
logging:
  level: debug
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://x.example,http://y.example")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("JWT_ACCESS_TOKEN_MINUTES", "30")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://x.example", "http://y.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://file/db", cfg.Database.URL)
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "HS384", cfg.JWT.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExp())
	assert.True(t, cfg.Seed.SampleData)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing secret", body: "jwt: {secret: ''}", want: "JWT secret is required"},
		{name: "rsa algorithm", body: "jwt: {secret: s, algorithm: RS256}", want: "unsupported JWT algorithm"},
		{name: "zero minutes", body: "jwt: {secret: s, access_token_minutes: -1}", want: "must be positive"},
		{name: "short admin", body: "jwt: {secret: s}\nadmin: {username: ab}", want: "admin username"},
		{name: "bad timeout", body: "jwt: {secret: s}\nserver: {request_timeout: soon}", want: "request timeout"},
		{name: "empty database", body: "jwt: {secret: s}\ndatabase: {url: ' '}", want: "database url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, PathFromEnv())

	t.Setenv("CONFIG_PATH", "/etc/marksdesk.yaml")
	assert.Equal(t, "/etc/marksdesk.yaml", PathFromEnv())
}
