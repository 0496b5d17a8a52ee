package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "lodging"
password = "secret"
dbname = "lodging"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t,
		"host=localhost port=5432 user=lodging password=secret dbname=lodging sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
dbname = "lodging"
password = "from-file"

[slack]
enabled = true
`)
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.example.com/T000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "https://hooks.example.com/T000", cfg.Slack.WebhookURL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := writeConfig(t, `
[database]
dbname = "lodging"
`)
	t.Setenv("DB_HOST", "")
	_, err = Load(path)
	assert.Error(t, err)
}
