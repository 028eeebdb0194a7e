package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(orig) }) //nolint:errcheck
}

func TestLoad_Defaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "intake.db", cfg.Store.Path)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)
	assert.Equal(t, 20, cfg.Anthropic.TimeoutSecs)
	assert.True(t, cfg.Anthropic.Enabled)
	assert.Equal(t, 3, cfg.Intake.FormFieldThreshold)
	assert.Equal(t, "pdf", cfg.DocParse.Provider)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chTempDir(t)
	t.Setenv("INTAKE_STORE_DRIVER", "memory")
	t.Setenv("INTAKE_LOG_LEVEL", "debug")
	t.Setenv("INTAKE_INTAKE_FORM_FIELD_THRESHOLD", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Intake.FormFieldThreshold)
}

func TestLoad_ConfigFile(t *testing.T) {
	chTempDir(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte(`
store:
  driver: postgres
  database_url: postgres://localhost/intake
server:
  port: 9090
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/intake", cfg.Store.DatabaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Intake.FormFieldThreshold)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "verbose", Format: "json"}))
}
