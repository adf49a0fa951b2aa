package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CANVAS_HTTP_ADDR", "")
	t.Setenv("CANVAS_LOG_LEVEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", c.HTTPAddr)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "canvas.yaml", `
http_addr: ":8080"
log_level: debug
layout:
  start_x: 40
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, Layout{StartX: 40, StartY: 100}, c.Layout)
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "canvas.toml", `
database_url = "postgres://localhost/canvas"

[layout]
start_y = 250.0
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/canvas", c.DatabaseURL)
	assert.Equal(t, Layout{StartX: 100, StartY: 250}, c.Layout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "canvas.yaml", "http_addr: \":8080\"\nlog_level: warn\n")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("CANVAS_HTTP_ADDR", ":9999")
	t.Setenv("CANVAS_LOG_LEVEL", "")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", c.DatabaseURL)
	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeFile(t, "bad.yaml", "http_addr: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", "http_addr = "))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "empty.yaml", `http_addr: ""`))
	assert.ErrorContains(t, err, "http_addr is required")
}
