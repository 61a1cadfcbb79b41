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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  mode: test
database:
  driver: sqlite
  dsn: ./cricbase.db
  conn_max_lifetime: 30m
ingest:
  cricsheet_dir: ./t20s
  resolver: auto
schedule:
  source: file
  cache_file: ./schedule.yaml
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "auto", cfg.Ingest.Resolver)
	assert.Equal(t, "file", cfg.Schedule.Source)

	// 默认值
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 400, cfg.Schedule.PageSize)
	assert.Equal(t, []string{"3", "13"}, cfg.Schedule.CompTypeIDs)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n  dsn: a.db\n")
	t.Setenv("CRICBASE_DATABASE_DSN", "b.db")
	t.Setenv("CRICBASE_CRICSHEET_DIR", "/data/t20s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "b.db", cfg.Database.DSN)
	assert.Equal(t, "/data/t20s", cfg.Ingest.CricsheetDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "database:\n  driver: mysql\n"))
	assert.ErrorContains(t, err, "mysql")

	_, err = LoadConfig(writeConfig(t, "ingest:\n  resolver: prompt\n"))
	assert.ErrorContains(t, err, "prompt")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetGORMConfig(t *testing.T) {
	d := DatabaseConfig{LogLevel: "silent"}
	cfg := d.GetGORMConfig()
	assert.True(t, cfg.TranslateError)
	assert.NotNil(t, cfg.Logger)

	d.LogLevel = "bogus"
	assert.NotNil(t, d.GetGORMConfig().Logger)
}
