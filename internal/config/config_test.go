package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  host: db.internal
  user: contents
  dbname: cms
contents:
  default_language: fr
  allowed_plugins:
    sidebar: [text.textitem]
`), 0o600))

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "fr", cfg.Contents.DefaultLanguage)
	assert.Equal(t, []string{"text.textitem"}, cfg.Contents.AllowedPlugins["sidebar"])
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "contents:output:", cfg.Contents.CacheKeyPrefix)
	assert.Equal(t, "contents:secret@tcp(db.internal:3306)/cms?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.GetDSN())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
