package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.HTTPAddr())
	assert.Equal(t, 1000, cfg.Ingest.ChunkSize)
	assert.Equal(t, 200, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, int64(50<<20), cfg.Ingest.MaxUploadBytes)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "http://localhost:8000", cfg.Client.BaseURL)
	assert.Equal(t, 60, cfg.Redis.CatalogTTLSeconds)
}

func TestLoadFromTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = 9000

[ingest]
chunk_size = 500
chunk_overlap = 50

[retrieval]
top_k = 3
`), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 500, cfg.Ingest.ChunkSize)
	assert.Equal(t, 50, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = 9000
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7777")
	t.Setenv("PDFCHAT_BASE_URL", "http://staging:8000")
	t.Setenv("RETRIEVAL_TOP_K", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.App.Port)
	assert.Equal(t, "http://staging:8000", cfg.Client.BaseURL)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
}

func TestEnvOverrideIgnoresUnparseableInt(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.App.Port)
}

func TestMySQLDSN(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("MYSQL_USER", "app")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_DB", "pdfchat")
	t.Setenv("MYSQL_PARAMS", "parseTime=true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "app:secret@tcp(db:3307)/pdfchat?parseTime=true", cfg.MySQLDSN())
}
