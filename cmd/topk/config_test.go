package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.K)
	assert.Equal(t, "\t", cfg.Input.Delimiter)
	assert.Equal(t, 1, cfg.Input.Field)
	assert.Equal(t, "\t", cfg.outputDelimiter())
	assert.Len(t, cfg.selectOptions(), 4)
	assert.Len(t, cfg.scannerOptions(), 4)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("OverridesDefaults", func(t *testing.T) {
		path := filepath.Join(dir, "topk.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
k: 3
order: asc
input:
  delimiter: ","
  field: 2
parallel:
  insertion: binary
  combine: fold
s3:
  endpoint: localhost:9000
  secure: false
  download_concurrency: 8
  part_size: 16777216
`), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, 3, cfg.K)
		assert.Equal(t, "asc", cfg.Order)
		assert.Equal(t, ",", cfg.Input.Delimiter)
		assert.Equal(t, 2, cfg.Input.Field)
		assert.Equal(t, 0, cfg.Input.KeyField)
		assert.Equal(t, "binary", cfg.Parallel.Insertion)
		assert.Equal(t, "fold", cfg.Parallel.Combine)
		assert.Equal(t, "localhost:9000", cfg.S3.Endpoint)
		assert.False(t, cfg.S3.Secure)
		assert.Equal(t, 8, cfg.S3.DownloadConcurrency)
		assert.Equal(t, int64(16<<20), cfg.S3.PartSize)
		assert.Len(t, cfg.s3Options(), 2)

		// Untouched settings keep their defaults.
		assert.Equal(t, DefaultConfig().Parallel.BatchSize, cfg.Parallel.BatchSize)
	})

	t.Run("UnknownField", func(t *testing.T) {
		path := filepath.Join(dir, "typo.yaml")
		require.NoError(t, os.WriteFile(path, []byte("kk: 3\n"), 0o600))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfigS3Options(t *testing.T) {
	cfg := DefaultConfig()
	assert.Len(t, cfg.s3Options(), 1, "part size is left to the downloader by default")

	cfg.S3.PartSize = 8 << 20
	assert.Len(t, cfg.s3Options(), 2)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative k", func(c *Config) { c.K = -1 }},
		{"unknown order", func(c *Config) { c.Order = "sideways" }},
		{"negative field", func(c *Config) { c.Input.Field = -1 }},
		{"same columns", func(c *Config) { c.Input.Field = 0 }},
		{"negative read limit", func(c *Config) { c.Input.ReadLimit = -5 }},
		{"negative line size", func(c *Config) { c.Input.MaxLineSize = -1 }},
		{"negative concurrency", func(c *Config) { c.Input.Concurrency = -1 }},
		{"negative workers", func(c *Config) { c.Parallel.Workers = -1 }},
		{"unknown insertion", func(c *Config) { c.Parallel.Insertion = "heap" }},
		{"unknown combine", func(c *Config) { c.Parallel.Combine = "random" }},
		{"negative download concurrency", func(c *Config) { c.S3.DownloadConcurrency = -1 }},
		{"negative part size", func(c *Config) { c.S3.PartSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
