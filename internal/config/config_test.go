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

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.QueryRatePerMinute)
	assert.Equal(t, time.Minute, cfg.Embedder.Timeout())
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
chunker:
  chunk_size: 200
  overlap: 0
generator:
  type: openai
  openai:
    model: llama-3.3-70b-versatile
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Chunker.ChunkSize)
	assert.Equal(t, 0, cfg.Chunker.Overlap)
	assert.Equal(t, "openai", cfg.Generator.Type)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Generator.OpenAI.Model)
	assert.Equal(t, "GROQ_API_KEY", cfg.Generator.OpenAI.APIKeyEnv)
	assert.Equal(t, "hashing", cfg.Embedder.Type)
	assert.InDelta(t, 0.2, cfg.Generator.OpenAI.Temperature, 1e-6)
}

func TestLoadKeepsZeroTemperature(t *testing.T) {
	cfg, err := Load(writeConfig(t, "generator:\n  openai:\n    temperature: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Generator.OpenAI.Temperature)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"overlap not below size", "chunker:\n  chunk_size: 10\n  overlap: 10\n"},
		{"negative overlap", "chunker:\n  overlap: -1\n"},
		{"unknown embedder", "embedder:\n  type: word2vec\n"},
		{"unknown generator", "generator:\n  type: magic\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"negative top_k", "retrieval:\n  top_k: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "chunker: [unclosed"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RAGQA_TOP_K", "7")
	t.Setenv("RAGQA_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("RAGQA_CHUNK_OVERLAP", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retrieval.TopK)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.Chunker.Overlap)

	t.Setenv("RAGQA_TOP_K", "many")
	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("MY_KEY", "secret")
	c := OpenAIGeneratorConfig{APIKeyEnv: "MY_KEY"}
	assert.Equal(t, "secret", c.APIKey())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Retrieval.TopK = 9
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Retrieval.TopK)
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "ragqa", "config.yaml"), path)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)
}
