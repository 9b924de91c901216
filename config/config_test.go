package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "study_materials", cfg.UploadDir)
	assert.Equal(t, 3, cfg.ContextK)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "data/study.db", cfg.Store.SQLitePath)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.AI.Gemini.Model)
	assert.Equal(t, "embedding-001", cfg.AI.Gemini.EmbedModel)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.OpenAI.Model)
	assert.Equal(t, 1024, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, 200, cfg.Chunking.OverlapSize)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, `
port: "9100"
context_k: 5
store:
  backend: memory
ai:
  provider: openai
chunking:
  max_chunk_size: 512
  overlap_size: 64
`))
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 5, cfg.ContextK)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 512, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, 64, cfg.Chunking.OverlapSize)

	// Untouched keys keep their defaults
	assert.Equal(t, "study_materials", cfg.UploadDir)
}

func TestLoadConfig_SecretsFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEYS", "key-one,key-two")
	t.Setenv("WEAVIATE_APIKEY", "wv-secret")

	cfg, err := LoadConfig(writeConfigFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.AI.Gemini.APIKeys)
	assert.Equal(t, "wv-secret", cfg.Store.Weaviate.APIKey)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
