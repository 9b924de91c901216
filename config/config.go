package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string         `mapstructure:"port"`
	UploadDir string         `mapstructure:"upload_dir"`
	ContextK  int            `mapstructure:"context_k"`
	Store     StoreConfig    `mapstructure:"store"`
	AI        AIConfig       `mapstructure:"ai"`
	Chunking  ChunkingConfig `mapstructure:"chunking"`
}

type StoreConfig struct {
	Backend    string              `mapstructure:"backend"`
	SQLitePath string              `mapstructure:"sqlite_path"`
	Weaviate   WeaviateStoreConfig `mapstructure:"weaviate"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"api_key"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	EmbedModel string `mapstructure:"embed_model"`
}

type GeminiConfig struct {
	APIKeys    []string `mapstructure:"api_keys"`
	Model      string   `mapstructure:"model"`
	EmbedModel string   `mapstructure:"embed_model"`
}

type ChunkingConfig struct {
	MaxChunkSize int `mapstructure:"max_chunk_size"`
	OverlapSize  int `mapstructure:"overlap_size"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8000")
	v.SetDefault("upload_dir", "study_materials")
	v.SetDefault("context_k", 3)
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.sqlite_path", "data/study.db")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.embed_model", "text-embedding-3-small")
	v.SetDefault("ai.gemini.model", "gemini-1.5-pro")
	v.SetDefault("ai.gemini.embed_model", "embedding-001")
	v.SetDefault("chunking.max_chunk_size", 1024)
	v.SetDefault("chunking.overlap_size", 200)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Secrets come from the environment, never the file. A comma-separated
	// GEMINI_API_KEYS is split by the decoder.
	v.BindEnv("ai.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.gemini.api_keys", "GEMINI_API_KEYS")
	v.BindEnv("store.weaviate.api_key", "WEAVIATE_APIKEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
