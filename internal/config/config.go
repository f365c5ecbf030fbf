package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	RAG           RAGConfig        `json:"rag"`
	AI            AIConfig         `json:"ai"`
	KVStore       KVStoreConfig    `json:"kvstore"`
	Chunks        ChunksConfig     `json:"chunks"`
	Retention     RetentionConfig  `json:"retention"`
}

// RAGConfig points at the external RAG backend. When BackendURL is empty
// the chat orchestrator falls back to local retrieval + hosted generation.
type RAGConfig struct {
	BackendURL     string `json:"backend_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type ProviderConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

type AIConfig struct {
	HuggingFace    ProviderConfig `json:"huggingface"`
	OpenAI         ProviderConfig `json:"openai"`
	Gemini         ProviderConfig `json:"gemini"`
	TimeoutSeconds int            `json:"timeout_seconds"`
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float64        `json:"temperature"`
}

type KVStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type ChunksConfig struct {
	ExtraPath string `json:"extra_path"`
}

// RetentionConfig controls the stale-thread cleanup job. MaxAgeDays 0
// disables it.
type RetentionConfig struct {
	Cron       string `json:"cron"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Load reads the JSON config at path (optional: an empty path yields pure
// defaults) and applies environment overrides for backend addresses and
// credentials, matching the original deployment's env-first behavior.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	applyEnvOverrides(&cfg)

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.RAG.TimeoutSeconds == 0 {
		cfg.RAG.TimeoutSeconds = 300
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 1024
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.6
	}
	if cfg.KVStore.Type == "" {
		cfg.KVStore.Type = "memory"
	}
	if cfg.Retention.Cron == "" {
		cfg.Retention.Cron = "30 3 * * *"
	}
	if cfg.Retention.MaxAgeDays < 0 {
		return nil, fmt.Errorf("retention.max_age_days must be >= 0")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RAG_BACKEND_URL"); v != "" {
		cfg.RAG.BackendURL = v
	}
	if v := os.Getenv("HUGGINGFACE_API_KEY"); v != "" {
		cfg.AI.HuggingFace.APIKey = v
	}
	if v := os.Getenv("HF_MODEL"); v != "" {
		cfg.AI.HuggingFace.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.AI.Gemini.APIKey = v
	}
}
