package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"RAG_BACKEND_URL", "HUGGINGFACE_API_KEY", "HF_MODEL", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, 300, cfg.RAG.TimeoutSeconds)
	require.Equal(t, 60, cfg.AI.TimeoutSeconds)
	require.Equal(t, 1024, cfg.AI.MaxTokens)
	require.InDelta(t, 0.6, cfg.AI.Temperature, 0.0001)
	require.Equal(t, "memory", cfg.KVStore.Type)
	require.Equal(t, "30 3 * * *", cfg.Retention.Cron)
	require.Zero(t, cfg.Retention.MaxAgeDays)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"port": 9000,
		"rag": {"backend_url": "http://localhost:8000", "timeout_seconds": 30},
		"ai": {"huggingface": {"api_key": "hf-key", "model": "my-model"}},
		"kvstore": {"type": "local", "data": {"dir": "/tmp/kv"}},
		"retention": {"max_age_days": 30}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "http://localhost:8000", cfg.RAG.BackendURL)
	require.Equal(t, 30, cfg.RAG.TimeoutSeconds)
	require.Equal(t, "hf-key", cfg.AI.HuggingFace.APIKey)
	require.Equal(t, "my-model", cfg.AI.HuggingFace.Model)
	require.Equal(t, "local", cfg.KVStore.Type)
	require.Equal(t, 30, cfg.Retention.MaxAgeDays)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RAG_BACKEND_URL", "http://rag:8000")
	t.Setenv("HUGGINGFACE_API_KEY", "env-hf")
	t.Setenv("HF_MODEL", "env-model")
	t.Setenv("OPENAI_API_KEY", "env-oa")
	t.Setenv("GEMINI_API_KEY", "env-gm")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://rag:8000", cfg.RAG.BackendURL)
	require.Equal(t, "env-hf", cfg.AI.HuggingFace.APIKey)
	require.Equal(t, "env-model", cfg.AI.HuggingFace.Model)
	require.Equal(t, "env-oa", cfg.AI.OpenAI.APIKey)
	require.Equal(t, "env-gm", cfg.AI.Gemini.APIKey)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rag": {"backend_url": "http://file:8000"}}`), 0o644))
	t.Setenv("RAG_BACKEND_URL", "http://env:8000")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://env:8000", cfg.RAG.BackendURL)
}

func TestLoadRejectsNegativeRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"retention": {"max_age_days": -1}}`), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
