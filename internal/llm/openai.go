package llm

import (
	"context"
	"strings"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultOpenAIModel is used when the config leaves the model empty.
	DefaultOpenAIModel = "gpt-4o-mini"
)

type openAIConfig struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type openAIProvider struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float64
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Chat(ctx context.Context, model string, system string, user string) (string, error) {
	if p.apiKey == "" {
		return "", ErrUnavailable
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/chat/completions"
	return doChatCompletion(ctx, p.Name(), endpoint, p.apiKey, chatCompletionRequest{
		Model: model,
		Messages: []chatMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}, nil)
}

func createOpenAIFactory(args interface{}) (Provider, error) {
	cfg := &openAIConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAIProvider{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     baseURL,
		maxTokens:   normMaxTokens(cfg.MaxTokens),
		temperature: normTemperature(cfg.Temperature),
	}, nil
}

func init() {
	Register("openai", createOpenAIFactory)
}
