package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const (
	defaultHFBaseURL = "https://router.huggingface.co"

	// DefaultHFModel is used when the config leaves the model empty.
	DefaultHFModel = "meta-llama/Llama-3.2-3B-Instruct"
)

type hfConfig struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type hfProvider struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float64
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []chatMsg `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *hfProvider) Name() string {
	return "huggingface"
}

func (p *hfProvider) Chat(ctx context.Context, model string, system string, user string) (string, error) {
	if p.apiKey == "" {
		return "", ErrUnavailable
	}
	if model == "" {
		model = DefaultHFModel
	}
	endpoint := strings.TrimRight(p.baseURL, "/") + "/v1/chat/completions"
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

// doChatCompletion posts an OpenAI-compatible chat-completion request and
// extracts the first choice's content. extraHeaders may be nil.
func doChatCompletion(ctx context.Context, provider, endpoint, apiKey string, reqBody chatCompletionRequest, extraHeaders map[string]string) (string, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range extraHeaders {
		req.Header.Set(key, value)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return "", newRequestError(provider, resp.StatusCode, body)
	}
	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", newRequestError(provider, resp.StatusCode, []byte("response has no choices"))
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func createHFFactory(args interface{}) (Provider, error) {
	cfg := &hfConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	return &hfProvider{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     baseURL,
		maxTokens:   normMaxTokens(cfg.MaxTokens),
		temperature: normTemperature(cfg.Temperature),
	}, nil
}

func normMaxTokens(v int) int {
	if v <= 0 {
		return 1024
	}
	return v
}

func normTemperature(v float64) float64 {
	if v <= 0 {
		return 0.6
	}
	return v
}

func init() {
	Register("huggingface", createHFFactory)
}
