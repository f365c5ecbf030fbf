package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks a provider that has no credential configured.
var ErrUnavailable = errors.New("llm provider unavailable")

// RequestError is a non-2xx reply from a hosted provider. Body is
// truncated to keep diagnostics bounded.
type RequestError struct {
	Provider string
	Status   int
	Body     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.Status, e.Body)
}

const maxErrorBody = 300

func newRequestError(provider string, status int, body []byte) *RequestError {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return &RequestError{Provider: provider, Status: status, Body: text}
}

// Provider is one hosted chat-completion backend. Implementations return
// ErrUnavailable when no credential is configured.
type Provider interface {
	Name() string
	Chat(ctx context.Context, model string, system string, user string) (string, error)
}

type ProviderFactory func(args interface{}) (Provider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(name string, args interface{}) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("llm provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported llm provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode provider config: %w", err)
	}
	return nil
}

// Chatter is a provider bound to a model name.
type Chatter interface {
	Chat(ctx context.Context, system string, user string) (string, error)
}

type chatter struct {
	provider Provider
	model    string
}

func NewChatter(p Provider, model string) Chatter {
	return &chatter{provider: p, model: model}
}

func (c *chatter) Chat(ctx context.Context, system string, user string) (string, error) {
	return c.provider.Chat(ctx, c.model, system, user)
}
