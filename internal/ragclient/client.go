package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// DefaultTimeout bounds one query to the external RAG backend. Agentic
// backends can be slow, so the bound is generous.
const DefaultTimeout = 5 * time.Minute

// VideoContext tells the backend which chapter video the user is watching
// and where. Timestamp is "MM:SS" or "H:MM:SS".
type VideoContext struct {
	VideoName *string `json:"video_name"`
	Timestamp *string `json:"timestamp"`
}

type QueryRequest struct {
	Query          string        `json:"query"`
	ConversationID *string       `json:"conversation_id"`
	VideoContext   *VideoContext `json:"video_context,omitempty"`
	Image          string        `json:"image,omitempty"`
	ImageMimeType  string        `json:"image_mime_type,omitempty"`
}

type QueryResponse struct {
	Response       string        `json:"response"`
	ConversationID string        `json:"conversation_id"`
	Steps          []interface{} `json:"steps"`
	Error          string        `json:"error"`
}

// BackendError is a non-2xx reply from the backend's query endpoint.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("rag backend rejected request: status %d: %s", e.Status, e.Message)
}

// UnreachableError is a network-level failure before any HTTP status was
// produced. Hint carries operator guidance.
type UnreachableError struct {
	Hint  string
	cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("rag backend unreachable: %v", e.cause)
}

func (e *UnreachableError) Unwrap() error {
	return e.cause
}

type Client struct {
	baseURL string
	client  *http.Client
}

// New returns nil when baseURL is empty, which callers use as "external
// backend not configured".
func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query forwards one user turn to the backend and returns its answer.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, c.unreachable(err)
	}
	defer resp.Body.Close()

	var out QueryResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := out.Error
		if message == "" {
			message = "RAG 後端錯誤"
		}
		return nil, &BackendError{Status: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode rag response: %w", decodeErr)
	}
	return &out, nil
}

// NewConversation asks the backend to discard a server-side conversation.
// Callers treat failures as best-effort.
func (c *Client) NewConversation(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return nil
	}
	payload := map[string]string{"conversation_id": conversationID}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/conversation/new", bytes.NewReader(data))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return c.unreachable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var out QueryResponse
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return &BackendError{Status: resp.StatusCode, Message: out.Error}
	}
	return nil
}

func (c *Client) unreachable(err error) *UnreachableError {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &UnreachableError{
			Hint:  fmt.Sprintf("請確認 RAG 後端已啟動（%s），或移除設定中的 RAG_BACKEND_URL 以改用本地 RAG。", c.baseURL),
			cause: err,
		}
	}
	return &UnreachableError{Hint: err.Error(), cause: err}
}
