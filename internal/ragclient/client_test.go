package ragclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewEmptyURL(t *testing.T) {
	require.Nil(t, New("", time.Second))
	require.Nil(t, New("   ", time.Second))
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	client := New("http://localhost:8000/", time.Second)
	require.NotNil(t, client)
	require.Equal(t, "http://localhost:8000", client.BaseURL())
}

func TestQuerySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/query", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "什麼是梯度下降", req.Query)

		_ = json.NewEncoder(w).Encode(QueryResponse{
			Response:       "answer",
			ConversationID: "conv-9",
			Steps:          []interface{}{map[string]interface{}{"tool": "search"}},
		})
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	resp, err := client.Query(context.Background(), QueryRequest{Query: "什麼是梯度下降"})
	require.NoError(t, err)
	require.Equal(t, "answer", resp.Response)
	require.Equal(t, "conv-9", resp.ConversationID)
	require.Len(t, resp.Steps, 1)
}

func TestQueryBackendErrorWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"oops"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Query(context.Background(), QueryRequest{Query: "hi"})
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	require.Equal(t, http.StatusInternalServerError, backendErr.Status)
	require.Equal(t, "oops", backendErr.Message)
}

func TestQueryBackendErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Query(context.Background(), QueryRequest{Query: "hi"})
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	require.Equal(t, http.StatusBadRequest, backendErr.Status)
	require.Equal(t, "RAG 後端錯誤", backendErr.Message)
}

func TestQueryUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Query(context.Background(), QueryRequest{Query: "hi"})
	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
	require.Contains(t, unreachable.Hint, "RAG 後端已啟動")
}

func TestNewConversationNoID(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	require.NoError(t, client.NewConversation(context.Background(), ""))
	require.False(t, called)
}

func TestNewConversationForwardsID(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/conversation/new", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	require.NoError(t, client.NewConversation(context.Background(), "conv-1"))
	require.Equal(t, "conv-1", got["conversation_id"])
}
