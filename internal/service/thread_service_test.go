package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/airclass/airclass/internal/kvstore"
	"github.com/airclass/airclass/internal/model"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
	"github.com/airclass/airclass/internal/ragclient"
)

func newTestThreadService() *ThreadService {
	return NewThreadService(kvstore.NewMemory(), nil, NewConversationTracker())
}

func TestInitScopeCreatesDefaultThread(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	require.Len(t, state.TabIDs, 1)

	thread, err := svc.GetThread(ctx, "ml-2026", "lesson-1", state.TabIDs[0])
	require.NoError(t, err)
	require.Equal(t, "對話 1", thread.Title)
	require.Len(t, thread.Messages, 1)
	require.Equal(t, model.RoleAssistant, thread.Messages[0].Role)
	require.Equal(t, WelcomeMessage, thread.Messages[0].Content)
}

func TestInitScopeIdempotent(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	first, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	second, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	require.Equal(t, first.TabIDs, second.TabIDs)
}

func TestAddThread(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	thread, state, err := svc.AddThread(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	require.Len(t, state.TabIDs, 2)
	require.Equal(t, thread.ID, state.TabIDs[1])
	require.Equal(t, "對話 2", thread.Title)
	require.Len(t, thread.Messages, 1)
	require.Equal(t, WelcomeMessage, thread.Messages[0].Content)
}

func TestRemoveThreadRejectsLast(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	_, _, err = svc.RemoveThread(ctx, "ml-2026", "lesson-1", state.TabIDs[0])
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestRemoveThreadNextActive(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	first, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	second, _, err := svc.AddThread(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	third, _, err := svc.AddThread(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)

	// Removing a middle thread activates the one that shifts into its slot.
	state, nextActive, err := svc.RemoveThread(ctx, "ml-2026", "lesson-1", second.ID)
	require.NoError(t, err)
	require.Equal(t, third.ID, nextActive)
	require.Len(t, state.TabIDs, 2)

	// Removing the tail activates the new last thread.
	state, nextActive, err = svc.RemoveThread(ctx, "ml-2026", "lesson-1", third.ID)
	require.NoError(t, err)
	require.Equal(t, first.TabIDs[0], nextActive)
	require.Len(t, state.TabIDs, 1)

	_, err = svc.GetThread(ctx, "ml-2026", "lesson-1", second.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestRemoveThreadUnknown(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	_, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	_, _, err = svc.RemoveThread(ctx, "ml-2026", "lesson-1", "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestAppendMessageDerivesTitle(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	threadID := state.TabIDs[0]

	thread, err := svc.AppendMessage(ctx, "ml-2026", "lesson-1", threadID, model.Message{
		Role:    model.RoleUser,
		Content: "[12:34] 請問什麼是梯度下降？",
	})
	require.NoError(t, err)
	require.Len(t, thread.Messages, 2)
	require.NotEmpty(t, thread.Messages[1].ID)
	require.NotZero(t, thread.Messages[1].Timestamp)
	require.Equal(t, "請問什麼是梯度下降？", thread.Title)

	// A later user message must not overwrite the derived title.
	thread, err = svc.AppendMessage(ctx, "ml-2026", "lesson-1", threadID, model.Message{
		Role:    model.RoleUser,
		Content: "另一個問題",
	})
	require.NoError(t, err)
	require.Equal(t, "請問什麼是梯度下降？", thread.Title)
}

func TestAppendMessageRejectsUnknownRole(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, "ml-2026", "lesson-1", state.TabIDs[0], model.Message{
		Role:    "system",
		Content: "nope",
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain short", content: "什麼是過擬合", want: "什麼是過擬合"},
		{name: "strips leading timestamp", content: "[1:02:03] 這段影片", want: "這段影片"},
		{name: "truncates to 14 runes", content: "一二三四五六七八九十一二三四五六", want: "一二三四五六七八九十一二三四…"},
		{name: "timestamp only", content: "[12:34] ", want: ""},
		{name: "whitespace only", content: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.content); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestResetConversation(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	threadID := state.TabIDs[0]

	_, err = svc.AppendMessage(ctx, "ml-2026", "lesson-1", threadID, model.Message{
		Role:    model.RoleUser,
		Content: "question",
	})
	require.NoError(t, err)

	thread, err := svc.ResetConversation(ctx, "ml-2026", "lesson-1", threadID)
	require.NoError(t, err)
	require.Len(t, thread.Messages, 1)
	require.Equal(t, WelcomeMessage, thread.Messages[0].Content)
}

func TestResetConversationNotifiesBackendOnce(t *testing.T) {
	var calls int
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotID = body["conversation_id"]
	}))
	defer server.Close()

	conv := NewConversationTracker()
	svc := NewThreadService(kvstore.NewMemory(), ragclient.New(server.URL, time.Second), conv)
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	conv.Remember("ml-2026", "lesson-1", "conv-42")

	_, err = svc.ResetConversation(ctx, "ml-2026", "lesson-1", state.TabIDs[0])
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, "conv-42", gotID)
	require.Empty(t, conv.Get("ml-2026", "lesson-1"))

	// Nothing remembered anymore, so a second reset stays local.
	_, err = svc.ResetConversation(ctx, "ml-2026", "lesson-1", state.TabIDs[0])
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestResetConversationSurvivesNotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	conv := NewConversationTracker()
	svc := NewThreadService(kvstore.NewMemory(), ragclient.New(server.URL, time.Second), conv)
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	conv.Remember("ml-2026", "lesson-1", "conv-43")

	thread, err := svc.ResetConversation(ctx, "ml-2026", "lesson-1", state.TabIDs[0])
	require.NoError(t, err)
	require.Len(t, thread.Messages, 1)
	require.Empty(t, conv.Get("ml-2026", "lesson-1"))
}

func TestPruneStaleKeepsLastThread(t *testing.T) {
	svc := newTestThreadService()
	ctx := context.Background()

	state, err := svc.InitScope(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	stale, _, err := svc.AddThread(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)

	// Age the second thread far past any cutoff.
	old := model.Message{
		ID:        "old",
		Role:      model.RoleUser,
		Content:   "ancient question",
		Timestamp: time.Now().Add(-90 * 24 * time.Hour).Unix(),
	}
	_, err = svc.AppendMessage(ctx, "ml-2026", "lesson-1", stale.ID, old)
	require.NoError(t, err)
	// Rewrite the whole history so the newest message is also old.
	aged, err := svc.GetThread(ctx, "ml-2026", "lesson-1", stale.ID)
	require.NoError(t, err)
	aged.Messages = []model.Message{old}
	require.NoError(t, svc.saveThread(ctx, "ml-2026", "lesson-1", aged))

	removed, err := svc.PruneStale(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	after, err := svc.loadTabs(ctx, "ml-2026", "lesson-1")
	require.NoError(t, err)
	require.Equal(t, state.TabIDs, after.TabIDs)
}
