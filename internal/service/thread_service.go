package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/airclass/airclass/internal/kvstore"
	"github.com/airclass/airclass/internal/model"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
	"github.com/airclass/airclass/internal/ragclient"
)

// WelcomeMessage opens every new or reset thread.
const WelcomeMessage = "您好！我是 AI 助教，有什麼問題都可以問我。"

const titleMaxRunes = 14

var leadingTimestampRe = regexp.MustCompile(`^\[\d{1,2}:\d{2}(?::\d{2})?\]\s*`)

// ThreadService manages the conversation tabs of each (course, lesson)
// scope: the persisted tab list, per-thread message history, derived tab
// titles and the new-conversation reset. Every scope keeps at least one
// thread at all times.
type ThreadService struct {
	kv        kvstore.Store
	ragClient *ragclient.Client
	conv      *ConversationTracker
	cache     *expirable.LRU[string, *model.Thread]
}

func NewThreadService(kv kvstore.Store, ragClient *ragclient.Client, conv *ConversationTracker) *ThreadService {
	return &ThreadService{
		kv:        kv,
		ragClient: ragClient,
		conv:      conv,
		cache:     expirable.NewLRU[string, *model.Thread](1024, nil, 10*time.Minute),
	}
}

func threadKey(courseID, lessonID, threadID string) string {
	return fmt.Sprintf("chat:%s:%s:%s", courseID, lessonID, threadID)
}

func tabsKey(courseID, lessonID string) string {
	return fmt.Sprintf("chat-tabs:%s:%s", courseID, lessonID)
}

func commentsKey(courseID, lessonID string) string {
	return fmt.Sprintf("comments:%s:%s", courseID, lessonID)
}

func newWelcomeMessage() model.Message {
	return model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   WelcomeMessage,
		Timestamp: time.Now().Unix(),
	}
}

// DefaultTitle is the positional tab title used until one is derived from
// the first user message.
func DefaultTitle(position int) string {
	return fmt.Sprintf("對話 %d", position+1)
}

// InitScope loads the tab state for a scope, creating one default thread
// with a welcome message on first visit.
func (s *ThreadService) InitScope(ctx context.Context, courseID, lessonID string) (*model.TabState, error) {
	state, err := s.loadTabs(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if state != nil && len(state.TabIDs) > 0 {
		return state, nil
	}

	threadID := uuid.NewString()
	thread := &model.Thread{
		ID:       threadID,
		Title:    DefaultTitle(0),
		Messages: []model.Message{newWelcomeMessage()},
	}
	state = &model.TabState{TabIDs: []string{threadID}, Titles: map[string]string{}}
	if err := s.saveThread(ctx, courseID, lessonID, thread); err != nil {
		return nil, err
	}
	if err := s.saveTabs(ctx, courseID, lessonID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// AddThread appends a fresh thread with a welcome message and returns it.
func (s *ThreadService) AddThread(ctx context.Context, courseID, lessonID string) (*model.Thread, *model.TabState, error) {
	state, err := s.InitScope(ctx, courseID, lessonID)
	if err != nil {
		return nil, nil, err
	}
	threadID := uuid.NewString()
	thread := &model.Thread{
		ID:       threadID,
		Title:    DefaultTitle(len(state.TabIDs)),
		Messages: []model.Message{newWelcomeMessage()},
	}
	state.TabIDs = append(state.TabIDs, threadID)
	if err := s.saveThread(ctx, courseID, lessonID, thread); err != nil {
		return nil, nil, err
	}
	if err := s.saveTabs(ctx, courseID, lessonID, state); err != nil {
		return nil, nil, err
	}
	return thread, state, nil
}

// RemoveThread deletes a thread and its history. Removing the last
// remaining thread of a scope is rejected. The returned id is the thread
// the caller should activate next: the one now at the removed position, or
// the last one.
func (s *ThreadService) RemoveThread(ctx context.Context, courseID, lessonID, threadID string) (*model.TabState, string, error) {
	state, err := s.loadTabs(ctx, courseID, lessonID)
	if err != nil {
		return nil, "", err
	}
	if state == nil {
		return nil, "", appErr.ErrNotFound
	}
	index := -1
	for i, id := range state.TabIDs {
		if id == threadID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, "", appErr.ErrNotFound
	}
	if len(state.TabIDs) <= 1 {
		return nil, "", fmt.Errorf("%w: cannot remove the last thread", appErr.ErrConflict)
	}

	state.TabIDs = append(state.TabIDs[:index], state.TabIDs[index+1:]...)
	delete(state.Titles, threadID)
	if err := s.kv.Delete(ctx, threadKey(courseID, lessonID, threadID)); err != nil {
		return nil, "", err
	}
	s.cache.Remove(threadKey(courseID, lessonID, threadID))
	if err := s.saveTabs(ctx, courseID, lessonID, state); err != nil {
		return nil, "", err
	}

	nextActive := index
	if nextActive >= len(state.TabIDs) {
		nextActive = len(state.TabIDs) - 1
	}
	return state, state.TabIDs[nextActive], nil
}

func (s *ThreadService) GetThread(ctx context.Context, courseID, lessonID, threadID string) (*model.Thread, error) {
	return s.loadThread(ctx, courseID, lessonID, threadID)
}

// AppendMessage stores a new turn on a thread and derives the tab title
// from the first user message if one has not been derived yet.
func (s *ThreadService) AppendMessage(ctx context.Context, courseID, lessonID, threadID string, msg model.Message) (*model.Thread, error) {
	thread, err := s.loadThread(ctx, courseID, lessonID, threadID)
	if err != nil {
		return nil, err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
		return nil, fmt.Errorf("%w: role", appErr.ErrInvalid)
	}
	thread.Messages = append(thread.Messages, msg)
	if err := s.saveThread(ctx, courseID, lessonID, thread); err != nil {
		return nil, err
	}
	if err := s.deriveTitle(ctx, courseID, lessonID, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// deriveTitle sets the tab title once: the first user message, stripped of
// a leading timestamp annotation and truncated to 14 runes.
func (s *ThreadService) deriveTitle(ctx context.Context, courseID, lessonID string, thread *model.Thread) error {
	state, err := s.loadTabs(ctx, courseID, lessonID)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}
	if state.Titles[thread.ID] != "" {
		return nil
	}
	title := ""
	for _, msg := range thread.Messages {
		if msg.Role == model.RoleUser {
			title = DeriveTitle(msg.Content)
			break
		}
	}
	if title == "" {
		return nil
	}
	if state.Titles == nil {
		state.Titles = map[string]string{}
	}
	state.Titles[thread.ID] = title
	thread.Title = title
	if err := s.saveThread(ctx, courseID, lessonID, thread); err != nil {
		return err
	}
	return s.saveTabs(ctx, courseID, lessonID, state)
}

// DeriveTitle turns a user message into a tab title: strip any leading
// "[MM:SS]"/"[H:MM:SS]" annotation, trim, and truncate to 14 runes with a
// trailing ellipsis.
func DeriveTitle(content string) string {
	cleaned := strings.TrimSpace(leadingTimestampRe.ReplaceAllString(content, ""))
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) <= titleMaxRunes {
		return cleaned
	}
	return string(runes[:titleMaxRunes]) + "…"
}

// ResetConversation starts the active thread over: notify the external
// backend to discard the remote conversation id (best-effort), forget the
// local id, and reset the thread to a single welcome message. The thread
// itself survives.
func (s *ThreadService) ResetConversation(ctx context.Context, courseID, lessonID, threadID string) (*model.Thread, error) {
	thread, err := s.loadThread(ctx, courseID, lessonID, threadID)
	if err != nil {
		return nil, err
	}
	if s.conv != nil {
		if conversationID := s.conv.Get(courseID, lessonID); conversationID != "" {
			if s.ragClient != nil {
				if err := s.ragClient.NewConversation(ctx, conversationID); err != nil {
					logutil.GetLogger(ctx).Warn("conversation reset notification failed",
						zap.String("conversation_id", conversationID), zap.Error(err))
				}
			}
			s.conv.Forget(courseID, lessonID)
		}
	}
	thread.Messages = []model.Message{newWelcomeMessage()}
	if err := s.saveThread(ctx, courseID, lessonID, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// PruneStale removes threads whose newest message is older than maxAge,
// never dropping the last thread of a scope. Returns the number of
// deleted threads.
func (s *ThreadService) PruneStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).Unix()
	tabKeys, err := s.kv.Keys(ctx, "chat-tabs:")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range tabKeys {
		parts := strings.SplitN(key, ":", 3)
		if len(parts) != 3 {
			continue
		}
		courseID, lessonID := parts[1], parts[2]
		state, err := s.loadTabs(ctx, courseID, lessonID)
		if err != nil || state == nil {
			continue
		}
		for _, threadID := range append([]string(nil), state.TabIDs...) {
			thread, err := s.loadThread(ctx, courseID, lessonID, threadID)
			if err != nil {
				continue
			}
			if len(thread.Messages) > 0 && thread.Messages[len(thread.Messages)-1].Timestamp >= cutoff {
				continue
			}
			if _, _, err := s.RemoveThread(ctx, courseID, lessonID, threadID); err != nil {
				continue
			}
			removed++
		}
	}
	return removed, nil
}

func (s *ThreadService) loadThread(ctx context.Context, courseID, lessonID, threadID string) (*model.Thread, error) {
	key := threadKey(courseID, lessonID, threadID)
	if cached, ok := s.cache.Get(key); ok {
		return cloneThread(cached), nil
	}
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.ErrNotFound
	}
	var thread model.Thread
	if err := json.Unmarshal(data, &thread); err != nil {
		return nil, fmt.Errorf("decode thread: %w", err)
	}
	s.cache.Add(key, cloneThread(&thread))
	return &thread, nil
}

func (s *ThreadService) saveThread(ctx context.Context, courseID, lessonID string, thread *model.Thread) error {
	data, err := json.Marshal(thread)
	if err != nil {
		return err
	}
	key := threadKey(courseID, lessonID, thread.ID)
	if err := s.kv.Set(ctx, key, data); err != nil {
		return err
	}
	s.cache.Add(key, cloneThread(thread))
	return nil
}

func (s *ThreadService) loadTabs(ctx context.Context, courseID, lessonID string) (*model.TabState, error) {
	data, ok, err := s.kv.Get(ctx, tabsKey(courseID, lessonID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var state model.TabState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode tab state: %w", err)
	}
	if state.Titles == nil {
		state.Titles = map[string]string{}
	}
	return &state, nil
}

func (s *ThreadService) saveTabs(ctx context.Context, courseID, lessonID string, state *model.TabState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, tabsKey(courseID, lessonID), data)
}

func cloneThread(t *model.Thread) *model.Thread {
	clone := *t
	clone.Messages = append([]model.Message(nil), t.Messages...)
	return &clone
}
