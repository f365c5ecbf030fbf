package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ConversationTracker remembers the most recent remote conversation id per
// (course, lesson) scope. The id is only a continuation hint for the
// external backend, so an expiring LRU is enough; losing an entry just
// starts a fresh server-side conversation.
type ConversationTracker struct {
	cache *expirable.LRU[string, string]
}

func NewConversationTracker() *ConversationTracker {
	return &ConversationTracker{
		cache: expirable.NewLRU[string, string](4096, nil, 24*time.Hour),
	}
}

func scopeKey(courseID, lessonID string) string {
	return courseID + ":" + lessonID
}

func (t *ConversationTracker) Remember(courseID, lessonID, conversationID string) {
	if conversationID == "" {
		return
	}
	t.cache.Add(scopeKey(courseID, lessonID), conversationID)
}

func (t *ConversationTracker) Get(courseID, lessonID string) string {
	id, _ := t.cache.Get(scopeKey(courseID, lessonID))
	return id
}

func (t *ConversationTracker) Forget(courseID, lessonID string) {
	t.cache.Remove(scopeKey(courseID, lessonID))
}
