package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/airclass/airclass/internal/kvstore"
	"github.com/airclass/airclass/internal/model"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
)

// CommentService keeps the append-only comment list of each (course,
// lesson) scope. Comments share the chat persistence pattern but are
// independent of the thread state machine.
type CommentService struct {
	kv kvstore.Store
}

func NewCommentService(kv kvstore.Store) *CommentService {
	return &CommentService{kv: kv}
}

func (s *CommentService) List(ctx context.Context, courseID, lessonID string) ([]model.Comment, error) {
	comments, err := s.load(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

func (s *CommentService) Add(ctx context.Context, courseID, lessonID, author, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content", appErr.ErrMissingField)
	}
	if author == "" {
		author = "匿名"
	}
	comments, err := s.load(ctx, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	comment := model.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		Author:    author,
		CreatedAt: time.Now().Unix(),
	}
	comments = append(comments, comment)
	if err := s.save(ctx, courseID, lessonID, comments); err != nil {
		return nil, err
	}
	return &comment, nil
}

// PruneBefore drops comments created before the cutoff across all scopes
// and reports how many were removed.
func (s *CommentService) PruneBefore(ctx context.Context, cutoff int64) (int, error) {
	keys, err := s.kv.Keys(ctx, "comments:")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		data, ok, err := s.kv.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		var comments []model.Comment
		if err := json.Unmarshal(data, &comments); err != nil {
			continue
		}
		kept := comments[:0]
		for _, comment := range comments {
			if comment.CreatedAt >= cutoff {
				kept = append(kept, comment)
			}
		}
		if len(kept) == len(comments) {
			continue
		}
		removed += len(comments) - len(kept)
		out, err := json.Marshal(kept)
		if err != nil {
			continue
		}
		if err := s.kv.Set(ctx, key, out); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (s *CommentService) load(ctx context.Context, courseID, lessonID string) ([]model.Comment, error) {
	data, ok, err := s.kv.Get(ctx, commentsKey(courseID, lessonID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var comments []model.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) save(ctx context.Context, courseID, lessonID string, comments []model.Comment) error {
	data, err := json.Marshal(comments)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, commentsKey(courseID, lessonID), data)
}
