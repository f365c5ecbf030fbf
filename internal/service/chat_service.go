package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/airclass/airclass/internal/llm"
	"github.com/airclass/airclass/internal/model"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
	"github.com/airclass/airclass/internal/rag"
	"github.com/airclass/airclass/internal/ragclient"
)

// EmptyAnswerFallback replaces a hosted-generation reply that trimmed to
// nothing.
const EmptyAnswerFallback = "抱歉，我暫時無法產生回覆，請再試一次。"

// NoResponsePlaceholder replaces a missing answer from the external RAG
// backend.
const NoResponsePlaceholder = "(No response)"

const defaultGenerateTimeout = 60 * time.Second

// GenerationError wraps a hosted-generation failure so the handler can map
// it to the "LLM service unavailable" reply without losing the cause.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ChatService is the chat orchestrator. Dispatch is strict precedence:
// external RAG backend, then hosted generation over local retrieval, then
// a configuration error. Exactly one path runs per request.
type ChatService struct {
	ragClient *ragclient.Client
	chatter   llm.Chatter
	store     *rag.Store
	conv      *ConversationTracker
	timeout   time.Duration
}

func NewChatService(ragClient *ragclient.Client, chatter llm.Chatter, store *rag.Store, conv *ConversationTracker, timeout time.Duration) *ChatService {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &ChatService{
		ragClient: ragClient,
		chatter:   chatter,
		store:     store,
		conv:      conv,
		timeout:   timeout,
	}
}

func (s *ChatService) Ask(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: query or message", appErr.ErrMissingField)
	}
	if s.ragClient != nil {
		return s.askExternal(ctx, req, message)
	}
	if s.chatter != nil {
		return s.askLocal(ctx, req, message)
	}
	return nil, appErr.ErrNoBackend
}

func (s *ChatService) askExternal(ctx context.Context, req model.ChatRequest, message string) (*model.ChatReply, error) {
	payload := ragclient.QueryRequest{
		Query:          message,
		ConversationID: optional(req.ConversationID),
	}
	if req.VideoName != "" || req.VideoTimestamp != "" {
		payload.VideoContext = &ragclient.VideoContext{
			VideoName: optional(req.VideoName),
			Timestamp: optional(req.VideoTimestamp),
		}
	}
	if req.Image != "" && req.ImageMimeType != "" {
		payload.Image = normalizeImage(req.Image)
		payload.ImageMimeType = req.ImageMimeType
	}

	resp, err := s.ragClient.Query(ctx, payload)
	if err != nil {
		return nil, err
	}
	content := resp.Response
	if content == "" {
		content = NoResponsePlaceholder
	}
	if resp.ConversationID != "" && s.conv != nil {
		s.conv.Remember(req.CourseID, req.LessonID, resp.ConversationID)
	}
	return &model.ChatReply{
		Content:        content,
		ConversationID: resp.ConversationID,
		Steps:          resp.Steps,
	}, nil
}

func (s *ChatService) askLocal(ctx context.Context, req model.ChatRequest, message string) (*model.ChatReply, error) {
	chunks := s.store.Retrieve(message, req.CourseID, req.LessonID, 5)
	logutil.GetLogger(ctx).Debug("local retrieval",
		zap.String("course_id", req.CourseID),
		zap.String("lesson_id", req.LessonID),
		zap.Int("chunks", len(chunks)))

	grounding := rag.BuildContext(chunks)
	systemPrompt := rag.BuildSystemPrompt(grounding, req.VideoTimestamp)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	answer, err := s.chatter.Chat(ctx, systemPrompt, message)
	if err != nil {
		return nil, &GenerationError{Cause: err}
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = EmptyAnswerFallback
	}
	return &model.ChatReply{Content: answer}, nil
}

// normalizeImage strips a data-URI prefix ("data:image/png;base64,...")
// so only the raw base64 payload is forwarded.
func normalizeImage(image string) string {
	image = strings.TrimSpace(image)
	if idx := strings.Index(image, ","); idx >= 0 {
		if stripped := image[idx+1:]; stripped != "" {
			return stripped
		}
	}
	return image
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
