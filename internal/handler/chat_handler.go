package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/airclass/airclass/internal/model"
	"github.com/airclass/airclass/internal/pkg/response"
	"github.com/airclass/airclass/internal/ragclient"
	"github.com/airclass/airclass/internal/service"
)

type ChatHandler struct {
	chat      *service.ChatService
	ragClient *ragclient.Client
}

func NewChatHandler(chat *service.ChatService, ragClient *ragclient.Client) *ChatHandler {
	return &ChatHandler{chat: chat, ragClient: ragClient}
}

// chatRequestBody accepts both the external RAG backend's field names and
// the legacy portal names for the same logical fields. It is normalized
// into model.ChatRequest before anything else touches it.
type chatRequestBody struct {
	Query          string            `json:"query"`
	ConversationID *string           `json:"conversation_id"`
	VideoContext   *videoContextBody `json:"video_context"`
	Image          *string           `json:"image"`
	ImageMimeType  *string           `json:"image_mime_type"`

	// Legacy portal variants.
	CourseID       string  `json:"courseId"`
	LessonID       string  `json:"lessonId"`
	Message        string  `json:"message"`
	VideoTimestamp string  `json:"videoTimestamp"`
	VideoName      *string `json:"video_name"`
}

type videoContextBody struct {
	VideoName *string `json:"video_name"`
	Timestamp *string `json:"timestamp"`
}

func (b *chatRequestBody) normalize() model.ChatRequest {
	req := model.ChatRequest{
		CourseID: b.CourseID,
		LessonID: b.LessonID,
	}
	req.Message = b.Query
	if req.Message == "" {
		req.Message = b.Message
	}
	if b.ConversationID != nil {
		req.ConversationID = *b.ConversationID
	}
	if b.VideoContext != nil && (b.VideoContext.VideoName != nil || b.VideoContext.Timestamp != nil) {
		if b.VideoContext.VideoName != nil {
			req.VideoName = *b.VideoContext.VideoName
		}
		if b.VideoContext.Timestamp != nil {
			req.VideoTimestamp = *b.VideoContext.Timestamp
		}
	} else {
		if b.VideoName != nil {
			req.VideoName = *b.VideoName
		}
		req.VideoTimestamp = b.VideoTimestamp
	}
	if b.Image != nil {
		req.Image = *b.Image
	}
	if b.ImageMimeType != nil {
		req.ImageMimeType = *b.ImageMimeType
	}
	return req
}

// Ask handles POST /chat: one user turn in, exactly one answer out.
func (h *ChatHandler) Ask(c *gin.Context) {
	var body chatRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "無效的請求內容")
		return
	}
	req := body.normalize()
	logutil.GetLogger(c.Request.Context()).Info("chat turn",
		zap.String("course_id", req.CourseID),
		zap.String("lesson_id", req.LessonID),
		zap.Bool("has_image", req.Image != ""),
		zap.Bool("has_conversation", req.ConversationID != ""))

	reply, err := h.chat.Ask(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, reply)
}

// Fallback handles POST /chat/fallback: the deterministic canned reply a
// client applies when every backend path errored. Never fails.
func (h *ChatHandler) Fallback(c *gin.Context) {
	var body chatRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "無效的請求內容")
		return
	}
	req := body.normalize()
	response.Success(c, gin.H{"content": service.CannedReply(req.Message)})
}

// NewConversation handles POST /conversation/new: proxy the reset to the
// external backend when one is configured. Always replies ok; backend
// failures are logged and swallowed.
func (h *ChatHandler) NewConversation(c *gin.Context) {
	var body struct {
		ConversationID *string `json:"conversation_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "無效的請求內容")
		return
	}
	if h.ragClient != nil && body.ConversationID != nil && *body.ConversationID != "" {
		if err := h.ragClient.NewConversation(c.Request.Context(), *body.ConversationID); err != nil {
			logutil.GetLogger(c.Request.Context()).Warn("conversation reset proxy failed",
				zap.String("conversation_id", *body.ConversationID), zap.Error(err))
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
