package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/airclass/airclass/internal/model"
	"github.com/airclass/airclass/internal/pkg/response"
	"github.com/airclass/airclass/internal/service"
)

type ThreadHandler struct {
	threads *service.ThreadService
	export  *service.ExportService
}

func NewThreadHandler(threads *service.ThreadService, export *service.ExportService) *ThreadHandler {
	return &ThreadHandler{threads: threads, export: export}
}

func scopeParams(c *gin.Context) (string, string) {
	return c.Param("courseId"), c.Param("lessonId")
}

// List handles GET /courses/:courseId/lessons/:lessonId/threads and
// initializes the scope on first visit.
func (h *ThreadHandler) List(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	state, err := h.threads.InitScope(c.Request.Context(), courseID, lessonID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, state)
}

func (h *ThreadHandler) Create(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	thread, state, err := h.threads.AddThread(c.Request.Context(), courseID, lessonID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"thread": thread, "tabs": state})
}

func (h *ThreadHandler) Delete(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	state, activeID, err := h.threads.RemoveThread(c.Request.Context(), courseID, lessonID, c.Param("threadId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"tabs": state, "active": activeID})
}

func (h *ThreadHandler) Get(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	thread, err := h.threads.GetThread(c.Request.Context(), courseID, lessonID, c.Param("threadId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, thread)
}

type appendMessageBody struct {
	Role           string `json:"role"`
	Content        string `json:"content"`
	VideoTimestamp string `json:"video_timestamp"`
}

func (h *ThreadHandler) AppendMessage(c *gin.Context) {
	var body appendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "無效的請求內容")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		response.Error(c, http.StatusBadRequest, "缺少 content")
		return
	}
	courseID, lessonID := scopeParams(c)
	thread, err := h.threads.AppendMessage(c.Request.Context(), courseID, lessonID, c.Param("threadId"), model.Message{
		Role:           body.Role,
		Content:        body.Content,
		VideoTimestamp: body.VideoTimestamp,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, thread)
}

func (h *ThreadHandler) Reset(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	thread, err := h.threads.ResetConversation(c.Request.Context(), courseID, lessonID, c.Param("threadId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, thread)
}

func (h *ThreadHandler) Export(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	body, contentType, err := h.export.Export(c.Request.Context(), courseID, lessonID, c.Param("threadId"), c.Query("format"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, body)
}
