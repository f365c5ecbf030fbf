package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airclass/airclass/internal/pkg/response"
	"github.com/airclass/airclass/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) List(c *gin.Context) {
	courseID, lessonID := scopeParams(c)
	comments, err := h.comments.List(c.Request.Context(), courseID, lessonID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"comments": comments})
}

type addCommentBody struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var body addCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "無效的請求內容")
		return
	}
	courseID, lessonID := scopeParams(c)
	comment, err := h.comments.Add(c.Request.Context(), courseID, lessonID, body.Author, body.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, comment)
}
