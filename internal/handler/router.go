package handler

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/airclass/airclass/internal/middleware"
)

type RouterDeps struct {
	Chat          *ChatHandler
	Threads       *ThreadHandler
	Comments      *CommentHandler
	Courses       *CourseHandler
	CORSAllowlist []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.CORSAllowlist))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	api := router.Group("/api/v1")
	api.POST("/chat", deps.Chat.Ask)
	api.POST("/chat/fallback", deps.Chat.Fallback)
	api.POST("/conversation/new", deps.Chat.NewConversation)

	api.GET("/courses", deps.Courses.List)
	api.GET("/courses/:courseId", deps.Courses.Get)
	api.GET("/courses/:courseId/lessons/:lessonId", deps.Courses.GetLesson)

	scope := api.Group("/courses/:courseId/lessons/:lessonId")
	scope.GET("/threads", deps.Threads.List)
	scope.POST("/threads", deps.Threads.Create)
	scope.GET("/threads/:threadId", deps.Threads.Get)
	scope.DELETE("/threads/:threadId", deps.Threads.Delete)
	scope.POST("/threads/:threadId/messages", deps.Threads.AppendMessage)
	scope.POST("/threads/:threadId/reset", deps.Threads.Reset)
	scope.GET("/threads/:threadId/export", deps.Threads.Export)

	scope.GET("/comments", deps.Comments.List)
	scope.POST("/comments", deps.Comments.Create)

	return router
}
