package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/airclass/airclass/internal/pkg/response"
	"github.com/airclass/airclass/internal/service"
)

type CourseHandler struct {
	courses *service.CourseService
}

func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

func (h *CourseHandler) List(c *gin.Context) {
	response.Success(c, h.courses.ListCourses(c.Request.Context()))
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.GetCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		handleError(c, err)
		return
	}
	lessons := h.courses.ListLessons(c.Request.Context(), course.ID)
	response.Success(c, gin.H{"course": course, "lessons": lessons})
}

func (h *CourseHandler) GetLesson(c *gin.Context) {
	lesson, err := h.courses.GetLesson(c.Request.Context(), c.Param("courseId"), c.Param("lessonId"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, lesson)
}
