package service

import (
	"context"

	"github.com/airclass/airclass/internal/model"
	appErr "github.com/airclass/airclass/internal/pkg/errors"
)

// CourseService serves the static course/lesson catalogue backing the
// portal pages. The catalogue is fixed at construction; admin editing is
// out of scope here.
type CourseService struct {
	courses []model.Course
	lessons []model.Lesson
}

func NewCourseService() *CourseService {
	return &CourseService{courses: defaultCourses(), lessons: defaultLessons()}
}

func (s *CourseService) ListCourses(ctx context.Context) []model.Course {
	_ = ctx
	return append([]model.Course(nil), s.courses...)
}

func (s *CourseService) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	_ = ctx
	for _, course := range s.courses {
		if course.ID == courseID {
			return &course, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *CourseService) ListLessons(ctx context.Context, courseID string) []model.Lesson {
	_ = ctx
	result := make([]model.Lesson, 0, len(s.lessons))
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID {
			result = append(result, lesson)
		}
	}
	return result
}

func (s *CourseService) GetLesson(ctx context.Context, courseID, lessonID string) (*model.Lesson, error) {
	_ = ctx
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID && lesson.ID == lessonID {
			return &lesson, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func defaultCourses() []model.Course {
	return []model.Course{
		{
			ID:          "ml-2026",
			Name:        "機器學習 (Machine Learning)",
			Semester:    "2026 Spring",
			Description: "本課程涵蓋機器學習的基礎理論與實務應用，包括監督式學習、非監督式學習、深度學習等主題。",
			Instructor:  "李教授",
			Tags:        []string{"ML", "DL", "Optimization"},
		},
		{
			ID:          "dl-2026",
			Name:        "深度學習 (Deep Learning)",
			Semester:    "2026 Spring",
			Description: "深入探討深度神經網路、卷積神經網路、循環神經網路等深度學習模型與應用。",
			Instructor:  "王教授",
			Tags:        []string{"DL", "Neural Networks", "CNN"},
		},
	}
}

func defaultLessons() []model.Lesson {
	return []model.Lesson{
		{
			ID:            "lesson-1",
			CourseID:      "ml-2026",
			Title:         "Week 1: 機器學習導論",
			Date:          "2026-02-15",
			VideoCount:    2,
			MaterialLinks: []string{"https://example.com/slides/week1.pdf", "https://example.com/homework/week1.pdf"},
		},
		{
			ID:            "lesson-2",
			CourseID:      "ml-2026",
			Title:         "Week 2: 線性回歸與梯度下降",
			Date:          "2026-02-22",
			VideoCount:    3,
			MaterialLinks: []string{"https://example.com/slides/week2.pdf"},
		},
		{
			ID:            "lesson-3",
			CourseID:      "ml-2026",
			Title:         "Week 3: 邏輯回歸與分類",
			Date:          "2026-03-01",
			VideoCount:    2,
			MaterialLinks: []string{"https://example.com/slides/week3.pdf", "https://example.com/code/week3.zip"},
		},
		{
			ID:            "lesson-4",
			CourseID:      "ml-2026",
			Title:         "Week 4: 神經網路基礎",
			Date:          "2026-03-08",
			VideoCount:    4,
			MaterialLinks: []string{"https://example.com/slides/week4.pdf"},
		},
		{
			ID:            "lesson-5",
			CourseID:      "ml-2026",
			Title:         "Week 5: 深度學習入門",
			Date:          "2026-03-15",
			VideoCount:    3,
			MaterialLinks: []string{"https://example.com/slides/week5.pdf", "https://example.com/notebook/week5.ipynb"},
		},
		{
			ID:            "lesson-1-dl",
			CourseID:      "dl-2026",
			Title:         "Week 1: 深度學習基礎",
			Date:          "2026-02-16",
			VideoCount:    2,
			MaterialLinks: []string{"https://example.com/slides/dl-week1.pdf"},
		},
		{
			ID:            "lesson-2-dl",
			CourseID:      "dl-2026",
			Title:         "Week 2: 卷積神經網路",
			Date:          "2026-02-23",
			VideoCount:    3,
			MaterialLinks: []string{"https://example.com/slides/dl-week2.pdf"},
		},
	}
}
