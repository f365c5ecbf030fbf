package model

// Chunk is one retrievable unit of course knowledge-base text. Chunks are
// loaded once at startup and never mutated. A chunk without a LessonID is
// course-wide and matches every lesson of its course.
type Chunk struct {
	ID       string   `json:"id"`
	CourseID string   `json:"course_id"`
	LessonID string   `json:"lesson_id,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}
