package model

type Course struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Semester    string   `json:"semester"`
	Description string   `json:"description"`
	Instructor  string   `json:"instructor"`
	Tags        []string `json:"tags"`
}

type Lesson struct {
	ID            string   `json:"id"`
	CourseID      string   `json:"course_id"`
	Title         string   `json:"title"`
	Date          string   `json:"date"`
	VideoCount    int      `json:"video_count"`
	MaterialLinks []string `json:"material_links"`
}
