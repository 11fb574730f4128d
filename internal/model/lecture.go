package model

import "time"

// Lecture is one video (plus optional PDF) inside a course.
type Lecture struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	CourseID        string    `json:"courseId" bson:"course_id" validate:"required"`
	Title           string    `json:"title" bson:"title" validate:"required"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	YoutubeURL      string    `json:"youtubeUrl" bson:"youtube_url"`
	PDFURL          string    `json:"pdfUrl,omitempty" bson:"pdf_url,omitempty"`
	OrderIndex      int       `json:"orderIndex" bson:"order_index"`
	DurationSeconds int       `json:"durationSeconds,omitempty" bson:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
}

// Validate checks a lecture definition at authoring time.
func (l *Lecture) Validate() error {
	return validate.Struct(l)
}

// LectureProgress marks a lecture as watched by a student.
type LectureProgress struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	StudentID string    `json:"studentId" bson:"student_id"`
	LectureID string    `json:"lectureId" bson:"lecture_id"`
	Completed bool      `json:"completed" bson:"completed"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
