package model

import "time"

// SubmissionStatus tracks teacher review of a submission
type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

// Answer is one graded (or review-pending) answer embedded in a submission.
// MCQ answers carry the selected indices and the awarded score; essay
// answers carry the uploaded image URL and no score until the teacher
// enters one.
type Answer struct {
	QuestionID      string   `json:"questionId" bson:"question_id"`
	SelectedOptions []int    `json:"selectedOptions,omitempty" bson:"selected_options,omitempty"`
	EssayImageURL   string   `json:"essayImageUrl,omitempty" bson:"essay_image_url,omitempty"`
	Score           *float64 `json:"score,omitempty" bson:"score,omitempty"`
}

// Submission is one completed run through an exam by one student. It is
// written once per attempt and only touched again by the teacher's manual
// essay-grading pass.
type Submission struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	ExamID      string           `json:"examId" bson:"exam_id"`
	StudentID   string           `json:"studentId" bson:"student_id"`
	Answers     []Answer         `json:"answers" bson:"answers"`
	TotalScore  float64          `json:"totalScore" bson:"total_score"`
	Status      SubmissionStatus `json:"status" bson:"status"`
	SubmittedAt time.Time        `json:"submittedAt" bson:"submitted_at"`
	// Revision guards the grading write: an update only applies against
	// the revision it was read at, so concurrent passes cannot silently
	// drop each other's scores.
	Revision int `json:"-" bson:"revision"`
}
