package model

import (
	"fmt"
	"time"
)

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionMCQ   QuestionType = "mcq"   // Multiple choice, auto-graded
	QuestionEssay QuestionType = "essay" // Photographed answer, teacher-graded
)

// Question is a single scored item inside an exam. MCQ questions carry an
// answer key (zero-based indices into Options, more than one allowed);
// essay questions carry neither options nor a key.
type Question struct {
	ID             string       `json:"id" bson:"id"`
	Type           QuestionType `json:"type" bson:"type" validate:"required,oneof=mcq essay"`
	Prompt         string       `json:"prompt" bson:"prompt" validate:"required"`
	ImageURL       string       `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Score          float64      `json:"score" bson:"score" validate:"gt=0"`
	Options        []string     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectOptions []int        `json:"correctOptions,omitempty" bson:"correct_options,omitempty"`
}

// Exam is a set of questions with attempt, expiry and payment policy.
// An exam with an empty CourseID is standalone and targeted by grade.
type Exam struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title" validate:"required"`
	CourseID    string     `json:"courseId,omitempty" bson:"course_id,omitempty"`
	Grade       string     `json:"grade,omitempty" bson:"grade,omitempty"`
	IsPaid      bool       `json:"isPaid" bson:"is_paid"`
	Price       float64    `json:"price" bson:"price" validate:"gte=0"`
	Questions   []Question `json:"questions" bson:"questions" validate:"required,min=1,dive"`
	MaxAttempts int        `json:"maxAttempts" bson:"max_attempts" validate:"gte=1"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" bson:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
}

// Expired reports whether the exam no longer accepts new attempts.
func (e *Exam) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// QuestionByID looks up an embedded question.
func (e *Exam) QuestionByID(id string) *Question {
	for i := range e.Questions {
		if e.Questions[i].ID == id {
			return &e.Questions[i]
		}
	}
	return nil
}

// Validate rejects malformed exam definitions at authoring time so that
// grading never has to deal with them. Structural rules not expressible as
// struct tags (answer-key shape, paid pricing) are checked explicitly.
func (e *Exam) Validate() error {
	if err := validate.Struct(e); err != nil {
		return err
	}
	if e.IsPaid && e.Price <= 0 {
		return fmt.Errorf("paid exam must have a positive price")
	}
	for i, q := range e.Questions {
		switch q.Type {
		case QuestionMCQ:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: mcq needs at least 2 options", i+1)
			}
			for j, opt := range q.Options {
				if opt == "" {
					return fmt.Errorf("question %d: option %d is empty", i+1, j+1)
				}
			}
			if len(q.CorrectOptions) == 0 {
				return fmt.Errorf("question %d: mcq needs at least one correct option", i+1)
			}
			for _, idx := range q.CorrectOptions {
				if idx < 0 || idx >= len(q.Options) {
					return fmt.Errorf("question %d: correct option %d out of range", i+1, idx)
				}
			}
		case QuestionEssay:
			if len(q.Options) > 0 || len(q.CorrectOptions) > 0 {
				return fmt.Errorf("question %d: essay cannot have options", i+1)
			}
		}
	}
	return nil
}
