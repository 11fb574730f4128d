package model

import (
	"testing"
	"time"
)

func validExam() *Exam {
	return &Exam{
		Title:       "Unit 1 Review",
		Grade:       "grade-9",
		MaxAttempts: 1,
		Questions: []Question{
			{ID: "q1", Type: QuestionMCQ, Prompt: "Pick A", Score: 2, Options: []string{"A", "B"}, CorrectOptions: []int{0}},
			{ID: "q2", Type: QuestionEssay, Prompt: "Explain", Score: 5},
		},
	}
}

func TestExamValidateAccepts(t *testing.T) {
	if err := validExam().Validate(); err != nil {
		t.Fatalf("valid exam rejected: %v", err)
	}
}

func TestExamValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Exam)
	}{
		{"no title", func(e *Exam) { e.Title = "" }},
		{"no questions", func(e *Exam) { e.Questions = nil }},
		{"zero max attempts", func(e *Exam) { e.MaxAttempts = 0 }},
		{"paid without price", func(e *Exam) { e.IsPaid = true; e.Price = 0 }},
		{"paid with negative price", func(e *Exam) { e.IsPaid = true; e.Price = -10 }},
		{"mcq without options", func(e *Exam) { e.Questions[0].Options = nil }},
		{"mcq with one option", func(e *Exam) { e.Questions[0].Options = []string{"A"} }},
		{"mcq with empty option", func(e *Exam) { e.Questions[0].Options = []string{"A", ""} }},
		{"mcq without answer key", func(e *Exam) { e.Questions[0].CorrectOptions = nil }},
		{"answer key out of range", func(e *Exam) { e.Questions[0].CorrectOptions = []int{2} }},
		{"negative answer key", func(e *Exam) { e.Questions[0].CorrectOptions = []int{-1} }},
		{"zero score question", func(e *Exam) { e.Questions[0].Score = 0 }},
		{"unknown question type", func(e *Exam) { e.Questions[0].Type = "truefalse" }},
		{"essay with options", func(e *Exam) { e.Questions[1].Options = []string{"A", "B"} }},
		{"essay with answer key", func(e *Exam) { e.Questions[1].CorrectOptions = []int{0} }},
		{"question without prompt", func(e *Exam) { e.Questions[0].Prompt = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := validExam()
			tt.mutate(exam)
			if err := exam.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestExamExpired(t *testing.T) {
	now := time.Now()
	exam := validExam()

	if exam.Expired(now) {
		t.Error("exam without expiry reported expired")
	}

	future := now.Add(time.Hour)
	exam.ExpiresAt = &future
	if exam.Expired(now) {
		t.Error("exam expiring in an hour reported expired")
	}

	past := now.Add(-time.Hour)
	exam.ExpiresAt = &past
	if !exam.Expired(now) {
		t.Error("exam expired an hour ago reported open")
	}
}

func TestQuestionByID(t *testing.T) {
	exam := validExam()

	if q := exam.QuestionByID("q2"); q == nil || q.Type != QuestionEssay {
		t.Errorf("QuestionByID(q2) = %v", q)
	}
	if q := exam.QuestionByID("missing"); q != nil {
		t.Errorf("QuestionByID(missing) = %v, want nil", q)
	}
}
