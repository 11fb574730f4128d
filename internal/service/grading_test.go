package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoclass/internal/model"
)

func TestGradeMCQSetEquality(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Type: model.QuestionMCQ, Prompt: "Pick B and C", Score: 4, Options: []string{"A", "B", "C", "D"}, CorrectOptions: []int{1, 2}},
	}

	tests := []struct {
		name     string
		selected []int
		want     float64
	}{
		{"exact match", []int{1, 2}, 4},
		{"order ignored", []int{2, 1}, 4},
		{"duplicates ignored", []int{1, 2, 2}, 4},
		{"partial selection scores zero", []int{1}, 0},
		{"superset scores zero", []int{1, 2, 3}, 0},
		{"wrong option scores zero", []int{0}, 0},
		{"empty selection scores zero", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := []model.AnswerInput{{QuestionID: "q1", SelectedOptions: tt.selected}}
			answers, total := Grade(questions, inputs)

			require.Len(t, answers, 1)
			require.NotNil(t, answers[0].Score)
			assert.Equal(t, tt.want, *answers[0].Score)
			assert.Equal(t, tt.want, total)
		})
	}
}

func TestGradeMixedExam(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Type: model.QuestionMCQ, Prompt: "Pick A", Score: 2, Options: []string{"A", "B", "C"}, CorrectOptions: []int{0}},
		{ID: "q2", Type: model.QuestionMCQ, Prompt: "Pick B and C", Score: 3, Options: []string{"A", "B", "C"}, CorrectOptions: []int{1, 2}},
		{ID: "q3", Type: model.QuestionEssay, Prompt: "Explain", Score: 5},
	}
	inputs := []model.AnswerInput{
		{QuestionID: "q1", SelectedOptions: []int{0}},
		{QuestionID: "q2", SelectedOptions: []int{2, 1}},
		{QuestionID: "q3", EssayImage: []byte("jpeg bytes"), EssayMimeType: "image/jpeg"},
	}

	answers, total := Grade(questions, inputs)

	require.Len(t, answers, 3)
	assert.Equal(t, 5.0, total, "essay points must not count before manual review")

	require.NotNil(t, answers[0].Score)
	assert.Equal(t, 2.0, *answers[0].Score)
	require.NotNil(t, answers[1].Score)
	assert.Equal(t, 3.0, *answers[1].Score)
	assert.Nil(t, answers[2].Score, "essay answers start ungraded")
}

func TestGradeUnansweredQuestions(t *testing.T) {
	questions := []model.Question{
		{ID: "q1", Type: model.QuestionMCQ, Prompt: "Pick A", Score: 2, Options: []string{"A", "B"}, CorrectOptions: []int{0}},
		{ID: "q2", Type: model.QuestionMCQ, Prompt: "Pick B", Score: 3, Options: []string{"A", "B"}, CorrectOptions: []int{1}},
	}
	inputs := []model.AnswerInput{
		{QuestionID: "q2", SelectedOptions: []int{1}},
	}

	answers, total := Grade(questions, inputs)

	require.Len(t, answers, 2, "every question appears in the result")
	require.NotNil(t, answers[0].Score)
	assert.Equal(t, 0.0, *answers[0].Score)
	assert.Equal(t, 3.0, total)
}

func TestGradeIsDeterministic(t *testing.T) {
	questions := newTestExam("exam-1").Questions
	inputs := []model.AnswerInput{
		{QuestionID: "q1", SelectedOptions: []int{0}},
		{QuestionID: "q2", SelectedOptions: []int{1, 2}},
	}

	first, firstTotal := Grade(questions, inputs)
	second, secondTotal := Grade(questions, inputs)

	assert.Equal(t, firstTotal, secondTotal)
	assert.Equal(t, first, second)
}
