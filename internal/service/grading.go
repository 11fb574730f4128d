package service

import "lingoclass/internal/model"

// Grade scores a completed answer sheet against the exam's questions. It is
// pure: same questions and same inputs always produce the same answers and
// total, and nothing is read or written anywhere.
//
// MCQ questions are scored all-or-nothing: full points when the selected
// option set equals the correct option set (order and duplicates ignored),
// zero otherwise. Essay questions get no score here; the teacher enters
// those points later.
func Grade(questions []model.Question, inputs []model.AnswerInput) ([]model.Answer, float64) {
	byQuestion := make(map[string]*model.AnswerInput, len(inputs))
	for i := range inputs {
		byQuestion[inputs[i].QuestionID] = &inputs[i]
	}

	answers := make([]model.Answer, 0, len(questions))
	total := 0.0

	for _, q := range questions {
		answer := model.Answer{QuestionID: q.ID}
		in := byQuestion[q.ID]

		switch q.Type {
		case model.QuestionMCQ:
			var selected []int
			if in != nil {
				selected = in.SelectedOptions
			}
			score := 0.0
			if sameSet(selected, q.CorrectOptions) {
				score = q.Score
			}
			answer.SelectedOptions = selected
			answer.Score = &score
			total += score
		case model.QuestionEssay:
			// Image URL is attached by the caller after upload; the
			// score stays unset until manual review.
		}

		answers = append(answers, answer)
	}

	return answers, total
}

// sameSet compares two index lists as sets. An empty selection never
// matches a non-empty key.
func sameSet(a, b []int) bool {
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	want := make(map[int]bool, len(b))
	for _, v := range b {
		want[v] = true
	}
	if len(seen) != len(want) {
		return false
	}
	for v := range want {
		if !seen[v] {
			return false
		}
	}
	return true
}
