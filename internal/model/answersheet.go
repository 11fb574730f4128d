package model

// AnswerInput is a student's answer to one question as received at submit
// time. Exactly one of the two payloads is meaningful, depending on the
// question type: selected option indices for mcq, image bytes for essay.
type AnswerInput struct {
	QuestionID      string
	SelectedOptions []int
	EssayImage      []byte
	EssayMimeType   string
}

// AnswerSheet accumulates a student's in-progress answers keyed by question
// id. It is purely in-memory; nothing is persisted until the sheet is
// submitted as a whole.
type AnswerSheet map[string]*AnswerInput

// NewAnswerSheet initializes an empty entry per question so every question
// appears in the submission, answered or not.
func NewAnswerSheet(questions []Question) AnswerSheet {
	sheet := make(AnswerSheet, len(questions))
	for _, q := range questions {
		sheet[q.ID] = &AnswerInput{QuestionID: q.ID}
	}
	return sheet
}

// ToggleOption selects the option if it is not selected, deselects it
// otherwise. Multi-select is always allowed since an mcq may have more than
// one correct option.
func (s AnswerSheet) ToggleOption(questionID string, option int) {
	in, ok := s[questionID]
	if !ok {
		return
	}
	for i, sel := range in.SelectedOptions {
		if sel == option {
			in.SelectedOptions = append(in.SelectedOptions[:i], in.SelectedOptions[i+1:]...)
			return
		}
	}
	in.SelectedOptions = append(in.SelectedOptions, option)
}

// AttachEssay stores the photographed essay answer for later upload.
func (s AnswerSheet) AttachEssay(questionID string, image []byte, mimeType string) {
	if in, ok := s[questionID]; ok {
		in.EssayImage = image
		in.EssayMimeType = mimeType
	}
}

// Inputs returns the answers in the order of the given questions.
func (s AnswerSheet) Inputs(questions []Question) []AnswerInput {
	out := make([]AnswerInput, 0, len(questions))
	for _, q := range questions {
		if in, ok := s[q.ID]; ok {
			out = append(out, *in)
		} else {
			out = append(out, AnswerInput{QuestionID: q.ID})
		}
	}
	return out
}
