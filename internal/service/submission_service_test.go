package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoclass/internal/model"
)

type submitFixture struct {
	svc      *SubmissionService
	subRepo  *fakeSubmissionRepo
	attempts *fakeAttemptRepo
	uploader *fakeUploader
	profiles *fakeProfileRepo
}

func newSubmitFixture(exam *model.Exam, profiles ...*model.Profile) *submitFixture {
	f := &submitFixture{
		subRepo:  &fakeSubmissionRepo{},
		attempts: newFakeAttemptRepo(),
		uploader: newFakeUploader(),
		profiles: newFakeProfileRepo(profiles...),
	}
	examSvc := newExamService(newFakeExamRepo(exam), f.profiles, f.subRepo)
	f.svc = NewSubmissionService(examSvc, f.subRepo, f.attempts, f.uploader)
	return f
}

func TestSubmitRecordsGradedAttempt(t *testing.T) {
	f := newSubmitFixture(newTestExam("exam-1"))
	inputs := []model.AnswerInput{
		{QuestionID: "q1", SelectedOptions: []int{0}},
		{QuestionID: "q2", SelectedOptions: []int{1, 2}},
	}

	sub, err := f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.NoError(t, err)

	assert.Equal(t, 5.0, sub.TotalScore)
	assert.Equal(t, model.SubmissionPending, sub.Status, "submissions always start pending review")
	assert.Len(t, f.subRepo.subs, 1)

	count, err := f.attempts.Count(context.Background(), "exam-1", "student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitEnforcesAttemptCeiling(t *testing.T) {
	exam := newTestExam("exam-1")
	exam.MaxAttempts = 2
	f := newSubmitFixture(exam)
	inputs := []model.AnswerInput{{QuestionID: "q1", SelectedOptions: []int{0}}}

	_, err := f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.NoError(t, err)
	_, err = f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DenyAttemptsExhausted, denied.Reason)
	assert.Len(t, f.subRepo.subs, 2, "the third attempt must not be recorded")
}

func TestSubmitUploadsEssayImages(t *testing.T) {
	exam := newTestExam("exam-1")
	exam.Questions = append(exam.Questions, model.Question{
		ID: "q3", Type: model.QuestionEssay, Prompt: "Explain", Score: 5,
	})
	f := newSubmitFixture(exam)
	inputs := []model.AnswerInput{
		{QuestionID: "q1", SelectedOptions: []int{0}},
		{QuestionID: "q3", EssayImage: []byte("jpeg bytes"), EssayMimeType: "image/jpeg"},
	}

	sub, err := f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.NoError(t, err)

	assert.Len(t, f.uploader.uploads, 1)
	var essay *model.Answer
	for i := range sub.Answers {
		if sub.Answers[i].QuestionID == "q3" {
			essay = &sub.Answers[i]
		}
	}
	require.NotNil(t, essay)
	assert.Contains(t, essay.EssayImageURL, "https://cdn.test/")
	assert.Nil(t, essay.Score)
}

func TestSubmitAbortsWhenUploadFails(t *testing.T) {
	exam := newTestExam("exam-1")
	exam.Questions = append(exam.Questions, model.Question{
		ID: "q3", Type: model.QuestionEssay, Prompt: "Explain", Score: 5,
	})
	f := newSubmitFixture(exam)
	f.uploader.err = errors.New("bucket unreachable")
	inputs := []model.AnswerInput{
		{QuestionID: "q3", EssayImage: []byte("jpeg bytes")},
	}

	_, err := f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.Error(t, err)

	assert.Empty(t, f.subRepo.subs, "nothing is recorded when an image upload fails")
	count, _ := f.attempts.Count(context.Background(), "exam-1", "student-1")
	assert.Equal(t, 0, count, "no attempt slot is consumed either")
}

func TestSubmitReleasesSlotWhenWriteFails(t *testing.T) {
	f := newSubmitFixture(newTestExam("exam-1"))
	f.subRepo.createErr = errors.New("write failed")
	inputs := []model.AnswerInput{{QuestionID: "q1", SelectedOptions: []int{0}}}

	_, err := f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.Error(t, err)

	count, _ := f.attempts.Count(context.Background(), "exam-1", "student-1")
	assert.Equal(t, 0, count)

	// the student can try again once the store recovers
	f.subRepo.createErr = nil
	_, err = f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	assert.NoError(t, err)
}

func TestSubmitDeniedWhenExpired(t *testing.T) {
	exam := newTestExam("exam-1")
	past := time.Now().Add(-time.Minute)
	exam.ExpiresAt = &past
	f := newSubmitFixture(exam)

	_, err := f.svc.Submit(context.Background(), "exam-1", "student-1", nil)
	var denied *AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, DenyExpired, denied.Reason)
}

func TestGradeEssays(t *testing.T) {
	exam := newTestExam("exam-1")
	exam.Questions = append(exam.Questions,
		model.Question{ID: "q3", Type: model.QuestionEssay, Prompt: "Explain", Score: 5},
		model.Question{ID: "q4", Type: model.QuestionEssay, Prompt: "Argue", Score: 5},
	)
	f := newSubmitFixture(exam)
	inputs := []model.AnswerInput{
		{QuestionID: "q1", SelectedOptions: []int{0}},
		{QuestionID: "q2", SelectedOptions: []int{1, 2}},
		{QuestionID: "q3", EssayImage: []byte("a")},
		{QuestionID: "q4", EssayImage: []byte("b")},
	}
	sub, err := f.svc.Submit(context.Background(), "exam-1", "student-1", inputs)
	require.NoError(t, err)
	require.Equal(t, 5.0, sub.TotalScore)

	// first pass scores only one essay: still pending
	sub, err = f.svc.GradeEssays(context.Background(), sub.ID, map[string]float64{"q3": 4})
	require.NoError(t, err)
	assert.Equal(t, 9.0, sub.TotalScore)
	assert.Equal(t, model.SubmissionPending, sub.Status)

	// second pass completes the review: total includes both essays
	sub, err = f.svc.GradeEssays(context.Background(), sub.ID, map[string]float64{"q4": 3})
	require.NoError(t, err)
	assert.Equal(t, 12.0, sub.TotalScore)
	assert.Equal(t, model.SubmissionGraded, sub.Status)
}

func TestGradeEssaysConflictingPassIsRefused(t *testing.T) {
	exam := newTestExam("exam-1")
	exam.Questions = append(exam.Questions, model.Question{
		ID: "q3", Type: model.QuestionEssay, Prompt: "Explain", Score: 5,
	})
	f := newSubmitFixture(exam)
	sub, err := f.svc.Submit(context.Background(), "exam-1", "student-1", []model.AnswerInput{
		{QuestionID: "q1", SelectedOptions: []int{0}},
		{QuestionID: "q3", EssayImage: []byte("a")},
	})
	require.NoError(t, err)

	// another grading pass commits between this pass's read and write
	f.subRepo.afterGet = func() {
		f.subRepo.afterGet = nil
		f.subRepo.subs[0].Revision++
	}

	_, err = f.svc.GradeEssays(context.Background(), sub.ID, map[string]float64{"q3": 4})
	require.ErrorIs(t, err, ErrGradingConflict)

	stored, err := f.svc.GetSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, stored.TotalScore, "the refused pass must not have written anything")
	assert.Equal(t, model.SubmissionPending, stored.Status)

	// a retry against the current revision goes through
	graded, err := f.svc.GradeEssays(context.Background(), sub.ID, map[string]float64{"q3": 4})
	require.NoError(t, err)
	assert.Equal(t, 6.0, graded.TotalScore)
	assert.Equal(t, model.SubmissionGraded, graded.Status)
}

func TestGradeEssaysRejectsOutOfRangeScore(t *testing.T) {
	exam := newTestExam("exam-1")
	exam.Questions = append(exam.Questions, model.Question{
		ID: "q3", Type: model.QuestionEssay, Prompt: "Explain", Score: 5,
	})
	f := newSubmitFixture(exam)
	sub, err := f.svc.Submit(context.Background(), "exam-1", "student-1", []model.AnswerInput{
		{QuestionID: "q3", EssayImage: []byte("a")},
	})
	require.NoError(t, err)

	_, err = f.svc.GradeEssays(context.Background(), sub.ID, map[string]float64{"q3": 7})
	assert.Error(t, err)
	_, err = f.svc.GradeEssays(context.Background(), sub.ID, map[string]float64{"q3": -1})
	assert.Error(t, err)
}
