package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lingoclass/internal/model"
	"lingoclass/internal/repository"
	"lingoclass/internal/storage"
)

// SubmissionService records exam attempts: it runs the access gate, uploads
// essay images, grades the sheet and persists exactly one submission per
// attempt.
type SubmissionService struct {
	examSvc        *ExamService
	submissionRepo repository.SubmissionRepo
	attemptRepo    repository.AttemptRepo
	uploader       storage.Uploader
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	examSvc *ExamService,
	submissionRepo repository.SubmissionRepo,
	attemptRepo repository.AttemptRepo,
	uploader storage.Uploader,
) *SubmissionService {
	return &SubmissionService{
		examSvc:        examSvc,
		submissionRepo: submissionRepo,
		attemptRepo:    attemptRepo,
		uploader:       uploader,
	}
}

// Submit records one completed attempt. The order matters: essay images are
// uploaded first (any upload failure aborts the whole submit, so a recorded
// submission never points at a missing image), then the sheet is graded,
// then an attempt slot is reserved and the record written. A failed write
// returns the reserved slot.
func (s *SubmissionService) Submit(ctx context.Context, examID, studentID string, inputs []model.AnswerInput) (*model.Submission, error) {
	access, err := s.examSvc.CheckAccess(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if !access.Allowed {
		return nil, &AccessDeniedError{Reason: access.Reason, LastScore: access.LastScore}
	}
	exam := access.Exam

	essayURLs, err := s.uploadEssayImages(ctx, exam, studentID, inputs)
	if err != nil {
		return nil, err
	}

	answers, total := Grade(exam.Questions, inputs)
	for i := range answers {
		if url, ok := essayURLs[answers[i].QuestionID]; ok {
			answers[i].EssayImageURL = url
		}
	}

	maxAttempts := exam.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	reserved, err := s.attemptRepo.Reserve(ctx, examID, studentID, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve attempt: %w", err)
	}
	if !reserved {
		return nil, &AccessDeniedError{Reason: DenyAttemptsExhausted, LastScore: access.LastScore}
	}

	sub := &model.Submission{
		ExamID:      examID,
		StudentID:   studentID,
		Answers:     answers,
		TotalScore:  total,
		Status:      model.SubmissionPending,
		SubmittedAt: time.Now(),
	}
	if _, err := s.submissionRepo.Create(ctx, sub); err != nil {
		if relErr := s.attemptRepo.Release(ctx, examID, studentID); relErr != nil {
			log.Printf("failed to release attempt slot for exam %s student %s: %v", examID, studentID, relErr)
		}
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	return sub, nil
}

func (s *SubmissionService) uploadEssayImages(ctx context.Context, exam *model.Exam, studentID string, inputs []model.AnswerInput) (map[string]string, error) {
	urls := make(map[string]string)
	for _, in := range inputs {
		q := exam.QuestionByID(in.QuestionID)
		if q == nil || q.Type != model.QuestionEssay || len(in.EssayImage) == 0 {
			continue
		}

		mimeType := in.EssayMimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		key := fmt.Sprintf("exam_submissions/%s/%s/%s_%s", studentID, exam.ID, q.ID, uuid.New().String())
		url, err := s.uploader.Upload(ctx, key, bytes.NewReader(in.EssayImage), mimeType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload essay image for question %s: %w", q.ID, err)
		}
		urls[q.ID] = url
	}
	return urls, nil
}

// GetSubmission fetches one submission.
func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// ListByExam returns all submissions for an exam, for the teacher's review
// screen.
func (s *SubmissionService) ListByExam(ctx context.Context, examID string) ([]*model.Submission, error) {
	return s.submissionRepo.ListByExam(ctx, examID)
}

// ListByStudent returns a student's submissions, most recent first.
func (s *SubmissionService) ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error) {
	return s.submissionRepo.ListByStudent(ctx, studentID)
}

// GradeEssays applies the teacher's manual scores to a submission's essay
// answers. The total is recomputed as the auto-graded mcq sum plus the
// entered essay points, and the status flips to graded once every essay
// question has a score.
func (s *SubmissionService) GradeEssays(ctx context.Context, submissionID string, scores map[string]float64) (*model.Submission, error) {
	sub, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	exam, err := s.examSvc.GetExam(ctx, sub.ExamID)
	if err != nil {
		return nil, err
	}

	for i := range sub.Answers {
		q := exam.QuestionByID(sub.Answers[i].QuestionID)
		if q == nil || q.Type != model.QuestionEssay {
			continue
		}
		score, ok := scores[q.ID]
		if !ok {
			continue
		}
		if score < 0 || score > q.Score {
			return nil, fmt.Errorf("score %.2f for question %s out of range [0, %.2f]", score, q.ID, q.Score)
		}
		sub.Answers[i].Score = &score
	}

	total := 0.0
	graded := true
	for i := range sub.Answers {
		if sub.Answers[i].Score != nil {
			total += *sub.Answers[i].Score
		} else if q := exam.QuestionByID(sub.Answers[i].QuestionID); q != nil && q.Type == model.QuestionEssay {
			graded = false
		}
	}
	sub.TotalScore = total
	if graded {
		sub.Status = model.SubmissionGraded
	}

	applied, err := s.submissionRepo.UpdateGrades(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to save grades: %w", err)
	}
	if !applied {
		return nil, ErrGradingConflict
	}
	sub.Revision++
	return sub, nil
}
