package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lingoclass/internal/cache"
	"lingoclass/internal/model"
	"lingoclass/internal/repository"
)

// AccessResult is the access gate's verdict for one (exam, student) pair.
type AccessResult struct {
	Allowed   bool        `json:"allowed"`
	Reason    DenyReason  `json:"reason,omitempty"`
	LastScore *float64    `json:"lastScore,omitempty"`
	Charged   bool        `json:"charged"`
	Exam      *model.Exam `json:"-"`
}

// ExamService handles the exam catalog and the access gate: attempt limits,
// expiry, and the paid-exam paywall.
type ExamService struct {
	examRepo       repository.ExamRepo
	profileRepo    repository.ProfileRepo
	submissionRepo repository.SubmissionRepo
	examCache      cache.ExamCache
}

// NewExamService creates a new exam service
func NewExamService(
	examRepo repository.ExamRepo,
	profileRepo repository.ProfileRepo,
	submissionRepo repository.SubmissionRepo,
	examCache cache.ExamCache,
) *ExamService {
	return &ExamService{
		examRepo:       examRepo,
		profileRepo:    profileRepo,
		submissionRepo: submissionRepo,
		examCache:      examCache,
	}
}

// CreateExam validates and persists a new exam. Malformed definitions
// (mcq without a key, paid without a price) are rejected here, never at
// grading time. Missing question ids are assigned.
func (s *ExamService) CreateExam(ctx context.Context, exam *model.Exam) (*model.Exam, error) {
	if exam.MaxAttempts == 0 {
		exam.MaxAttempts = 1
	}
	if !exam.IsPaid {
		exam.Price = 0
	}
	for i := range exam.Questions {
		if exam.Questions[i].ID == "" {
			exam.Questions[i].ID = uuid.New().String()
		}
	}
	if err := exam.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exam: %w", err)
	}

	if _, err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	return exam, nil
}

// UpdateExam validates and replaces an existing exam definition.
func (s *ExamService) UpdateExam(ctx context.Context, exam *model.Exam) error {
	existing, err := s.examRepo.GetByID(ctx, exam.ID)
	if err != nil {
		return fmt.Errorf("failed to get exam: %w", err)
	}
	if existing == nil {
		return ErrExamNotFound
	}

	for i := range exam.Questions {
		if exam.Questions[i].ID == "" {
			exam.Questions[i].ID = uuid.New().String()
		}
	}
	if err := exam.Validate(); err != nil {
		return fmt.Errorf("invalid exam: %w", err)
	}
	exam.CreatedAt = existing.CreatedAt

	if err := s.examRepo.Update(ctx, exam); err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}
	if err := s.examCache.Invalidate(ctx, exam.ID); err != nil {
		log.Printf("failed to invalidate exam cache for %s: %v", exam.ID, err)
	}
	return nil
}

// DeleteExam removes an exam.
func (s *ExamService) DeleteExam(ctx context.Context, id string) error {
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	if err := s.examCache.Invalidate(ctx, id); err != nil {
		log.Printf("failed to invalidate exam cache for %s: %v", id, err)
	}
	return nil
}

// GetExam fetches an exam, trying the cache first.
func (s *ExamService) GetExam(ctx context.Context, id string) (*model.Exam, error) {
	if exam, err := s.examCache.Get(ctx, id); err == nil && exam != nil {
		return exam, nil
	}

	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam == nil {
		return nil, ErrExamNotFound
	}

	if err := s.examCache.Set(ctx, exam); err != nil {
		log.Printf("failed to cache exam %s: %v", exam.ID, err)
	}
	return exam, nil
}

// ListForStudent returns the standalone exams targeted at the student's
// grade plus the exams of a course, when one is given.
func (s *ExamService) ListForStudent(ctx context.Context, grade, courseID string) ([]*model.Exam, error) {
	if courseID != "" {
		return s.examRepo.ListByCourse(ctx, courseID)
	}
	return s.examRepo.ListStandaloneByGrade(ctx, grade)
}

// ListAll returns every exam, for the teacher dashboard.
func (s *ExamService) ListAll(ctx context.Context) ([]*model.Exam, error) {
	return s.examRepo.ListAll(ctx)
}

// CheckAccess decides whether the student may start a new attempt right
// now. For a paid exam that is not yet owned it also performs the purchase:
// wallet debit plus entitlement grant as one atomic write, so the student
// can never be charged without receiving access (or the reverse), and a
// repeated purchase never charges twice.
func (s *ExamService) CheckAccess(ctx context.Context, examID, studentID string) (*AccessResult, error) {
	exam, err := s.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	if exam.Expired(time.Now()) {
		return &AccessResult{Reason: DenyExpired, Exam: exam}, nil
	}

	subs, err := s.submissionRepo.ListByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	maxAttempts := exam.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if len(subs) >= maxAttempts {
		// subs are sorted most recent first
		last := subs[0].TotalScore
		return &AccessResult{Reason: DenyAttemptsExhausted, LastScore: &last, Exam: exam}, nil
	}

	if !exam.IsPaid {
		return &AccessResult{Allowed: true, Exam: exam}, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if profile.HasPurchasedExam(examID) {
		return &AccessResult{Allowed: true, Exam: exam}, nil
	}

	applied, err := s.profileRepo.PurchaseExam(ctx, studentID, examID, exam.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to purchase exam: %w", err)
	}
	if !applied {
		// Either the balance is short or another device won the purchase
		// race; re-read to tell the two apart.
		profile, err = s.profileRepo.GetByID(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload profile: %w", err)
		}
		if profile != nil && profile.HasPurchasedExam(examID) {
			return &AccessResult{Allowed: true, Exam: exam}, nil
		}
		return &AccessResult{Reason: DenyInsufficientFunds, Exam: exam}, nil
	}

	return &AccessResult{Allowed: true, Charged: true, Exam: exam}, nil
}
