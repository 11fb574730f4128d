package service

import (
	"context"
	"fmt"

	"lingoclass/internal/model"
	"lingoclass/internal/repository"
)

// LectureService handles lectures and per-student watch progress.
type LectureService struct {
	lectureRepo  repository.LectureRepo
	progressRepo repository.ProgressRepo
	courseSvc    *CourseService
}

// NewLectureService creates a new lecture service
func NewLectureService(
	lectureRepo repository.LectureRepo,
	progressRepo repository.ProgressRepo,
	courseSvc *CourseService,
) *LectureService {
	return &LectureService{
		lectureRepo:  lectureRepo,
		progressRepo: progressRepo,
		courseSvc:    courseSvc,
	}
}

// CreateLecture validates and persists a new lecture.
func (s *LectureService) CreateLecture(ctx context.Context, lecture *model.Lecture) (*model.Lecture, error) {
	if err := lecture.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lecture: %w", err)
	}
	if _, err := s.lectureRepo.Create(ctx, lecture); err != nil {
		return nil, fmt.Errorf("failed to create lecture: %w", err)
	}
	return lecture, nil
}

// UpdateLecture validates and replaces an existing lecture.
func (s *LectureService) UpdateLecture(ctx context.Context, lecture *model.Lecture) error {
	existing, err := s.lectureRepo.GetByID(ctx, lecture.ID)
	if err != nil {
		return fmt.Errorf("failed to get lecture: %w", err)
	}
	if existing == nil {
		return ErrLectureNotFound
	}
	if err := lecture.Validate(); err != nil {
		return fmt.Errorf("invalid lecture: %w", err)
	}
	lecture.CreatedAt = existing.CreatedAt
	return s.lectureRepo.Update(ctx, lecture)
}

// DeleteLecture removes a lecture.
func (s *LectureService) DeleteLecture(ctx context.Context, id string) error {
	return s.lectureRepo.Delete(ctx, id)
}

// ListForStudent returns the course's lectures (ordered) for an enrolled
// student, along with the student's progress.
func (s *LectureService) ListForStudent(ctx context.Context, studentID, courseID string) ([]*model.Lecture, []*model.LectureProgress, error) {
	enrolled, err := s.courseSvc.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, nil, ErrNotEnrolled
	}

	lectures, err := s.lectureRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list lectures: %w", err)
	}
	progress, err := s.progressRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return lectures, progress, nil
}

// ListByCourse returns lectures without the enrollment check, for the
// teacher dashboard.
func (s *LectureService) ListByCourse(ctx context.Context, courseID string) ([]*model.Lecture, error) {
	return s.lectureRepo.ListByCourse(ctx, courseID)
}

// SetProgress marks a lecture as watched (or not) for a student.
func (s *LectureService) SetProgress(ctx context.Context, studentID, lectureID string, completed bool) error {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return fmt.Errorf("failed to get lecture: %w", err)
	}
	if lecture == nil {
		return ErrLectureNotFound
	}
	return s.progressRepo.Set(ctx, studentID, lectureID, completed)
}
