package service

import (
	"context"
	"fmt"
	"log"

	"lingoclass/internal/cache"
	"lingoclass/internal/model"
	"lingoclass/internal/repository"
)

// CourseService handles the course catalog, enrollments and course
// purchases.
type CourseService struct {
	courseRepo     repository.CourseRepo
	enrollmentRepo repository.EnrollmentRepo
	catalogCache   cache.CatalogCache
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo repository.CourseRepo,
	enrollmentRepo repository.EnrollmentRepo,
	catalogCache cache.CatalogCache,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		catalogCache:   catalogCache,
	}
}

// CreateCourse validates and persists a new course.
func (s *CourseService) CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	if err := course.Validate(); err != nil {
		return nil, fmt.Errorf("invalid course: %w", err)
	}
	if _, err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	s.invalidateCatalog(ctx, course.Grade)
	return course, nil
}

// UpdateCourse validates and replaces an existing course.
func (s *CourseService) UpdateCourse(ctx context.Context, course *model.Course) error {
	existing, err := s.courseRepo.GetByID(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}
	if existing == nil {
		return ErrCourseNotFound
	}
	if err := course.Validate(); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}
	course.CreatedAt = existing.CreatedAt

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	s.invalidateCatalog(ctx, existing.Grade)
	if course.Grade != existing.Grade {
		s.invalidateCatalog(ctx, course.Grade)
	}
	return nil
}

// DeleteCourse removes a course.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.invalidateCatalog(ctx, course.Grade)
	return nil
}

// GetCourse fetches one course.
func (s *CourseService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// ListByGrade returns the catalog for one grade, trying the cache first.
func (s *CourseService) ListByGrade(ctx context.Context, grade string) ([]*model.Course, error) {
	if courses, err := s.catalogCache.GetCourses(ctx, grade); err == nil && courses != nil {
		return courses, nil
	}

	courses, err := s.courseRepo.ListByGrade(ctx, grade)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	if err := s.catalogCache.SetCourses(ctx, grade, courses); err != nil {
		log.Printf("failed to cache course catalog for grade %s: %v", grade, err)
	}
	return courses, nil
}

// ListAll returns every course, for the teacher dashboard.
func (s *CourseService) ListAll(ctx context.Context) ([]*model.Course, error) {
	return s.courseRepo.ListAll(ctx)
}

// Purchase buys course access with the student's wallet. Debit and
// enrollment commit together behind a unique (student, course) index, so
// two racing purchases charge at most once. Owning the course already is
// an error, never a second charge.
func (s *CourseService) Purchase(ctx context.Context, studentID, courseID string) error {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	applied, err := s.enrollmentRepo.PurchaseCourse(ctx, studentID, course)
	if err != nil {
		return fmt.Errorf("failed to purchase course: %w", err)
	}
	if !applied {
		// Either the balance is short or another device won the purchase
		// race; re-read to tell the two apart.
		enrolled, err := s.enrollmentRepo.Exists(ctx, studentID, courseID)
		if err != nil {
			return fmt.Errorf("failed to recheck enrollment: %w", err)
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}
		return ErrInsufficientFunds
	}
	return nil
}

// GrantEnrollment lets the teacher enroll a student by hand.
func (s *CourseService) GrantEnrollment(ctx context.Context, studentID, courseID string) error {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return err
	}
	enrolled, err := s.enrollmentRepo.Exists(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{
		StudentID:   studentID,
		CourseID:    courseID,
		ActivatedBy: model.ActivatedByTeacherGrant,
	}
	if _, err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

// IsEnrolled reports whether the student can access the course's lectures.
func (s *CourseService) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	return s.enrollmentRepo.Exists(ctx, studentID, courseID)
}

func (s *CourseService) invalidateCatalog(ctx context.Context, grade string) {
	if err := s.catalogCache.InvalidateCourses(ctx, grade); err != nil {
		log.Printf("failed to invalidate course catalog for grade %s: %v", grade, err)
	}
}
