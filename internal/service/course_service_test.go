package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingoclass/internal/model"
)

type fakeCourseRepo struct {
	courses map[string]*model.Course
}

func newFakeCourseRepo(courses ...*model.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: make(map[string]*model.Course)}
	for _, c := range courses {
		r.courses[c.ID] = c
	}
	return r
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *model.Course) (string, error) {
	if c.ID == "" {
		c.ID = fmt.Sprintf("course-%d", len(r.courses)+1)
	}
	r.courses[c.ID] = c
	return c.ID, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCourseRepo) ListByGrade(ctx context.Context, grade string) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range r.courses {
		if c.Grade == grade {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *model.Course) error {
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	delete(r.courses, id)
	return nil
}

type fakeEnrollmentRepo struct {
	enrollments []*model.Enrollment
	profiles    *fakeProfileRepo
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, e *model.Enrollment) (string, error) {
	if e.ID == "" {
		e.ID = fmt.Sprintf("enr-%d", len(r.enrollments)+1)
	}
	if e.ActivatedAt.IsZero() {
		e.ActivatedAt = time.Now()
	}
	r.enrollments = append(r.enrollments, e)
	return e.ID, nil
}

func (r *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	for _, e := range r.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Enrollment, error) {
	var out []*model.Enrollment
	for _, e := range r.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) PurchaseCourse(ctx context.Context, studentID string, course *model.Course) (bool, error) {
	// uniqueness is enforced inside the purchase, like the unique index
	enrolled, err := r.Exists(ctx, studentID, course.ID)
	if err != nil || enrolled {
		return false, err
	}
	applied, err := r.profiles.DebitWallet(ctx, studentID, course.Price)
	if err != nil || !applied {
		return false, err
	}
	_, err = r.Create(ctx, &model.Enrollment{
		StudentID:   studentID,
		CourseID:    course.ID,
		ActivatedBy: model.ActivatedBySelfPurchase,
	})
	return err == nil, err
}

func (r *fakeEnrollmentRepo) EnsureIndexes(ctx context.Context) error { return nil }

// staleExistsEnrollmentRepo serves a configurable number of stale Exists
// reads, modeling a second device whose enrollment check ran before the
// first device's purchase committed.
type staleExistsEnrollmentRepo struct {
	*fakeEnrollmentRepo
	staleReads int
}

func (r *staleExistsEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	if r.staleReads > 0 {
		r.staleReads--
		return false, nil
	}
	return r.fakeEnrollmentRepo.Exists(ctx, studentID, courseID)
}

type fakeCatalogCache struct {
	byGrade map[string][]*model.Course
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{byGrade: make(map[string][]*model.Course)}
}

func (c *fakeCatalogCache) GetCourses(ctx context.Context, grade string) ([]*model.Course, error) {
	return c.byGrade[grade], nil
}

func (c *fakeCatalogCache) SetCourses(ctx context.Context, grade string, courses []*model.Course) error {
	c.byGrade[grade] = courses
	return nil
}

func (c *fakeCatalogCache) InvalidateCourses(ctx context.Context, grade string) error {
	delete(c.byGrade, grade)
	return nil
}

type courseFixture struct {
	svc         *CourseService
	enrollments *fakeEnrollmentRepo
	profiles    *fakeProfileRepo
	cache       *fakeCatalogCache
}

func newCourseFixture(course *model.Course, profiles ...*model.Profile) *courseFixture {
	f := &courseFixture{
		profiles: newFakeProfileRepo(profiles...),
		cache:    newFakeCatalogCache(),
	}
	f.enrollments = &fakeEnrollmentRepo{profiles: f.profiles}
	repo := newFakeCourseRepo()
	if course != nil {
		repo.courses[course.ID] = course
	}
	f.svc = NewCourseService(repo, f.enrollments, f.cache)
	return f
}

func testCourse() *model.Course {
	return &model.Course{
		ID:        "course-1",
		Title:     "Grammar Basics",
		Grade:     "grade-9",
		Price:     150,
		TeacherID: "teacher-1",
	}
}

func TestCoursePurchase(t *testing.T) {
	f := newCourseFixture(testCourse(), &model.Profile{ID: "student-1", Role: model.RoleStudent, WalletBalance: 200})
	ctx := context.Background()

	require.NoError(t, f.svc.Purchase(ctx, "student-1", "course-1"))

	assert.Equal(t, 50.0, f.profiles.profiles["student-1"].WalletBalance)
	enrolled, err := f.svc.IsEnrolled(ctx, "student-1", "course-1")
	require.NoError(t, err)
	assert.True(t, enrolled)
	require.Len(t, f.enrollments.enrollments, 1)
	assert.Equal(t, model.ActivatedBySelfPurchase, f.enrollments.enrollments[0].ActivatedBy)
}

func TestCoursePurchaseInsufficientFunds(t *testing.T) {
	f := newCourseFixture(testCourse(), &model.Profile{ID: "student-1", Role: model.RoleStudent, WalletBalance: 100})
	ctx := context.Background()

	err := f.svc.Purchase(ctx, "student-1", "course-1")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 100.0, f.profiles.profiles["student-1"].WalletBalance)
	assert.Empty(t, f.enrollments.enrollments)
}

func TestCoursePurchaseRaceChargesOnce(t *testing.T) {
	profiles := newFakeProfileRepo(&model.Profile{ID: "student-1", Role: model.RoleStudent, WalletBalance: 400})
	enrollments := &staleExistsEnrollmentRepo{
		fakeEnrollmentRepo: &fakeEnrollmentRepo{profiles: profiles},
	}
	repo := newFakeCourseRepo(testCourse())
	svc := NewCourseService(repo, enrollments, newFakeCatalogCache())
	ctx := context.Background()

	require.NoError(t, svc.Purchase(ctx, "student-1", "course-1"))

	// the second device's enrollment check ran before the first purchase
	// committed, so it sees no enrollment and proceeds
	enrollments.staleReads = 1
	err := svc.Purchase(ctx, "student-1", "course-1")

	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Equal(t, 250.0, profiles.profiles["student-1"].WalletBalance, "the losing purchase must not charge")
	assert.Len(t, enrollments.enrollments, 1)
}

func TestCoursePurchaseTwiceIsRejected(t *testing.T) {
	f := newCourseFixture(testCourse(), &model.Profile{ID: "student-1", Role: model.RoleStudent, WalletBalance: 400})
	ctx := context.Background()

	require.NoError(t, f.svc.Purchase(ctx, "student-1", "course-1"))
	err := f.svc.Purchase(ctx, "student-1", "course-1")

	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.Equal(t, 250.0, f.profiles.profiles["student-1"].WalletBalance, "owning the course must not charge again")
}

func TestGrantEnrollment(t *testing.T) {
	f := newCourseFixture(testCourse(), &model.Profile{ID: "student-1", Role: model.RoleStudent})
	ctx := context.Background()

	require.NoError(t, f.svc.GrantEnrollment(ctx, "student-1", "course-1"))

	assert.Equal(t, 0.0, f.profiles.profiles["student-1"].WalletBalance, "grants are free")
	require.Len(t, f.enrollments.enrollments, 1)
	assert.Equal(t, model.ActivatedByTeacherGrant, f.enrollments.enrollments[0].ActivatedBy)

	err := f.svc.GrantEnrollment(ctx, "student-1", "course-1")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestCoursePurchaseUnknownCourse(t *testing.T) {
	f := newCourseFixture(nil, &model.Profile{ID: "student-1", Role: model.RoleStudent})

	err := f.svc.Purchase(context.Background(), "student-1", "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestListByGradeFillsCatalogCache(t *testing.T) {
	f := newCourseFixture(testCourse())
	ctx := context.Background()

	courses, err := f.svc.ListByGrade(ctx, "grade-9")
	require.NoError(t, err)
	require.Len(t, courses, 1)

	assert.Len(t, f.cache.byGrade["grade-9"], 1, "the first fetch populates the cache")
}
