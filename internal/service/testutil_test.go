package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"lingoclass/internal/model"
)

// In-memory fakes for the repository, cache and storage interfaces.

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func newFakeProfileRepo(profiles ...*model.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *model.Profile) (string, error) {
	if p.ID == "" {
		p.ID = fmt.Sprintf("profile-%d", len(r.profiles)+1)
	}
	r.profiles[p.ID] = p
	return p.ID, nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProfileRepo) GetByPhone(ctx context.Context, phone string) (*model.Profile, error) {
	for _, p := range r.profiles {
		if p.PhoneNumber == phone {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) ListByParentPhone(ctx context.Context, phone string) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range r.profiles {
		if p.ParentPhone == phone {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range r.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) SetProfileImage(ctx context.Context, id, url string) error {
	if p, ok := r.profiles[id]; ok {
		p.ProfileImage = url
	}
	return nil
}

func (r *fakeProfileRepo) SetPushToken(ctx context.Context, id, token string) error {
	if p, ok := r.profiles[id]; ok {
		p.ExpoPushToken = token
	}
	return nil
}

func (r *fakeProfileRepo) CreditWallet(ctx context.Context, id string, amount float64) error {
	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("profile not found")
	}
	p.WalletBalance += amount
	return nil
}

func (r *fakeProfileRepo) DebitWallet(ctx context.Context, id string, amount float64) (bool, error) {
	p, ok := r.profiles[id]
	if !ok || p.WalletBalance < amount {
		return false, nil
	}
	p.WalletBalance -= amount
	return true, nil
}

func (r *fakeProfileRepo) PurchaseExam(ctx context.Context, id, examID string, price float64) (bool, error) {
	p, ok := r.profiles[id]
	if !ok || p.WalletBalance < price || p.HasPurchasedExam(examID) {
		return false, nil
	}
	p.WalletBalance -= price
	p.PurchasedExams = append(p.PurchasedExams, examID)
	return true, nil
}

func (r *fakeProfileRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeExamRepo struct {
	exams map[string]*model.Exam
}

func newFakeExamRepo(exams ...*model.Exam) *fakeExamRepo {
	r := &fakeExamRepo{exams: make(map[string]*model.Exam)}
	for _, e := range exams {
		r.exams[e.ID] = e
	}
	return r
}

func (r *fakeExamRepo) Create(ctx context.Context, e *model.Exam) (string, error) {
	if e.ID == "" {
		e.ID = fmt.Sprintf("exam-%d", len(r.exams)+1)
	}
	r.exams[e.ID] = e
	return e.ID, nil
}

func (r *fakeExamRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	e, ok := r.exams[id]
	if !ok {
		return nil, nil
	}
	return e, nil
}

func (r *fakeExamRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.Exam, error) {
	var out []*model.Exam
	for _, e := range r.exams {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) ListStandaloneByGrade(ctx context.Context, grade string) ([]*model.Exam, error) {
	var out []*model.Exam
	for _, e := range r.exams {
		if e.CourseID == "" && e.Grade == grade {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) ListAll(ctx context.Context) ([]*model.Exam, error) {
	var out []*model.Exam
	for _, e := range r.exams {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeExamRepo) Update(ctx context.Context, e *model.Exam) error {
	r.exams[e.ID] = e
	return nil
}

func (r *fakeExamRepo) Delete(ctx context.Context, id string) error {
	delete(r.exams, id)
	return nil
}

type fakeSubmissionRepo struct {
	subs      []*model.Submission
	createErr error
	afterGet  func() // runs after GetByID, to interleave a concurrent write
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub-%d", len(r.subs)+1)
	}
	r.subs = append(r.subs, sub)
	return sub.ID, nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	for _, s := range r.subs {
		if s.ID == id {
			clone := *s
			clone.Answers = append([]model.Answer(nil), s.Answers...)
			if r.afterGet != nil {
				r.afterGet()
			}
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) ListByExamAndStudent(ctx context.Context, examID, studentID string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range r.subs {
		if s.ExamID == examID && s.StudentID == studentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *fakeSubmissionRepo) ListByExam(ctx context.Context, examID string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range r.subs {
		if s.ExamID == examID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range r.subs {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) UpdateGrades(ctx context.Context, sub *model.Submission) (bool, error) {
	for i, s := range r.subs {
		if s.ID == sub.ID {
			if s.Revision != sub.Revision {
				return false, nil
			}
			clone := *sub
			clone.Revision++
			r.subs[i] = &clone
			return true, nil
		}
	}
	return false, nil
}

type fakeAttemptRepo struct {
	counts map[string]int
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{counts: make(map[string]int)}
}

func attemptKey(examID, studentID string) string { return examID + "/" + studentID }

func (r *fakeAttemptRepo) Reserve(ctx context.Context, examID, studentID string, max int) (bool, error) {
	key := attemptKey(examID, studentID)
	if r.counts[key] >= max {
		return false, nil
	}
	r.counts[key]++
	return true, nil
}

func (r *fakeAttemptRepo) Release(ctx context.Context, examID, studentID string) error {
	key := attemptKey(examID, studentID)
	if r.counts[key] > 0 {
		r.counts[key]--
	}
	return nil
}

func (r *fakeAttemptRepo) Count(ctx context.Context, examID, studentID string) (int, error) {
	return r.counts[attemptKey(examID, studentID)], nil
}

func (r *fakeAttemptRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeExamCache struct {
	exams map[string]*model.Exam
}

func newFakeExamCache() *fakeExamCache {
	return &fakeExamCache{exams: make(map[string]*model.Exam)}
}

func (c *fakeExamCache) Get(ctx context.Context, examID string) (*model.Exam, error) {
	return c.exams[examID], nil
}

func (c *fakeExamCache) Set(ctx context.Context, exam *model.Exam) error {
	c.exams[exam.ID] = exam
	return nil
}

func (c *fakeExamCache) Invalidate(ctx context.Context, examID string) error {
	delete(c.exams, examID)
	return nil
}

type fakeUploader struct {
	uploads map[string]int
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string]int)}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploads[key]++
	return "https://cdn.test/" + key, nil
}

// test data helpers

func newTestExam(id string) *model.Exam {
	return &model.Exam{
		ID:          id,
		Title:       "Unit 1 Review",
		Grade:       "grade-9",
		MaxAttempts: 1,
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionMCQ, Prompt: "Pick A", Score: 2, Options: []string{"A", "B", "C", "D"}, CorrectOptions: []int{0}},
			{ID: "q2", Type: model.QuestionMCQ, Prompt: "Pick B and C", Score: 3, Options: []string{"A", "B", "C", "D"}, CorrectOptions: []int{1, 2}},
		},
		CreatedAt: time.Now(),
	}
}

func newExamService(examRepo *fakeExamRepo, profileRepo *fakeProfileRepo, subRepo *fakeSubmissionRepo) *ExamService {
	return NewExamService(examRepo, profileRepo, subRepo, newFakeExamCache())
}
