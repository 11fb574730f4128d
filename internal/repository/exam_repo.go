package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lingoclass/internal/model"
)

// ExamRepo handles MongoDB operations for exams
type ExamRepo interface {
	Create(ctx context.Context, exam *model.Exam) (string, error)
	GetByID(ctx context.Context, id string) (*model.Exam, error)
	ListByCourse(ctx context.Context, courseID string) ([]*model.Exam, error)
	ListStandaloneByGrade(ctx context.Context, grade string) ([]*model.Exam, error)
	ListAll(ctx context.Context) ([]*model.Exam, error)
	Update(ctx context.Context, exam *model.Exam) error
	Delete(ctx context.Context, id string) error
}

type examRepo struct {
	collection *mongo.Collection
}

// NewExamRepo creates a new exam repository
func NewExamRepo(db *mongo.Database) ExamRepo {
	return &examRepo{
		collection: db.Collection("exams"),
	}
}

func (r *examRepo) Create(ctx context.Context, exam *model.Exam) (string, error) {
	if exam.ID == "" {
		exam.ID = primitive.NewObjectID().Hex()
	}
	exam.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, exam)
	if err != nil {
		return "", err
	}
	return exam.ID, nil
}

// GetByID decodes and validates the stored exam. Grading trusts the exam's
// shape, so a malformed document (hand-edited, or written by an older
// version) is an error here, not a silent zero score later.
func (r *examRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	if err := exam.Validate(); err != nil {
		return nil, fmt.Errorf("stored exam %s is malformed: %w", id, err)
	}
	return &exam, nil
}

func (r *examRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.Exam, error) {
	return r.list(ctx, bson.M{"course_id": courseID})
}

func (r *examRepo) ListStandaloneByGrade(ctx context.Context, grade string) ([]*model.Exam, error) {
	return r.list(ctx, bson.M{"grade": grade, "course_id": bson.M{"$in": bson.A{nil, ""}}})
}

func (r *examRepo) ListAll(ctx context.Context) ([]*model.Exam, error) {
	return r.list(ctx, bson.M{})
}

func (r *examRepo) list(ctx context.Context, filter bson.M) ([]*model.Exam, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exams []*model.Exam
	if err = cursor.All(ctx, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepo) Update(ctx context.Context, exam *model.Exam) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": exam.ID}, exam)
	return err
}

func (r *examRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
