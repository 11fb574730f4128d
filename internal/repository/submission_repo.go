package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lingoclass/internal/model"
)

// SubmissionRepo handles MongoDB operations for exam submissions
type SubmissionRepo interface {
	Create(ctx context.Context, sub *model.Submission) (string, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	// ListByExamAndStudent returns the student's attempts, most recent first.
	ListByExamAndStudent(ctx context.Context, examID, studentID string) ([]*model.Submission, error)
	ListByExam(ctx context.Context, examID string) ([]*model.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error)
	// UpdateGrades replaces the answers, total score and status after the
	// teacher's essay-grading pass. The write is conditioned on the
	// revision the submission was read at; applied is false when another
	// pass committed in between.
	UpdateGrades(ctx context.Context, sub *model.Submission) (applied bool, err error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) (string, error) {
	if sub.ID == "" {
		sub.ID = primitive.NewObjectID().Hex()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) ListByExamAndStudent(ctx context.Context, examID, studentID string) ([]*model.Submission, error) {
	return r.list(ctx, bson.M{"exam_id": examID, "student_id": studentID})
}

func (r *submissionRepo) ListByExam(ctx context.Context, examID string) ([]*model.Submission, error) {
	return r.list(ctx, bson.M{"exam_id": examID})
}

func (r *submissionRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Submission, error) {
	return r.list(ctx, bson.M{"student_id": studentID})
}

func (r *submissionRepo) list(ctx context.Context, filter bson.M) ([]*model.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*model.Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *submissionRepo) UpdateGrades(ctx context.Context, sub *model.Submission) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"answers":     sub.Answers,
			"total_score": sub.TotalScore,
			"status":      sub.Status,
		},
		"$inc": bson.M{"revision": 1},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": sub.ID, "revision": sub.Revision}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
