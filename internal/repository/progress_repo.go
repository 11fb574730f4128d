package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lingoclass/internal/model"
)

// ProgressRepo handles MongoDB operations for lecture watch progress
type ProgressRepo interface {
	ListByStudent(ctx context.Context, studentID string) ([]*model.LectureProgress, error)
	Set(ctx context.Context, studentID, lectureID string, completed bool) error
}

type progressRepo struct {
	collection *mongo.Collection
}

// NewProgressRepo creates a new lecture progress repository
func NewProgressRepo(db *mongo.Database) ProgressRepo {
	return &progressRepo{
		collection: db.Collection("lecture_progress"),
	}
}

func (r *progressRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.LectureProgress, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var progress []*model.LectureProgress
	if err = cursor.All(ctx, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *progressRepo) Set(ctx context.Context, studentID, lectureID string, completed bool) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"student_id": studentID, "lecture_id": lectureID},
		bson.M{"$set": bson.M{"completed": completed, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	return err
}
