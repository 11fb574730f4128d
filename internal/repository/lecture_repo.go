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

// LectureRepo handles MongoDB operations for lectures
type LectureRepo interface {
	Create(ctx context.Context, lecture *model.Lecture) (string, error)
	GetByID(ctx context.Context, id string) (*model.Lecture, error)
	// ListByCourse returns the course's lectures ordered by order_index.
	ListByCourse(ctx context.Context, courseID string) ([]*model.Lecture, error)
	Update(ctx context.Context, lecture *model.Lecture) error
	Delete(ctx context.Context, id string) error
}

type lectureRepo struct {
	collection *mongo.Collection
}

// NewLectureRepo creates a new lecture repository
func NewLectureRepo(db *mongo.Database) LectureRepo {
	return &lectureRepo{
		collection: db.Collection("lectures"),
	}
}

func (r *lectureRepo) Create(ctx context.Context, lecture *model.Lecture) (string, error) {
	if lecture.ID == "" {
		lecture.ID = primitive.NewObjectID().Hex()
	}
	lecture.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lecture)
	if err != nil {
		return "", err
	}
	return lecture.ID, nil
}

func (r *lectureRepo) GetByID(ctx context.Context, id string) (*model.Lecture, error) {
	var lecture model.Lecture
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lecture)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &lecture, nil
}

func (r *lectureRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.Lecture, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lectures []*model.Lecture
	if err = cursor.All(ctx, &lectures); err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *lectureRepo) Update(ctx context.Context, lecture *model.Lecture) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": lecture.ID}, lecture)
	return err
}

func (r *lectureRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
