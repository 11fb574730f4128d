package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lingoclass/internal/model"
)

// CourseRepo handles MongoDB operations for courses
type CourseRepo interface {
	Create(ctx context.Context, course *model.Course) (string, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByGrade(ctx context.Context, grade string) ([]*model.Course, error)
	ListAll(ctx context.Context) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	collection *mongo.Collection
}

// NewCourseRepo creates a new course repository
func NewCourseRepo(db *mongo.Database) CourseRepo {
	return &courseRepo{
		collection: db.Collection("courses"),
	}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) (string, error) {
	if course.ID == "" {
		course.ID = primitive.NewObjectID().Hex()
	}
	course.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return "", err
	}
	return course.ID, nil
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByGrade(ctx context.Context, grade string) ([]*model.Course, error) {
	return r.list(ctx, bson.M{"grade": grade})
}

func (r *courseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	return r.list(ctx, bson.M{})
}

func (r *courseRepo) list(ctx context.Context, filter bson.M) ([]*model.Course, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []*model.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	return err
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
