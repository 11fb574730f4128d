package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttemptRepo maintains the per-(exam, student) attempt counter. The counter
// is the server-side guard against over-attempt races: reserving a slot is
// one compare-and-set, so two devices submitting at once cannot both get the
// last slot.
type AttemptRepo interface {
	// Reserve claims one attempt slot if fewer than max are used.
	Reserve(ctx context.Context, examID, studentID string, max int) (reserved bool, err error)
	// Release returns a slot claimed by Reserve after a failed submit.
	Release(ctx context.Context, examID, studentID string) error
	Count(ctx context.Context, examID, studentID string) (int, error)
	EnsureIndexes(ctx context.Context) error
}

type attemptRepo struct {
	collection *mongo.Collection
}

// NewAttemptRepo creates a new attempt counter repository
func NewAttemptRepo(db *mongo.Database) AttemptRepo {
	return &attemptRepo{
		collection: db.Collection("exam_attempts"),
	}
}

// EnsureIndexes creates the unique (exam_id, student_id) index the
// reservation scheme relies on.
func (r *attemptRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "exam_id", Value: 1}, {Key: "student_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Reserve increments the counter only while it is below max. When the
// counter is already at the ceiling the filter matches nothing, the upsert
// tries to insert a second counter document and the unique index rejects
// it; that duplicate-key error is the "attempts exhausted" signal.
func (r *attemptRepo) Reserve(ctx context.Context, examID, studentID string, max int) (bool, error) {
	filter := bson.M{
		"exam_id":    examID,
		"student_id": studentID,
		"count":      bson.M{"$lt": max},
	}
	update := bson.M{"$inc": bson.M{"count": 1}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *attemptRepo) Release(ctx context.Context, examID, studentID string) error {
	filter := bson.M{
		"exam_id":    examID,
		"student_id": studentID,
		"count":      bson.M{"$gt": 0},
	}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"count": -1}})
	return err
}

func (r *attemptRepo) Count(ctx context.Context, examID, studentID string) (int, error) {
	var doc struct {
		Count int `bson:"count"`
	}
	err := r.collection.FindOne(ctx, bson.M{"exam_id": examID, "student_id": studentID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return doc.Count, nil
}
