package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lingoclass/internal/model"
)

// errShortBalance aborts the purchase transaction when the conditional
// debit matches nothing, rolling back the enrollment insert.
var errShortBalance = errors.New("balance does not cover the price")

// EnrollmentRepo handles MongoDB operations for course enrollments,
// including the transactional self-purchase path (wallet debit + enrollment
// insert committed together).
type EnrollmentRepo interface {
	Create(ctx context.Context, e *model.Enrollment) (string, error)
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Enrollment, error)
	// PurchaseCourse debits the student's wallet and creates the
	// enrollment in one transaction; applied is false when the balance
	// does not cover the price or the enrollment already exists (nothing
	// is written in either case).
	PurchaseCourse(ctx context.Context, studentID string, course *model.Course) (applied bool, err error)
	EnsureIndexes(ctx context.Context) error
}

type enrollmentRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewEnrollmentRepo creates a new enrollment repository
func NewEnrollmentRepo(db *mongo.Database) EnrollmentRepo {
	return &enrollmentRepo{
		db:         db,
		collection: db.Collection("enrollments"),
	}
}

// EnsureIndexes creates the unique (student_id, course_id) index that makes
// a course purchase exactly-once under concurrent submits.
func (r *enrollmentRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "course_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) (string, error) {
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	if e.ActivatedAt.IsZero() {
		e.ActivatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, e)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"student_id": studentID, "course_id": courseID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.Enrollment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var enrollments []*model.Enrollment
	if err = cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// PurchaseCourse inserts the enrollment first so the unique
// (student_id, course_id) index rejects a concurrent duplicate before any
// money moves; the conditional debit then commits with it or the whole
// transaction rolls back. Two racing purchases can charge at most once.
func (r *enrollmentRepo) PurchaseCourse(ctx context.Context, studentID string, course *model.Course) (bool, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		enrollment := &model.Enrollment{
			ID:          primitive.NewObjectID().Hex(),
			StudentID:   studentID,
			CourseID:    course.ID,
			ActivatedBy: model.ActivatedBySelfPurchase,
			ActivatedAt: time.Now(),
		}
		if _, err := r.collection.InsertOne(sc, enrollment); err != nil {
			return nil, err
		}

		res, err := r.db.Collection("profiles").UpdateOne(sc,
			bson.M{"_id": studentID, "wallet_balance": bson.M{"$gte": course.Price}},
			bson.M{"$inc": bson.M{"wallet_balance": -course.Price}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, errShortBalance
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, errShortBalance) || mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
