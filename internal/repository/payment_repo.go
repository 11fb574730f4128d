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

// PaymentRepo handles MongoDB operations for wallet top-up requests. The
// approve path is transactional: the pending→approved flip and the wallet
// credit commit together, and a request can only ever be approved once.
type PaymentRepo interface {
	Create(ctx context.Context, req *model.PaymentRequest) (string, error)
	GetByID(ctx context.Context, id string) (*model.PaymentRequest, error)
	ListPending(ctx context.Context) ([]*model.PaymentRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.PaymentRequest, error)
	// Approve flips the request to approved and credits the student's
	// wallet in one transaction. applied is false if the request was not
	// pending (already processed, or unknown).
	Approve(ctx context.Context, id, reviewerID string) (applied bool, err error)
	// Reject flips the request to rejected if it is still pending.
	Reject(ctx context.Context, id, reviewerID string) (applied bool, err error)
}

type paymentRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewPaymentRepo creates a new payment request repository
func NewPaymentRepo(db *mongo.Database) PaymentRepo {
	return &paymentRepo{
		db:         db,
		collection: db.Collection("payment_requests"),
	}
}

func (r *paymentRepo) Create(ctx context.Context, req *model.PaymentRequest) (string, error) {
	if req.ID == "" {
		req.ID = primitive.NewObjectID().Hex()
	}
	req.Status = model.PaymentPending
	req.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return "", err
	}
	return req.ID, nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*model.PaymentRequest, error) {
	var req model.PaymentRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *paymentRepo) ListPending(ctx context.Context) ([]*model.PaymentRequest, error) {
	return r.list(ctx, bson.M{"status": model.PaymentPending})
}

func (r *paymentRepo) ListByStudent(ctx context.Context, studentID string) ([]*model.PaymentRequest, error) {
	return r.list(ctx, bson.M{"student_id": studentID})
}

func (r *paymentRepo) list(ctx context.Context, filter bson.M) ([]*model.PaymentRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []*model.PaymentRequest
	if err = cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *paymentRepo) Approve(ctx context.Context, id, reviewerID string) (bool, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	applied := false
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		res := r.collection.FindOneAndUpdate(sc,
			bson.M{"_id": id, "status": model.PaymentPending},
			bson.M{"$set": bson.M{
				"status":       model.PaymentApproved,
				"processed_at": now,
				"processed_by": reviewerID,
			}},
		)

		var req model.PaymentRequest
		if err := res.Decode(&req); err != nil {
			if err == mongo.ErrNoDocuments {
				// Not pending anymore; approving twice must not credit twice.
				return nil, nil
			}
			return nil, err
		}

		_, err := r.db.Collection("profiles").UpdateOne(sc,
			bson.M{"_id": req.StudentID},
			bson.M{"$inc": bson.M{"wallet_balance": req.Amount}},
		)
		if err != nil {
			return nil, err
		}
		applied = true
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *paymentRepo) Reject(ctx context.Context, id, reviewerID string) (bool, error) {
	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": model.PaymentPending},
		bson.M{"$set": bson.M{
			"status":       model.PaymentRejected,
			"processed_at": now,
			"processed_by": reviewerID,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
