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

// ProfileRepo handles MongoDB operations for accounts and their wallets.
// The wallet mutations are conditional single-document updates so that a
// debit can never drive the balance negative and a paid-exam purchase
// applies the debit and the entitlement together or not at all.
type ProfileRepo interface {
	Create(ctx context.Context, profile *model.Profile) (string, error)
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByPhone(ctx context.Context, phone string) (*model.Profile, error)
	ListByParentPhone(ctx context.Context, phone string) ([]*model.Profile, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	SetProfileImage(ctx context.Context, id, url string) error
	SetPushToken(ctx context.Context, id, token string) error

	// CreditWallet unconditionally adds amount to the balance.
	CreditWallet(ctx context.Context, id string, amount float64) error
	// DebitWallet subtracts amount if the balance covers it; applied
	// reports whether the debit happened.
	DebitWallet(ctx context.Context, id string, amount float64) (applied bool, err error)
	// PurchaseExam debits price and records the exam entitlement in one
	// atomic write. It does not apply if the balance is short or the exam
	// is already owned.
	PurchaseExam(ctx context.Context, id, examID string, price float64) (applied bool, err error)

	EnsureIndexes(ctx context.Context) error
}

type profileRepo struct {
	collection *mongo.Collection
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{
		collection: db.Collection("profiles"),
	}
}

func (r *profileRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) (string, error) {
	if profile.ID == "" {
		profile.ID = primitive.NewObjectID().Hex()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByPhone(ctx context.Context, phone string) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"phone_number": phone}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) ListByParentPhone(ctx context.Context, phone string) ([]*model.Profile, error) {
	return r.list(ctx, bson.M{"parent_phone": phone})
}

func (r *profileRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.Profile, error) {
	return r.list(ctx, bson.M{"role": role})
}

func (r *profileRepo) list(ctx context.Context, filter bson.M) ([]*model.Profile, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []*model.Profile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.Profile) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	return err
}

func (r *profileRepo) SetProfileImage(ctx context.Context, id, url string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"profile_image": url}})
	return err
}

func (r *profileRepo) SetPushToken(ctx context.Context, id, token string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"expo_push_token": token}})
	return err
}

func (r *profileRepo) CreditWallet(ctx context.Context, id string, amount float64) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"wallet_balance": amount}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *profileRepo) DebitWallet(ctx context.Context, id string, amount float64) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "wallet_balance": bson.M{"$gte": amount}},
		bson.M{"$inc": bson.M{"wallet_balance": -amount}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *profileRepo) PurchaseExam(ctx context.Context, id, examID string, price float64) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":             id,
			"wallet_balance":  bson.M{"$gte": price},
			"purchased_exams": bson.M{"$ne": examID},
		},
		bson.M{
			"$inc":      bson.M{"wallet_balance": -price},
			"$addToSet": bson.M{"purchased_exams": examID},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
