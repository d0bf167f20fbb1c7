package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/travel-advisor/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepo provides typed MongoDB operations for the users collection.
type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database, collection string) *UserRepo {
	return &UserRepo{coll: db.Collection(collection)}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, byID(userID)).Decode(&u); err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// SetList replaces one list field (domain.UserFieldFavoriteSpots or domain.UserFieldTravelPlans) wholesale.
func (r *UserRepo) SetList(ctx context.Context, userID, field string, values []string) error {
	if values == nil {
		values = []string{}
	}
	res, err := r.coll.UpdateOne(ctx, byID(userID), bson.M{"$set": bson.M{field: values}})
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// TempUserRepo provides typed MongoDB operations for pending registrations.
type TempUserRepo struct {
	coll *mongo.Collection
}

func NewTempUserRepo(db *mongo.Database, collection string) *TempUserRepo {
	return &TempUserRepo{coll: db.Collection(collection)}
}

func (r *TempUserRepo) Put(ctx context.Context, u *domain.TempUser) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert temp user: %w", err)
	}
	return nil
}

func (r *TempUserRepo) GetByUsername(ctx context.Context, username string) (*domain.TempUser, error) {
	var u domain.TempUser
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, notFound(err, "temp user")
	}
	return &u, nil
}

func (r *TempUserRepo) DeleteByUsername(ctx context.Context, username string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"username": username}); err != nil {
		return fmt.Errorf("delete temp user: %w", err)
	}
	return nil
}

// DeleteCreatedBefore removes every pending registration created before cutoff.
func (r *TempUserRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("delete stale temp users: %w", err)
	}
	return res.DeletedCount, nil
}
