package mongodb

import (
	"context"
	"fmt"

	"github.com/travel-advisor/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SpotRepo provides typed MongoDB operations for the spots collection.
type SpotRepo struct {
	coll *mongo.Collection
}

func NewSpotRepo(db *mongo.Database, collection string) *SpotRepo {
	return &SpotRepo{coll: db.Collection(collection)}
}

// FindByName returns every spot whose name equals name, ignoring case.
func (r *SpotRepo) FindByName(ctx context.Context, name string) ([]domain.Spot, error) {
	cur, err := r.coll.Find(ctx, bson.M{"name": exactFold(name)})
	if err != nil {
		return nil, fmt.Errorf("find spots: %w", err)
	}
	var spots []domain.Spot
	if err := cur.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("decode spots: %w", err)
	}
	return spots, nil
}

func (r *SpotRepo) Get(ctx context.Context, spotID string) (*domain.Spot, error) {
	var s domain.Spot
	if err := r.coll.FindOne(ctx, byID(spotID)).Decode(&s); err != nil {
		return nil, notFound(err, "spot")
	}
	return &s, nil
}

func (r *SpotRepo) Insert(ctx context.Context, s *domain.Spot) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert spot: %w", err)
	}
	return nil
}

// Replace overwrites every field of the stored spot, keeping its _id.
func (r *SpotRepo) Replace(ctx context.Context, s *domain.Spot) error {
	res, err := r.coll.ReplaceOne(ctx, byID(s.ID), s)
	if err != nil {
		return fmt.Errorf("replace spot: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("spot %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}
