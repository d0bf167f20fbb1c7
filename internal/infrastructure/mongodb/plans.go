package mongodb

import (
	"context"
	"fmt"

	"github.com/travel-advisor/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlanRepo provides typed MongoDB operations for the travel plans collection.
type PlanRepo struct {
	coll *mongo.Collection
}

func NewPlanRepo(db *mongo.Database, collection string) *PlanRepo {
	return &PlanRepo{coll: db.Collection(collection)}
}

func (r *PlanRepo) Put(ctx context.Context, p *domain.TravelPlan) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (r *PlanRepo) Get(ctx context.Context, planID string) (*domain.TravelPlan, error) {
	var p domain.TravelPlan
	if err := r.coll.FindOne(ctx, byID(planID)).Decode(&p); err != nil {
		return nil, notFound(err, "plan")
	}
	return &p, nil
}

func (r *PlanRepo) Delete(ctx context.Context, planID string) error {
	res, err := r.coll.DeleteOne(ctx, byID(planID))
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("plan %s: %w", planID, domain.ErrNotFound)
	}
	return nil
}
