package mongodb

import (
	"context"

	"github.com/travel-advisor/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Bootstrap creates the lookup indexes if they don't already exist.
// None of them is unique: (name, city) and username uniqueness are application conventions only.
func Bootstrap(ctx context.Context, db *mongo.Database, colls config.MongoCollections, log *zap.Logger) {
	ensureIndex(ctx, db.Collection(colls.Spots), bson.D{{Key: "name", Value: 1}}, log)
	ensureIndex(ctx, db.Collection(colls.Users), bson.D{{Key: "username", Value: 1}}, log)
	ensureIndex(ctx, db.Collection(colls.TempUsers), bson.D{{Key: "username", Value: 1}}, log)
	ensureIndex(ctx, db.Collection(colls.TempUsers), bson.D{{Key: "createdAt", Value: 1}}, log)
}

func ensureIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, log *zap.Logger) {
	name, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys})
	if err != nil {
		log.Warn("create index failed", zap.String("collection", coll.Name()), zap.Error(err))
		return
	}
	log.Debug("index ready", zap.String("collection", coll.Name()), zap.String("index", name))
}
