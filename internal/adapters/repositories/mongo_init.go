package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the secondary indexes the record queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	driverIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "department", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	if _, err := db.Collection(driversCollection).Indexes().CreateMany(ctx, driverIndexes); err != nil {
		return fmt.Errorf("ensure indexes: drivers: %w", err)
	}

	packageIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "driver_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	if _, err := db.Collection(packagesCollection).Indexes().CreateMany(ctx, packageIndexes); err != nil {
		return fmt.Errorf("ensure indexes: packages: %w", err)
	}

	return nil
}
