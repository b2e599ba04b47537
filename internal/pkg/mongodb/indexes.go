package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates indexes for all registered models.
// Registration happens via RegisterModel from the model packages' init or
// from server startup.
func EnsureIndexes(db *mongo.Database, models ...Model) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return EnsureAllIndexes(ctx, db, models...)
}
