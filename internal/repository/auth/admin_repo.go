package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/model/auth"
)

// AdminRepo persists store operators.
// IDs are UUID strings, no ObjectID conversion.
type AdminRepo struct {
	collection *mongo.Collection
}

// NewAdminRepo creates the admin repository
func NewAdminRepo(db *mongo.Database) *AdminRepo {
	return &AdminRepo{
		collection: db.Collection("admin_users"),
	}
}

// Create inserts an admin user
func (r *AdminRepo) Create(ctx context.Context, admin *auth.AdminUser) error {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, admin)
	return err
}

// FindByUsername looks an admin up by username
func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*auth.AdminUser, error) {
	var admin auth.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID looks an admin up by id
func (r *AdminRepo) FindByID(ctx context.Context, id string) (*auth.AdminUser, error) {
	var admin auth.AdminUser
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateLastLoginAt stamps a successful login
func (r *AdminRepo) UpdateLastLoginAt(ctx context.Context, id string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"last_login_at": now,
			"updated_at":    now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
