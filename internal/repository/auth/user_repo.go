package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/model/auth"
)

// UserRepo persists shoppers who signed in with Google
type UserRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates the user repository
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

// Create inserts a user
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.LastLogin = now

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByID looks a user up by id
func (r *UserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	var user auth.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByGoogleID looks a user up by their Google subject id
func (r *UserRepo) FindByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	var user auth.User
	if err := r.collection.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update
func (r *UserRepo) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// TouchLogin refreshes profile fields on a repeat sign-in
func (r *UserRepo) TouchLogin(ctx context.Context, id, name, picture string) error {
	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"picture":    picture,
			"last_login": time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// SetVisitorID records the pre-sign-in visitor token after migration
func (r *UserRepo) SetVisitorID(ctx context.Context, id, visitorID string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"visitor_id": visitorID},
	})
	return err
}
