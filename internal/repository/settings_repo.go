package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bloom/internal/model/settings"
)

// settingsDocID pins the singleton document
const settingsDocID = "global"

// SettingsRepo persists the singleton admin settings document
type SettingsRepo struct {
	collection *mongo.Collection
}

// NewSettingsRepo creates the settings repository
func NewSettingsRepo(db *mongo.Database) *SettingsRepo {
	return &SettingsRepo{
		collection: db.Collection("admin_settings"),
	}
}

// GetOrCreate returns the settings document, creating it with the built-in
// defaults on first access.
func (r *SettingsRepo) GetOrCreate(ctx context.Context) (*settings.Settings, error) {
	var s settings.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&s)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	defaults := settings.Defaults()
	defaults.ID = settingsDocID
	defaults.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, defaults); err != nil {
		// Lost the creation race: another request inserted first
		if mongo.IsDuplicateKeyError(err) {
			if err := r.collection.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&s); err != nil {
				return nil, err
			}
			return &s, nil
		}
		return nil, err
	}
	return defaults, nil
}

// Save replaces the settings document (last write wins)
func (r *SettingsRepo) Save(ctx context.Context, s *settings.Settings) error {
	s.ID = settingsDocID
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, s, opts)
	return err
}
