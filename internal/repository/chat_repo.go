package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bloom/internal/model/chat"
)

// ChatRepo persists conversations
type ChatRepo struct {
	collection *mongo.Collection
}

// NewChatRepo creates the chat repository
func NewChatRepo(db *mongo.Database) *ChatRepo {
	return &ChatRepo{
		collection: db.Collection("chats"),
	}
}

// Create inserts a chat and fills in its id and timestamps
func (r *ChatRepo) Create(ctx context.Context, c *chat.Chat) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Title == "" {
		c.Title = chat.DefaultTitle
	}
	if c.Mode == "" {
		c.Mode = chat.DefaultMode
	}
	if c.Messages == nil {
		c.Messages = []chat.Message{}
	}

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

// FindByID loads one chat. A malformed id reports the same as an absent
// document.
func (r *ChatRepo) FindByID(ctx context.Context, id string) (*chat.Chat, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var c chat.Chat
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByOwner returns any one chat of the owner (legacy single-shot flow)
func (r *ChatRepo) FindByOwner(ctx context.Context, ownerID string) (*chat.Chat, error) {
	var c chat.Chat
	if err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns the owner's chats newest-updated first. Messages are
// loaded too; list responses project them down to count and preview.
func (r *ChatRepo) ListByOwner(ctx context.Context, ownerID string, archived, favoriteOnly bool, limit int64) ([]*chat.Chat, error) {
	filter := bson.M{"owner_id": ownerID, "is_archived": archived}
	if favoriteOnly {
		filter["is_favorite"] = true
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "updated_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []*chat.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// AppendMessages appends turns in order and refreshes the update timestamp
func (r *ChatRepo) AppendMessages(ctx context.Context, id string, msgs ...chat.Message) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": msgs}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	_, err = r.collection.UpdateByID(ctx, objectID, update)
	return err
}

// Update applies a partial update and refreshes the update timestamp
func (r *ChatRepo) Update(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	if setDoc, ok := update["$set"].(bson.M); ok {
		setDoc["updated_at"] = time.Now()
	} else {
		update["$set"] = bson.M{"updated_at": time.Now()}
	}
	_, err = r.collection.UpdateByID(ctx, objectID, update)
	return err
}

// Delete removes one chat; an absent chat reports mongo.ErrNoDocuments
func (r *ChatRepo) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByOwner removes every chat of the owner and reports the count
func (r *ChatRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// MigrateOwner reassigns every chat from oldOwner to newOwner in one bulk
// write and reports how many moved. Zero is a valid no-op under retry.
func (r *ChatRepo) MigrateOwner(ctx context.Context, oldOwnerID, newOwnerID string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"owner_id": oldOwnerID},
		bson.M{"$set": bson.M{"owner_id": newOwnerID}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Count returns the total chat count (admin stats)
func (r *ChatRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// MessageCount sums message array sizes across all chats (admin stats)
func (r *ChatRepo) MessageCount(ctx context.Context) (int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.M{"message_count": bson.M{"$size": "$messages"}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$message_count"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
