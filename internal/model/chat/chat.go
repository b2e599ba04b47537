package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bloom/internal/pkg/mongodb"
)

// DefaultTitle is the title of a freshly created chat, before the first user
// message derives the real one.
const DefaultTitle = "Yeni Sohbet"

// titleMaxLen is the derived-title truncation point
const titleMaxLen = 40

// Chat is one persisted conversation. Messages are append-only and keep
// insertion order; a chat with zero messages is valid.
type Chat struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    string             `bson:"owner_id" json:"owner_id"` // opaque visitor or account token
	Title      string             `bson:"title" json:"title"`
	Mode       Mode               `bson:"mode" json:"mode"`
	IsArchived bool               `bson:"is_archived" json:"is_archived"`
	IsFavorite bool               `bson:"is_favorite" json:"is_favorite"`
	Messages   []Message          `bson:"messages" json:"messages"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Message is one turn. Immutable once appended.
type Message struct {
	Role      Role      `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Summary is the list projection returned by list operations: metadata plus
// a message count and a short preview, never full bodies.
type Summary struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Mode         Mode               `json:"mode"`
	IsFavorite   bool               `json:"is_favorite"`
	MessageCount int                `json:"message_count"`
	LastMessage  string             `json:"last_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// UserMessageCount counts user-authored turns
func (c *Chat) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Summarize builds the list projection for this chat
func (c *Chat) Summarize(previewLen int) Summary {
	s := Summary{
		ID:           c.ID,
		Title:        c.Title,
		Mode:         c.Mode,
		IsFavorite:   c.IsFavorite,
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if len(c.Messages) > 0 && previewLen > 0 {
		s.LastMessage = Truncate(c.Messages[len(c.Messages)-1].Content, previewLen)
	}
	return s
}

// DeriveTitle builds a chat title from the first user message: the first 40
// characters, with an ellipsis marker when the message is longer.
func DeriveTitle(content string) string {
	return Truncate(content, titleMaxLen)
}

// Truncate cuts s after max runes and appends "..." when something was cut
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// collectionName for chats
const collectionName = "chats"

// Collection implements mongodb.Model
func (c *Chat) Collection() string {
	return collectionName
}

// EnsureIndexes implements mongodb.Model: list queries filter by owner and
// sort by update time.
func (c *Chat) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(collectionName)
	return mongodb.CreateIndexes(ctx, coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "updated_at", Value: -1}}},
	})
}
