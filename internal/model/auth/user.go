package auth

import (
	"time"
)

// User is a shopper who signed in with Google. Anonymous visitors never get
// a document here; they are identified only by the opaque visitor token the
// widget keeps client-side.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"` // UUID
	GoogleID  string    `bson:"google_id" json:"google_id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Picture   string    `bson:"picture,omitempty" json:"picture,omitempty"`
	VisitorID string    `bson:"visitor_id,omitempty" json:"visitor_id,omitempty"` // pre-sign-in token, kept after migration
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	LastLogin time.Time `bson:"last_login" json:"last_login"`
}

// OwnerID returns the owner token this user's chats are stored under
func (u *User) OwnerID() string {
	return "google_" + u.ID
}
