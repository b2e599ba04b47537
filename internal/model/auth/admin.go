package auth

import (
	"time"
)

// AdminUser is a store operator with access to the admin panel.
// ID is a UUID string to avoid ObjectID conversions.
type AdminUser struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Username    string     `bson:"username" json:"username"`
	Password    string     `bson:"password" json:"-"` // bcrypt hash, never returned
	ShopDomain  string     `bson:"shop_domain" json:"shop_domain"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
