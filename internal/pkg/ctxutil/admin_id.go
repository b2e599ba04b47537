package ctxutil

import "context"

// adminIDKeyType private key type to avoid context key collisions
type adminIDKeyType struct{}

var adminIDKey = adminIDKeyType{}

// WithAdminID injects the authenticated admin id into the context.
// Called by the admin auth middleware after token validation.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, adminIDKey, adminID)
}

// GetAdminID extracts the admin id from the context
func GetAdminID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(adminIDKey)
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
