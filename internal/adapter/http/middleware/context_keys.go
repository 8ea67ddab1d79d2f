package middleware

import "context"

// ContextKey is a private key type to avoid context collisions.
type ContextKey string

// UserIDCtxKey holds the authenticated actor's id, set by JWTAuth.
const UserIDCtxKey = ContextKey("user_id")

// UserID extracts the authenticated actor's id from the request context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDCtxKey).(string)
	return id, ok && id != ""
}
