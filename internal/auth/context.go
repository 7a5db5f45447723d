package auth

import "context"

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// ContextIdentity reads the caller from the request context filled by Middleware
type ContextIdentity struct{}

func (ContextIdentity) UserID(ctx context.Context) (string, bool) {
	return UserIDFromContext(ctx)
}
