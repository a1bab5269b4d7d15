package cont

import "context"

type ctxKey int

const userKey ctxKey = 0

// PutUser stores the authenticated caller name in the request context.
func PutUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

// GetUser returns the authenticated caller name, if any.
func GetUser(ctx context.Context) string {
	if username, ok := ctx.Value(userKey).(string); ok {
		return username
	}
	return ""
}
