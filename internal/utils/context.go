package utils

import "context"

// GetString reads a string value set on the request context by the auth
// middleware. The second return is false when the key is absent or not a
// string, which callers treat as "not authenticated".
func GetString(ctx context.Context, key any) (string, bool) {
	s, ok := ctx.Value(key).(string)
	return s, ok
}
