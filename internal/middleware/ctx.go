package middleware

import "context"

type ContextKey string

const (
	ContextRequestID ContextKey = "request_id"
	ContextUserID    ContextKey = "user_id"
	ContextRole      ContextKey = "role"
)

func UserIDFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(ContextUserID).(int)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextRole).(string)
	return v, ok
}
