package ctxtr

import (
	"context"
	"errors"
)

type ctxKey string

const UserIDKey ctxKey = "user_id"

var ErrUserNotFound = errors.New("user not found in context")

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", ErrUserNotFound
	}

	return userID, nil
}
