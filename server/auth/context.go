package auth

import (
	"context"

	"github.com/clubsphere/clubsphere/server/database"
)

type userKey struct{}

var userContextKey = &userKey{}

// SetUser stashes the authenticated user on the request context.
func SetUser(ctx context.Context, user database.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser returns the authenticated user, if any.
func GetUser(ctx context.Context) (database.User, bool) {
	user, ok := ctx.Value(userContextKey).(database.User)
	return user, ok
}
