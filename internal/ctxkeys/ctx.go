package ctxkeys

import (
	"context"

	"github.com/templui/fittrack/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey  contextKey = "user"
	TokenKey contextKey = "token"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// Token is the key the request authenticated with.
func Token(ctx context.Context) *model.Token {
	token, _ := ctx.Value(TokenKey).(*model.Token)
	return token
}

func WithToken(ctx context.Context, token *model.Token) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
