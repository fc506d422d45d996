// Package authctx carries the request-scoped identity resolved by the
// auth middlewares. Handlers read it back through typed accessors instead
// of poking at untyped request state.
package authctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	authKey   ctxKey = "auth"
	memberKey ctxKey = "member"
)

// Auth is the identity taken from a verified access token
type Auth struct {
	UserID uuid.UUID
	Email  string
}

// Member is the caller's resolved membership in the circle of the route
type Member struct {
	ID       uuid.UUID
	CircleID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

func WithAuth(ctx context.Context, a Auth) context.Context {
	return context.WithValue(ctx, authKey, a)
}

func AuthFrom(ctx context.Context) (Auth, bool) {
	a, ok := ctx.Value(authKey).(Auth)
	return a, ok
}

func WithMember(ctx context.Context, m Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

func MemberFrom(ctx context.Context) (Member, bool) {
	m, ok := ctx.Value(memberKey).(Member)
	return m, ok
}
