package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type principalKey struct{}

// Principal identifies the assistant acting on a request after the auth
// middleware has verified the bearer token.
type Principal struct {
	AssistantID uuid.UUID
	TeacherID   uuid.UUID
	Role        string
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
