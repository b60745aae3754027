package auth

import (
	"context"

	"github.com/nurseconnect/lms/internal/rbac"
)

// Principal is the authenticated caller.
type Principal struct {
	ID   string
	Role string
}

type principalKey struct{}

// WithPrincipal stores p and mirrors its role for the rbac middleware.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	return rbac.WithRole(ctx, p.Role)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func SubjectFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx)
	return p.ID
}
