// Package authctx carries the verified Principal through a request context.
//
//	ctx = authctx.WithPrincipal(ctx, p)      // middleware
//	p, ok := authctx.PrincipalFrom(ctx)      // handlers
//	p := authctx.MustPrincipal(ctx)          // behind the auth middleware
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/tokenkit/auth/jwt"
)

type contextKey struct{}

var principalKey = contextKey{}

// ErrNoPrincipal is returned when the context carries no Principal.
var ErrNoPrincipal = errors.New("authctx: no principal in context")

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p jwt.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the Principal stored in ctx.
func PrincipalFrom(ctx context.Context) (jwt.Principal, bool) {
	p, ok := ctx.Value(principalKey).(jwt.Principal)
	return p, ok
}

// MustPrincipal returns the Principal stored in ctx and panics if there is none.
func MustPrincipal(ctx context.Context) jwt.Principal {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		panic(ErrNoPrincipal)
	}
	return p
}

// PrincipalOrError returns the Principal stored in ctx or ErrNoPrincipal.
func PrincipalOrError(ctx context.Context) (jwt.Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return jwt.Principal{}, ErrNoPrincipal
	}
	return p, nil
}
