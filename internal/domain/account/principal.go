package account

import (
	"context"
)

// Principal is the authenticated caller derived from the transport layer
type Principal struct {
	Username    string
	Authorities []string
}

// HasAuthority reports whether the principal holds the given authority
func (p Principal) HasAuthority(authority string) bool {
	for _, granted := range p.Authorities {
		if granted == authority {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal attaches the principal to the context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal from the context, if present
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
