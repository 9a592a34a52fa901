package auth

import (
	"context"
	"errors"
	"slices"
)

var ErrInvalidToken = errors.New("invalid token")

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

type Config struct {
	Enabled  bool
	Issuer   string
	JWKSURL  string
	Audience string
	// ClientID selects the resource_access entry whose roles are merged
	// with the realm roles.
	ClientID string
}

type Principal struct {
	Issuer   string
	Subject  string
	Username string
	Audience any
	Roles    []string
	Claims   map[string]any
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(Principal)
	return principal, ok
}

// Actor names the caller for audit logs: the username, else the subject,
// else "anonymous" when auth is disabled.
func Actor(ctx context.Context) string {
	principal, ok := PrincipalFromContext(ctx)
	switch {
	case !ok:
		return "anonymous"
	case principal.Username != "":
		return principal.Username
	case principal.Subject != "":
		return principal.Subject
	}
	return "anonymous"
}
