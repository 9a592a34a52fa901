package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

type keycloakAuthenticator struct {
	issuer   string
	audience string
	clientID string
	jwks     keyfunc.Keyfunc
}

func NewKeycloakAuthenticator(ctx context.Context, cfg Config) (Authenticator, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("auth enabled but issuer is empty")
	}

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = cfg.Issuer + "/protocol/openid-connect/certs"
	}

	kf, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks from %s: %w", jwksURL, err)
	}

	return &keycloakAuthenticator{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		clientID: cfg.ClientID,
		jwks:     kf,
	}, nil
}

func (a *keycloakAuthenticator) Authenticate(_ context.Context, bearerToken string) (Principal, error) {
	claims := jwt.MapClaims{}
	opts := []jwt.ParserOption{jwt.WithLeeway(5 * time.Second)}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	token, err := jwt.ParseWithClaims(bearerToken, claims, a.jwks.Keyfunc, opts...)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		Issuer:   stringClaim(claims, "iss"),
		Subject:  stringClaim(claims, "sub"),
		Username: stringClaim(claims, "preferred_username"),
		Audience: claims["aud"],
		Roles:    a.roles(claims),
		Claims:   claims,
	}, nil
}

// roles merges realm_access.roles with resource_access[clientID].roles.
func (a *keycloakAuthenticator) roles(claims jwt.MapClaims) []string {
	roles := rolesFrom(claims["realm_access"])
	if a.clientID != "" {
		if resources, ok := claims["resource_access"].(map[string]any); ok {
			roles = append(roles, rolesFrom(resources[a.clientID])...)
		}
	}
	slices.Sort(roles)
	return slices.Compact(roles)
}

func rolesFrom(value any) []string {
	access, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	list, ok := access["roles"].([]any)
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(list))
	for _, item := range list {
		if role, ok := item.(string); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return value
}
