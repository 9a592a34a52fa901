package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Flarenzy/wg-fleet/internal/auth"
)

type stubAuthenticator struct {
	authenticateFn func(context.Context, string) (auth.Principal, error)
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	if s.authenticateFn == nil {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return s.authenticateFn(ctx, token)
}

func newAuthTestAPI(roles ...string) *API {
	return &API{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Authenticator: stubAuthenticator{
			authenticateFn: func(_ context.Context, token string) (auth.Principal, error) {
				if token != "good-token" {
					return auth.Principal{}, auth.ErrInvalidToken
				}
				return auth.Principal{Subject: "user-1", Roles: roles}, nil
			},
		},
	}
}

func serveThroughAuth(api *API, req *http.Request, next http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	api.authMiddleware(next).ServeHTTP(rec, req)
	return rec
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAuthMiddlewareAllowsHealthzWithoutToken(t *testing.T) {
	api := newAuthTestAPI()
	called := false
	rec := serveThroughAuth(api, httptest.NewRequest(http.MethodGet, "/healthz", nil), func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}
	if !called {
		t.Fatal("expected downstream handler to be called")
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	rec := serveThroughAuth(newAuthTestAPI(), httptest.NewRequest(http.MethodGet, "/api/v1/pools", nil), noContent)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := serveThroughAuth(newAuthTestAPI(), req, noContent)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthMiddlewareStoresPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pools", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	called := false
	rec := serveThroughAuth(newAuthTestAPI(), req, func(w http.ResponseWriter, r *http.Request) {
		called = true
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in context")
		}
		if principal.Subject != "user-1" {
			t.Fatalf("unexpected subject: %v", principal.Subject)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}
	if !called {
		t.Fatal("expected downstream handler to be called")
	}
}

func TestAuthMiddlewareRequiresWriteRoleForMutations(t *testing.T) {
	readOnly := newAuthTestAPI("fleet-viewer")
	readOnly.WriteRole = "fleet-operator"

	get := httptest.NewRequest(http.MethodGet, "/api/v1/pools", nil)
	get.Header.Set("Authorization", "Bearer good-token")
	if rec := serveThroughAuth(readOnly, get, noContent); rec.Code != http.StatusNoContent {
		t.Fatalf("expected reads to pass, got %d", rec.Code)
	}

	post := httptest.NewRequest(http.MethodPost, "/api/v1/peers/bulk", nil)
	post.Header.Set("Authorization", "Bearer good-token")
	if rec := serveThroughAuth(readOnly, post, noContent); rec.Code != http.StatusForbidden {
		t.Fatalf("expected %d, got %d", http.StatusForbidden, rec.Code)
	}

	operator := newAuthTestAPI("fleet-operator")
	operator.WriteRole = "fleet-operator"
	post = httptest.NewRequest(http.MethodPost, "/api/v1/peers/bulk", nil)
	post.Header.Set("Authorization", "Bearer good-token")
	if rec := serveThroughAuth(operator, post, noContent); rec.Code != http.StatusNoContent {
		t.Fatalf("expected operator write to pass, got %d", rec.Code)
	}
}

func TestAuthMiddlewareDisabledWithoutAuthenticator(t *testing.T) {
	api := &API{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	rec := serveThroughAuth(api, httptest.NewRequest(http.MethodDelete, "/api/v1/pools/1", nil), noContent)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}
}
