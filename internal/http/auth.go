package http

import (
	"net/http"
	"strings"

	"github.com/Flarenzy/wg-fleet/internal/auth"
)

func (a *API) authMiddleware(next http.Handler) http.Handler {
	if a.Authenticator == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Allow unauthenticated endpoints
		if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || strings.HasPrefix(r.URL.Path, "/swagger/") {
			next.ServeHTTP(w, r)
			return
		}

		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			a.respond(w, r, http.StatusUnauthorized, ErrorResponse{Error: "missing token", Code: "unauthorized"})
			return
		}

		principal, err := a.Authenticator.Authenticate(r.Context(), strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			a.Logger.InfoContext(r.Context(), "rejecting request with invalid token", "err", err.Error(), "path", r.URL.Path)
			a.respond(w, r, http.StatusUnauthorized, ErrorResponse{Error: "invalid token", Code: "unauthorized"})
			return
		}

		if a.WriteRole != "" && r.Method != http.MethodGet && !principal.HasRole(a.WriteRole) {
			a.Logger.InfoContext(r.Context(), "rejecting write without role", "subject", principal.Subject, "role", a.WriteRole)
			a.respond(w, r, http.StatusForbidden, ErrorResponse{Error: "missing role " + a.WriteRole, Code: "forbidden"})
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}
