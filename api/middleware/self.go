package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/marisolvega/skinroutine-backend/api/responses"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"github.com/marisolvega/skinroutine-backend/pkg/logger"
)

// RequireSelf rejects requests whose {username} path segment does not match
// the authenticated principal. Accounts can only read and modify their own
// resources.
func RequireSelf(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := UsernameFromContext(r.Context())
			if principal == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			target := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "username")))
			if target == "" || target != principal {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's resources"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
