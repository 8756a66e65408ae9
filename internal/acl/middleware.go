// internal/acl/middleware.go
//
// Chi middleware that enforces the admin role.

package acl

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/auth"
	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// RequireAdmin lets the request through only when the authenticated user's
// record has role "admin".  It must run after auth.Authenticate.
func RequireAdmin(users store.Collection) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFrom(r.Context())
			if !ok {
				respond.Unauthorized(w)
				return
			}

			admin, err := IsAdmin(r.Context(), users, claims.Email())
			if err != nil {
				zap.L().Error("acl user role", zap.String("email", claims.Email()), zap.Error(err))
				respond.Error(w, http.StatusInternalServerError, "Server error", nil)
				return
			}
			if !admin {
				respond.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
