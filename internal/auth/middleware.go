// internal/auth/middleware.go
//
// Bearer-token authentication stage of the Access Guard.

package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/token"
)

// Verifier is satisfied by *token.Service.
type Verifier interface {
	Verify(raw string) (token.Claims, error)
}

var errNoBearer = errors.New("missing bearer token")

// Authenticate requires `Authorization: Bearer <token>` and stores the
// verified claims in the request context.  Every failure answers 401.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				respond.Unauthorized(w)
				return
			}
			claims, err := v.Verify(raw)
			if err != nil {
				zap.L().Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				respond.Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, error) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errNoBearer
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", errNoBearer
	}
	return tok, nil
}
