// components/jwt/jwt.go
//
// Token issuance component.
//
// POST /jwt signs the request body's claims.  The storefront calls it right
// after its own sign-in, so the body is the user's public profile; only a
// non-empty "email" is required.
//
//------------------------------------------------------------------------------

package jwt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/component"
	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/token"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Issuer is satisfied by *token.Service.
type Issuer interface {
	Issue(claims token.Claims) (string, error)
}

// Component issues tokens.
type Component struct {
	tokens Issuer
}

// New returns the component.
func New(tokens Issuer) *Component { return &Component{tokens: tokens} }

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "jwt" }

// Routes builds the router mounted at "/jwt".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", c.handleIssue)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleIssue(w http.ResponseWriter, r *http.Request) {
	doc, _, err := respond.DecodeDocument(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	claims := token.Claims(doc)
	if claims.Email() == "" {
		respond.Message(w, http.StatusBadRequest, "email is required")
		return
	}

	signed, err := c.tokens.Issue(claims)
	if err != nil {
		zap.L().Error("token issue failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not issue token", nil)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"token": signed})
}
