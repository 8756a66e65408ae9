// components/user/user.go
//
// User accounts component.
//
// The storefront upserts a user record after each sign-in (POST /user) and
// asks GET /user/admin/{email} whether to show the dashboard.  Listing every
// user requires a token; the admin probe also requires the admin role and
// may only ask about the caller's own email.
//
//------------------------------------------------------------------------------

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rokibulislampro/mnly-server/internal/acl"
	"github.com/rokibulislampro/mnly-server/internal/auth"
	"github.com/rokibulislampro/mnly-server/internal/component"
	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

const notFound = "User not found"

// Component serves /user.
type Component struct {
	users    store.Collection
	verifier auth.Verifier
}

// New returns the component.
func New(users store.Collection, v auth.Verifier) *Component {
	return &Component{users: users, verifier: v}
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "user" }

// Routes builds the router mounted at "/user".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(auth.Authenticate(c.verifier)).Get("/", component.List(c.users))
	r.Post("/", c.handleCreate)
	r.Get("/{id}", component.Get(c.users, notFound))
	r.Delete("/{id}", component.Delete(c.users))
	r.Get("/email/{email}", c.handleByEmail)
	r.With(auth.Authenticate(c.verifier), acl.RequireAdmin(c.users)).
		Get("/admin/{email}", c.handleAdmin)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := component.PathParam(r, "email")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid email", err)
		return
	}
	doc, err := c.users.FindOne(r.Context(), store.Match{Field: "email", Value: email})
	if err != nil {
		respond.StoreError(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, doc)
}

// handleCreate inserts a user unless one with the same email exists.  A
// client cannot grant itself a role.
func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	doc, _, err := respond.DecodeDocument(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	doc = doc.Without(store.IDField, "role")

	if email := doc.String("email"); email != "" {
		_, err := c.users.FindOne(r.Context(), store.Match{Field: "email", Value: email})
		switch {
		case err == nil:
			respond.JSON(w, http.StatusOK, map[string]any{"message": "user already exists", "insertedId": nil})
			return
		case !errors.Is(err, store.ErrNotFound):
			respond.StoreError(w, r, err, "")
			return
		}
	}

	res, err := c.users.InsertOne(r.Context(), doc)
	if err != nil {
		respond.StoreError(w, r, err, "")
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// handleAdmin runs behind Authenticate and RequireAdmin, so a caller that
// reaches it is an admin.  The only question left is whether it asked
// about itself.
func (c *Component) handleAdmin(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())
	email, err := component.PathParam(r, "email")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid email", err)
		return
	}
	if email != claims.Email() {
		respond.Forbidden(w)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"admin": true})
}
