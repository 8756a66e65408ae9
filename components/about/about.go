// components/about/about.go
//
// About page component.  One document per storefront holding the copy for
// its about page; the dashboard replaces fields with PUT /about/{id}.
//
//------------------------------------------------------------------------------

package about

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rokibulislampro/mnly-server/internal/component"
	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

const notFound = "About not found"

// Component serves /about.
type Component struct {
	about store.Collection
}

// New returns the component.
func New(about store.Collection) *Component { return &Component{about: about} }

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "about" }

// Routes builds the router mounted at "/about".
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", component.List(c.about))
	r.Get("/{id}", component.Get(c.about, notFound))
	r.Put("/{id}", c.handleUpdate)
	r.Delete("/{id}", component.Delete(c.about))
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

// handleUpdate merges the body into the stored document.  The client may
// echo the document it fetched, so its _id is dropped.
func (c *Component) handleUpdate(w http.ResponseWriter, r *http.Request) {
	doc, _, err := respond.DecodeDocument(w, r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	set := doc.Without(store.IDField)
	if len(set) == 0 {
		respond.Message(w, http.StatusBadRequest, "No fields to update")
		return
	}
	res, err := c.about.UpdateByID(r.Context(), chi.URLParam(r, "id"), set)
	if err != nil {
		respond.StoreError(w, r, err, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}
