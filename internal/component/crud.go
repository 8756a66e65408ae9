package component

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rokibulislampro/mnly-server/internal/respond"
	"github.com/rokibulislampro/mnly-server/internal/store"
)

// List answers every document of coll as a JSON array.
func List(coll store.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := coll.Find(r.Context())
		if err != nil {
			respond.StoreError(w, r, err, "")
			return
		}
		if docs == nil {
			docs = []store.Document{}
		}
		respond.JSON(w, http.StatusOK, docs)
	}
}

// Get answers the document named by the {id} URL parameter.
func Get(coll store.Collection, notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := coll.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.StoreError(w, r, err, notFound)
			return
		}
		respond.JSON(w, http.StatusOK, doc)
	}
}

// Delete removes the document named by {id}.  A well-formed id that matches
// nothing answers 200 with deletedCount 0.
func Delete(coll store.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := coll.DeleteByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.StoreError(w, r, err, "")
			return
		}
		respond.JSON(w, http.StatusOK, res)
	}
}
