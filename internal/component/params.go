package component

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// PathParam returns the decoded value of the named URL parameter.  chi
// matches on the raw path when one is set, so "buyer%40mnly.store" would
// otherwise reach a handler still escaped.
func PathParam(r *http.Request, name string) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return "", fmt.Errorf("path parameter %s: %w", name, err)
	}
	return v, nil
}
