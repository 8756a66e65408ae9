// internal/component/registry.go
//
// Component registry.
//
// Each concrete component lives under components/<name> and owns one URL
// prefix.  The router builds every component with its dependencies,
// registers it here, and Mount() attaches each component's Routes() at
// "/"+Name().

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes() returns a router relative to the component prefix, e.g. the
// order component serves "/" and "/{id}" and is mounted at "/order".
type Component interface {
	Name() string
	Routes() chi.Router
}

// Registry is safe for concurrent use.  The zero value is ready.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Component
}

// Register adds c, replacing any component with the same name.
func (r *Registry) Register(c Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = make(map[string]Component)
	}
	r.items[c.Name()] = c
}

// All returns every registered component sorted by name.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount attaches every component under its prefix.
func (r *Registry) Mount(router chi.Router) {
	for _, c := range r.All() {
		router.Mount("/"+c.Name(), c.Routes())
	}
}
