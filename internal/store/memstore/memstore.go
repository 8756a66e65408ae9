// Package memstore keeps collections in process memory.  It backs the
// `memory` database driver for local work and the handler tests.  Values
// are deep-copied on the way in and out so callers never share maps with
// the store.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Collection is a concurrency-safe, insertion-ordered document list.
type Collection struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]store.Document
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{docs: make(map[string]store.Document)}
}

// NewGateway returns a Gateway over five fresh collections.
func NewGateway() *store.Gateway {
	return store.NewGateway(New(), New(), New(), New(), New(), nil)
}

var _ store.Collection = (*Collection)(nil)

func (c *Collection) Find(_ context.Context) ([]store.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]store.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.docs[id]))
	}
	return out, nil
}

func (c *Collection) FindByID(_ context.Context, id string) (store.Document, error) {
	if _, err := store.ParseID(id); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(doc), nil
}

func (c *Collection) FindOne(_ context.Context, m store.Match) (store.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		doc := c.docs[id]
		v, ok := doc[m.Field].(string)
		if !ok {
			continue
		}
		if v == m.Value || (m.Fold && strings.EqualFold(v, m.Value)) {
			return clone(doc), nil
		}
	}
	return nil, store.ErrNotFound
}

func (c *Collection) InsertOne(_ context.Context, doc store.Document) (store.InsertResult, error) {
	id := store.NewID()
	stored := clone(doc)
	stored[store.IDField] = id

	c.mu.Lock()
	c.docs[id] = stored
	c.order = append(c.order, id)
	c.mu.Unlock()

	return store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *Collection) UpdateByID(_ context.Context, id string, set store.Document) (store.UpdateResult, error) {
	if _, err := store.ParseID(id); err != nil {
		return store.UpdateResult{}, err
	}
	if v, ok := set[store.IDField]; ok && v != id {
		return store.UpdateResult{}, fmt.Errorf("update would modify the immutable field %s", store.IDField)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return store.UpdateResult{Acknowledged: true}, nil
	}
	changed := false
	for k, v := range set {
		if k == store.IDField {
			continue
		}
		v = cloneValue(v)
		if old, exists := doc[k]; exists && reflect.DeepEqual(old, v) {
			continue
		}
		doc[k] = v
		changed = true
	}
	res := store.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (c *Collection) DeleteByID(_ context.Context, id string) (store.DeleteResult, error) {
	if _, err := store.ParseID(id); err != nil {
		return store.DeleteResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.DeleteResult{Acknowledged: true}, nil
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// clone deep-copies maps and slices; scalars are shared.
func clone(d store.Document) store.Document {
	out := make(store.Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case store.Document:
		return clone(t)
	case map[string]any:
		return map[string]any(clone(store.Document(t)))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
