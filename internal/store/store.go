// internal/store/store.go
//
// Persistence gateway contract.
//
// Context
// -------
// The storefront keeps five schemaless record collections: user, product,
// order, about, and review.  Handlers never talk to a driver directly.
// They receive a `*Gateway` whose fields satisfy `Collection`, and every
// route maps to exactly one gateway call.
//
// Three backends implement the contract:
//
//   - `store/mongostore` – the production document database.
//   - `store/sqlstore`   – JSON documents in MySQL tables.
//   - `store/memstore`   – in-process maps for tests and local work.
//
// Notes
// -----
//   - Identifiers are 24-hex ObjectIDs on every backend, so a malformed id
//     is rejected before any query runs (`ErrInvalidID`).
//   - No transactions, no schema checks, last write wins.
//   - Oxford commas, two spaces after periods.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names, shared by every backend.
const (
	UserCollection    = "user"
	ProductCollection = "product"
	OrderCollection   = "order"
	AboutCollection   = "about"
	ReviewCollection  = "review"
)

// IDField is the primary-key field present on every stored document.
const IDField = "_id"

var (
	// ErrInvalidID is returned when an identifier is not a 24-hex ObjectID.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("record not found")
)

// Document is one schemaless record.
type Document map[string]any

// Match selects documents whose Field equals Value.  Fold enables a
// case-insensitive exact comparison.
type Match struct {
	Field string
	Value string
	Fold  bool
}

// InsertResult mirrors the driver acknowledgement for one insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the driver acknowledgement for one update.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult mirrors the driver acknowledgement for one delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is the per-collection accessor handed to route handlers.
type Collection interface {
	// Find returns every document in storage order.
	Find(ctx context.Context) ([]Document, error)
	// FindByID returns ErrInvalidID or ErrNotFound on failure.
	FindByID(ctx context.Context, id string) (Document, error)
	// FindOne returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, m Match) (Document, error)
	InsertOne(ctx context.Context, doc Document) (InsertResult, error)
	// UpdateByID merges set into the top level of the stored document.
	UpdateByID(ctx context.Context, id string, set Document) (UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (DeleteResult, error)
}

// Gateway groups the five collections.  Close releases the backend.
type Gateway struct {
	Users    Collection
	Products Collection
	Orders   Collection
	About    Collection
	Reviews  Collection

	closeFn func(context.Context) error
}

// NewGateway assembles a Gateway.  closeFn may be nil.
func NewGateway(users, products, orders, about, reviews Collection, closeFn func(context.Context) error) *Gateway {
	return &Gateway{
		Users:    users,
		Products: products,
		Orders:   orders,
		About:    about,
		Reviews:  reviews,
		closeFn:  closeFn,
	}
}

// Close releases backend resources.
func (g *Gateway) Close(ctx context.Context) error {
	if g.closeFn == nil {
		return nil
	}
	return g.closeFn(ctx)
}

// ParseID validates a hex identifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// NewID returns a fresh identifier in hex form.
func NewID() string { return primitive.NewObjectID().Hex() }

// Without returns a shallow copy of doc minus the named keys.
func (d Document) Without(keys ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// String returns the field as a string, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}
