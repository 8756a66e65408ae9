// internal/store/sqlstore/sqlstore.go
//
// MySQL backend for the persistence gateway.
//
// Context
// -------
// Each collection is one table holding the document as a JSON column:
//
//	`<collection>` (id CHAR(24) PRIMARY KEY, doc JSON NOT NULL)
//
// Ids are ObjectID hex strings generated in-process, so the id contract is
// identical to the Mongo backend and ORDER BY id follows insertion time.
// Field lookups use JSON_EXTRACT and partial updates use JSON_SET, which
// keeps the "merge top-level fields" semantics of `$set`.
//
// Notes
// -----
//   - Table names are quoted with backticks because `user` and `order` are
//     reserved words.
//   - The helpers never log; callers decide what to log.
//   - Oxford commas, two spaces after periods.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

var collections = []string{
	store.UserCollection,
	store.ProductCollection,
	store.OrderCollection,
	store.AboutCollection,
	store.ReviewCollection,
}

// NewGateway returns a Gateway whose collections share db.  The caller owns
// db; Gateway.Close closes it.
func NewGateway(db *sqlx.DB) *store.Gateway {
	return store.NewGateway(
		New(db, store.UserCollection),
		New(db, store.ProductCollection),
		New(db, store.OrderCollection),
		New(db, store.AboutCollection),
		New(db, store.ReviewCollection),
		func(context.Context) error { return db.Close() },
	)
}

// Migrate creates any missing collection tables.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, name := range collections {
		q := "CREATE TABLE IF NOT EXISTS " + quote(name) +
			" (id CHAR(24) NOT NULL PRIMARY KEY, doc JSON NOT NULL)"
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
	}
	return nil
}

// Collection stores documents of one collection in one table.
type Collection struct {
	db    *sqlx.DB
	table string
}

// New returns a Collection over table.
func New(db *sqlx.DB, table string) *Collection {
	return &Collection{db: db, table: quote(table)}
}

var _ store.Collection = (*Collection)(nil)

type row struct {
	ID  string `db:"id"`
	Doc []byte `db:"doc"`
}

func (c *Collection) Find(ctx context.Context) ([]store.Document, error) {
	var rows []row
	q := "SELECT id, doc FROM " + c.table + " ORDER BY id"
	if err := c.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select %s: %w", c.table, err)
	}
	out := make([]store.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (store.Document, error) {
	if _, err := store.ParseID(id); err != nil {
		return nil, err
	}
	q := "SELECT id, doc FROM " + c.table + " WHERE id = ? LIMIT 1"
	return c.get(ctx, q, id)
}

func (c *Collection) FindOne(ctx context.Context, m store.Match) (store.Document, error) {
	cond := "JSON_UNQUOTE(JSON_EXTRACT(doc, ?)) = ?"
	if m.Fold {
		cond = "LOWER(JSON_UNQUOTE(JSON_EXTRACT(doc, ?))) = LOWER(?)"
	}
	q := "SELECT id, doc FROM " + c.table + " WHERE " + cond + " ORDER BY id LIMIT 1"
	return c.get(ctx, q, jsonPath(m.Field), m.Value)
}

func (c *Collection) get(ctx context.Context, q string, args ...any) (store.Document, error) {
	var r row
	err := c.db.GetContext(ctx, &r, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", c.table, err)
	}
	return r.decode()
}

func (c *Collection) InsertOne(ctx context.Context, doc store.Document) (store.InsertResult, error) {
	raw, err := json.Marshal(doc.Without(store.IDField))
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("encode %s: %w", c.table, err)
	}
	id := store.NewID()
	q := "INSERT INTO " + c.table + " (id, doc) VALUES (?, ?)"
	if _, err := c.db.ExecContext(ctx, q, id, raw); err != nil {
		return store.InsertResult{}, fmt.Errorf("insert %s: %w", c.table, err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *Collection) UpdateByID(ctx context.Context, id string, set store.Document) (store.UpdateResult, error) {
	if _, err := store.ParseID(id); err != nil {
		return store.UpdateResult{}, err
	}
	if _, ok := set[store.IDField]; ok {
		return store.UpdateResult{}, fmt.Errorf("update would modify the immutable field %s", store.IDField)
	}
	if len(set) == 0 {
		return store.UpdateResult{}, errors.New("update document is empty")
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	args := make([]any, 0, 2*len(keys)+1)
	for _, k := range keys {
		raw, err := json.Marshal(set[k])
		if err != nil {
			return store.UpdateResult{}, fmt.Errorf("encode %s.%s: %w", c.table, k, err)
		}
		pairs = append(pairs, "?, CAST(? AS JSON)")
		args = append(args, jsonPath(k), string(raw))
	}
	args = append(args, id)

	q := "UPDATE " + c.table + " SET doc = JSON_SET(doc, " + strings.Join(pairs, ", ") + ") WHERE id = ?"
	res, err := c.db.ExecContext(ctx, q, args...)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update %s: %w", c.table, err)
	}
	modified, err := res.RowsAffected()
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update %s: %w", c.table, err)
	}

	// MySQL reports changed rows, not matched rows.
	matched := modified
	if modified == 0 {
		q := "SELECT COUNT(*) FROM " + c.table + " WHERE id = ?"
		if err := c.db.GetContext(ctx, &matched, q, id); err != nil {
			return store.UpdateResult{}, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return store.UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}, nil
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (store.DeleteResult, error) {
	if _, err := store.ParseID(id); err != nil {
		return store.DeleteResult{}, err
	}
	q := "DELETE FROM " + c.table + " WHERE id = ?"
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete %s: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete %s: %w", c.table, err)
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

func (r row) decode() (store.Document, error) {
	doc := store.Document{}
	if err := json.Unmarshal(r.Doc, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", r.ID, err)
	}
	doc[store.IDField] = r.ID
	return doc, nil
}

// jsonPath quotes a top-level member name for JSON_EXTRACT and JSON_SET.
func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

func quote(table string) string {
	return "`" + strings.ReplaceAll(table, "`", "``") + "`"
}
