// internal/store/mongostore/mongostore.go
//
// MongoDB backend for the persistence gateway.
//
// Context
// -------
// One long-lived *mongo.Client is opened at boot and shared by all five
// collections.  The driver pools connections internally and is safe for
// concurrent use, so handlers never open or close anything per request.
//
// Notes
// -----
//   - The client pins Stable API v1 in strict mode with deprecation errors
//     enabled, matching the hosted cluster settings.
//   - Nested documents decode as maps (`DefaultDocumentM`) so JSON output
//     keeps field names instead of key/value pairs.
//   - Oxford commas, two spaces after periods.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

// Open connects, pings the primary, and returns a Gateway over dbName.
func Open(ctx context.Context, uri, dbName string) (*store.Gateway, error) {
	api := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(api).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	zap.S().Infow("mongo online", "database", dbName)

	db := client.Database(dbName)
	return store.NewGateway(
		New(db.Collection(store.UserCollection)),
		New(db.Collection(store.ProductCollection)),
		New(db.Collection(store.OrderCollection)),
		New(db.Collection(store.AboutCollection)),
		New(db.Collection(store.ReviewCollection)),
		client.Disconnect,
	), nil
}

// Collection adapts *mongo.Collection to store.Collection.
type Collection struct {
	coll *mongo.Collection
}

// New wraps a driver collection.
func New(coll *mongo.Collection) *Collection { return &Collection{coll: coll} }

var _ store.Collection = (*Collection)(nil)

func (c *Collection) Find(ctx context.Context) ([]store.Document, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	docs := make([]store.Document, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (store.Document, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, bson.M{store.IDField: oid})
}

func (c *Collection) FindOne(ctx context.Context, m store.Match) (store.Document, error) {
	var filter bson.M
	if m.Fold {
		filter = bson.M{m.Field: primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(m.Value) + "$",
			Options: "i",
		}}
	} else {
		filter = bson.M{m.Field: m.Value}
	}
	return c.findOne(ctx, filter)
}

func (c *Collection) findOne(ctx context.Context, filter bson.M) (store.Document, error) {
	var doc store.Document
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", c.coll.Name(), err)
	}
	return doc, nil
}

func (c *Collection) InsertOne(ctx context.Context, doc store.Document) (store.InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc.Without(store.IDField))
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("insert %s: %w", c.coll.Name(), err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: insertedID(res.InsertedID)}, nil
}

func (c *Collection) UpdateByID(ctx context.Context, id string, set store.Document) (store.UpdateResult, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	res, err := c.coll.UpdateOne(ctx, bson.M{store.IDField: oid}, bson.M{"$set": set})
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (store.DeleteResult, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.DeleteResult{}, err
	}
	res, err := c.coll.DeleteOne(ctx, bson.M{store.IDField: oid})
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete %s: %w", c.coll.Name(), err)
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// insertedID renders the driver's id as a string; "" means none was assigned.
func insertedID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		if id.IsZero() {
			return ""
		}
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
