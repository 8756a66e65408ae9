package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

func TestInsertFindDelete(t *testing.T) {
	ctx := context.Background()
	c := New()

	res, err := c.InsertOne(ctx, store.Document{"email": "a@mnly.store"})
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if !res.Acknowledged || res.InsertedID == "" {
		t.Fatalf("unexpected insert result: %+v", res)
	}

	got, err := c.FindByID(ctx, res.InsertedID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.String("email") != "a@mnly.store" || got.String(store.IDField) != res.InsertedID {
		t.Fatalf("unexpected doc: %#v", got)
	}

	del, err := c.DeleteByID(ctx, res.InsertedID)
	if err != nil || del.DeletedCount != 1 {
		t.Fatalf("DeleteByID = %+v, %v", del, err)
	}
	if _, err := c.FindByID(ctx, res.InsertedID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("after delete err = %v, want ErrNotFound", err)
	}
}

func TestInvalidIDIsDistinctFromNotFound(t *testing.T) {
	ctx := context.Background()
	c := New()

	if _, err := c.DeleteByID(ctx, "not-an-id"); !errors.Is(err, store.ErrInvalidID) {
		t.Fatalf("malformed id err = %v, want ErrInvalidID", err)
	}
	res, err := c.DeleteByID(ctx, store.NewID())
	if err != nil {
		t.Fatalf("well-formed missing id err = %v", err)
	}
	if res.DeletedCount != 0 {
		t.Fatalf("deletedCount = %d, want 0", res.DeletedCount)
	}
}

func TestFindOneFold(t *testing.T) {
	ctx := context.Background()
	c := New()
	_, _ = c.InsertOne(ctx, store.Document{"siteName": "Mnly"})

	if _, err := c.FindOne(ctx, store.Match{Field: "siteName", Value: "MNLY"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("exact match should miss, err = %v", err)
	}
	doc, err := c.FindOne(ctx, store.Match{Field: "siteName", Value: "MNLY", Fold: true})
	if err != nil {
		t.Fatalf("fold match: %v", err)
	}
	if doc.String("siteName") != "Mnly" {
		t.Fatalf("unexpected doc %#v", doc)
	}
}

func TestUpdateCountsOnlyChanges(t *testing.T) {
	ctx := context.Background()
	c := New()
	ins, _ := c.InsertOne(ctx, store.Document{"status": "pending"})

	res, err := c.UpdateByID(ctx, ins.InsertedID, store.Document{"status": "pending"})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 0 {
		t.Fatalf("no-op update = %+v", res)
	}

	res, _ = c.UpdateByID(ctx, ins.InsertedID, store.Document{"status": "shipped"})
	if res.ModifiedCount != 1 {
		t.Fatalf("modifiedCount = %d, want 1", res.ModifiedCount)
	}

	if _, err := c.UpdateByID(ctx, ins.InsertedID, store.Document{store.IDField: store.NewID()}); err == nil {
		t.Fatal("expected error when overwriting _id")
	}
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	c := New()
	ins, _ := c.InsertOne(ctx, store.Document{"banner": map[string]any{"image": "a.png"}})

	doc, _ := c.FindByID(ctx, ins.InsertedID)
	doc["banner"].(map[string]any)["image"] = "mutated.png"

	again, _ := c.FindByID(ctx, ins.InsertedID)
	if again["banner"].(map[string]any)["image"] != "a.png" {
		t.Fatalf("store shared state with caller: %#v", again)
	}
}
