// internal/store/sqlstore/sqlstore_test.go
//
// Unit-tests for the MySQL document backend using sqlmock.
//
// Run: go test ./internal/store/sqlstore -v

package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestFindByID(t *testing.T) {
	db, mock := newMock(t)
	id := store.NewID()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM `user` WHERE id = ? LIMIT 1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(id, []byte(`{"email":"a@mnly.store","role":"admin"}`)))

	doc, err := New(db, store.UserCollection).FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if doc.String("email") != "a@mnly.store" || doc.String(store.IDField) != id {
		t.Fatalf("unexpected doc: %#v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestFindByIDRejectsMalformedID(t *testing.T) {
	db, mock := newMock(t)

	_, err := New(db, store.UserCollection).FindByID(context.Background(), "xyz")
	if !errors.Is(err, store.ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query expected: %v", err)
	}
}

func TestFindOneFoldMissing(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, doc FROM `product` WHERE LOWER(JSON_UNQUOTE(JSON_EXTRACT(doc, ?))) = LOWER(?) ORDER BY id LIMIT 1",
	)).
		WithArgs(`$."siteName"`, "MNLY").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	_, err := New(db, store.ProductCollection).FindOne(context.Background(),
		store.Match{Field: "siteName", Value: "MNLY", Fold: true})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestUpdateByIDCountsMatchedWhenUnchanged(t *testing.T) {
	db, mock := newMock(t)
	id := store.NewID()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE `order` SET doc = JSON_SET(doc, ?, CAST(? AS JSON), ?, CAST(? AS JSON)) WHERE id = ?",
	)).
		WithArgs(`$."status"`, `"shipped"`, `$."type"`, `"cod"`, id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `order` WHERE id = ?")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	res, err := New(db, store.OrderCollection).UpdateByID(context.Background(), id,
		store.Document{"status": "shipped", "type": "cod"})
	if err != nil {
		t.Fatalf("UpdateByID error: %v", err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsertOneDropsClientID(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `review` (id, doc) VALUES (?, ?)")).
		WithArgs(sqlmock.AnyArg(), []byte(`{"siteName":"mnly"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := New(db, store.ReviewCollection).InsertOne(context.Background(),
		store.Document{store.IDField: "client", "siteName": "mnly"})
	if err != nil {
		t.Fatalf("InsertOne error: %v", err)
	}
	if _, err := store.ParseID(res.InsertedID); err != nil {
		t.Fatalf("insertedId %q is not an ObjectID: %v", res.InsertedID, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	db, mock := newMock(t)
	for _, name := range collections {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS `" + name + "`")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
