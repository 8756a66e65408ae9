package component

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rokibulislampro/mnly-server/internal/store"
	"github.com/rokibulislampro/mnly-server/internal/store/memstore"
)

type stub struct{ name string }

func (s stub) Name() string { return s.name }
func (s stub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(s.name)) })
	return r
}

func TestRegistryMountsByName(t *testing.T) {
	var reg Registry
	reg.Register(stub{"review"})
	reg.Register(stub{"about"})
	reg.Register(stub{"about"})

	all := reg.All()
	if len(all) != 2 || all[0].Name() != "about" {
		t.Fatalf("All = %v", all)
	}

	r := chi.NewRouter()
	reg.Mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/review", nil))
	if rec.Body.String() != "review" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func crudRouter(coll store.Collection) chi.Router {
	r := chi.NewRouter()
	r.Get("/", List(coll))
	r.Get("/{id}", Get(coll, "Thing not found"))
	r.Delete("/{id}", Delete(coll))
	return r
}

func TestCRUDHandlers(t *testing.T) {
	coll := memstore.New()
	res, _ := coll.InsertOne(context.Background(), store.Document{"name": "a"})
	r := crudRouter(coll)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/" + res.InsertedID, http.StatusOK},
		{http.MethodGet, "/" + store.NewID(), http.StatusNotFound},
		{http.MethodGet, "/not-an-id", http.StatusBadRequest},
		{http.MethodDelete, "/not-an-id", http.StatusBadRequest},
		{http.MethodDelete, "/" + store.NewID(), http.StatusOK},
		{http.MethodDelete, "/" + res.InsertedID, http.StatusOK},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != c.want {
			t.Errorf("%s %s = %d, want %d", c.method, c.path, rec.Code, c.want)
		}
	}
}

func TestListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	crudRouter(memstore.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var out []any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out == nil {
		t.Fatalf("body = %q err = %v", rec.Body.String(), err)
	}
}
