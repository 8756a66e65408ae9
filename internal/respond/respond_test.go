package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

func TestStoreErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("find: %w", store.ErrInvalidID), http.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		StoreError(rec, httptest.NewRequest(http.MethodGet, "/user/x", nil), c.err, "User not found")
		if rec.Code != c.want {
			t.Errorf("%v: status = %d, want %d", c.err, rec.Code, c.want)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["message"] == "" {
			t.Errorf("%v: empty message", c.err)
		}
	}
}

func TestDecodeDocumentRejectsNonObject(t *testing.T) {
	for _, in := range []string{"", "[1,2]", `"x"`, "{bad"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(in))
		if _, _, err := DecodeDocument(rec, req); err == nil {
			t.Errorf("DecodeDocument(%q) = nil error", in)
		}
	}
}

func TestDecodeDocumentKeepsNumbers(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(` {"qty": 12345678901234567} `))
	doc, raw, err := DecodeDocument(rec, req)
	if err != nil {
		t.Fatalf("DecodeDocument error: %v", err)
	}
	if n, ok := doc["qty"].(json.Number); !ok || n.String() != "12345678901234567" {
		t.Errorf("qty = %#v", doc["qty"])
	}
	if raw[0] != '{' {
		t.Errorf("raw not trimmed: %q", raw)
	}
}
