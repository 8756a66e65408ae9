package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

// MaxJSONBody caps JSON request bodies.
const MaxJSONBody = 1 << 20

// ErrNotObject is returned when a JSON body is valid but not an object.
var ErrNotObject = errors.New("request body must be a JSON object")

// DecodeDocument reads a JSON object body into a Document and also returns
// the raw bytes for typed decoding.
func DecodeDocument(w http.ResponseWriter, r *http.Request) (store.Document, []byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxJSONBody))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, raw, ErrNotObject
	}

	var doc store.Document
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, raw, fmt.Errorf("decode body: %w", err)
	}
	return doc, trimmed, nil
}
