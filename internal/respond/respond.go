// Package respond writes JSON responses and maps gateway errors to status
// codes.  Every error body has the shape {"message": ..., "error": ...};
// "error" is omitted when there is no underlying cause worth exposing.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/store"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSON writes payload with status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Message: msg})
}

// Error writes {"message": msg, "error": err}.
func Error(w http.ResponseWriter, status int, msg string, err error) {
	body := errorBody{Message: msg}
	if err != nil {
		body.Error = err.Error()
	}
	JSON(w, status, body)
}

// Unauthorized and Forbidden are the Access Guard's two refusals.
func Unauthorized(w http.ResponseWriter) { Message(w, http.StatusUnauthorized, "unauthorized access") }
func Forbidden(w http.ResponseWriter)    { Message(w, http.StatusForbidden, "forbidden access") }

// StoreError maps a gateway error: malformed id → 400, missing record →
// 404 with notFound as the message, anything else → 500.
func StoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		Error(w, http.StatusBadRequest, "invalid id", err)
	case errors.Is(err, store.ErrNotFound):
		Message(w, http.StatusNotFound, notFound)
	default:
		zap.L().Error("store operation failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		Error(w, http.StatusInternalServerError, "Server error", err)
	}
}
