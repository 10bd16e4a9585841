// Package utils holds the JSON response helpers shared by every HTTP
// handler in the suite.
package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON encodes v into w with the given status. Encoding failures
// are logged; by then the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write JSON", "error", err)
	}
}

// WriteError writes the standard error envelope: the status text plus a
// human-readable message.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}
