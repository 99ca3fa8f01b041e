// Package render holds the JSON response helpers shared by all handlers.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error           string `json:"error"`
	UpgradeRequired bool   `json:"upgrade_required,omitempty"`
}

// JSON encodes v with the given status. Encode failures are logged, not
// surfaced: the status line is already on the wire.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// UpgradeRequired answers an entitlement refusal: the request was valid but
// needs a higher plan tier.
func UpgradeRequired(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusForbidden, errorResponse{Error: msg, UpgradeRequired: true})
}
