// Package handler contains the HTTP handlers: the OAuth login flow, logout,
// the healthcheck, the current-user endpoint, and the site pages.
//
// Handlers are glue — they parse the request, call into internal/service or
// internal/session, and write the response. Anything resembling a business
// rule lives below them.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the first body byte, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}
