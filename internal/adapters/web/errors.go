package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"ferreteria-bi/internal/loader"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeLoadError maps loader failures to HTTP: a missing required source is
// 503 (the dashboard has nothing to show), anything else is 500.
func writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, loader.ErrNoData) {
		writeError(w, r, "data source unavailable: "+err.Error(), "NO_DATA", http.StatusServiceUnavailable)
		return
	}
	writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
}
