package internal

import (
	"encoding/json"
	"net/http"
	"strings"

	"radio-fleet-console/internal/store"
)

// searchQuery returns the trimmed q parameter used for the pages' client-side
// search filtering.
func searchQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}

// matchesSearch reports whether any of the fields contains q,
// case-insensitively. An empty q matches everything.
func matchesSearch(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeError maps a service failure onto the response. TransportErrors from
// the remote store pass their status and body text through unchanged so the
// store's own message reaches the caller.
func writeError(w http.ResponseWriter, err error) {
	if te, ok := store.AsTransportError(err); ok {
		status := te.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		http.Error(w, te.Error(), status)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
