package handler

import "net/http"

// HandleHealthcheck reports process liveness.
//
// HTTP: GET /api/healthcheck
//
// The body is pinned to {"status":"ok"} — deployment probes and uptime
// monitors match on it. It shares the request pipeline with everything else
// but touches no auth and no storage.
func HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
