package handler

import "net/http"

// Health reports the current status snapshot. The request body, query and headers are ignored.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(h.logger, w, http.StatusOK, h.reporter.GetHealth())
}
