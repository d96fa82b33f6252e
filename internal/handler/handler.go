package handler

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Cerebrovinny/apihealth/internal/health"
)

// Handler serves the HTTP API.
type Handler struct {
	reporter *health.Reporter
	logger   *slog.Logger
}

// NewHandler returns a Handler backed by the given reporter. A nil logger falls back to slog.Default.
func NewHandler(reporter *health.Reporter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{reporter: reporter, logger: logger}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NotFound answers unknown routes with a JSON error body.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(h.logger, w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed answers known routes hit with an unsupported method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(h.logger, w, http.StatusMethodNotAllowed, "method not allowed")
}

func respondJSON(logger *slog.Logger, w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error("json marshal error", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logger.Warn("json response write error", slog.String("error", err.Error()))
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(logger, w, status, ErrorResponse{Error: message})
}
