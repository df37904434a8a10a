package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"movimenti/internal/store"
)

// Envelope is the uniform response wrapper used by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondOK(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func respondCreated(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Data: nil, Message: message})
}

func respondNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, Envelope{Success: false, Data: nil, Message: message})
}

// respondError maps a downstream error onto the taxonomy: absent documents
// become 404, everything else becomes 500 carrying the raw error message.
func respondError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(w, notFoundMessage)
		return
	}
	slog.ErrorContext(r.Context(), "Request failed",
		"error", err,
		"method", r.Method,
		"url", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, Envelope{Success: false, Data: nil, Message: err.Error()})
}
