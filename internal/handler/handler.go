// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/upstream"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Handler serves endpoints that need no dependencies.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello identifies the service.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ipvault content marketplace API",
		"version": Version,
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, dto.KindNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, dto.KindMethodNotAllowed, "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message, Kind: kind})
}

// writeUpstreamError reports a failed external call with its payload as
// details. It returns false if err is not an *upstream.Error.
func writeUpstreamError(w http.ResponseWriter, err error) bool {
	var upErr *upstream.Error
	if !errors.As(err, &upErr) {
		return false
	}
	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
		Error:   upErr.Message,
		Kind:    dto.KindUpstreamError,
		Details: upErr.Details,
	})
	return true
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDecodeError reports a body that could not be decoded. Bodies cut
// off by MaxBytesReader are 413, anything else is invalid JSON.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, dto.KindPayloadTooLarge, "Request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, dto.KindInvalidJSON, "Invalid request body")
}
