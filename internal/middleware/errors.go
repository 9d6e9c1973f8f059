package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ipvault/ipvault/internal/handler/dto"
)

// writeError emits the same error envelope the handlers use so that
// middleware rejections are indistinguishable to clients.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: message, Kind: kind})
}
