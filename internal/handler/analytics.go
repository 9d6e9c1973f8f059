package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/service"
	"github.com/ipvault/ipvault/internal/subgraph"
)

// AnalyticsHandler serves on-chain sales analytics.
type AnalyticsHandler struct {
	svc    *service.AnalyticsService
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:    svc,
		logger: logger,
	}
}

// Creator handles GET /api/analytics/creator/{address}.
func (h *AnalyticsHandler) Creator(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Creator(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to fetch creator analytics")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Token handles GET /api/analytics/token/{tokenId}.
func (h *AnalyticsHandler) Token(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Token(r.Context(), chi.URLParam(r, "tokenId"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to fetch analytics")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	h.logger.Error("analytics_error", "error", err)

	if writeUpstreamError(w, err) {
		return
	}
	if errors.Is(err, subgraph.ErrNotConfigured) {
		writeError(w, http.StatusInternalServerError, dto.KindInternal, subgraph.ErrNotConfigured.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, dto.KindInternal, fallback)
}
