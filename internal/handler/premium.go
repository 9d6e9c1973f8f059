package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/service"
)

// PremiumHandler handles premium subscription endpoints.
type PremiumHandler struct {
	svc    *service.PremiumService
	logger *slog.Logger
}

// NewPremiumHandler creates a new PremiumHandler.
func NewPremiumHandler(svc *service.PremiumService, logger *slog.Logger) *PremiumHandler {
	return &PremiumHandler{
		svc:    svc,
		logger: logger,
	}
}

// CheckStatus handles GET /api/premium/check-status/{address}.
func (h *PremiumHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	address := model.NormalizeAddress(chi.URLParam(r, "address"))

	sub, err := h.svc.Status(r.Context(), address)
	if err != nil {
		h.handleServiceError(w, err, "Failed to check premium status")
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusOK, dto.InactivePremiumResponse{Address: address})
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// GetSubscription handles GET /api/premium/subscribe?address=.
func (h *PremiumHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Status(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		h.handleServiceError(w, err, "Failed to check premium status")
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusOK, dto.InactivePremiumResponse{})
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Subscribe handles POST /api/premium/subscribe.
func (h *PremiumHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	sub, err := h.svc.Subscribe(r.Context(), service.SubscribeInput{
		Address:     req.Address,
		Plan:        req.Plan,
		PaymentHash: req.PaymentHash,
	})
	if err != nil {
		h.handleServiceError(w, err, "Failed to create premium subscription")
		return
	}

	details, _ := sub.Plan.Details()
	writeJSON(w, http.StatusOK, dto.SubscribeResponse{
		Success:      true,
		Subscription: sub,
		Price:        details.Price,
		Message: fmt.Sprintf("Premium %s subscription activated. Expires at %s",
			sub.Plan, model.FormatTimestamp(sub.ExpiryTime())),
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *PremiumHandler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAddressRequired):
		writeError(w, http.StatusBadRequest, dto.KindMissingFields, "Address is required")
	case errors.Is(err, service.ErrSubscriptionRequired):
		writeError(w, http.StatusBadRequest, dto.KindMissingFields, "Address and plan are required")
	case errors.Is(err, service.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, dto.KindInvalidPlan, `Invalid plan. Choose "monthly" or "yearly"`)
	default:
		h.logger.Error("premium_error", "error", err)
		writeError(w, http.StatusInternalServerError, dto.KindInternal, fallback)
	}
}
