package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/service"
)

// ItemHandler handles HTTP requests for indexing and searching items.
type ItemHandler struct {
	svc    *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		svc:    svc,
		logger: logger,
	}
}

// Index handles POST /api/ai/index.
func (h *ItemHandler) Index(w http.ResponseWriter, r *http.Request) {
	var item model.MintedItem
	if err := decodeJSON(r, &item); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.svc.Index(r.Context(), &item); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			h.logger.Warn("index_rejected", "has_id", item.ID != "", "has_owner", item.Owner != "")
			writeError(w, http.StatusBadRequest, dto.KindMissingFields, "Missing required fields")
			return
		}
		h.logger.Error("index_failed", "token_id", item.ID, "error", err)
		writeError(w, http.StatusInternalServerError, dto.KindInternal, "Failed to index item")
		return
	}

	writeJSON(w, http.StatusOK, dto.IndexResponse{
		Success: true,
		Message: "Item indexed successfully",
	})
}

// Search handles POST /api/ai/search.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.svc.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.logger.Debug("search_cancelled")
			return
		}
		h.logger.Error("search_failed", "error", err)
		writeError(w, http.StatusInternalServerError, dto.KindInternal, "Failed to search content")
		return
	}

	h.logger.Debug("search_completed",
		"results", len(result.Results),
		"discovery", result.Discovery,
	)

	writeJSON(w, http.StatusOK, dto.SearchResponse{
		Results:          result.Results,
		SuggestedFilters: result.SuggestedFilters,
	})
}

// List handles GET /api/items with an optional owner query parameter.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		h.logger.Error("list_failed", "error", err)
		writeError(w, http.StatusInternalServerError, dto.KindInternal, "Failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, dto.ItemListResponse{Items: items})
}
