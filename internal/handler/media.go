package handler

import (
	"errors"
	"net/http"

	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/media"
)

// MediaHandler exposes the upload allow-list.
type MediaHandler struct{}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Supported handles GET /api/media/supported.
func (h *MediaHandler) Supported(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SupportedMediaResponse{
		Description: media.SupportedFileTypes(),
		Image:       media.ImageTypes,
		Text:        media.TextTypes,
	})
}

// Validate handles POST /api/media/validate.
func (h *MediaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.MediaValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp := dto.MediaValidateResponse{
		Category:  string(media.Classify(req.Type)),
		Supported: true,
	}
	var unsupported *media.UnsupportedError
	if err := media.Check(req.Type); errors.As(err, &unsupported) {
		resp.Supported = false
		resp.Reason = unsupported.Reason()
	}
	writeJSON(w, http.StatusOK, resp)
}
