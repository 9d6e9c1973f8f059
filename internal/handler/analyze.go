package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/ipvault/ipvault/internal/analysis"
	"github.com/ipvault/ipvault/internal/handler/dto"
	"github.com/ipvault/ipvault/internal/media"
	"github.com/ipvault/ipvault/internal/service"
)

const (
	// DefaultMaxUploadSize is the largest accepted upload.
	DefaultMaxUploadSize = 100 << 20
	// multipartMemory is how much of a form is buffered before spilling to disk.
	multipartMemory = 32 << 20

	missingAnalyzeFieldsMsg = "Missing required fields: file and title"
)

var errMissingFile = errors.New("no file in form")

// AnalyzeHandler handles content analysis uploads.
type AnalyzeHandler struct {
	svc           *service.AnalysisService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler. A non-positive
// maxUploadSize selects DefaultMaxUploadSize.
func NewAnalyzeHandler(svc *service.AnalysisService, maxUploadSize int64, logger *slog.Logger) *AnalyzeHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &AnalyzeHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Analyze handles POST /api/ai/analyze. It accepts a multipart upload
// (file, title, userDescription) or a JSON body referencing hosted content.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		h.writeTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	req, err := h.parseRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.writeTooLarge(w)
		case errors.Is(err, errMissingFile):
			writeError(w, http.StatusBadRequest, dto.KindMissingFields, missingAnalyzeFieldsMsg)
		default:
			h.logger.Warn("analyze_bad_request", "error", err)
			writeError(w, http.StatusBadRequest, dto.KindInvalidJSON, "Invalid request body")
		}
		return
	}

	result, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("content_analyzed",
		"file_type", req.FileType,
		"is_match", result.IsMatch,
		"tags", len(result.Tags),
	)
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalyzeHandler) parseRequest(r *http.Request) (*analysis.Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var body dto.AnalyzeURLRequest
		if err := decodeJSON(r, &body); err != nil {
			return nil, err
		}
		return &analysis.Request{
			FileURL:         body.FileURL,
			FileType:        body.FileType,
			Title:           body.Title,
			UserDescription: body.UserDescription,
		}, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		req := &analysis.Request{
			Title:           r.FormValue("title"),
			UserDescription: r.FormValue("userDescription"),
		}

		file, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read form file: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("read form file: %w", err)
		}
		req.FileName = header.Filename
		req.FileType = header.Header.Get("Content-Type")
		req.Data = data
		return req, nil

	default:
		return nil, errMissingFile
	}
}

// handleServiceError maps service errors to HTTP responses.
func (h *AnalyzeHandler) handleServiceError(w http.ResponseWriter, err error) {
	if writeUpstreamError(w, err) {
		h.logger.Error("analyzer_upstream_error", "error", err)
		return
	}

	var unsupported *media.UnsupportedError
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, dto.KindMissingFields, missingAnalyzeFieldsMsg)
	case errors.As(err, &unsupported):
		writeError(w, http.StatusBadRequest, dto.KindUnsupportedMedia, unsupported.Reason())
	case errors.Is(err, analysis.ErrMalformedResponse):
		h.logger.Error("analyzer_malformed_response", "error", err)
		writeError(w, http.StatusInternalServerError, dto.KindMalformedResponse, analysis.ErrMalformedResponse.Error())
	case errors.Is(err, context.Canceled):
		h.logger.Debug("analyze_cancelled")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, dto.KindInternal, "Failed to analyze content")
	}
}

func (h *AnalyzeHandler) writeTooLarge(w http.ResponseWriter) {
	writeError(w, http.StatusRequestEntityTooLarge, dto.KindPayloadTooLarge,
		fmt.Sprintf("File exceeds the maximum upload size of %d MB", h.maxUploadSize>>20))
}
