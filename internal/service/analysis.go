package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ipvault/ipvault/internal/analysis"
	"github.com/ipvault/ipvault/internal/media"
	"github.com/ipvault/ipvault/internal/metrics"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/upstream"
)

// AnalysisService validates analysis requests and delegates to an Analyzer.
type AnalysisService struct {
	analyzer analysis.Analyzer
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(analyzer analysis.Analyzer, recorder metrics.Recorder, logger *slog.Logger) *AnalysisService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		analyzer: analyzer,
		metrics:  recorder,
		logger:   logger.With("component", "service.analysis"),
	}
}

// Analyze requires content and a title. Uploads always pass the media
// allow-list, so an upload without a declared type is rejected. Hosted
// content referenced by URL is checked only when it declares a type.
func (s *AnalysisService) Analyze(ctx context.Context, req *analysis.Request) (*model.AnalysisResult, error) {
	if !req.HasFile() || req.Title == "" {
		s.metrics.ObserveAnalysis(metrics.OutcomeRejected, 0)
		return nil, ErrMissingFields
	}
	if req.IsUpload() || req.FileType != "" {
		if err := media.Check(req.FileType); err != nil {
			s.metrics.ObserveAnalysis(metrics.OutcomeRejected, 0)
			return nil, err
		}
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeFailed, elapsed)

		var upErr *upstream.Error
		if errors.As(err, &upErr) {
			s.metrics.IncUpstreamError("ai")
			s.logger.Warn("analyzer call failed", "status", upErr.StatusCode, "error", err)
			return nil, err
		}
		if errors.Is(err, analysis.ErrMalformedResponse) {
			s.metrics.IncUpstreamError("ai")
			s.logger.Warn("analyzer returned malformed response", "error", err)
			return nil, err
		}
		return nil, fmt.Errorf("failed to analyze content: %w", err)
	}

	s.metrics.ObserveAnalysis(metrics.OutcomeSuccess, elapsed)
	s.logger.Debug("content analyzed",
		"file_type", req.FileType,
		"tags", len(result.Tags),
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}
