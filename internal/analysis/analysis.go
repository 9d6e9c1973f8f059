// Package analysis produces descriptive metadata and an embedding vector
// for uploaded content, either from a local stub or a remote AI service.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ipvault/ipvault/internal/model"
)

// ErrMalformedResponse is returned when the analyzer response lacks a
// required field.
var ErrMalformedResponse = errors.New("invalid response from AI service")

// Request is one piece of content to analyze. Either Data (an uploaded
// file) or FileURL (already hosted content) identifies the content.
type Request struct {
	FileName        string
	FileType        string
	Data            []byte
	FileURL         string
	Title           string
	UserDescription string
}

// HasFile reports whether the request carries content to analyze.
func (r *Request) HasFile() bool {
	return r.IsUpload() || r.FileURL != ""
}

// IsUpload reports whether the request carries uploaded bytes rather than
// a reference to hosted content.
func (r *Request) IsUpload() bool {
	return r.FileName != "" || len(r.Data) > 0
}

// Analyzer produces an AnalysisResult for a request.
type Analyzer interface {
	Analyze(ctx context.Context, req *Request) (*model.AnalysisResult, error)
}

// RawResult is the analyzer wire shape before defaults are applied.
// Pointer and nil-slice fields distinguish "absent" from zero values.
type RawResult struct {
	IsMatch             *bool     `json:"isMatch"`
	ConfidenceScore     *float64  `json:"confidenceScore"`
	Feedback            *string   `json:"feedback"`
	EnhancedDescription *string   `json:"enhancedDescription"`
	Tags                []string  `json:"tags"`
	ContentVector       []float64 `json:"contentVector"`
}

// Normalize validates required fields and fills defaults for optional ones.
func Normalize(raw *RawResult) (*model.AnalysisResult, error) {
	var missing []string
	if raw.EnhancedDescription == nil || *raw.EnhancedDescription == "" {
		missing = append(missing, "enhancedDescription")
	}
	if raw.Tags == nil {
		missing = append(missing, "tags")
	}
	if raw.ContentVector == nil {
		missing = append(missing, "contentVector")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}

	result := &model.AnalysisResult{
		IsMatch:             raw.IsMatch == nil || *raw.IsMatch,
		ConfidenceScore:     model.DefaultConfidenceScore,
		Feedback:            model.DefaultFeedback,
		EnhancedDescription: *raw.EnhancedDescription,
		Tags:                raw.Tags,
		ContentVector:       raw.ContentVector,
	}
	if raw.ConfidenceScore != nil {
		result.ConfidenceScore = *raw.ConfidenceScore
	}
	if raw.Feedback != nil && *raw.Feedback != "" {
		result.Feedback = *raw.Feedback
	}

	return result, nil
}
