package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/ipvault/ipvault/internal/model"
)

func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	raw := &RawResult{
		EnhancedDescription: strPtr("A description"),
		Tags:                []string{"a"},
		ContentVector:       []float64{0.1},
	}

	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !result.IsMatch {
		t.Error("expected isMatch to default to true")
	}
	if result.ConfidenceScore != model.DefaultConfidenceScore {
		t.Errorf("confidenceScore = %v, want %v", result.ConfidenceScore, model.DefaultConfidenceScore)
	}
	if result.Feedback != model.DefaultFeedback {
		t.Errorf("feedback = %q", result.Feedback)
	}
}

func TestNormalize_KeepsProvidedValues(t *testing.T) {
	t.Parallel()

	raw := &RawResult{
		IsMatch:             boolPtr(false),
		ConfidenceScore:     floatPtr(0.2),
		Feedback:            strPtr("Mismatch"),
		EnhancedDescription: strPtr("desc"),
		Tags:                []string{},
		ContentVector:       []float64{},
	}

	result, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if result.IsMatch {
		t.Error("expected explicit false isMatch to be kept")
	}
	if result.ConfidenceScore != 0.2 {
		t.Errorf("confidenceScore = %v, want 0.2", result.ConfidenceScore)
	}
	if result.Feedback != "Mismatch" {
		t.Errorf("feedback = %q", result.Feedback)
	}
}

func TestNormalize_MissingFields(t *testing.T) {
	t.Parallel()

	complete := func() *RawResult {
		return &RawResult{
			EnhancedDescription: strPtr("desc"),
			Tags:                []string{"a"},
			ContentVector:       []float64{0.5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *RawResult)
		missing string
	}{
		{"no description", func(r *RawResult) { r.EnhancedDescription = nil }, "enhancedDescription"},
		{"empty description", func(r *RawResult) { r.EnhancedDescription = strPtr("") }, "enhancedDescription"},
		{"no tags", func(r *RawResult) { r.Tags = nil }, "tags"},
		{"no vector", func(r *RawResult) { r.ContentVector = nil }, "contentVector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := complete()
			tt.mutate(raw)

			_, err := Normalize(raw)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name %s", err, tt.missing)
			}
		})
	}
}

func TestRequest_HasFile(t *testing.T) {
	t.Parallel()

	if (&Request{}).HasFile() {
		t.Error("empty request should have no file")
	}
	if !(&Request{Data: []byte("x")}).HasFile() {
		t.Error("request with data should have a file")
	}
	if !(&Request{FileURL: "https://ipfs.io/ipfs/abc"}).HasFile() {
		t.Error("request with URL should have a file")
	}
	if !(&Request{FileName: "empty.txt"}).HasFile() {
		t.Error("request with an empty named upload should have a file")
	}
}

func TestRequest_IsUpload(t *testing.T) {
	t.Parallel()

	if (&Request{FileURL: "https://ipfs.io/ipfs/abc"}).IsUpload() {
		t.Error("URL reference should not count as an upload")
	}
	if !(&Request{FileName: "a.bin"}).IsUpload() {
		t.Error("named upload should count as an upload")
	}
	if !(&Request{Data: []byte("x")}).IsUpload() {
		t.Error("uploaded bytes should count as an upload")
	}
}
