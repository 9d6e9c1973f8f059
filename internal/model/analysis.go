package model

// Default values applied to analyzer responses that omit optional fields.
const (
	DefaultConfidenceScore = 0.85
	DefaultFeedback        = "The description accurately depicts the content."
	MismatchFeedback       = "Potential mismatch detected."
)

// AnalysisResult is the normalized output of the analysis gateway.
type AnalysisResult struct {
	IsMatch             bool      `json:"isMatch"`
	ConfidenceScore     float64   `json:"confidenceScore"`
	Feedback            string    `json:"feedback"`
	EnhancedDescription string    `json:"enhancedDescription"`
	Tags                []string  `json:"tags"`
	ContentVector       []float64 `json:"contentVector"`
}
