// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"

	"github.com/ipvault/ipvault/internal/model"
)

// Error kinds carried in ErrorResponse.Kind.
const (
	KindMissingFields     = "missing_fields"
	KindInvalidJSON       = "invalid_json"
	KindInvalidPlan       = "invalid_plan"
	KindUnsupportedMedia  = "unsupported_media"
	KindPayloadTooLarge   = "payload_too_large"
	KindUpstreamError     = "upstream_error"
	KindMalformedResponse = "malformed_response"
	KindInternal          = "internal"
	KindNotFound          = "not_found"
	KindMethodNotAllowed  = "method_not_allowed"
	KindRateLimited       = "rate_limited"
)

// ErrorResponse represents an API error. Error holds the human-readable
// message; Kind is the machine-readable discriminator.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Kind    string          `json:"kind"`
	Details json.RawMessage `json:"details,omitempty"`
}

// IndexResponse acknowledges a stored item.
type IndexResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SearchRequest is the body of POST /api/ai/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse lists matching items.
type SearchResponse struct {
	Results          []model.MintedItem `json:"results"`
	SuggestedFilters []string           `json:"suggestedFilters"`
}

// ItemListResponse lists stored items.
type ItemListResponse struct {
	Items []model.MintedItem `json:"items"`
}

// AnalyzeURLRequest is the JSON variant of POST /api/ai/analyze for
// content that is already hosted.
type AnalyzeURLRequest struct {
	FileURL         string `json:"fileUrl"`
	FileType        string `json:"fileType"`
	Title           string `json:"title"`
	UserDescription string `json:"userDescription"`
}

// SubscribeRequest is the body of POST /api/premium/subscribe.
type SubscribeRequest struct {
	Address     string `json:"address"`
	Plan        string `json:"plan"`
	PaymentHash string `json:"paymentHash,omitempty"`
}

// SubscribeResponse confirms an activated subscription. Price is the plan
// list price in native-currency units.
type SubscribeResponse struct {
	Success      bool                `json:"success"`
	Subscription *model.Subscription `json:"subscription"`
	Price        float64             `json:"price"`
	Message      string              `json:"message"`
}

// InactivePremiumResponse is returned for addresses without an active
// subscription. Address is omitted by the query-string lookup.
type InactivePremiumResponse struct {
	Address   string  `json:"address,omitempty"`
	IsPremium bool    `json:"isPremium"`
	ExpiresAt *int64  `json:"expiresAt"`
	Discount  float64 `json:"discount"`
}

// MediaValidateRequest is the body of POST /api/media/validate.
type MediaValidateRequest struct {
	Type string `json:"type"`
}

// MediaValidateResponse reports how a MIME type is classified.
type MediaValidateResponse struct {
	Category  string `json:"category"`
	Supported bool   `json:"supported"`
	Reason    string `json:"reason,omitempty"`
}

// SupportedMediaResponse lists accepted upload formats.
type SupportedMediaResponse struct {
	Description string   `json:"description"`
	Image       []string `json:"image"`
	Text        []string `json:"text"`
}
