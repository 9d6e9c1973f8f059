// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for createdAt values.
// Millisecond precision with a literal Z, matching what browsers emit.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// VectorDimension is the embedding size produced by the stub analyzer.
const VectorDimension = 1536

// MintedItem is one indexed piece of minted content.
// ID is the token id assigned by the minting process and is not unique
// within the store.
type MintedItem struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	EnhancedDescription string    `json:"enhancedDescription"`
	Tags                []string  `json:"tags"`
	FileType            string    `json:"fileType"`
	FileURL             string    `json:"fileUrl"`
	Owner               string    `json:"owner"`
	Price               string    `json:"price"`
	Vector              []float64 `json:"vector"`
	CreatedAt           string    `json:"createdAt"`
}

// HasRequiredFields reports whether the item carries an id and an owner.
func (i *MintedItem) HasRequiredFields() bool {
	return i.ID != "" && i.Owner != ""
}

// EnsureCreatedAt fills CreatedAt with now when it is empty.
// Returns true if the field was backfilled.
func (i *MintedItem) EnsureCreatedAt(now time.Time) bool {
	if i.CreatedAt != "" {
		return false
	}
	i.CreatedAt = FormatTimestamp(now)
	return true
}

// Matches reports whether the lowercased query is a substring of the
// title, any tag, or the description.
func (i *MintedItem) Matches(lowerQuery string) bool {
	if strings.Contains(strings.ToLower(i.Title), lowerQuery) {
		return true
	}
	for _, tag := range i.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(i.Description), lowerQuery)
}

// OwnedBy compares the owner address case-insensitively.
func (i *MintedItem) OwnedBy(address string) bool {
	return strings.EqualFold(i.Owner, address)
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
