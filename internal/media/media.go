// Package media classifies uploaded files by their declared MIME type.
// Classification trusts the declared type; no content sniffing is done.
package media

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the coarse media class of a file.
type Category string

const (
	CategoryImage   Category = "image"
	CategoryText    Category = "text"
	CategoryAudio   Category = "audio"
	CategoryVideo   Category = "video"
	CategoryUnknown Category = "unknown"
)

// ImageTypes are the accepted image MIME types.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml"}

// TextTypes are the accepted document MIME types.
var TextTypes = []string{"text/plain", "text/markdown", "application/pdf"}

// ErrUnsupported is the base error for rejected files.
var ErrUnsupported = errors.New("unsupported file type")

// UnsupportedError describes why a file was rejected.
type UnsupportedError struct {
	Category Category
	MIMEType string
}

func (e *UnsupportedError) Error() string {
	return e.Reason()
}

// Unwrap lets callers match with errors.Is(err, ErrUnsupported).
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Reason returns a user-facing rejection message.
func (e *UnsupportedError) Reason() string {
	var lead string
	switch e.Category {
	case CategoryAudio:
		lead = "Audio files are not supported at this time."
	case CategoryVideo:
		lead = "Video files are not supported at this time."
	default:
		lead = "This file type is not supported."
	}
	return fmt.Sprintf("%s Supported formats: %s.", lead, SupportedFileTypes())
}

// Classify maps a declared MIME type to its category.
func Classify(mimeType string) Category {
	if contains(ImageTypes, mimeType) {
		return CategoryImage
	}
	if contains(TextTypes, mimeType) {
		return CategoryText
	}
	if strings.HasPrefix(mimeType, "audio") {
		return CategoryAudio
	}
	if strings.HasPrefix(mimeType, "video") {
		return CategoryVideo
	}
	return CategoryUnknown
}

// IsSupported reports whether files of this type may be uploaded.
func IsSupported(mimeType string) bool {
	c := Classify(mimeType)
	return c == CategoryImage || c == CategoryText
}

// Check returns nil for supported types and an *UnsupportedError otherwise.
func Check(mimeType string) error {
	c := Classify(mimeType)
	if c == CategoryImage || c == CategoryText {
		return nil
	}
	return &UnsupportedError{Category: c, MIMEType: mimeType}
}

// SupportedFileTypes is a human-readable summary of accepted formats.
func SupportedFileTypes() string {
	return "Images (JPEG, PNG, GIF, WebP, SVG) and Text files (TXT, MD, PDF)"
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
