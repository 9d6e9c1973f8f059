// Package testutil holds helpers shared by package tests.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipvault/ipvault/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DiscardLogger returns a logger that drops all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteItemsFile writes items as a file-store document in a temp dir and
// returns its path.
func WriteItemsFile(t testing.TB, items ...model.MintedItem) string {
	t.Helper()

	if items == nil {
		items = []model.MintedItem{}
	}
	data, err := json.MarshalIndent(map[string]any{"items": items}, "", "  ")
	if err != nil {
		t.Fatalf("marshal items: %v", err)
	}

	path := filepath.Join(t.TempDir(), "mock_db.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write items file: %v", err)
	}
	return path
}

// SampleItems returns the two-item catalogue used across search tests.
func SampleItems() []model.MintedItem {
	return []model.MintedItem{
		{
			ID:          "1",
			Title:       "Afrobeat Mix",
			Description: "Two hours of highlife and afrobeat",
			Tags:        []string{"music"},
			FileType:    "text/plain",
			Owner:       "0xAaA",
			Price:       "0.001",
			CreatedAt:   "2026-01-01T00:00:00.000Z",
		},
		{
			ID:          "2",
			Title:       "Abstract Art",
			Description: "Oil on canvas",
			Tags:        []string{"art"},
			FileType:    "image/png",
			Owner:       "0xBbB",
			Price:       "0.002",
			CreatedAt:   "2026-01-02T00:00:00.000Z",
		},
	}
}
