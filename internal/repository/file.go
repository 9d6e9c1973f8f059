package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ipvault/ipvault/internal/model"
)

// DefaultDataFile is the database file name, relative to the working directory.
const DefaultDataFile = "mock_db.json"

// document is the on-disk shape of the file store.
type document struct {
	Items []model.MintedItem `json:"items"`
}

// FileItemRepository keeps every item in a single JSON document and rewrites
// the whole document on each append.
//
// Recovery policy: a missing, unreadable or unparsable file reads as an empty
// collection. The next append then replaces it.
//
// Appends are serialized within this process only. Two processes sharing the
// same file can still lose updates.
type FileItemRepository struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileItemRepository creates a file-backed repository at path.
func NewFileItemRepository(path string, logger *slog.Logger) *FileItemRepository {
	if path == "" {
		path = DefaultDataFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileItemRepository{
		path:   path,
		logger: logger.With("component", "repository.file"),
	}
}

// Path returns the backing file location.
func (r *FileItemRepository) Path() string {
	return r.path
}

// Append adds the item to the end of the document.
func (r *FileItemRepository) Append(ctx context.Context, item *model.MintedItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.read()
	doc.Items = append(doc.Items, *item)

	if err := r.write(doc); err != nil {
		return fmt.Errorf("failed to append item: %w", err)
	}
	return nil
}

// ListAll returns every stored item in file order.
func (r *FileItemRepository) ListAll(ctx context.Context) ([]model.MintedItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.read().Items, nil
}

// Ping verifies the directory holding the data file exists.
func (r *FileItemRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", dir)
	}
	return nil
}

// Close is a no-op.
func (r *FileItemRepository) Close() error {
	return nil
}

func (r *FileItemRepository) read() document {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("data file unreadable, treating as empty", "path", r.path, "error", err)
		}
		return document{Items: []model.MintedItem{}}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		r.logger.Warn("data file unparsable, treating as empty", "path", r.path, "error", err)
		return document{Items: []model.MintedItem{}}
	}
	if doc.Items == nil {
		doc.Items = []model.MintedItem{}
	}
	return doc
}

// write replaces the file atomically via a temp file in the same directory.
func (r *FileItemRepository) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
