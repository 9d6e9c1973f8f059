package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ipvault/ipvault/internal/metrics"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/repository"
)

const (
	// DefaultSearchDelay simulates embedding latency before search.
	DefaultSearchDelay = time.Second
	// discoveryLimit is how many items discovery mode returns.
	discoveryLimit = 5
)

// SuggestedFilters is returned with every search response.
var SuggestedFilters = []string{"trending", "recent"}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Results          []model.MintedItem
	SuggestedFilters []string
	Discovery        bool
}

// ItemService indexes minted items and searches them.
type ItemService struct {
	repo        repository.ItemRepository
	searchDelay time.Duration
	now         func() time.Time
	metrics     metrics.Recorder
	logger      *slog.Logger
}

// ItemServiceOption customizes an ItemService.
type ItemServiceOption func(*ItemService)

// WithSearchDelay overrides DefaultSearchDelay.
func WithSearchDelay(d time.Duration) ItemServiceOption {
	return func(s *ItemService) { s.searchDelay = d }
}

// WithItemClock overrides the clock used to backfill createdAt.
func WithItemClock(now func() time.Time) ItemServiceOption {
	return func(s *ItemService) { s.now = now }
}

// NewItemService creates a new ItemService.
func NewItemService(repo repository.ItemRepository, recorder metrics.Recorder, logger *slog.Logger, opts ...ItemServiceOption) *ItemService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &ItemService{
		repo:        repo,
		searchDelay: DefaultSearchDelay,
		now:         time.Now,
		metrics:     recorder,
		logger:      logger.With("component", "service.item"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index validates and appends an item, backfilling CreatedAt.
// Items sharing an id are stored side by side.
func (s *ItemService) Index(ctx context.Context, item *model.MintedItem) error {
	if !item.HasRequiredFields() {
		s.metrics.IncItemIndexed(metrics.OutcomeRejected)
		return ErrMissingFields
	}

	item.EnsureCreatedAt(s.now())

	if err := s.repo.Append(ctx, item); err != nil {
		s.metrics.IncItemIndexed(metrics.OutcomeFailed)
		return fmt.Errorf("failed to index item: %w", err)
	}

	s.metrics.IncItemIndexed(metrics.OutcomeSuccess)
	s.logger.Info("item indexed", "token_id", item.ID, "owner", item.Owner)
	return nil
}

// Search returns items whose title, tags or description contain query,
// case-insensitively. With no match it falls back to the first few stored
// items (discovery mode). An empty query matches everything.
func (s *ItemService) Search(ctx context.Context, query string) (*SearchResult, error) {
	if err := sleep(ctx, s.searchDelay); err != nil {
		return nil, err
	}

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	lowerQuery := strings.ToLower(query)
	results := make([]model.MintedItem, 0, len(items))
	for i := range items {
		if items[i].Matches(lowerQuery) {
			results = append(results, items[i])
		}
	}

	result := &SearchResult{
		Results:          results,
		SuggestedFilters: append([]string(nil), SuggestedFilters...),
	}

	if len(results) == 0 {
		n := min(discoveryLimit, len(items))
		result.Results = append(results, items[:n]...)
		result.Discovery = true
		s.metrics.IncSearch(metrics.SearchModeDiscovery)
		return result, nil
	}

	s.metrics.IncSearch(metrics.SearchModeMatch)
	return result, nil
}

// List returns every stored item, filtered by owner when owner is set.
func (s *ItemService) List(ctx context.Context, owner string) ([]model.MintedItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	owner = strings.TrimSpace(owner)
	if owner == "" {
		if items == nil {
			items = []model.MintedItem{}
		}
		return items, nil
	}

	owned := make([]model.MintedItem, 0)
	for i := range items {
		if items[i].OwnedBy(owner) {
			owned = append(owned, items[i])
		}
	}
	return owned, nil
}
