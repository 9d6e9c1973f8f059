package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ipvault/ipvault/internal/metrics"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/subgraph"
)

const (
	recentPurchasesLimit = 10
	revenueDecimals      = 6
)

// weiPerToken is 10^18.
var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Querier runs a GraphQL query and decodes its data member into out.
type Querier interface {
	Query(ctx context.Context, query string, vars map[string]any, out any) error
}

// AnalyticsService aggregates purchase events from the subgraph.
type AnalyticsService struct {
	subgraph Querier
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(q Querier, recorder metrics.Recorder, logger *slog.Logger) *AnalyticsService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		subgraph: q,
		metrics:  recorder,
		logger:   logger.With("component", "service.analytics"),
	}
}

// Creator aggregates sales across every IP-NFT minted by address.
// The subgraph stores creators lowercased; the response echoes address as given.
func (s *AnalyticsService) Creator(ctx context.Context, address string) (*model.CreatorAnalytics, error) {
	var data struct {
		IPNFTs []model.IPNFT `json:"ipnfts"`
	}
	vars := map[string]any{"creator": model.NormalizeAddress(address)}
	if err := s.subgraph.Query(ctx, subgraph.CreatorQuery, vars, &data); err != nil {
		s.metrics.IncUpstreamError("subgraph")
		return nil, fmt.Errorf("failed to query creator analytics: %w", err)
	}

	report := &model.CreatorAnalytics{
		Creator:      address,
		TotalContent: len(data.IPNFTs),
		Content:      make([]model.ContentStats, 0, len(data.IPNFTs)),
	}
	total := new(big.Int)
	buyers := make(map[string]struct{})

	for _, nft := range data.IPNFTs {
		revenue := s.sumPrices(nft.AccessPurchases)
		total.Add(total, revenue)
		report.TotalSales += len(nft.AccessPurchases)
		for _, p := range nft.AccessPurchases {
			buyers[p.Buyer] = struct{}{}
		}
		report.Content = append(report.Content, model.ContentStats{
			TokenID: nft.TokenID,
			Sales:   len(nft.AccessPurchases),
			Revenue: formatWei(revenue),
		})
	}

	report.TotalRevenue = formatWei(total)
	report.UniqueCustomers = len(buyers)
	report.EstimatedViews = report.TotalSales * model.ViewsPerSale
	return report, nil
}

// Token aggregates sales of one token.
func (s *AnalyticsService) Token(ctx context.Context, tokenID string) (*model.TokenAnalytics, error) {
	var data struct {
		AccessPurchases []model.Purchase `json:"accessPurchases"`
		IPNFT           *model.IPNFT     `json:"ipnft"`
	}
	vars := map[string]any{"tokenId": tokenID}
	if err := s.subgraph.Query(ctx, subgraph.TokenQuery, vars, &data); err != nil {
		s.metrics.IncUpstreamError("subgraph")
		return nil, fmt.Errorf("failed to query token analytics: %w", err)
	}

	buyers := make(map[string]struct{}, len(data.AccessPurchases))
	for _, p := range data.AccessPurchases {
		buyers[p.Buyer] = struct{}{}
	}

	recent := data.AccessPurchases
	if len(recent) > recentPurchasesLimit {
		recent = recent[:recentPurchasesLimit]
	}
	if recent == nil {
		recent = []model.Purchase{}
	}

	report := &model.TokenAnalytics{
		TokenID:         tokenID,
		TotalSales:      len(data.AccessPurchases),
		TotalRevenue:    formatWei(s.sumPrices(data.AccessPurchases)),
		UniqueBuyers:    len(buyers),
		RecentPurchases: recent,
	}
	if data.IPNFT != nil && data.IPNFT.Creator != "" {
		creator := data.IPNFT.Creator
		report.Creator = &creator
	}
	return report, nil
}

// sumPrices adds purchase prices in wei. Prices that are not base-10
// integers count as zero.
func (s *AnalyticsService) sumPrices(purchases []model.Purchase) *big.Int {
	sum := new(big.Int)
	for _, p := range purchases {
		price, ok := new(big.Int).SetString(p.Price, 10)
		if !ok {
			s.logger.Warn("skipping non-numeric purchase price", "purchase_id", p.ID, "price", p.Price)
			continue
		}
		sum.Add(sum, price)
	}
	return sum
}

// formatWei renders wei as whole tokens with six decimals.
func formatWei(wei *big.Int) string {
	return new(big.Rat).SetFrac(wei, weiPerToken).FloatString(revenueDecimals)
}
