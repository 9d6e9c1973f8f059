package model

// ViewsPerSale is the multiplier used to estimate views from sales.
// Views cannot be observed on-chain; this is an assumption, not a measurement.
const ViewsPerSale = 10

// Purchase is an on-chain access purchase event as reported by the subgraph.
// Price is denominated in the smallest currency unit (wei).
type Purchase struct {
	ID        string `json:"id"`
	Buyer     string `json:"buyer"`
	TokenID   string `json:"tokenId,omitempty"`
	Price     string `json:"price"`
	Duration  string `json:"duration,omitempty"`
	Timestamp string `json:"timestamp"`
}

// IPNFT is an indexed IP-NFT together with its purchases.
type IPNFT struct {
	ID              string     `json:"id"`
	TokenID         string     `json:"tokenId"`
	Creator         string     `json:"creator"`
	Metadata        string     `json:"metadata,omitempty"`
	TotalRevenue    string     `json:"totalRevenue,omitempty"`
	AccessCount     string     `json:"accessCount,omitempty"`
	AccessPurchases []Purchase `json:"accessPurchases,omitempty"`
}

// ContentStats is the per-token slice of a creator report.
type ContentStats struct {
	TokenID string `json:"tokenId"`
	Sales   int    `json:"sales"`
	Revenue string `json:"revenue"`
}

// CreatorAnalytics aggregates sales across everything a creator minted.
type CreatorAnalytics struct {
	Creator         string         `json:"creator"`
	TotalContent    int            `json:"totalContent"`
	TotalSales      int            `json:"totalSales"`
	TotalRevenue    string         `json:"totalRevenue"`
	UniqueCustomers int            `json:"uniqueCustomers"`
	EstimatedViews  int            `json:"estimatedViews"`
	Content         []ContentStats `json:"content"`
}

// TokenAnalytics aggregates sales of a single token.
type TokenAnalytics struct {
	TokenID         string     `json:"tokenId"`
	TotalSales      int        `json:"totalSales"`
	TotalRevenue    string     `json:"totalRevenue"`
	UniqueBuyers    int        `json:"uniqueBuyers"`
	RecentPurchases []Purchase `json:"recentPurchases"`
	Creator         *string    `json:"creator"`
}
