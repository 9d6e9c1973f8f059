// Package subgraph queries the on-chain event indexer over GraphQL.
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ipvault/ipvault/internal/upstream"
)

const (
	serviceName         = "subgraph"
	unreachableMsg      = "Failed to reach subgraph"
	genericUpstreamMsg  = "Subgraph returned an error"
	maxResponseBodySize = 8 << 20
)

// ErrNotConfigured is returned when no subgraph URL was provided.
var ErrNotConfigured = errors.New("subgraph URL is not configured")

// CreatorQuery selects every IP-NFT minted by a creator with its purchases.
const CreatorQuery = `
query GetCreatorAnalytics($creator: String!) {
  ipnfts(where: { creator: $creator }) {
    id
    tokenId
    creator
    metadata
    accessPurchases {
      id
      buyer
      price
      timestamp
    }
  }
}`

// TokenQuery selects the purchases of a single token and its IP-NFT record.
const TokenQuery = `
query GetTokenAnalytics($tokenId: String!) {
  accessPurchases(where: { tokenId: $tokenId }) {
    id
    buyer
    tokenId
    price
    duration
    timestamp
  }
  ipnft(id: $tokenId) {
    id
    creator
    totalRevenue
    accessCount
  }
}`

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client posts GraphQL queries to a single endpoint.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a subgraph client. An empty url yields a client whose
// queries fail with ErrNotConfigured.
func NewClient(url string, client *http.Client) *Client {
	if client == nil {
		client = upstream.NewHTTPClient(0)
	}
	return &Client{url: url, client: client}
}

// Query executes query with vars and decodes the data member into out.
// The first GraphQL error, if any, is returned as an *upstream.Error whose
// Message is the error text.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.url == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", upstream.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return &upstream.Error{Service: serviceName, Message: unreachableMsg, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return &upstream.Error{Service: serviceName, Message: unreachableMsg, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &upstream.Error{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    upstream.ErrorMessage(body, genericUpstreamMsg),
			Details:    upstream.Details(body),
		}
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return &upstream.Error{Service: serviceName, Message: "Invalid response from subgraph", Err: err}
	}

	if len(decoded.Errors) > 0 {
		return &upstream.Error{
			Service: serviceName,
			Message: decoded.Errors[0].Message,
			Details: upstream.Details(body),
		}
	}

	if out == nil || len(decoded.Data) == 0 || string(decoded.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return &upstream.Error{Service: serviceName, Message: "Invalid response from subgraph", Err: err}
	}
	return nil
}
