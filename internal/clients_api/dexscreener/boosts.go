package dexscreener

// Latest token-boost feed.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"
)

// Boost is one boost purchase event from the latest-boosts feed.
type Boost struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Amount       int    `json:"amount"`
	TotalAmount  int    `json:"totalAmount"`
}

// GetLatestBoosts fetches the latest boosted tokens.
// The endpoint has returned both a bare array and an object with a "boosts"
// field over time; both shapes are accepted. Any other shape is logged and
// treated as empty.
func (c *Client) GetLatestBoosts(ctx context.Context) ([]Boost, error) {
	respBody, err := c.makeRequest(ctx, "/token-boosts/latest/v1", c.boostTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest boosts: %w", err)
	}

	var boosts []Boost
	if err := json.Unmarshal(respBody, &boosts); err == nil {
		return boosts, nil
	}

	var wrapped struct {
		Boosts []Boost `json:"boosts"`
	}
	if err := json.Unmarshal(respBody, &wrapped); err == nil && wrapped.Boosts != nil {
		return wrapped.Boosts, nil
	}

	log.LogWarn("Unexpected boosts response format")
	log.LogJSON(respBody, "Unexpected boosts payload")
	return nil, nil
}
