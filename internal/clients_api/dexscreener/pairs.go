package dexscreener

// Pair search and token lookup endpoints.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// BaseToken identifies the token side of a pair.
type BaseToken struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Liquidity holds the pooled liquidity of a pair.
type Liquidity struct {
	USD float64 `json:"usd"`
}

// TxCounts - buy/sell counts for one window.
type TxCounts struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairTxns - transaction counts per window.
type PairTxns struct {
	M5  TxCounts `json:"m5"`
	H24 TxCounts `json:"h24"`
}

// Pair is one tradable market tracked by DexScreener.
type Pair struct {
	ChainID       string    `json:"chainId"`
	DexID         string    `json:"dexId"`
	PriceUsd      string    `json:"priceUsd"` // upstream sends the price as a string
	MarketCap     float64   `json:"marketCap"`
	Liquidity     Liquidity `json:"liquidity"`
	BaseToken     BaseToken `json:"baseToken"`
	Txns          PairTxns  `json:"txns"`
	PairCreatedAt int64     `json:"pairCreatedAt"` // unix ms
}

// Price returns the pair price in USD as a float, 0 when absent or malformed.
func (p *Pair) Price() float64 {
	if p.PriceUsd == "" {
		return 0
	}
	f, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil {
		return 0
	}
	return f
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// SearchPairs queries the pair search endpoint with a free-form query
// (typically a token address).
func (c *Client) SearchPairs(ctx context.Context, query string) ([]Pair, error) {
	endpoint := "/latest/dex/search?q=" + url.QueryEscape(query)

	respBody, err := c.makeRequest(ctx, endpoint, c.tokenTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to search pairs: %w", err)
	}

	var resp pairsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	return resp.Pairs, nil
}

// GetTokenPairs fetches all pairs for a specific token address.
func (c *Client) GetTokenPairs(ctx context.Context, tokenAddress string) ([]Pair, error) {
	endpoint := "/latest/dex/tokens/" + url.PathEscape(tokenAddress)

	respBody, err := c.makeRequest(ctx, endpoint, c.tokenTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to get token pairs: %w", err)
	}

	var resp pairsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token pairs response: %w", err)
	}

	return resp.Pairs, nil
}
