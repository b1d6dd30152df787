package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/clients_api/dexscreener"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a configurable stand-in for the DexScreener API.
type fakeAPI struct {
	boostsBody   string
	boostsStatus int
	searchBody   string
	searchStatus int
	tokensBody   string
	tokensStatus int

	searchCalls int
	tokenCalls  int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token-boosts/latest/v1", func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, f.boostsStatus, f.boostsBody)
	})
	mux.HandleFunc("/latest/dex/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls++
		writeResponse(w, f.searchStatus, f.searchBody)
	})
	mux.HandleFunc("/latest/dex/tokens/", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		writeResponse(w, f.tokensStatus, f.tokensBody)
	})
	return mux
}

func writeResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func newTestScanner(t *testing.T, api *fakeAPI) *Scanner {
	t.Helper()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	return New(dexscreener.NewClient(server.URL), "solana")
}

func TestFetchNewBoostsDeduplicates(t *testing.T) {
	api := &fakeAPI{
		boostsBody: `[
			{"chainId":"solana","tokenAddress":"tokA","amount":500,"totalAmount":500},
			{"chainId":"solana","tokenAddress":"tokB","amount":100,"totalAmount":600}
		]`,
	}
	s := newTestScanner(t, api)

	first := s.FetchNewBoosts(context.Background())
	require.Len(t, first, 2)
	assert.Equal(t, "tokA", first[0].TokenAddress)
	assert.Equal(t, "tokB", first[1].TokenAddress)

	// Same upstream payload again: everything is already seen
	second := s.FetchNewBoosts(context.Background())
	assert.Empty(t, second)
}

func TestFetchNewBoostsFiltersChain(t *testing.T) {
	api := &fakeAPI{
		boostsBody: `[
			{"chainId":"ethereum","tokenAddress":"tokA","amount":500,"totalAmount":500},
			{"chainId":"Solana","tokenAddress":"tokB","amount":100,"totalAmount":100},
			{"chainId":"bsc","tokenAddress":"tokC","amount":500,"totalAmount":500}
		]`,
	}
	s := newTestScanner(t, api)

	boosts := s.FetchNewBoosts(context.Background())
	require.Len(t, boosts, 1)
	// chain match is case-insensitive
	assert.Equal(t, "tokB", boosts[0].TokenAddress)
}

func TestFetchNewBoostsWrappedResponse(t *testing.T) {
	api := &fakeAPI{
		boostsBody: `{"boosts":[{"chainId":"solana","tokenAddress":"tokA","amount":500,"totalAmount":500}]}`,
	}
	s := newTestScanner(t, api)

	boosts := s.FetchNewBoosts(context.Background())
	require.Len(t, boosts, 1)
	assert.Equal(t, "tokA", boosts[0].TokenAddress)
}

func TestFetchNewBoostsUnexpectedShape(t *testing.T) {
	api := &fakeAPI{boostsBody: `{"unexpected":true}`}
	s := newTestScanner(t, api)
	assert.Empty(t, s.FetchNewBoosts(context.Background()))
}

func TestFetchNewBoostsAPIError(t *testing.T) {
	api := &fakeAPI{boostsBody: `{"error":"down"}`, boostsStatus: http.StatusInternalServerError}
	s := newTestScanner(t, api)
	assert.Empty(t, s.FetchNewBoosts(context.Background()))
	assert.Zero(t, s.CacheSize())
}

func TestFetchNewBoostsIdentityIgnoresChainAndTime(t *testing.T) {
	// Identical (address, amount, totalAmount) means identical identity,
	// so the second occurrence within one payload is dropped too.
	api := &fakeAPI{
		boostsBody: `[
			{"chainId":"solana","tokenAddress":"tokA","amount":500,"totalAmount":500},
			{"chainId":"solana","tokenAddress":"tokA","amount":500,"totalAmount":500}
		]`,
	}
	s := newTestScanner(t, api)
	assert.Len(t, s.FetchNewBoosts(context.Background()), 1)
}

func TestEvictOldEntries(t *testing.T) {
	s := New(dexscreener.NewClient("http://unused.invalid"), "solana")
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("tok%d_500_500", i)
		s.seen[id] = struct{}{}
		s.seenOrder = append(s.seenOrder, id)
	}

	s.EvictOldEntries(5)
	assert.Equal(t, 5, s.CacheSize())

	// Oldest identities were dropped, newest kept
	_, oldest := s.seen["tok0_500_500"]
	_, newest := s.seen["tok7_500_500"]
	assert.False(t, oldest)
	assert.True(t, newest)
	assert.Len(t, s.seen, 5)

	// No-op when already within bounds
	s.EvictOldEntries(5)
	assert.Equal(t, 5, s.CacheSize())
	s.EvictOldEntries(100)
	assert.Equal(t, 5, s.CacheSize())
}

func TestTokenDetailsPicksMaxLiquidity(t *testing.T) {
	api := &fakeAPI{
		searchBody: `{"pairs":[
			{"chainId":"ethereum","dexId":"uniswap","liquidity":{"usd":900000}},
			{"chainId":"solana","dexId":"raydium","liquidity":{"usd":50000},"baseToken":{"name":"A","symbol":"A"}},
			{"chainId":"solana","dexId":"orca","liquidity":{"usd":80000},"baseToken":{"name":"B","symbol":"B"}}
		]}`,
	}
	s := newTestScanner(t, api)

	pair := s.TokenDetails(context.Background(), "tokA")
	require.NotNil(t, pair)
	assert.Equal(t, "orca", pair.DexID)
	assert.Equal(t, float64(80000), pair.Liquidity.USD)
	assert.Equal(t, 1, api.searchCalls)
	assert.Zero(t, api.tokenCalls)
}

func TestTokenDetailsFallsBackToTokenEndpoint(t *testing.T) {
	api := &fakeAPI{
		searchBody: `{"pairs":[{"chainId":"ethereum","dexId":"uniswap","liquidity":{"usd":100}}]}`,
		tokensBody: `{"pairs":[{"chainId":"solana","dexId":"pumpswap","liquidity":{"usd":1234}}]}`,
	}
	s := newTestScanner(t, api)

	pair := s.TokenDetails(context.Background(), "tokA")
	require.NotNil(t, pair)
	assert.Equal(t, "pumpswap", pair.DexID)
	assert.Equal(t, 1, api.searchCalls)
	assert.Equal(t, 1, api.tokenCalls)
}

func TestTokenDetailsFallsBackOnSearchError(t *testing.T) {
	api := &fakeAPI{
		searchBody:   `{"error":"rate limited"}`,
		searchStatus: http.StatusTooManyRequests,
		tokensBody:   `{"pairs":[{"chainId":"solana","dexId":"raydium","liquidity":{"usd":10}}]}`,
	}
	s := newTestScanner(t, api)

	pair := s.TokenDetails(context.Background(), "tokA")
	require.NotNil(t, pair)
	assert.Equal(t, "raydium", pair.DexID)
}

func TestTokenDetailsNothingFound(t *testing.T) {
	api := &fakeAPI{
		searchBody: `{"pairs":[]}`,
		tokensBody: `{"pairs":[]}`,
	}
	s := newTestScanner(t, api)
	assert.Nil(t, s.TokenDetails(context.Background(), "tokA"))
}
