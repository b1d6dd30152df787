package scanner

// Scanner retrieves token boost events from the DexScreener API, deduplicates
// them against an in-memory cache of seen boost identities, and resolves
// per-token market data for alert enrichment.

import (
	"context"
	"fmt"
	"strings"

	"github.com/algoclient/dexscreener-boost-scrapper/internal/clients_api/dexscreener"
	"github.com/algoclient/dexscreener-boost-scrapper/internal/infra/log"

	"go.uber.org/zap"
)

// Scanner owns the DexScreener client and the seen-boost cache.
// Not safe for concurrent use; the bot loop is the only caller.
type Scanner struct {
	client      *dexscreener.Client
	targetChain string

	// seen + seenOrder form an insertion-ordered set, so eviction can
	// drop the oldest identities first.
	seen      map[string]struct{}
	seenOrder []string
}

// New creates a Scanner monitoring the given chain.
func New(client *dexscreener.Client, targetChain string) *Scanner {
	return &Scanner{
		client:      client,
		targetChain: strings.ToLower(targetChain),
		seen:        make(map[string]struct{}),
	}
}

// boostIdentity builds the dedup key for a boost event.
// chainId and time are deliberately not part of the key: two real-world
// boosts sharing (address, amount, totalAmount) collide and the second one
// is silently dropped. Known upstream limitation, kept as-is.
func boostIdentity(b dexscreener.Boost) string {
	return fmt.Sprintf("%s_%d_%d", b.TokenAddress, b.Amount, b.TotalAmount)
}

// FetchNewBoosts fetches the latest boosts, keeps only those on the target
// chain that have not been seen before, and records them as seen.
// Upstream order is preserved. Any API failure is logged and degrades to an
// empty result; errors never propagate to the caller.
func (s *Scanner) FetchNewBoosts(ctx context.Context) []dexscreener.Boost {
	boosts, err := s.client.GetLatestBoosts(ctx)
	if err != nil {
		log.LogError("Failed to fetch boosts", zap.Error(err))
		return nil
	}

	var fresh []dexscreener.Boost
	for _, boost := range boosts {
		if strings.ToLower(boost.ChainID) != s.targetChain {
			continue
		}

		id := boostIdentity(boost)
		if _, ok := s.seen[id]; ok {
			continue
		}

		s.seen[id] = struct{}{}
		s.seenOrder = append(s.seenOrder, id)
		fresh = append(fresh, boost)
	}

	log.LogInfo("Found new boosts",
		zap.Int("count", len(fresh)),
		zap.String("chain", s.targetChain))
	return fresh
}

// TokenDetails resolves market data for a token address. It prefers the
// search endpoint and falls back to the token lookup endpoint; from each
// result set it keeps only target-chain pairs and picks the one with the
// highest USD liquidity. Returns nil when nothing usable was found; all
// errors are logged, never propagated.
func (s *Scanner) TokenDetails(ctx context.Context, tokenAddress string) *dexscreener.Pair {
	pairs, err := s.client.SearchPairs(ctx, tokenAddress)
	if err != nil {
		log.LogWarn("Pair search failed, trying token endpoint",
			zap.String("token", tokenAddress),
			zap.Error(err))
	} else if best := s.bestPair(pairs); best != nil {
		return best
	}

	pairs, err = s.client.GetTokenPairs(ctx, tokenAddress)
	if err != nil {
		log.LogError("Failed to fetch token details",
			zap.String("token", tokenAddress),
			zap.Error(err))
		return nil
	}

	return s.bestPair(pairs)
}

// bestPair picks the target-chain pair with the highest USD liquidity.
// First-seen wins on ties.
func (s *Scanner) bestPair(pairs []dexscreener.Pair) *dexscreener.Pair {
	var best *dexscreener.Pair
	for i := range pairs {
		pair := &pairs[i]
		if strings.ToLower(pair.ChainID) != s.targetChain {
			continue
		}
		if best == nil || pair.Liquidity.USD > best.Liquidity.USD {
			best = pair
		}
	}
	if best == nil {
		return nil
	}
	found := *best
	return &found
}

// EvictOldEntries bounds the seen-boost cache. When the cache holds more
// than maxSize identities the oldest-inserted ones are dropped until exactly
// maxSize remain. No-op otherwise.
func (s *Scanner) EvictOldEntries(maxSize int) {
	if maxSize < 0 || len(s.seenOrder) <= maxSize {
		return
	}

	cut := len(s.seenOrder) - maxSize
	for _, id := range s.seenOrder[:cut] {
		delete(s.seen, id)
	}
	s.seenOrder = append([]string(nil), s.seenOrder[cut:]...)

	log.LogInfo("Cleaned up boost cache", zap.Int("kept", len(s.seenOrder)))
}

// CacheSize reports the number of cached boost identities.
func (s *Scanner) CacheSize() int {
	return len(s.seenOrder)
}
