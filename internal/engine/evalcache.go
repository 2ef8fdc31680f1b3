package engine

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/hailam/chessplay/internal/board"
)

// EvalCache memoizes static evaluations by position hash and tier.
// Writes are admitted asynchronously, so a Get straight after a Put may miss.
type EvalCache struct {
	cache *ristretto.Cache[uint64, int]
}

// NewEvalCache creates a cache holding roughly the given number of entries.
func NewEvalCache(entries int64) (*EvalCache, error) {
	if entries <= 0 {
		return nil, fmt.Errorf("eval cache: entries must be positive, got %d", entries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, int]{
		NumCounters: entries * 10,
		MaxCost:     entries,
		BufferItems: 64,
		Metrics:     true,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("eval cache: %w", err)
	}
	return &EvalCache{cache: cache}, nil
}

// tierSalt spreads tiers apart in key space.
const tierSalt = 0x9E3779B97F4A7C15

func evalKey(hash uint64, tier EvalTier) uint64 {
	return hash ^ uint64(tier)*tierSalt
}

// Evaluate returns the cached evaluation of pos, computing and storing it
// on a miss.
func (c *EvalCache) Evaluate(pos *board.Position, tier EvalTier, pt *PawnTable) int {
	key := evalKey(pos.Hash, tier)
	if score, ok := c.cache.Get(key); ok {
		return score
	}
	score := EvaluateWithPawnTable(pos, tier, pt)
	c.cache.Set(key, score, 1)
	return score
}

// Wait blocks until pending writes are visible.
func (c *EvalCache) Wait() {
	c.cache.Wait()
}

// Clear drops every entry.
func (c *EvalCache) Clear() {
	c.cache.Clear()
}

// Hits returns the number of cache hits so far.
func (c *EvalCache) Hits() uint64 {
	return c.cache.Metrics.Hits()
}

// Close releases the cache's background goroutines.
func (c *EvalCache) Close() {
	c.cache.Close()
}
