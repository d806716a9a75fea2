package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"edubot/internal/domain"
)

// RankCache is an LRU + TTL cache of ranked results keyed by (query, k).
// Entries remember the corpus generation they were computed against and
// are dropped when a reload bumps it.
type RankCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	results    []domain.ScoredRow
	timestamp  time.Time
	generation uint64
}

func NewRankCache(maxSize int, ttl time.Duration) *RankCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RankCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, k int) string {
	data := []byte(query)
	data = append(data, byte(k>>8), byte(k))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// Get returns cached results for (query, k) computed against generation.
func (c *RankCache) Get(query string, k int, generation uint64) ([]domain.ScoredRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, k)
	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.generation != generation {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return entry.results, true
}

func (c *RankCache) Put(query string, k int, generation uint64, results []domain.ScoredRow) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, k)
	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{results: results, timestamp: time.Now(), generation: generation}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{results: results, timestamp: time.Now(), generation: generation}
	c.order = append(c.order, key)
}

func (c *RankCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RankCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *RankCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *RankCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
