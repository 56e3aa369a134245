package volatility

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"options-trader/internal/models"
)

// TTLs per cached data type. Metric snapshots and the index level go
// stale quickly; rank/percentile inputs can live longer.
const (
	TTLMetrics = 5 * time.Minute
	TTLRank    = time.Hour
	TTLIndex   = 5 * time.Minute
)

// cacheEntry is an immutable cached value; entries are replaced on
// refresh, never mutated in place. Freshness is judged against the
// caller's maxAge at read time, so one entry can serve both the short
// metrics TTL and the longer rank TTL.
type cacheEntry struct {
	metrics   *models.VolatilityMetrics
	createdAt time.Time
}

// CacheService caches volatility metrics in memory and as one durable
// JSON record per symbol for cross-process reuse. The file modification
// time is the TTL clock for the durable tier. Construct at process
// start and inject into the Engine; writers must be serialized per
// symbol across processes.
type CacheService struct {
	mu      sync.RWMutex
	dir     string
	entries map[string]cacheEntry
	index   *cacheEntry // volatility-index level, symbol-independent
	now     func() time.Time
}

// NewCacheService creates a cache backed by dir for durable records.
// An empty dir disables the durable tier.
func NewCacheService(dir string) *CacheService {
	return &CacheService{
		dir:     dir,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Cache stores a metrics snapshot in memory and on disk.
func (c *CacheService) Cache(symbol string, m *models.VolatilityMetrics) {
	c.mu.Lock()
	c.entries[symbol] = cacheEntry{metrics: m, createdAt: c.now()}
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	// Best effort: a failed write leaves only the in-memory tier.
	_ = os.WriteFile(c.filePath(symbol), data, 0644)
}

// LoadCached returns a cached snapshot no older than maxAge, checking
// memory first and falling back to the durable record. Returns nil on
// miss or expiry.
func (c *CacheService) LoadCached(symbol string, maxAge time.Duration) *models.VolatilityMetrics {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()
	if ok && now.Sub(entry.createdAt) < maxAge {
		return entry.metrics
	}

	if c.dir == "" {
		return nil
	}
	path := c.filePath(symbol)
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if now.Sub(info.ModTime()) >= maxAge {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var m models.VolatilityMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}

	c.mu.Lock()
	c.entries[symbol] = cacheEntry{metrics: &m, createdAt: info.ModTime()}
	c.mu.Unlock()
	return &m
}

// CacheIndex stores the volatility-index level.
func (c *CacheService) CacheIndex(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = &cacheEntry{
		metrics:   &models.VolatilityMetrics{IndexLevel: level},
		createdAt: c.now(),
	}
}

// LoadIndex returns the cached index level, or false when expired.
func (c *CacheService) LoadIndex() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil || c.now().Sub(c.index.createdAt) >= TTLIndex {
		return 0, false
	}
	return c.index.metrics.IndexLevel, true
}

// Clear evicts one symbol, or everything when symbol is empty.
func (c *CacheService) Clear(symbol string) {
	c.mu.Lock()
	if symbol == "" {
		c.entries = make(map[string]cacheEntry)
		c.index = nil
	} else {
		delete(c.entries, symbol)
	}
	c.mu.Unlock()

	if c.dir == "" {
		return
	}
	if symbol != "" {
		_ = os.Remove(c.filePath(symbol))
		return
	}
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return
	}
	for _, path := range matches {
		_ = os.Remove(path)
	}
}

func (c *CacheService) filePath(symbol string) string {
	name := strings.ToUpper(symbol) + ".json"
	return filepath.Join(c.dir, name)
}
