package api

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

const searchCacheTTL = 30 * time.Second

// searchCacheKey generates a cache key from the search kind and query.
func searchCacheKey(kind, query string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte(query))
	return fmt.Sprintf("%x", h.Sum(nil))
}

type cachedResponse struct {
	value     any
	timestamp time.Time
}

// searchCache is a small TTL cache for search responses, so re-running the
// same query while browsing results does not refetch.
type searchCache struct {
	mu      sync.Mutex
	entries map[string]cachedResponse
}

func newSearchCache() *searchCache {
	return &searchCache{entries: make(map[string]cachedResponse)}
}

func (sc *searchCache) Get(key string) (any, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	entry, ok := sc.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.timestamp) > searchCacheTTL {
		delete(sc.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (sc *searchCache) Put(key string, value any) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.entries[key] = cachedResponse{value: value, timestamp: time.Now()}
}
