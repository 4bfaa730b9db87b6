package rankings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/edcellence/edpex-engine/internal/cache"
)

// rankingCache wraps the TTL cache with rankings-shaped accessors.
// Entries serialize to JSON so cached and fresh responses are
// indistinguishable to callers.
type rankingCache struct {
	cache *cache.Cache
}

func newRankingCache(ttl time.Duration) *rankingCache {
	return &rankingCache{cache: cache.NewCache(ttl)}
}

func cacheKey(cycle string, limit int) string {
	return fmt.Sprintf("rankings:%s:%d", cycle, limit)
}

func (rc *rankingCache) get(cycle string, limit int) (*Response, bool) {
	data, found := rc.cache.Get(cacheKey(cycle, limit))
	if !found {
		return nil, false
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		slog.Error("Failed to unmarshal cached rankings", "error", err, "cycle", cycle)
		return nil, false
	}

	slog.Debug("Rankings cache hit", "cycle", cycle, "limit", limit)
	return &response, true
}

func (rc *rankingCache) set(cycle string, limit int, response *Response) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal rankings for cache", "error", err, "cycle", cycle)
		return
	}

	rc.cache.Set(cacheKey(cycle, limit), data)
}

func (rc *rankingCache) clear() {
	rc.cache.Clear()
}

func (rc *rankingCache) stats() map[string]interface{} {
	return rc.cache.Stats()
}
