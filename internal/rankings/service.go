// Package rankings exposes per-cycle department standings ordered by
// organizational score.
package rankings

import (
	"log/slog"
	"time"

	"github.com/edcellence/edpex-engine/internal/database"
)

// Response is the payload for a rankings query
type Response struct {
	Cycle   string                `json:"cycle"`
	Entries []database.RankingRow `json:"entries"`
	Total   int                   `json:"total"`
}

// Service handles ranking queries over persisted assessments
type Service struct {
	repo  *database.Repository
	cache *rankingCache
}

// NewService creates a rankings service with the default 15 minute
// cache TTL.
func NewService(repo *database.Repository) *Service {
	return NewServiceWithTTL(repo, 15*time.Minute)
}

// NewServiceWithTTL creates a rankings service with a custom cache TTL
func NewServiceWithTTL(repo *database.Repository, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		cache: newRankingCache(ttl),
	}
}

// GetRankings returns departments ranked by organizational score within
// one cycle. Results are cached per cycle and limit.
func (s *Service) GetRankings(cycle string, limit int) (*Response, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	if cached, found := s.cache.get(cycle, limit); found {
		return cached, nil
	}

	rows, err := s.repo.GetCycleRankings(cycle, limit)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Cycle:   cycle,
		Entries: rows,
		Total:   len(rows),
	}

	s.cache.set(cycle, limit, response)

	slog.Debug("Rankings computed", "cycle", cycle, "entries", len(rows))

	return response, nil
}

// Invalidate drops cached rankings after a new assessment is saved
func (s *Service) Invalidate() {
	s.cache.clear()
}

// GetCacheStats returns rankings cache statistics
func (s *Service) GetCacheStats() map[string]interface{} {
	return s.cache.stats()
}
