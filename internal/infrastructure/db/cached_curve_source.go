package db

import (
	"context"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/repository"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/cache"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
)

// CachedCurveSource wraps a CurveSource so each location is parsed at most once per cache period
type CachedCurveSource struct {
	next   repository.CurveSource
	cache  *cache.CurveTableCache
	logger logger.Logger
}

// NewCachedCurveSource creates a caching decorator around next
func NewCachedCurveSource(next repository.CurveSource, c *cache.CurveTableCache, log logger.Logger) *CachedCurveSource {
	if c == nil {
		c = cache.NewCurveTableCache(cache.DefaultExpiration)
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CachedCurveSource{
		next:   next,
		cache:  c,
		logger: log,
	}
}

// Load returns the cached table for location or loads and caches it
func (s *CachedCurveSource) Load(ctx context.Context, location string) (*entity.CurveTable, error) {
	if table := s.cache.Get(location); table != nil {
		s.logger.Debug("Curve cache hit", map[string]interface{}{
			"source": location,
		})
		return table, nil
	}

	table, err := s.next.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	s.cache.Put(location, table)
	return table, nil
}
