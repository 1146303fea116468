package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/repository"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/cache"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// CurveParser turns an uploaded curve file into a table
type CurveParser func(r io.Reader, source string) (*entity.CurveTable, error)

// CurveService manages imported curve snapshots and answers rate lookups against them
type CurveService struct {
	store  repository.CurveStore
	parse  CurveParser
	cache  *cache.CurveTableCache
	logger logger.Logger
}

// NewCurveService creates a new curve service
func NewCurveService(store repository.CurveStore, parse CurveParser, log logger.Logger) *CurveService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CurveService{
		store:  store,
		parse:  parse,
		logger: log,
	}
}

// WithCache keeps curves read from the store in c, keyed by curve ID
func (s *CurveService) WithCache(c *cache.CurveTableCache) *CurveService {
	s.cache = c
	return s
}

// ImportCurve parses a curve file, checks every rate column forms a valid curve and stores it
func (s *CurveService) ImportCurve(ctx context.Context, r io.Reader, name string) (*entity.CurveTable, error) {
	requestID := middleware.GetRequestID(ctx)

	table, err := s.parse(r, name)
	if err != nil {
		s.logger.Warn("Rejected curve import", map[string]interface{}{
			"request_id": requestID,
			"name":       name,
			"error":      err.Error(),
		})
		return nil, err
	}

	for _, rt := range table.RateTypes() {
		curve, err := table.Curve(rt)
		if err != nil {
			return nil, err
		}
		if err := curve.Validate(); err != nil {
			s.logger.Warn("Rejected curve import", map[string]interface{}{
				"request_id": requestID,
				"name":       name,
				"rate_type":  rt,
				"error":      err.Error(),
			})
			return nil, fmt.Errorf("%s curve: %w", rt, err)
		}
	}

	table.ID = uuid.New().String()
	if table.LoadedAt.IsZero() {
		table.LoadedAt = time.Now().UTC()
	}

	if _, err := s.store.Store(ctx, table); err != nil {
		s.logger.Error("Failed to store curve", map[string]interface{}{
			"request_id": requestID,
			"id":         table.ID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to store curve: %w", err)
	}

	if s.cache != nil {
		s.cache.Put(table.ID, table)
	}

	s.logger.Info("Curve imported", map[string]interface{}{
		"request_id": requestID,
		"id":         table.ID,
		"name":       name,
		"base_date":  table.BaseDate.Format(entity.DateLayout),
		"rows":       len(table.Rows),
	})

	return table, nil
}

// GetCurve retrieves an imported curve by ID
func (s *CurveService) GetCurve(ctx context.Context, id string) (*entity.CurveTable, error) {
	return s.findCurve(ctx, id)
}

// findCurve serves a curve from the cache when one is set, falling back to the store
func (s *CurveService) findCurve(ctx context.Context, id string) (*entity.CurveTable, error) {
	if s.cache == nil {
		return s.store.FindByID(ctx, id)
	}

	if table := s.cache.Get(id); table != nil {
		s.logger.Debug("Curve cache hit", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"id":         id,
		})
		return table, nil
	}

	table, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(id, table)
	return table, nil
}

// ListCurves returns the IDs of all imported curves
func (s *CurveService) ListCurves(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// DeleteCurve removes an imported curve
func (s *CurveService) DeleteCurve(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if s.cache != nil {
		s.cache.Invalidate(id)
	}
	if err != nil {
		return err
	}

	s.logger.Info("Curve deleted", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"id":         id,
	})
	return nil
}

// GetRate evaluates an imported curve for the query
func (s *CurveService) GetRate(ctx context.Context, id string, query entity.RateQuery) (*entity.RateQuote, error) {
	table, err := s.findCurve(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to retrieve curve for rate lookup", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"id":         id,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to retrieve curve: %w", err)
	}

	return quoteFromTable(ctx, s.logger, table, query)
}
