// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"fmt"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/repository"
	curvemath "github.com/damon-houk/bond-curve-interpolation/internal/domain/service"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
)

// RateService answers rate lookups against curve files
type RateService struct {
	source repository.CurveSource
	logger logger.Logger
}

// NewRateService creates a new rate service
func NewRateService(source repository.CurveSource, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateService{
		source: source,
		logger: log,
	}
}

// GetRate loads the curve file at location and evaluates it for the query
func (s *RateService) GetRate(ctx context.Context, location string, query entity.RateQuery) (*entity.RateQuote, error) {
	requestID := middleware.GetRequestID(ctx)

	s.logger.Info("Looking up rate", map[string]interface{}{
		"request_id":  requestID,
		"source":      location,
		"rate_type":   query.RateType,
		"target_date": query.TargetDate.Format(entity.DateLayout),
	})

	table, err := s.source.Load(ctx, location)
	if err != nil {
		s.logger.Error("Failed to load curve", map[string]interface{}{
			"request_id": requestID,
			"source":     location,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to load curve: %w", err)
	}

	return quoteFromTable(ctx, s.logger, table, query)
}

// quoteFromTable projects the table onto the query's rate type and interpolates
func quoteFromTable(ctx context.Context, log logger.Logger, table *entity.CurveTable, query entity.RateQuery) (*entity.RateQuote, error) {
	requestID := middleware.GetRequestID(ctx)

	curve, err := table.Curve(query.RateType)
	if err != nil {
		log.Warn("Rate type not available in curve", map[string]interface{}{
			"request_id": requestID,
			"source":     table.Source,
			"rate_type":  query.RateType,
			"columns":    table.Columns,
		})
		return nil, err
	}

	result, err := curvemath.Interpolate(curve, query.TargetDate)
	if err != nil {
		log.Error("Failed to interpolate curve", map[string]interface{}{
			"request_id": requestID,
			"source":     table.Source,
			"rate_type":  query.RateType,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to interpolate %s curve from %s: %w", query.RateType, table.Source, err)
	}

	quote := &entity.RateQuote{
		Source:     table.Source,
		RateType:   query.RateType,
		TargetDate: query.TargetDate,
		BaseDate:   curve.BaseDate,
		DayOffset:  result.DayOffset,
		Rate:       result.Rate,
		Outcome:    result.Outcome,
	}

	fields := map[string]interface{}{
		"request_id":  requestID,
		"source":      table.Source,
		"rate_type":   query.RateType,
		"target_date": query.TargetDate.Format(entity.DateLayout),
		"base_date":   curve.BaseDate.Format(entity.DateLayout),
		"day_offset":  result.DayOffset,
		"rate":        result.Rate,
		"outcome":     result.Outcome,
	}

	switch result.Outcome {
	case entity.OutcomeBeforeBaseDate:
		log.Warn("Target date is before the curve base date", fields)
	case entity.OutcomeClampedToLastPoint:
		log.Warn("Target date is past the last curve point, using last rate", fields)
	default:
		log.Info("Rate resolved", fields)
	}

	return quote, nil
}
