// Package service internal/domain/service/interpolator.go
package service

import (
	"fmt"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
)

// MaxInterpolationDays is the last day offset that is linearly interpolated.
// Beyond it the curve is held flat at its last point.
const MaxInterpolationDays = 720

// Interpolate evaluates the curve at the target date.
//
// Dates before the base date yield a zero rate with OutcomeBeforeBaseDate rather
// than an error. Dates more than MaxInterpolationDays after the base date yield
// the last point's rate. Dates in between are linearly interpolated on the first
// pair of adjacent points that brackets them, or clamped to the last point when
// the curve ends before the target.
func Interpolate(curve *entity.Curve, target time.Time) (entity.Interpolation, error) {
	if curve == nil {
		return entity.Interpolation{}, entity.ErrEmptyCurve
	}
	if err := curve.Validate(); err != nil {
		return entity.Interpolation{}, err
	}

	offset := entity.DaysBetween(curve.BaseDate, target)
	return InterpolateOffset(curve.Points, offset)
}

// InterpolateOffset evaluates validated curve points at a signed day offset
func InterpolateOffset(points []entity.CurvePoint, offset int) (entity.Interpolation, error) {
	if len(points) == 0 {
		return entity.Interpolation{}, entity.ErrEmptyCurve
	}

	switch {
	case offset < 0:
		return entity.Interpolation{Rate: 0, DayOffset: offset, Outcome: entity.OutcomeBeforeBaseDate}, nil
	case offset > MaxInterpolationDays:
		return entity.Interpolation{
			Rate:      points[len(points)-1].Rate,
			DayOffset: offset,
			Outcome:   entity.OutcomeFlatExtrapolated,
		}, nil
	}

	lo, hi, found := findBracket(points, offset)
	if !found {
		last := points[len(points)-1]
		if offset > last.DayOffset {
			return entity.Interpolation{Rate: last.Rate, DayOffset: offset, Outcome: entity.OutcomeClampedToLastPoint}, nil
		}
		return entity.Interpolation{}, fmt.Errorf("%w: no bracketing points for day offset %d", entity.ErrMalformedCurve, offset)
	}

	return entity.Interpolation{
		Rate:      linear(lo, hi, offset),
		DayOffset: offset,
		Outcome:   entity.OutcomeInterpolated,
	}, nil
}

// findBracket returns the first adjacent pair with lo.DayOffset <= offset <= hi.DayOffset.
// A single point matching offset exactly is returned as a zero-width bracket.
func findBracket(points []entity.CurvePoint, offset int) (lo, hi entity.CurvePoint, found bool) {
	if len(points) == 1 {
		if points[0].DayOffset == offset {
			return points[0], points[0], true
		}
		return entity.CurvePoint{}, entity.CurvePoint{}, false
	}

	for i := 0; i < len(points)-1; i++ {
		if points[i].DayOffset <= offset && offset <= points[i+1].DayOffset {
			return points[i], points[i+1], true
		}
	}

	return entity.CurvePoint{}, entity.CurvePoint{}, false
}

// linear interpolates within a bracket. An exact tenor match returns the quoted rate unchanged.
func linear(lo, hi entity.CurvePoint, offset int) float64 {
	switch offset {
	case lo.DayOffset:
		return lo.Rate
	case hi.DayOffset:
		return hi.Rate
	}
	width := hi.DayOffset - lo.DayOffset
	return lo.Rate + float64(offset-lo.DayOffset)*(hi.Rate-lo.Rate)/float64(width)
}
