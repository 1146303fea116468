package entity

import "errors"

var (
	// ErrUnknownRateType is returned for a selector that names no rate column
	ErrUnknownRateType = errors.New("unknown rate type")

	// ErrEmptyCurve is returned when a curve has no points
	ErrEmptyCurve = errors.New("curve has no points")

	// ErrMalformedCurve is returned when curve points break the ordering invariants
	ErrMalformedCurve = errors.New("malformed curve")

	// ErrCurveDataUnavailable is returned when a curve source cannot be read
	ErrCurveDataUnavailable = errors.New("curve data unavailable")

	// ErrMalformedCurveData is returned when a curve file cannot be parsed
	ErrMalformedCurveData = errors.New("malformed curve data")

	// ErrInvalidDate is returned when a target date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")

	// ErrCurveNotFound is returned when a stored curve snapshot does not exist
	ErrCurveNotFound = errors.New("curve not found")
)
