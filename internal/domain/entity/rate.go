package entity

import (
	"fmt"
	"strings"
	"time"
)

// Outcome tells how an interpolated rate was obtained
type Outcome string

const (
	// OutcomeInterpolated means the rate came from a bracketing pair of points
	OutcomeInterpolated Outcome = "interpolated"
	// OutcomeClampedToLastPoint means the date lies past the last point but inside
	// the interpolation window, so the last point's rate was used
	OutcomeClampedToLastPoint Outcome = "clamped_to_last_point"
	// OutcomeFlatExtrapolated means the date lies past the interpolation window
	OutcomeFlatExtrapolated Outcome = "flat_extrapolated"
	// OutcomeBeforeBaseDate means the date precedes the curve; the rate is 0
	OutcomeBeforeBaseDate Outcome = "before_base_date"
)

// Interpolation is the result of evaluating a curve at a day offset
type Interpolation struct {
	Rate      float64 `json:"rate"`
	DayOffset int     `json:"day_offset"`
	Outcome   Outcome `json:"outcome"`
}

// InRange reports whether the target date was on or after the curve's base date
func (o Outcome) InRange() bool {
	return o != OutcomeBeforeBaseDate
}

// RateQuery asks for one rate type at one date
type RateQuery struct {
	TargetDate time.Time `json:"target_date"`
	RateType   RateType  `json:"rate_type"`
}

// ParseRateQuery builds a query from a YYYY-MM-DD date and a rate type selector
func ParseRateQuery(date, rateType string) (RateQuery, error) {
	rt, err := ParseRateType(rateType)
	if err != nil {
		return RateQuery{}, err
	}

	target, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return RateQuery{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, date)
	}

	return RateQuery{TargetDate: target, RateType: rt}, nil
}

// RateQuote is a rate answered for a query, with the curve context it came from
type RateQuote struct {
	Source     string    `json:"source"`
	RateType   RateType  `json:"rate_type"`
	TargetDate time.Time `json:"target_date"`
	BaseDate   time.Time `json:"base_date"`
	DayOffset  int       `json:"day_offset"`
	Rate       float64   `json:"rate"`
	Outcome    Outcome   `json:"outcome"`
}
