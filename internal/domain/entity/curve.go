package entity

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used by curve files and queries
const DateLayout = "2006-01-02"

// RateType selects one quoted side of the curve
type RateType string

const (
	// RateTypeBid is the bid side of the curve
	RateTypeBid RateType = "Bid"
	// RateTypeAsk is the ask side of the curve
	RateTypeAsk RateType = "Ask"
	// RateTypeMid is the mid of the curve
	RateTypeMid RateType = "Mid"
)

// RateTypes lists the supported rate types in column order
var RateTypes = []RateType{RateTypeBid, RateTypeAsk, RateTypeMid}

// ParseRateType converts a selector such as "bid" or "Ask" into a RateType
func ParseRateType(s string) (RateType, error) {
	for _, rt := range RateTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(rt)) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected Bid, Ask or Mid)", ErrUnknownRateType, s)
}

// Column returns the name of the CSV column holding this rate type
func (rt RateType) Column() string {
	return string(rt) + " Rate"
}

// CurvePoint is a single tenor of the curve
type CurvePoint struct {
	DayOffset int     `json:"day_offset"`
	Rate      float64 `json:"rate"`
}

// Curve is the ordered set of points for one rate type, anchored at BaseDate
type Curve struct {
	BaseDate time.Time    `json:"base_date"`
	RateType RateType     `json:"rate_type"`
	Points   []CurvePoint `json:"points"`
}

// Validate checks the curve invariants: at least one point, the first point at
// offset 0 and strictly ascending offsets after it.
func (c *Curve) Validate() error {
	if len(c.Points) == 0 {
		return ErrEmptyCurve
	}

	if c.Points[0].DayOffset != 0 {
		return fmt.Errorf("%w: first point must be at day offset 0, got %d", ErrMalformedCurve, c.Points[0].DayOffset)
	}

	for i := 1; i < len(c.Points); i++ {
		if c.Points[i].DayOffset <= c.Points[i-1].DayOffset {
			return fmt.Errorf("%w: day offsets not strictly ascending at point %d (%d after %d)",
				ErrMalformedCurve, i, c.Points[i].DayOffset, c.Points[i-1].DayOffset)
		}
	}

	return nil
}

// CurveRow is one parsed row of a curve file
type CurveRow struct {
	Date    string             `json:"date"`
	NumDays int                `json:"num_days"`
	Rates   map[string]float64 `json:"rates"`
}

// CurveTable is a parsed curve file, every rate column included
type CurveTable struct {
	ID       string     `json:"id,omitempty"`
	Source   string     `json:"source"`
	BaseDate time.Time  `json:"base_date"`
	Columns  []string   `json:"columns"`
	Rows     []CurveRow `json:"rows"`
	LoadedAt time.Time  `json:"loaded_at"`
}

// HasColumn reports whether the table carries the named column
func (t *CurveTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RateTypes returns the rate types that have a column in the table
func (t *CurveTable) RateTypes() []RateType {
	var out []RateType
	for _, rt := range RateTypes {
		if t.HasColumn(rt.Column()) {
			out = append(out, rt)
		}
	}
	return out
}

// Curve projects the table onto a single rate type, preserving row order
func (t *CurveTable) Curve(rt RateType) (*Curve, error) {
	if !t.HasColumn(rt.Column()) {
		return nil, fmt.Errorf("%w: column %q not present in %s", ErrUnknownRateType, rt.Column(), t.Source)
	}

	points := make([]CurvePoint, 0, len(t.Rows))
	for _, row := range t.Rows {
		points = append(points, CurvePoint{
			DayOffset: row.NumDays,
			Rate:      row.Rates[rt.Column()],
		})
	}

	return &Curve{
		BaseDate: t.BaseDate,
		RateType: rt,
		Points:   points,
	}, nil
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the signed number of calendar days from base to target.
// Only the calendar date of each value is used.
func DaysBetween(base, target time.Time) int {
	b := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Unix()/secondsPerDay - b.Unix()/secondsPerDay)
}
