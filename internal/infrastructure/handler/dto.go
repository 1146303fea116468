package handler

import (
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
)

// RateRequest represents the query parameters of the rate endpoint.
// Type values are checked by entity.ParseRateType, which ignores case.
type RateRequest struct {
	Date string `validate:"required,datetime=2006-01-02"`
	Type string `validate:"required"`
}

// ImportCurveResponse represents the response for the curve import endpoint
type ImportCurveResponse struct {
	ID        string   `json:"id"`
	BaseDate  string   `json:"base_date"`
	Rows      int      `json:"rows"`
	RateTypes []string `json:"rate_types"`
}

// CurvePointResponse is one tenor of a curve in API responses
type CurvePointResponse struct {
	Date    string             `json:"date"`
	NumDays int                `json:"num_days"`
	Rates   map[string]float64 `json:"rates"`
}

// CurveResponse represents a stored curve
type CurveResponse struct {
	ID        string               `json:"id"`
	Source    string               `json:"source"`
	BaseDate  string               `json:"base_date"`
	RateTypes []string             `json:"rate_types"`
	Points    []CurvePointResponse `json:"points"`
	LoadedAt  string               `json:"loaded_at"`
}

// CurveListResponse lists stored curve IDs
type CurveListResponse struct {
	IDs []string `json:"ids"`
}

// RateResponse represents the response for the rate endpoint
type RateResponse struct {
	CurveID   string  `json:"curve_id"`
	RateType  string  `json:"rate_type"`
	Date      string  `json:"date"`
	BaseDate  string  `json:"base_date"`
	DayOffset int     `json:"day_offset"`
	Rate      float64 `json:"rate"`
	Outcome   string  `json:"outcome"`
	InRange   bool    `json:"in_range"`
	Notice    string  `json:"notice,omitempty"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func rateTypeNames(types []entity.RateType) []string {
	names := make([]string, len(types))
	for i, rt := range types {
		names[i] = string(rt)
	}
	return names
}

func newCurveResponse(table *entity.CurveTable) CurveResponse {
	points := make([]CurvePointResponse, len(table.Rows))
	for i, row := range table.Rows {
		points[i] = CurvePointResponse{
			Date:    row.Date,
			NumDays: row.NumDays,
			Rates:   row.Rates,
		}
	}

	return CurveResponse{
		ID:        table.ID,
		Source:    table.Source,
		BaseDate:  table.BaseDate.Format(entity.DateLayout),
		RateTypes: rateTypeNames(table.RateTypes()),
		Points:    points,
		LoadedAt:  table.LoadedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
