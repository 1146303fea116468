// Package db internal/infrastructure/db/csv_curve_source.go
package db

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/domain/repository"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
)

const (
	// DateColumn holds the calendar date of each row; only row 0 is interpreted
	DateColumn = "Date"
	// NumDaysColumn holds the day offset of each row from the base date
	NumDaysColumn = "Num Days"
)

// RemoteCurveFetcher defines an interface for downloading curve files over the network
type RemoteCurveFetcher interface {
	FetchCurveFile(ctx context.Context, url string) ([]byte, error)
}

// CSVCurveSource implements the CurveSource interface for CSV files on disk or at http(s) URLs
type CSVCurveSource struct {
	remote RemoteCurveFetcher
	logger logger.Logger
}

// NewCSVCurveSource creates a new CSV curve source. remote may be nil, in which
// case URL locations are rejected.
func NewCSVCurveSource(remote RemoteCurveFetcher, log logger.Logger) repository.CurveSource {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CSVCurveSource{
		remote: remote,
		logger: log,
	}
}

// Load reads and parses the curve file at location
func (s *CSVCurveSource) Load(ctx context.Context, location string) (*entity.CurveTable, error) {
	s.logger.Debug("Loading curve file", map[string]interface{}{
		"source": location,
	})

	var r io.Reader
	if isRemote(location) {
		if s.remote == nil {
			return nil, fmt.Errorf("%w: remote sources are not enabled: %s", entity.ErrCurveDataUnavailable, location)
		}
		data, err := s.remote.FetchCurveFile(ctx, location)
		if err != nil {
			s.logger.Error("Failed to download curve file", map[string]interface{}{
				"source": location,
				"error":  err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", entity.ErrCurveDataUnavailable, err)
		}
		r = bytes.NewReader(data)
	} else {
		f, err := os.Open(location)
		if err != nil {
			s.logger.Error("Failed to open curve file", map[string]interface{}{
				"source": location,
				"error":  err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", entity.ErrCurveDataUnavailable, err)
		}
		defer f.Close()
		r = f
	}

	table, err := ParseCurveCSV(r, location)
	if err != nil {
		s.logger.Error("Failed to parse curve file", map[string]interface{}{
			"source": location,
			"error":  err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Curve file loaded", map[string]interface{}{
		"source":    location,
		"base_date": table.BaseDate.Format(entity.DateLayout),
		"rows":      len(table.Rows),
		"columns":   table.Columns,
	})

	return table, nil
}

// ParseCurveCSV parses a delimited curve file. The header must name the Date and
// Num Days columns and at least one "<Type> Rate" column.
func ParseCurveCSV(r io.Reader, source string) (*entity.CurveTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", entity.ErrMalformedCurveData, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading header: %v", entity.ErrMalformedCurveData, source, err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		columns[i] = name
		index[name] = i
	}

	for _, required := range []string{DateColumn, NumDaysColumn} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s: missing %q column", entity.ErrMalformedCurveData, source, required)
		}
	}

	var rateColumns []string
	for _, rt := range entity.RateTypes {
		if _, ok := index[rt.Column()]; ok {
			rateColumns = append(rateColumns, rt.Column())
		}
	}
	if len(rateColumns) == 0 {
		return nil, fmt.Errorf("%w: %s: no rate columns (expected Bid Rate, Ask Rate or Mid Rate)", entity.ErrMalformedCurveData, source)
	}

	table := &entity.CurveTable{
		Source:   source,
		Columns:  columns,
		LoadedAt: time.Now().UTC(),
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entity.ErrMalformedCurveData, source, err)
		}

		line, _ := reader.FieldPos(0)
		row, err := parseRow(record, index, rateColumns)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", entity.ErrMalformedCurveData, source, line, err)
		}

		if len(table.Rows) == 0 {
			baseDate, err := time.Parse(entity.DateLayout, row.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: base date %q is not YYYY-MM-DD", entity.ErrMalformedCurveData, source, line, row.Date)
			}
			table.BaseDate = baseDate
		}

		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", entity.ErrEmptyCurve, source)
	}

	return table, nil
}

func parseRow(record []string, index map[string]int, rateColumns []string) (entity.CurveRow, error) {
	numDays, err := strconv.Atoi(strings.TrimSpace(record[index[NumDaysColumn]]))
	if err != nil {
		return entity.CurveRow{}, fmt.Errorf("invalid %s value %q", NumDaysColumn, record[index[NumDaysColumn]])
	}
	if numDays < 0 {
		return entity.CurveRow{}, fmt.Errorf("negative %s value %d", NumDaysColumn, numDays)
	}

	rates := make(map[string]float64, len(rateColumns))
	for _, col := range rateColumns {
		raw := strings.TrimSpace(record[index[col]])
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entity.CurveRow{}, fmt.Errorf("invalid %s value %q", col, raw)
		}
		rates[col] = rate
	}

	return entity.CurveRow{
		Date:    strings.TrimSpace(record[index[DateColumn]]),
		NumDays: numDays,
		Rates:   rates,
	}, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
