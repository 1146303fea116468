// Package repository internal/domain/repository/curve_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
)

// CurveSource defines the interface for loading curve tables
type CurveSource interface {
	// Load reads and parses the curve table found at location (a file path or URL)
	Load(ctx context.Context, location string) (*entity.CurveTable, error)
}

// CurveStore defines the interface for persisting imported curve tables
type CurveStore interface {
	// Store saves a curve table and returns its ID
	Store(ctx context.Context, table *entity.CurveTable) (string, error)

	// FindByID retrieves a curve table by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.CurveTable, error)

	// List returns the IDs of all stored curve tables
	List(ctx context.Context) ([]string, error)

	// Delete removes a curve table
	Delete(ctx context.Context, id string) error
}
