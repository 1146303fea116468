// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockCurveSource mocks the CurveSource interface
type MockCurveSource struct {
	mock.Mock
}

func (m *MockCurveSource) Load(ctx context.Context, location string) (*entity.CurveTable, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurveTable), args.Error(1)
}

// MockCurveStore mocks the CurveStore interface
type MockCurveStore struct {
	mock.Mock
}

func (m *MockCurveStore) Store(ctx context.Context, table *entity.CurveTable) (string, error) {
	args := m.Called(ctx, table)
	return args.String(0), args.Error(1)
}

func (m *MockCurveStore) FindByID(ctx context.Context, id string) (*entity.CurveTable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CurveTable), args.Error(1)
}

func (m *MockCurveStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCurveStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRemoteCurveFetcher mocks the remote curve file fetcher
type MockRemoteCurveFetcher struct {
	mock.Mock
}

func (m *MockRemoteCurveFetcher) FetchCurveFile(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
