package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/domain/entity"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/cache"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stubParser(table *entity.CurveTable, err error) CurveParser {
	return func(r io.Reader, source string) (*entity.CurveTable, error) {
		if err != nil {
			return nil, err
		}
		table.Source = source
		return table, nil
	}
}

func TestImportCurve(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Valid curve", func(t *testing.T) {
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, stubParser(bondCurveTable(), nil), log)

		store.On("Store", ctx, mock.MatchedBy(func(table *entity.CurveTable) bool {
			_, err := uuid.Parse(table.ID)
			return err == nil && table.Source == "upload.csv"
		})).Return("stored", nil).Once()

		table, err := service.ImportCurve(ctx, strings.NewReader(""), "upload.csv")

		require.NoError(t, err)
		assert.NotEmpty(t, table.ID)
		assert.False(t, table.LoadedAt.IsZero())
		store.AssertExpectations(t)
	})

	t.Run("Parse error", func(t *testing.T) {
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, stubParser(nil, entity.ErrMalformedCurveData), log)

		table, err := service.ImportCurve(ctx, strings.NewReader(""), "bad.csv")

		assert.Nil(t, table)
		assert.ErrorIs(t, err, entity.ErrMalformedCurveData)
		store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("Curve violates ordering", func(t *testing.T) {
		table := bondCurveTable()
		table.Rows[0].NumDays = 10
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, stubParser(table, nil), log)

		_, err := service.ImportCurve(ctx, strings.NewReader(""), "shifted.csv")

		assert.ErrorIs(t, err, entity.ErrMalformedCurve)
		store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("Store error", func(t *testing.T) {
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, stubParser(bondCurveTable(), nil), log)
		store.On("Store", ctx, mock.Anything).Return("", errors.New("disk full")).Once()

		_, err := service.ImportCurve(ctx, strings.NewReader(""), "upload.csv")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store curve")
		store.AssertExpectations(t)
	})
}

func TestCurveServiceGetRate(t *testing.T) {
	store := new(mocks.MockCurveStore)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	service := NewCurveService(store, nil, log)
	ctx := context.Background()

	t.Run("Stored curve", func(t *testing.T) {
		store.On("FindByID", ctx, "curve-1").Return(bondCurveTable(), nil).Once()

		quote, err := service.GetRate(ctx, "curve-1", query(t, "2023-04-01", "Bid"))

		require.NoError(t, err)
		assert.InDelta(t, 0.01298, quote.Rate, 0.0001)
		store.AssertExpectations(t)
	})

	t.Run("Unknown curve", func(t *testing.T) {
		store.On("FindByID", ctx, "nope").Return(nil, entity.ErrCurveNotFound).Once()

		quote, err := service.GetRate(ctx, "nope", query(t, "2023-04-01", "Bid"))

		assert.Nil(t, quote)
		assert.ErrorIs(t, err, entity.ErrCurveNotFound)
		assert.Contains(t, err.Error(), "failed to retrieve curve")
		store.AssertExpectations(t)
	})
}

func TestCurveServiceListAndDelete(t *testing.T) {
	store := new(mocks.MockCurveStore)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	service := NewCurveService(store, nil, log)
	ctx := context.Background()

	store.On("List", ctx).Return([]string{"a", "b"}, nil).Once()
	ids, err := service.ListCurves(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	store.On("Delete", ctx, "a").Return(nil).Once()
	assert.NoError(t, service.DeleteCurve(ctx, "a"))

	store.On("Delete", ctx, "zz").Return(entity.ErrCurveNotFound).Once()
	assert.ErrorIs(t, service.DeleteCurve(ctx, "zz"), entity.ErrCurveNotFound)

	store.AssertExpectations(t)
}

func TestCurveServiceCache(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Repeated lookups read the store once", func(t *testing.T) {
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, nil, log).WithCache(cache.NewCurveTableCache(time.Minute))
		store.On("FindByID", ctx, "curve-1").Return(bondCurveTable(), nil).Once()

		for i := 0; i < 3; i++ {
			quote, err := service.GetRate(ctx, "curve-1", query(t, "2023-06-01", "Mid"))
			require.NoError(t, err)
			assert.Equal(t, 0.02, quote.Rate)
		}

		table, err := service.GetCurve(ctx, "curve-1")
		require.NoError(t, err)
		assert.Equal(t, "bondcurve.csv", table.Source)
		store.AssertExpectations(t)
	})

	t.Run("Import populates the cache", func(t *testing.T) {
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, stubParser(bondCurveTable(), nil), log).
			WithCache(cache.NewCurveTableCache(time.Minute))
		store.On("Store", ctx, mock.Anything).Return("stored", nil).Once()

		imported, err := service.ImportCurve(ctx, strings.NewReader(""), "upload.csv")
		require.NoError(t, err)

		_, err = service.GetRate(ctx, imported.ID, query(t, "2023-04-01", "Bid"))
		require.NoError(t, err)
		store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Delete invalidates the cached curve", func(t *testing.T) {
		store := new(mocks.MockCurveStore)
		service := NewCurveService(store, nil, log).WithCache(cache.NewCurveTableCache(time.Minute))
		store.On("FindByID", ctx, "curve-1").Return(bondCurveTable(), nil).Once()
		store.On("Delete", ctx, "curve-1").Return(nil).Once()

		_, err := service.GetRate(ctx, "curve-1", query(t, "2023-04-01", "Bid"))
		require.NoError(t, err)

		require.NoError(t, service.DeleteCurve(ctx, "curve-1"))

		store.On("FindByID", ctx, "curve-1").Return(nil, entity.ErrCurveNotFound).Once()
		quote, err := service.GetRate(ctx, "curve-1", query(t, "2023-04-01", "Bid"))
		assert.Nil(t, quote)
		assert.ErrorIs(t, err, entity.ErrCurveNotFound)
		store.AssertExpectations(t)
	})
}
