// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/bond-curve-interpolation/internal/application/service"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/cache"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/db"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/handler"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bondCurve = `Date,Num Days,Bid Rate,Ask Rate,Mid Rate
2023-01-01,0,0.01,0.02,0.015
2023-06-01,151,0.015,0.025,0.02
2023-12-01,334,0.02,0.03,0.025
`

// setupTestServer wires the handlers to a Badger store in a temporary directory
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	badgerDB, err := db.OpenBadger(t.TempDir(), false)
	require.NoError(t, err, "failed to open database")

	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	store := db.NewBadgerCurveStore(badgerDB)
	curveService := service.NewCurveService(store, db.ParseCurveCSV, log).
		WithCache(cache.NewCurveTableCache(time.Minute))

	router := mux.NewRouter()
	handler.NewCurveHandler(curveService, log).RegisterRoutes(router)
	handler.NewRateHandler(curveService, log).RegisterRoutes(router)
	router.Use(middleware.RequestIDMiddleware, middleware.RecoveryMiddleware(log))

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		badgerDB.Close()
	})

	return server
}

func importCurve(t *testing.T, server *httptest.Server, body string) handler.ImportCurveResponse {
	t.Helper()

	resp, err := http.Post(server.URL+"/curves?name=bondcurve.csv", "text/csv", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var imported handler.ImportCurveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	return imported
}

func getRate(t *testing.T, server *httptest.Server, id, date, rateType string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/curves/%s/rate?date=%s&type=%s", server.URL, id, date, rateType))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp, raw
}

func TestCurveImportAndRateLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := setupTestServer(t)
	imported := importCurve(t, server, bondCurve)

	assert.NotEmpty(t, imported.ID)
	assert.Equal(t, "2023-01-01", imported.BaseDate)
	assert.Equal(t, 3, imported.Rows)
	assert.Equal(t, []string{"Bid", "Ask", "Mid"}, imported.RateTypes)

	testCases := []struct {
		name     string
		date     string
		rateType string
		rate     float64
		outcome  string
		inRange  bool
	}{
		{"Inside curve", "2023-04-01", "Bid", 0.01298, "interpolated", true},
		{"Exact tenor", "2023-06-01", "Mid", 0.02, "interpolated", true},
		{"Past last point", "2024-01-01", "bid", 0.02, "clamped_to_last_point", true},
		{"Mixed case rate type", "2023-06-01", "aSk", 0.025, "interpolated", true},
		{"Past window", "2030-01-01", "Ask", 0.03, "flat_extrapolated", true},
		{"Before base date", "2022-01-01", "Bid", 0, "before_base_date", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := getRate(t, server, imported.ID, tc.date, tc.rateType)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

			var rate handler.RateResponse
			require.NoError(t, json.Unmarshal(raw, &rate))

			assert.Equal(t, imported.ID, rate.CurveID)
			assert.Equal(t, tc.date, rate.Date)
			assert.Equal(t, "2023-01-01", rate.BaseDate)
			assert.InDelta(t, tc.rate, rate.Rate, 0.0001)
			assert.Equal(t, tc.outcome, rate.Outcome)
			assert.Equal(t, tc.inRange, rate.InRange)
			if !tc.inRange {
				assert.Equal(t, "This date is before the initial: 2023-01-01", rate.Notice)
			}
		})
	}
}

func TestRateLookupErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := setupTestServer(t)
	imported := importCurve(t, server, bondCurve)

	testCases := []struct {
		name     string
		id       string
		date     string
		rateType string
		status   int
		message  string
	}{
		{"Unknown rate type", imported.ID, "2023-04-01", "Spread", http.StatusBadRequest, "Unknown rate type"},
		{"Missing rate type", imported.ID, "2023-04-01", "", http.StatusBadRequest, "Invalid query parameters"},
		{"Missing date", imported.ID, "", "Bid", http.StatusBadRequest, "Invalid query parameters"},
		{"Malformed date", imported.ID, "04/01/2023", "Bid", http.StatusBadRequest, "Invalid query parameters"},
		{"Unknown curve", "does-not-exist", "2023-04-01", "Bid", http.StatusNotFound, "Curve not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := getRate(t, server, tc.id, tc.date, tc.rateType)
			assert.Equal(t, tc.status, resp.StatusCode)

			var errResp handler.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &errResp))
			assert.Equal(t, tc.message, errResp.Error)
			assert.Equal(t, tc.status, errResp.Status)
			assert.NotEmpty(t, errResp.RequestID)
		})
	}
}

func TestCurveImportRejectsMalformedFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := setupTestServer(t)

	testCases := []struct {
		name string
		body string
	}{
		{"Missing rate columns", "Date,Num Days\n2023-01-01,0\n"},
		{"Non numeric rate", "Date,Num Days,Bid Rate\n2023-01-01,0,abc\n"},
		{"Descending tenors", "Date,Num Days,Bid Rate\n2023-01-01,0,0.01\n2023-06-01,151,0.02\n2023-03-01,59,0.03\n"},
		{"Header only", "Date,Num Days,Bid Rate\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/curves", "text/csv", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp handler.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, "Malformed curve", errResp.Error)
		})
	}
}

func TestCurveLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server := setupTestServer(t)
	imported := importCurve(t, server, bondCurve)

	// Listed
	resp, err := http.Get(server.URL + "/curves")
	require.NoError(t, err)
	var list handler.CurveListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, []string{imported.ID}, list.IDs)

	// Retrieved
	resp, err = http.Get(server.URL + "/curves/" + imported.ID)
	require.NoError(t, err)
	var curve handler.CurveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&curve))
	resp.Body.Close()
	assert.Equal(t, "bondcurve.csv", curve.Source)
	require.Len(t, curve.Points, 3)
	assert.Equal(t, 334, curve.Points[2].NumDays)
	assert.Equal(t, 0.03, curve.Points[2].Rates["Ask Rate"])

	// Deleted
	req, err := http.NewRequest(http.MethodDelete, server.URL+"/curves/"+imported.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(server.URL + "/curves/" + imported.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
