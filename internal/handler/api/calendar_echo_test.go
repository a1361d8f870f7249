package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconPull/internal/domain/models"
	"EconPull/internal/repository"
	"EconPull/internal/service/ratelimit"
	"EconPull/internal/usecase"
	"EconPull/pkg/cache"
	"EconPull/pkg/logger"
	"EconPull/pkg/metrics"
)

type fakeDispatcher struct {
	reqs []models.RefreshRequest
	err  error
}

func (d *fakeDispatcher) DispatchRefresh(_ context.Context, req models.RefreshRequest) error {
	if d.err != nil {
		return d.err
	}
	d.reqs = append(d.reqs, req)
	return nil
}

type brokenReader struct{}

func (brokenReader) Query(context.Context, models.CalendarFilters) (*models.QueryResult, error) {
	return nil, errors.New("disk gone")
}

func (brokenReader) Status(context.Context) (*models.SnapshotStatus, error) {
	return nil, errors.New("disk gone")
}

func seededQuery(t *testing.T, snap *models.CalendarSnapshot) *usecase.CalendarQuery {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	store := repository.NewCacheSnapshotStore(c, "")
	if snap != nil {
		require.NoError(t, store.Write(context.Background(), snap))
	}
	return usecase.NewCalendarQuery(store, c, metrics.NewWithRegisterer(prometheus.NewRegistry()), logger.Nop())
}

func snapshot() *models.CalendarSnapshot {
	return &models.CalendarSnapshot{
		ID:          "run-1",
		LastUpdated: time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC),
		Events: []models.EconomicEvent{
			{Date: "2025-03-06", Time: "13:15", Title: "ECB Interest Rate Decision", Currency: "EUR",
				Impact: models.ImpactHigh, Category: models.CategoryCentralBank, Country: "EU", Source: "ecb"},
			{Date: "2025-03-07", Time: "13:30", Title: "Non-Farm Payrolls", Currency: "USD",
				Impact: models.ImpactHigh, Category: models.CategoryEmployment, Country: "US", Source: "bls"},
		},
		DateRange: models.DateRange{Start: "2025-03-06", End: "2025-03-07"},
	}
}

func newServer(h *CalendarEchoHandler) *echo.Echo {
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCalendarFilters(t *testing.T) {
	e := newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, snapshot()), nil, nil))

	rec := do(e, http.MethodGet, "/api/calendar?currency=usd", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Non-Farm Payrolls", res.Events[0].Title)
	assert.True(t, res.IsRealData)
	assert.Equal(t, 1, res.TotalEvents)

	rec = do(e, http.MethodGet, "/api/calendar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Events, 2)
	assert.Contains(t, rec.Body.String(), `"actual":null`)
}

func TestCalendarWithoutSnapshot(t *testing.T) {
	e := newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, nil), nil, nil))

	rec := do(e, http.MethodGet, "/api/calendar?impact=high", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.IsRealData)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Events)
	today := time.Now().UTC().Format(models.DateLayout)
	assert.Equal(t, today, res.DateRange.Start)
}

func TestCalendarIgnoresMalformedFilters(t *testing.T) {
	e := newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, snapshot()), nil, nil))
	total := len(snapshot().Events)

	tests := []struct {
		query string
		want  int
	}{
		// Bounds compare as strings, so these sort before or after every ISO date.
		{"start=03/01/2025", total},
		{"end=March", total},
		{"start=2025-03-01T00:00&end=2099", total},
		{"currency=EURUSDXYZ", 0},
		{"impact=" + strings.Repeat("x", 200), 0},
		{"category=nonsense", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/api/calendar?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var res models.QueryResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Len(t, res.Events, tt.want)
			assert.Equal(t, tt.want, res.TotalEvents)
		})
	}
}

func TestCalendarStoreFailure(t *testing.T) {
	e := newServer(NewCalendarEchoHandler(logger.Nop(), brokenReader{}, nil, nil))

	rec := do(e, http.MethodGet, "/api/calendar", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk gone")

	rec = do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatus(t *testing.T) {
	e := newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, snapshot()), nil, nil))

	rec := do(e, http.MethodGet, "/api/calendar/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Status int                   `json:"status"`
		Data   models.SnapshotStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "run-1", env.Data.ID)
	assert.Equal(t, map[string]int{"ecb": 1, "bls": 1}, env.Data.SourceCounts)
}

func TestRefresh(t *testing.T) {
	d := &fakeDispatcher{}
	e := newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, snapshot()), d, ratelimit.New()))

	rec := do(e, http.MethodPost, "/api/calendar/refresh", `{"reason":"manual"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, d.reqs, 1)
	assert.Equal(t, "manual", d.reqs[0].Reason)
	assert.NotEmpty(t, d.reqs[0].RequestID)
	assert.Contains(t, rec.Body.String(), d.reqs[0].RequestID)

	for i := 0; i < refreshBurst-1; i++ {
		assert.Equal(t, http.StatusAccepted, do(e, http.MethodPost, "/api/calendar/refresh", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodPost, "/api/calendar/refresh", "").Code)
	assert.Len(t, d.reqs, refreshBurst)
}

func TestRefreshUnavailable(t *testing.T) {
	e := newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, nil), nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodPost, "/api/calendar/refresh", "").Code)

	e = newServer(NewCalendarEchoHandler(logger.Nop(), seededQuery(t, nil), &fakeDispatcher{err: errors.New("no broker")}, nil))
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodPost, "/api/calendar/refresh", "").Code)
}
