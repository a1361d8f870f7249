package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconPull/internal/domain/models"
	"EconPull/pkg/cache"
)

func sampleSnapshot() *models.CalendarSnapshot {
	rba := models.EconomicEvent{
		Date: "2025-02-18", Time: "03:30", Title: "RBA Interest Rate Decision",
		Currency: "AUD", Impact: models.ImpactHigh, Category: models.CategoryCentralBank,
		Country: "AU", Source: "rba",
	}
	nfp := models.EconomicEvent{
		Date: "2025-03-07", Time: "13:30", Title: "Non-Farm Payrolls",
		Currency: "USD", Impact: models.ImpactHigh, Category: models.CategoryEmployment,
		Country: "US", Source: "bls",
	}
	nhs := models.EconomicEvent{
		Date: "2025-03-25", Time: "14:00", Title: "New Home Sales",
		Currency: "USD", Impact: models.ImpactMedium, Category: models.CategoryHousing,
		Country: "US", Source: "census",
	}
	return &models.CalendarSnapshot{
		ID:          "run-1",
		LastUpdated: time.Date(2025, 2, 15, 6, 0, 0, 0, time.UTC),
		Events:      []models.EconomicEvent{rba, nfp, nhs},
		DateRange:   models.DateRange{Start: "2025-02-18", End: "2025-03-25"},
	}
}

func newQuery(t *testing.T, store *memStore, m *fakeMetrics) *CalendarQuery {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	return NewCalendarQuery(store, c, m, testLogger(t),
		WithQueryClock(func() time.Time { return time.Date(2025, 2, 16, 6, 0, 0, 0, time.UTC) }))
}

func TestFilterEvents(t *testing.T) {
	events := sampleSnapshot().Events
	titles := func(es []models.EconomicEvent) []string {
		out := []string{}
		for _, e := range es {
			out = append(out, e.Title)
		}
		return out
	}

	tests := []struct {
		name    string
		filters models.CalendarFilters
		want    []string
	}{
		{"all is identity", models.CalendarFilters{Currency: "all", Impact: "all", Category: "all"}, titles(events)},
		{"empty is identity", models.CalendarFilters{}, titles(events)},
		{"currency AUD", models.CalendarFilters{Currency: "AUD"}, []string{"RBA Interest Rate Decision"}},
		{"currency lower case", models.CalendarFilters{Currency: "aud"}, []string{"RBA Interest Rate Decision"}},
		{"currency USD excludes RBA", models.CalendarFilters{Currency: "USD"}, []string{"Non-Farm Payrolls", "New Home Sales"}},
		{"impact", models.CalendarFilters{Impact: "medium"}, []string{"New Home Sales"}},
		{"category", models.CalendarFilters{Category: "employment"}, []string{"Non-Farm Payrolls"}},
		{"inclusive range", models.CalendarFilters{StartDate: "2025-03-07", EndDate: "2025-03-25"}, []string{"Non-Farm Payrolls", "New Home Sales"}},
		{"single day", models.CalendarFilters{StartDate: "2025-02-18", EndDate: "2025-02-18"}, []string{"RBA Interest Rate Decision"}},
		{"composed", models.CalendarFilters{Currency: "USD", Impact: "high", EndDate: "2025-03-31"}, []string{"Non-Farm Payrolls"}},
		{"unknown value matches nothing", models.CalendarFilters{Impact: "extreme"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEvents(events, tt.filters)
			assert.Equal(t, tt.want, titles(got))
		})
	}

	assert.Len(t, events, 3, "input must not be mutated")
}

func TestQueryIdentityReturnsSnapshotEvents(t *testing.T) {
	snap := sampleSnapshot()
	q := newQuery(t, &memStore{snap: snap}, newFakeMetrics())

	res, err := q.Query(context.Background(), models.CalendarFilters{Currency: "all", Impact: "all", Category: "all"})
	require.NoError(t, err)
	assert.Equal(t, snap.Events, res.Events)
	assert.True(t, res.IsRealData)
	assert.Equal(t, 3, res.TotalEvents)
	assert.Equal(t, snap.DateRange, res.DateRange)
	assert.Equal(t, snap.LastUpdated, res.LastUpdated)
}

func TestQueryMissingSnapshot(t *testing.T) {
	q := newQuery(t, &memStore{}, newFakeMetrics())

	res, err := q.Query(context.Background(), models.CalendarFilters{Currency: "USD"})
	require.NoError(t, err)
	assert.False(t, res.IsRealData)
	assert.Empty(t, res.Events)
	assert.NotNil(t, res.Events)
	assert.Equal(t, models.DateRange{Start: "2025-02-16", End: "2025-02-16"}, res.DateRange)
}

func TestQueryEmptySnapshotIsPlaceholder(t *testing.T) {
	store := &memStore{snap: &models.CalendarSnapshot{
		ID:          "run-empty",
		LastUpdated: time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC),
		Events:      []models.EconomicEvent{},
		DateRange:   models.DateRange{Start: "2025-02-01", End: "2025-02-01"},
	}}
	q := newQuery(t, store, newFakeMetrics())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := q.Query(ctx, models.CalendarFilters{})
		require.NoError(t, err)
		assert.False(t, res.IsRealData)
		assert.NotNil(t, res.Events)
		assert.Empty(t, res.Events)
		assert.Equal(t, models.DateRange{Start: "2025-02-16", End: "2025-02-16"}, res.DateRange)
	}

	st, err := q.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-empty", st.ID)
	assert.False(t, st.IsRealData)
	assert.Zero(t, st.TotalEvents)
}

func TestQueryStoreError(t *testing.T) {
	q := newQuery(t, &memStore{readErr: errors.New("disk gone")}, newFakeMetrics())
	_, err := q.Query(context.Background(), models.CalendarFilters{})
	assert.Error(t, err)
}

func TestQueryCachesSnapshotAndResults(t *testing.T) {
	store := &memStore{snap: sampleSnapshot()}
	m := newFakeMetrics()
	q := newQuery(t, store, m)
	ctx := context.Background()

	_, err := q.Query(ctx, models.CalendarFilters{Currency: "USD"})
	require.NoError(t, err)
	res, err := q.Query(ctx, models.CalendarFilters{Currency: "usd"})
	require.NoError(t, err)
	assert.Len(t, res.Events, 2)
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 1, m.cacheHits)

	newer := sampleSnapshot()
	newer.LastUpdated = newer.LastUpdated.Add(time.Hour)
	newer.Events = newer.Events[:1]
	require.NoError(t, store.Write(ctx, newer))
	q.Invalidate(ctx)

	res, err = q.Query(ctx, models.CalendarFilters{Currency: "USD"})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Equal(t, 2, store.reads)
}

func TestStatus(t *testing.T) {
	q := newQuery(t, &memStore{snap: sampleSnapshot()}, newFakeMetrics())
	st, err := q.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", st.ID)
	assert.Equal(t, int64(24*3600), st.AgeSeconds)
	assert.Equal(t, 3, st.TotalEvents)
	assert.True(t, st.IsRealData)
	assert.Equal(t, map[string]int{"rba": 1, "bls": 1, "census": 1}, st.SourceCounts)
}
