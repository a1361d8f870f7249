package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/internal/service/sources"
)

var fixedNow = time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

func TestAggregateSortsAndMerges(t *testing.T) {
	gens := []domrepo.Generator{
		&fakeGenerator{source: "b", events: []models.EconomicEvent{
			ev("b", "2025-03-14", "12:30", "Retail Sales", "USD"),
			ev("b", "2025-03-12", "12:30", "CPI", "USD"),
		}},
		&fakeGenerator{source: "a", events: []models.EconomicEvent{
			ev("a", "2025-03-12", "12:30", "Employment Change", "CAD"),
			ev("a", "2025-03-12", "08:00", "Claimant Count", "GBP"),
		}},
	}
	agg := NewAggregator(gens, newFakeMetrics(), testLogger(t), WithClock(func() time.Time { return fixedNow }))

	snap, reports := agg.Aggregate(context.Background(), fixedNow)

	var titles []string
	for _, e := range snap.Events {
		titles = append(titles, e.Title)
	}
	// Ties on (date, time) keep generator order.
	assert.Equal(t, []string{"Claimant Count", "CPI", "Employment Change", "Retail Sales"}, titles)
	assert.Equal(t, models.DateRange{Start: "2025-03-12", End: "2025-03-14"}, snap.DateRange)
	assert.Equal(t, fixedNow, snap.LastUpdated)
	require.Len(t, reports, 2)
	assert.Equal(t, "b", reports[0].Source)
	assert.Equal(t, 2, reports[0].Events)
}

func TestAggregateKeepsCrossSourceDuplicates(t *testing.T) {
	dup := ev("x", "2025-03-07", "13:30", "Employment Change", "USD")
	other := dup
	other.Source = "y"
	gens := []domrepo.Generator{
		&fakeGenerator{source: "x", events: []models.EconomicEvent{dup}},
		&fakeGenerator{source: "y", events: []models.EconomicEvent{other}},
	}
	snap, _ := NewAggregator(gens, newFakeMetrics(), testLogger(t)).Aggregate(context.Background(), fixedNow)
	assert.Len(t, snap.Events, 2)
	assert.Equal(t, models.IdentityKey(snap.Events[0]), models.IdentityKey(snap.Events[1]))
}

func TestAggregateIsolatesFailures(t *testing.T) {
	m := newFakeMetrics()
	gens := []domrepo.Generator{
		&fakeGenerator{source: "ok1", events: []models.EconomicEvent{ev("ok1", "2025-03-11", "10:00", "A", "USD")}},
		&fakeGenerator{source: "panics", panics: true},
		&fakeGenerator{source: "errors", err: errUpstream, events: []models.EconomicEvent{ev("errors", "2025-03-11", "10:00", "Ghost", "USD")}},
		&fakeGenerator{source: "ok2", events: []models.EconomicEvent{ev("ok2", "2025-03-12", "10:00", "B", "EUR")}, warnings: []string{"table exhausted"}},
	}

	snap, reports := NewAggregator(gens, m, testLogger(t), WithConcurrency(2)).Aggregate(context.Background(), fixedNow)

	require.Len(t, snap.Events, 2)
	assert.Equal(t, "A", snap.Events[0].Title)
	assert.Equal(t, "B", snap.Events[1].Title)

	require.Len(t, reports, 4)
	assert.Contains(t, reports[1].Error, "panic")
	assert.Equal(t, errUpstream.Error(), reports[2].Error)
	assert.Zero(t, reports[2].Events)
	assert.Equal(t, []string{"table exhausted"}, reports[3].Warnings)

	assert.Equal(t, 1, m.sourceErrors["panics"])
	assert.Equal(t, 1, m.sourceErrors["errors"])
	assert.Equal(t, 1, m.warnings["ok2"])
}

func TestAggregateEmptyDefaultsToToday(t *testing.T) {
	gens := []domrepo.Generator{&fakeGenerator{source: "none"}}
	snap, _ := NewAggregator(gens, newFakeMetrics(), testLogger(t), WithClock(func() time.Time { return fixedNow })).
		Aggregate(context.Background(), fixedNow)

	assert.NotNil(t, snap.Events)
	assert.Empty(t, snap.Events)
	assert.Equal(t, models.DateRange{Start: "2025-03-10", End: "2025-03-10"}, snap.DateRange)
}

func TestAggregateRunsConcurrently(t *testing.T) {
	var gens []domrepo.Generator
	for _, s := range []string{"a", "b", "c", "d"} {
		gens = append(gens, &fakeGenerator{source: s, delay: 100 * time.Millisecond})
	}
	start := time.Now()
	NewAggregator(gens, newFakeMetrics(), testLogger(t), WithConcurrency(4)).Aggregate(context.Background(), fixedNow)
	assert.Less(t, time.Since(start), 350*time.Millisecond)
}

func TestAggregateScheduledSourcesSorted(t *testing.T) {
	ref := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	snap, reports := NewAggregator(sources.Scheduled(), newFakeMetrics(), testLogger(t)).Aggregate(context.Background(), ref)

	require.NotEmpty(t, snap.Events)
	for i := 1; i < len(snap.Events); i++ {
		prev, cur := snap.Events[i-1], snap.Events[i]
		ordered := prev.Date < cur.Date || (prev.Date == cur.Date && prev.Time <= cur.Time)
		assert.Truef(t, ordered, "%s %s before %s %s", prev.Date, prev.Time, cur.Date, cur.Time)
	}
	assert.Equal(t, snap.Events[0].Date, snap.DateRange.Start)
	assert.Equal(t, snap.Events[len(snap.Events)-1].Date, snap.DateRange.End)

	seen := make(map[string]bool)
	for _, r := range reports {
		assert.Empty(t, r.Error, r.Source)
		seen[r.Source] = true
	}
	assert.Len(t, seen, 11)
}
