package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

type fakeMetrics struct {
	mu           sync.Mutex
	sourceErrors map[string]int
	warnings     map[string]int
	runs         map[string]int
	cacheHits    int
	cacheMisses  int
	valueUpdates int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		sourceErrors: make(map[string]int),
		warnings:     make(map[string]int),
		runs:         make(map[string]int),
	}
}

func (m *fakeMetrics) RecordSourceEvents(string, int) {}
func (m *fakeMetrics) RecordSourceDuration(string, float64) {}
func (m *fakeMetrics) RecordSnapshotEvents(int) {}
func (m *fakeMetrics) RecordSourceError(source string) { m.inc(m.sourceErrors, source) }
func (m *fakeMetrics) RecordSourceWarning(source string) { m.inc(m.warnings, source) }
func (m *fakeMetrics) RecordRun(status string, _ float64) { m.inc(m.runs, status) }
func (m *fakeMetrics) RecordValueUpdates(n int) {
	m.mu.Lock()
	m.valueUpdates += n
	m.mu.Unlock()
}
func (m *fakeMetrics) RecordQuery(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

func (m *fakeMetrics) inc(dst map[string]int, key string) {
	m.mu.Lock()
	dst[key]++
	m.mu.Unlock()
}

// fakeGenerator returns fixed events, an error, or panics.
type fakeGenerator struct {
	source   string
	events   []models.EconomicEvent
	warnings []string
	err      error
	panics   bool
	delay    time.Duration
}

func (g *fakeGenerator) Source() string { return g.source }

func (g *fakeGenerator) Generate(ctx context.Context, _ time.Time) models.SourceResult {
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	if g.panics {
		panic("boom")
	}
	return models.SourceResult{Source: g.source, Events: g.events, Warnings: g.warnings, Err: g.err}
}

type memStore struct {
	mu      sync.Mutex
	snap    *models.CalendarSnapshot
	reads   int
	err     error
	readErr error
}

func (s *memStore) Write(_ context.Context, snap *models.CalendarSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.snap = snap
	return nil
}

func (s *memStore) Read(context.Context) (*models.CalendarSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.snap == nil {
		return nil, domrepo.ErrSnapshotNotFound
	}
	return s.snap, nil
}

func (s *memStore) Close() error { return nil }

type fakeLock struct {
	mu       sync.Mutex
	held     bool
	unlocked int
}

func (l *fakeLock) TryLock(context.Context, string, time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Unlock(context.Context, string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	l.unlocked++
	return nil
}

type fakeFetcher struct {
	series map[string][]models.Observation
	calls  map[string]int
}

func (f *fakeFetcher) Latest(_ context.Context, id, _ string, n int) ([]models.Observation, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	obs, ok := f.series[id]
	if !ok {
		return nil, domrepo.ErrSeriesUnavailable
	}
	if len(obs) > n {
		obs = obs[:n]
	}
	return obs, nil
}

type fakeArchive struct {
	runID  string
	events int
	err    error
}

func (a *fakeArchive) Init(context.Context) error { return nil }
func (a *fakeArchive) Health(context.Context) error { return nil }
func (a *fakeArchive) Close() error { return nil }
func (a *fakeArchive) StoreBatch(_ context.Context, runID string, events []models.EconomicEvent) error {
	a.runID, a.events = runID, len(events)
	return a.err
}

type fakeNotifier struct {
	msgs []models.SnapshotPublished
}

func (n *fakeNotifier) NotifySnapshot(_ context.Context, msg models.SnapshotPublished) error {
	n.msgs = append(n.msgs, msg)
	return nil
}

func ev(source, date, clock, title, currency string) models.EconomicEvent {
	return models.EconomicEvent{
		Date:     date,
		Time:     clock,
		Title:    title,
		Currency: currency,
		Source:   source,
		Impact:   models.ImpactHigh,
		Category: models.CategoryEmployment,
		Country:  "US",
	}
}

var errUpstream = errors.New("upstream down")
