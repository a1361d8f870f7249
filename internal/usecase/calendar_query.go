package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/pkg/cache"
	"EconPull/pkg/logger"
)

const (
	snapshotCacheKey = "calendar:snapshot"
	queryCachePrefix = "calendar:query"
	defaultCacheTTL  = 30 * time.Second
)

// CalendarQuery serves filtered views of the latest persisted snapshot.
type CalendarQuery struct {
	store   domrepo.SnapshotStore
	cache   cache.Service
	metrics domrepo.Metrics
	logger  *logger.Logger
	ttl     time.Duration
	now     func() time.Time
}

type CalendarQueryOption func(*CalendarQuery)

func WithCacheTTL(ttl time.Duration) CalendarQueryOption {
	return func(q *CalendarQuery) {
		if ttl > 0 {
			q.ttl = ttl
		}
	}
}

func WithQueryClock(now func() time.Time) CalendarQueryOption {
	return func(q *CalendarQuery) {
		q.now = now
	}
}

func NewCalendarQuery(store domrepo.SnapshotStore, c cache.Service, metrics domrepo.Metrics, log *logger.Logger, opts ...CalendarQueryOption) *CalendarQuery {
	q := &CalendarQuery{
		store:   store,
		cache:   c,
		metrics: metrics,
		logger:  log,
		ttl:     defaultCacheTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Query returns the events of the current snapshot matching filters.
// A missing or event-less snapshot yields an empty result dated today and
// flagged as not real data.
func (q *CalendarQuery) Query(ctx context.Context, filters models.CalendarFilters) (*models.QueryResult, error) {
	snap, real, err := q.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !real {
		snap = models.EmptySnapshot(q.now())
	}

	key := cache.GenerateKeyWithParams(queryCachePrefix, snap.LastUpdated.UnixNano(), filterKey(filters))
	if real {
		var cached *models.QueryResult
		if err := q.cache.Get(ctx, key, &cached); err == nil && cached != nil {
			q.metrics.RecordQuery(true)
			return cached, nil
		}
	}
	q.metrics.RecordQuery(false)

	events := FilterEvents(snap.Events, filters)
	res := &models.QueryResult{
		Events:      events,
		LastUpdated: snap.LastUpdated,
		IsRealData:  real,
		TotalEvents: len(events),
		DateRange:   snap.DateRange,
	}
	if real {
		if err := q.cache.Set(ctx, key, res, q.ttl); err != nil {
			q.logger.Warn("cache query result", logger.Error(err))
		}
	}
	return res, nil
}

// Status summarizes the snapshot currently being served.
func (q *CalendarQuery) Status(ctx context.Context) (*models.SnapshotStatus, error) {
	snap, real, err := q.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = models.EmptySnapshot(q.now())
	}
	return &models.SnapshotStatus{
		ID:           snap.ID,
		LastUpdated:  snap.LastUpdated,
		AgeSeconds:   int64(q.now().Sub(snap.LastUpdated).Seconds()),
		TotalEvents:  len(snap.Events),
		IsRealData:   real,
		DateRange:    snap.DateRange,
		SourceCounts: snap.SourceCounts(),
	}, nil
}

// Invalidate drops the cached snapshot so the next query reloads it.
func (q *CalendarQuery) Invalidate(ctx context.Context) {
	if err := q.cache.Delete(ctx, snapshotCacheKey); err != nil {
		q.logger.Warn("invalidate snapshot cache", logger.Error(err))
	}
}

// snapshot returns the stored snapshot, nil when none exists. real is false
// for a missing snapshot and for one without events; callers then serve an
// empty placeholder dated today.
func (q *CalendarQuery) snapshot(ctx context.Context) (*models.CalendarSnapshot, bool, error) {
	var snap *models.CalendarSnapshot
	if err := q.cache.Get(ctx, snapshotCacheKey, &snap); err == nil && snap != nil {
		return snap, len(snap.Events) > 0, nil
	}

	snap, err := q.store.Read(ctx)
	if errors.Is(err, domrepo.ErrSnapshotNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}

	if err := q.cache.Set(ctx, snapshotCacheKey, snap, q.ttl); err != nil {
		q.logger.Warn("cache snapshot", logger.Error(err))
	}
	return snap, len(snap.Events) > 0, nil
}

// FilterEvents applies AND-composed filters without mutating the input.
// Empty values and "all" disable a filter.
func FilterEvents(events []models.EconomicEvent, f models.CalendarFilters) []models.EconomicEvent {
	currency := strings.ToUpper(active(f.Currency))
	impact := active(f.Impact)
	category := active(f.Category)
	start := active(f.StartDate)
	end := active(f.EndDate)

	out := make([]models.EconomicEvent, 0, len(events))
	for _, e := range events {
		if currency != "" && strings.ToUpper(e.Currency) != currency {
			continue
		}
		if impact != "" && string(e.Impact) != impact {
			continue
		}
		if category != "" && string(e.Category) != category {
			continue
		}
		if start != "" && e.Date < start {
			continue
		}
		if end != "" && e.Date > end {
			continue
		}
		out = append(out, e)
	}
	return out
}

func active(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, models.FilterAll) {
		return ""
	}
	return v
}

func filterKey(f models.CalendarFilters) string {
	return strings.Join([]string{
		strings.ToUpper(active(f.Currency)),
		active(f.Impact),
		active(f.Category),
		active(f.StartDate),
		active(f.EndDate),
	}, "|")
}
