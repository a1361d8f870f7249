package repository

import (
	"context"
	"errors"
	"time"

	"EconPull/internal/domain/models"
)

var (
	// ErrSnapshotNotFound is returned when no aggregation has been persisted yet.
	ErrSnapshotNotFound = errors.New("calendar snapshot not found")
	// ErrRefreshInProgress is returned when another refresh holds the run lock.
	ErrRefreshInProgress = errors.New("calendar refresh already in progress")
	// ErrSeriesUnavailable is returned when a statistical series has no usable observations.
	ErrSeriesUnavailable = errors.New("series unavailable")
)

// Generator computes the scheduled releases of one institution relative to ref.
// Implementations must not panic on bad upstream data; failures go into SourceResult.Err.
type Generator interface {
	Source() string
	Generate(ctx context.Context, ref time.Time) models.SourceResult
}

// SnapshotStore persists the single current calendar snapshot.
// Write replaces the previous snapshot atomically.
type SnapshotStore interface {
	Write(ctx context.Context, s *models.CalendarSnapshot) error
	Read(ctx context.Context) (*models.CalendarSnapshot, error)
	Close() error
}

// SeriesFetcher reads the latest observations of a statistical time series, newest first.
// Units selects a server-side transformation ("" for raw levels).
type SeriesFetcher interface {
	Latest(ctx context.Context, seriesID, units string, n int) ([]models.Observation, error)
}

// EventArchive keeps every aggregated event for historical queries.
type EventArchive interface {
	Init(ctx context.Context) error
	StoreBatch(ctx context.Context, runID string, events []models.EconomicEvent) error
	Health(ctx context.Context) error
	Close() error
}

// SnapshotNotifier announces that a new snapshot has been written.
type SnapshotNotifier interface {
	NotifySnapshot(ctx context.Context, msg models.SnapshotPublished) error
}

// RefreshDispatcher hands a refresh request to the aggregation worker.
type RefreshDispatcher interface {
	DispatchRefresh(ctx context.Context, req models.RefreshRequest) error
}

// RunLock serializes aggregation runs across processes.
type RunLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type Metrics interface {
	RecordSourceEvents(source string, n int)
	RecordSourceError(source string)
	RecordSourceWarning(source string)
	RecordSourceDuration(source string, seconds float64)
	RecordRun(status string, seconds float64)
	RecordSnapshotEvents(n int)
	RecordQuery(cacheHit bool)
	RecordValueUpdates(n int)
}
