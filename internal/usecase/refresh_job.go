package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/pkg/logger"
)

const (
	refreshLockKey     = "calendar:refresh:lock"
	defaultRefreshLock = 5 * time.Minute
)

// RefreshJob runs one complete aggregation: lock, aggregate, fill live values,
// persist, archive, notify. Only persisting is fatal; archive and notify
// failures are logged.
type RefreshJob struct {
	lock     domrepo.RunLock
	agg      *Aggregator
	updater  *ValueUpdater
	store    domrepo.SnapshotStore
	archive  domrepo.EventArchive
	notifier domrepo.SnapshotNotifier
	metrics  domrepo.Metrics
	logger   *logger.Logger
	lockTTL  time.Duration
	now      func() time.Time
}

type RefreshJobOption func(*RefreshJob)

// WithValueUpdater enables the live-data pass.
func WithValueUpdater(u *ValueUpdater) RefreshJobOption {
	return func(j *RefreshJob) { j.updater = u }
}

// WithArchive stores every run's events.
func WithArchive(a domrepo.EventArchive) RefreshJobOption {
	return func(j *RefreshJob) { j.archive = a }
}

// WithNotifier announces new snapshots.
func WithNotifier(n domrepo.SnapshotNotifier) RefreshJobOption {
	return func(j *RefreshJob) { j.notifier = n }
}

func WithLockTTL(ttl time.Duration) RefreshJobOption {
	return func(j *RefreshJob) {
		if ttl > 0 {
			j.lockTTL = ttl
		}
	}
}

func WithJobClock(now func() time.Time) RefreshJobOption {
	return func(j *RefreshJob) { j.now = now }
}

func NewRefreshJob(lock domrepo.RunLock, agg *Aggregator, store domrepo.SnapshotStore, metrics domrepo.Metrics, log *logger.Logger, opts ...RefreshJobOption) *RefreshJob {
	j := &RefreshJob{
		lock:    lock,
		agg:     agg,
		store:   store,
		metrics: metrics,
		logger:  log,
		lockTTL: defaultRefreshLock,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes a refresh as of ref (wall clock when zero). It returns
// ErrRefreshInProgress if another run holds the lock.
func (j *RefreshJob) Run(ctx context.Context, ref time.Time) (*models.RunReport, error) {
	if ref.IsZero() {
		ref = j.now()
	}

	ok, err := j.lock.TryLock(ctx, refreshLockKey, j.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire refresh lock: %w", err)
	}
	if !ok {
		return nil, domrepo.ErrRefreshInProgress
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := j.lock.Unlock(unlockCtx, refreshLockKey); err != nil {
			j.logger.Warn("release refresh lock", logger.Error(err))
		}
	}()

	report := &models.RunReport{RunID: uuid.NewString(), StartedAt: j.now().UTC()}
	j.logger.Info("calendar refresh started",
		logger.String("run_id", report.RunID),
		logger.String("reference", ref.UTC().Format(time.RFC3339)),
	)

	snap, sources := j.agg.Aggregate(ctx, ref)
	snap.ID = report.RunID
	report.Sources = sources

	if j.updater != nil {
		report.Updated = j.updater.Update(ctx, snap, ref)
	}

	if err := j.store.Write(ctx, snap); err != nil {
		j.metrics.RecordRun("error", j.now().Sub(report.StartedAt).Seconds())
		return report, fmt.Errorf("write snapshot: %w", err)
	}
	report.TotalEvents = len(snap.Events)
	j.metrics.RecordSnapshotEvents(report.TotalEvents)

	if j.archive != nil {
		if err := j.archive.StoreBatch(ctx, report.RunID, snap.Events); err != nil {
			j.logger.Error("archive events", logger.String("run_id", report.RunID), logger.Error(err))
		}
	}

	if j.notifier != nil {
		msg := models.SnapshotPublished{
			SnapshotID:  snap.ID,
			LastUpdated: snap.LastUpdated,
			TotalEvents: len(snap.Events),
		}
		if err := j.notifier.NotifySnapshot(ctx, msg); err != nil {
			j.logger.Error("notify snapshot", logger.String("run_id", report.RunID), logger.Error(err))
		}
	}

	report.FinishedAt = j.now().UTC()
	j.metrics.RecordRun("ok", report.FinishedAt.Sub(report.StartedAt).Seconds())
	j.logger.Info("calendar refresh finished",
		logger.String("run_id", report.RunID),
		logger.Int("events", report.TotalEvents),
		logger.Int("values_updated", report.Updated),
		logger.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// ScheduledRefresh returns a runner that calls job.Run every interval until
// ctx is cancelled. A run skipped because another holds the lock is not an
// error.
func ScheduledRefresh(job *RefreshJob, every time.Duration, log *logger.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := job.Run(ctx, time.Time{}); err != nil {
					if errors.Is(err, domrepo.ErrRefreshInProgress) {
						log.Info("scheduled refresh skipped, run in progress")
						continue
					}
					log.Error("scheduled refresh failed", logger.Error(err))
				}
			}
		}
	}
}
