package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	"EconPull/pkg/logger"
)

const defaultConcurrency = 4

// Aggregator runs every source generator and merges their output into a snapshot.
type Aggregator struct {
	generators  []domrepo.Generator
	metrics     domrepo.Metrics
	logger      *logger.Logger
	concurrency int
	now         func() time.Time
}

type AggregatorOption func(*Aggregator)

// WithConcurrency limits how many generators run at once.
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock overrides the wall clock used for lastUpdated.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		a.now = now
	}
}

func NewAggregator(generators []domrepo.Generator, metrics domrepo.Metrics, log *logger.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		generators:  generators,
		metrics:     metrics,
		logger:      log,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate builds a snapshot as of ref. A failing or panicking generator
// contributes zero events; the run itself never fails.
func (a *Aggregator) Aggregate(ctx context.Context, ref time.Time) (*models.CalendarSnapshot, []models.SourceReport) {
	results := make([]models.SourceResult, len(a.generators))
	durations := make([]time.Duration, len(a.generators))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, gen := range a.generators {
		g.Go(func() error {
			start := time.Now()
			results[i] = a.run(gctx, gen, ref)
			durations[i] = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	var events []models.EconomicEvent
	reports := make([]models.SourceReport, 0, len(results))
	for i, res := range results {
		rep := models.SourceReport{
			Source:     res.Source,
			Warnings:   res.Warnings,
			DurationMs: durations[i].Milliseconds(),
		}
		a.metrics.RecordSourceDuration(res.Source, durations[i].Seconds())
		for _, w := range res.Warnings {
			a.metrics.RecordSourceWarning(res.Source)
			a.logger.Warn("source warning", logger.String("source", res.Source), logger.String("warning", w))
		}

		if res.Err != nil {
			rep.Error = res.Err.Error()
			a.metrics.RecordSourceError(res.Source)
			a.logger.Error("source failed, continuing without it",
				logger.String("source", res.Source),
				logger.Error(res.Err),
			)
			reports = append(reports, rep)
			continue
		}

		rep.Events = len(res.Events)
		a.metrics.RecordSourceEvents(res.Source, len(res.Events))
		events = append(events, res.Events...)
		reports = append(reports, rep)
	}

	SortEvents(events)
	snap := &models.CalendarSnapshot{
		Events:      events,
		LastUpdated: a.now().UTC(),
	}
	if snap.Events == nil {
		snap.Events = []models.EconomicEvent{}
	}
	snap.DateRange = DateRangeOf(snap.Events, snap.LastUpdated)

	a.logger.Info("aggregation complete",
		logger.Int("events", len(snap.Events)),
		logger.Int("sources", len(a.generators)),
		logger.String("start", snap.DateRange.Start),
		logger.String("end", snap.DateRange.End),
	)
	return snap, reports
}

func (a *Aggregator) run(ctx context.Context, gen domrepo.Generator, ref time.Time) (res models.SourceResult) {
	source := gen.Source()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("source generator panicked",
				logger.String("source", source),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			res = models.SourceResult{Source: source, Err: fmt.Errorf("generator panic: %v", r)}
		}
	}()

	res = gen.Generate(ctx, ref)
	res.Source = source
	if res.Err != nil {
		res.Events = nil
	}
	return res
}

// SortEvents orders events by date then time, keeping insertion order for ties.
func SortEvents(events []models.EconomicEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
}

// DateRangeOf returns the min and max date of sorted events, or today when empty.
func DateRangeOf(sorted []models.EconomicEvent, now time.Time) models.DateRange {
	if len(sorted) == 0 {
		today := now.UTC().Format(models.DateLayout)
		return models.DateRange{Start: today, End: today}
	}
	return models.DateRange{Start: sorted[0].Date, End: sorted[len(sorted)-1].Date}
}
