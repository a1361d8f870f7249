package usecase

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
	domrepo "EconPull/internal/domain/repository"
	domsvc "EconPull/internal/domain/service"
	"EconPull/pkg/logger"
)

// SeriesBinding ties a release to the statistical series that measures it.
type SeriesBinding struct {
	Source   string
	Title    string
	SeriesID string
	Units    string
	Policy   domsvc.UnitPolicy
}

// DefaultBindings covers the releases with a public FRED series.
var DefaultBindings = []SeriesBinding{
	{Source: "bls", Title: "Non-Farm Payrolls", SeriesID: "PAYEMS", Policy: domsvc.UnitPolicy{Kind: domsvc.KindChange, Unit: domsvc.UnitThousands}},
	{Source: "bls", Title: "Unemployment Rate", SeriesID: "UNRATE", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitPercent}},
	{Source: "bls", Title: "CPI (YoY)", SeriesID: "CPIAUCSL", Units: "pc1", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitPercent}},
	{Source: "bls", Title: "PPI (MoM)", SeriesID: "PPIFIS", Policy: domsvc.UnitPolicy{Kind: domsvc.KindPctChange}},
	{Source: "bls", Title: "JOLTS Job Openings", SeriesID: "JTSJOL", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitMillions}},
	{Source: "census", Title: "Retail Sales (MoM)", SeriesID: "RSAFS", Policy: domsvc.UnitPolicy{Kind: domsvc.KindPctChange}},
	{Source: "census", Title: "Durable Goods Orders", SeriesID: "DGORDER", Policy: domsvc.UnitPolicy{Kind: domsvc.KindPctChange}},
	{Source: "census", Title: "Housing Starts", SeriesID: "HOUST", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitMillions}},
	{Source: "census", Title: "New Home Sales", SeriesID: "HSN1F", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitThousands}},
	{Source: "census", Title: "Trade Balance", SeriesID: "BOPGSTB", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitBillions}},
	{Source: "treasury", Title: "10-Year Note Auction", SeriesID: "DGS10", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel, Unit: domsvc.UnitPercent}},
	{Source: "umich", Title: "UoM Consumer Sentiment (Prelim)", SeriesID: "UMCSENT", Policy: domsvc.UnitPolicy{Kind: domsvc.KindLevel}},
}

// observationsPerSeries is enough to format both the latest actual and its previous.
const observationsPerSeries = 3

// ValueUpdater fills previous/actual on bound events from live series data.
// The most recent released occurrence gets actual (and its previous); the next
// upcoming occurrence gets previous only.
type ValueUpdater struct {
	fetcher  domrepo.SeriesFetcher
	bindings []SeriesBinding
	metrics  domrepo.Metrics
	logger   *logger.Logger
}

func NewValueUpdater(fetcher domrepo.SeriesFetcher, bindings []SeriesBinding, metrics domrepo.Metrics, log *logger.Logger) *ValueUpdater {
	return &ValueUpdater{fetcher: fetcher, bindings: bindings, metrics: metrics, logger: log}
}

// Update mutates events of a snapshot that has not been published yet and
// returns the number of events changed. Series failures are logged and skipped.
func (u *ValueUpdater) Update(ctx context.Context, snap *models.CalendarSnapshot, ref time.Time) int {
	updated := 0
	for _, b := range u.bindings {
		released, upcoming := locate(snap.Events, b, ref)
		if released < 0 && upcoming < 0 {
			continue
		}

		obs, err := u.fetcher.Latest(ctx, b.SeriesID, b.Units, observationsPerSeries)
		if err != nil {
			u.logger.Warn("series fetch failed, leaving values empty",
				logger.String("series", b.SeriesID),
				logger.String("title", b.Title),
				logger.Error(err),
			)
			continue
		}

		latest := formatAt(obs, 0, b.Policy)
		if released >= 0 {
			e := &snap.Events[released]
			e.Actual = latest
			e.Previous = formatAt(obs, 1, b.Policy)
			updated++
		}
		if upcoming >= 0 {
			snap.Events[upcoming].Previous = latest
			updated++
		}
	}
	u.metrics.RecordValueUpdates(updated)
	return updated
}

// locate returns the index of the latest released and the earliest upcoming
// event for a binding, or -1.
func locate(events []models.EconomicEvent, b SeriesBinding, ref time.Time) (released, upcoming int) {
	released, upcoming = -1, -1
	var lastAt, nextAt time.Time
	for i, e := range events {
		if e.Source != b.Source || e.Title != b.Title {
			continue
		}
		at, err := time.Parse(models.DateLayout+" "+models.TimeLayout, e.Date+" "+e.Time)
		if err != nil {
			continue
		}
		if !at.After(ref) {
			if released < 0 || at.After(lastAt) {
				released, lastAt = i, at
			}
			continue
		}
		if upcoming < 0 || at.Before(nextAt) {
			upcoming, nextAt = i, at
		}
	}
	return released, upcoming
}

// formatAt formats obs[i] against obs[i+1].
func formatAt(obs []models.Observation, i int, p domsvc.UnitPolicy) *string {
	if i >= len(obs) {
		return nil
	}
	prev := ""
	if i+1 < len(obs) {
		prev = obs[i+1].Value
	}
	return domsvc.FormatValue(obs[i].Value, prev, p)
}
