package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var narInstitution = institution{
	source:   "nar",
	currency: "USD",
	country:  "US",
	url:      "https://www.nar.realtor/research-and-statistics/housing-statistics",
	zone:     newYork,
}

var (
	existingHomeSales = release{
		title:     "Existing Home Sales",
		impact:    models.ImpactMedium,
		category:  models.CategoryHousing,
		frequency: "Monthly",
		about:     "Annualized number of previously owned homes sold.",
		assets:    []string{"XHB", "DXY"},
		at:        clock{10, 0},
	}
	pendingHomeSales = release{
		title:     "Pending Home Sales (MoM)",
		impact:    models.ImpactLow,
		category:  models.CategoryHousing,
		frequency: "Monthly",
		about:     "Homes under contract but not yet closed; leads existing home sales by one to two months.",
		assets:    []string{"XHB"},
		at:        clock{10, 0},
	}
)

// NAR emits National Association of Realtors housing releases.
type NAR struct{}

func NewNAR() *NAR { return &NAR{} }

func (g *NAR) Source() string { return narInstitution.source }

func (g *NAR) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(narInstitution, ref, quarterRoundTrip)
	for _, m := range e.window.months(ref) {
		e.emit(existingHomeSales, DayOfMonthShifted(m.Year(), m.Month(), 22))
		e.emit(pendingHomeSales, DayOfMonthShifted(m.Year(), m.Month(), 28))
	}
	return e.result()
}
