package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var ismInstitution = institution{
	source:   "ism",
	currency: "USD",
	country:  "US",
	url:      "https://www.ismworld.org/supply-management-news-and-reports/reports/ism-report-on-business/",
	zone:     newYork,
}

var (
	ismManufacturing = release{
		title:     "ISM Manufacturing PMI",
		impact:    models.ImpactHigh,
		category:  models.CategoryManufacturing,
		frequency: "Monthly",
		about:     "Survey of purchasing managers in manufacturing; 50 separates expansion from contraction.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "USD strengthens, cyclicals outperform",
			LowerThanExpected:  "USD weakens, bonds rally",
		},
		assets: []string{"DXY", "SPX", "HG"},
		at:     clock{10, 0},
	}
	ismServices = release{
		title:     "ISM Services PMI",
		impact:    models.ImpactHigh,
		category:  models.CategoryServices,
		frequency: "Monthly",
		about:     "Survey of purchasing managers in non-manufacturing industries.",
		assets:    []string{"DXY", "SPX"},
		at:        clock{10, 0},
	}
)

// ISM emits the Report on Business PMIs.
type ISM struct{}

func NewISM() *ISM { return &ISM{} }

func (g *ISM) Source() string { return ismInstitution.source }

func (g *ISM) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(ismInstitution, ref, quarterRoundTrip)
	for _, m := range e.window.months(ref) {
		e.emit(ismManufacturing, NthBusinessDay(m.Year(), m.Month(), 1))
		e.emit(ismServices, NthBusinessDay(m.Year(), m.Month(), 3))
	}
	return e.result()
}
