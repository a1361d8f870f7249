package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var umichInstitution = institution{
	source:   "umich",
	currency: "USD",
	country:  "US",
	url:      "https://www.sca.isr.umich.edu/",
	zone:     newYork,
}

var (
	sentimentPrelim = release{
		title:     "UoM Consumer Sentiment (Prelim)",
		impact:    models.ImpactMedium,
		category:  models.CategorySentiment,
		frequency: "Monthly",
		about:     "Preliminary reading of the University of Michigan consumer sentiment survey.",
		assets:    []string{"DXY", "SPX"},
		at:        clock{10, 0},
	}
	sentimentFinal = release{
		title:     "UoM Consumer Sentiment (Final)",
		impact:    models.ImpactLow,
		category:  models.CategorySentiment,
		frequency: "Monthly",
		about:     "Final reading of the University of Michigan consumer sentiment survey.",
		at:        clock{10, 0},
	}
	inflationExpPrelim = release{
		title:     "UoM Inflation Expectations (Prelim)",
		impact:    models.ImpactMedium,
		category:  models.CategoryInflation,
		frequency: "Monthly",
		about:     "Consumers' expected inflation rate over the next twelve months.",
		assets:    []string{"UST5Y"},
		at:        clock{10, 0},
	}
	inflationExpFinal = release{
		title:     "UoM Inflation Expectations (Final)",
		impact:    models.ImpactLow,
		category:  models.CategoryInflation,
		frequency: "Monthly",
		about:     "Final twelve-month inflation expectations.",
		at:        clock{10, 0},
	}
)

// UMich emits the Surveys of Consumers releases.
type UMich struct{}

func NewUMich() *UMich { return &UMich{} }

func (g *UMich) Source() string { return umichInstitution.source }

func (g *UMich) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(umichInstitution, ref, shortRuleWindow)
	for _, m := range e.window.months(ref) {
		prelim := NthWeekday(m.Year(), m.Month(), time.Friday, 2)
		final := NthWeekday(m.Year(), m.Month(), time.Friday, 4)
		e.emit(sentimentPrelim, prelim)
		e.emit(inflationExpPrelim, prelim)
		e.emit(sentimentFinal, final)
		e.emit(inflationExpFinal, final)
	}
	return e.result()
}
