package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var (
	bocInstitution = institution{
		source:   "boc",
		currency: "CAD",
		country:  "CA",
		url:      "https://www.bankofcanada.ca/core-functions/monetary-policy/key-interest-rate/",
		zone:     "America/Toronto",
	}
	statcanInstitution = institution{
		source:   "statcan",
		currency: "CAD",
		country:  "CA",
		url:      "https://www150.statcan.gc.ca/n1/dai-quo/cal2-eng.htm",
		zone:     "America/Toronto",
	}
)

// Fixed announcement dates for the policy rate.
var bocMeetings = dateTable{
	"2025-01-29", "2025-03-12", "2025-04-16", "2025-06-04",
	"2025-07-30", "2025-09-17", "2025-10-29", "2025-12-10",
	"2026-01-28", "2026-03-18", "2026-04-29", "2026-06-10",
	"2026-07-15", "2026-09-02", "2026-10-28", "2026-12-09",
}

var (
	bocDecision = release{
		title:     "BoC Interest Rate Decision",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "Bank of Canada decision on the target for the overnight rate.",
		why:       "Primary driver of CAD and Canadian bond yields.",
		reaction: &models.TypicalReaction{
			Hawkish: "CAD strengthens",
			Dovish:  "CAD weakens",
		},
		assets:     []string{"USDCAD", "TSX"},
		volatility: "high",
		at:         clock{9, 45},
	}
	caEmployment = release{
		title:     "Canada Employment Change",
		impact:    models.ImpactHigh,
		category:  models.CategoryEmployment,
		frequency: "Monthly",
		about:     "Labour Force Survey change in employed persons.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "CAD strengthens",
			LowerThanExpected:  "CAD weakens",
		},
		assets: []string{"USDCAD"},
		at:     clock{8, 30},
	}
	caCPI = release{
		title:     "Canada CPI",
		impact:    models.ImpactHigh,
		category:  models.CategoryInflation,
		frequency: "Monthly",
		about:     "Consumer Price Index, year-over-year change.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "CAD strengthens on hike expectations",
			LowerThanExpected:  "CAD weakens",
		},
		assets: []string{"USDCAD"},
		at:     clock{8, 30},
	}
)

// BoC emits Bank of Canada decisions from a table plus Statistics Canada
// releases computed from weekday rules.
type BoC struct{}

func NewBoC() *BoC { return &BoC{} }

func (g *BoC) Source() string { return bocInstitution.source }

func (g *BoC) Generate(_ context.Context, ref time.Time) models.SourceResult {
	bank := newEmitter(bocInstitution, ref, meetingWindow)
	for _, day := range bocMeetings.dates() {
		bank.emit(bocDecision, day)
	}
	bank.checkTable("BoC announcement", bocMeetings.last())

	stats := newEmitter(statcanInstitution, ref, shortRuleWindow)
	for _, m := range stats.window.months(ref) {
		stats.emit(caEmployment, FirstWeekday(m.Year(), m.Month(), time.Friday))
		stats.emit(caCPI, NthWeekday(m.Year(), m.Month(), time.Tuesday, 3))
	}

	return merge(bocInstitution.source, bank, stats)
}
