package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var rbnzInstitution = institution{
	source:   "rbnz",
	currency: "NZD",
	country:  "NZ",
	url:      "https://www.rbnz.govt.nz/monetary-policy/monetary-policy-decisions",
	zone:     "Pacific/Auckland",
}

// Official Cash Rate announcement dates.
var rbnzMeetings = dateTable{
	"2025-02-19", "2025-04-09", "2025-05-28", "2025-07-09",
	"2025-08-20", "2025-10-08", "2025-11-26",
	"2026-02-18", "2026-04-08", "2026-05-27", "2026-07-08",
	"2026-09-02", "2026-10-28", "2026-12-09",
}

// Stats NZ quarterly releases and the months they are published in.
var (
	nzEmploymentMonths = map[time.Month]bool{
		time.February: true, time.May: true, time.August: true, time.November: true,
	}
	nzCPIMonths = map[time.Month]bool{
		time.January: true, time.April: true, time.July: true, time.October: true,
	}
	nzGDPMonths = map[time.Month]bool{
		time.March: true, time.June: true, time.September: true, time.December: true,
	}
)

var (
	rbnzDecision = release{
		title:     "RBNZ Interest Rate Decision",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Seven times a year",
		about:     "Monetary Policy Committee decision on the Official Cash Rate.",
		reaction: &models.TypicalReaction{
			Hawkish: "NZD strengthens",
			Dovish:  "NZD weakens",
		},
		assets:     []string{"NZDUSD", "AUDNZD"},
		volatility: "high",
		at:         clock{14, 0},
	}
	nzEmployment = release{
		title:     "New Zealand Employment Change (QoQ)",
		impact:    models.ImpactHigh,
		category:  models.CategoryEmployment,
		frequency: "Quarterly",
		about:     "Household Labour Force Survey employment change.",
		assets:    []string{"NZDUSD"},
		at:        clock{10, 45},
	}
	nzCPI = release{
		title:     "New Zealand CPI (QoQ)",
		impact:    models.ImpactHigh,
		category:  models.CategoryInflation,
		frequency: "Quarterly",
		about:     "Quarterly consumers price index.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "NZD strengthens",
			LowerThanExpected:  "NZD weakens",
		},
		assets: []string{"NZDUSD"},
		at:     clock{10, 45},
	}
	nzGDP = release{
		title:     "New Zealand GDP (QoQ)",
		impact:    models.ImpactHigh,
		category:  models.CategoryGrowth,
		frequency: "Quarterly",
		about:     "Quarterly change in real gross domestic product.",
		assets:    []string{"NZDUSD"},
		at:        clock{10, 45},
	}
)

// RBNZ emits OCR decisions from a table plus quarterly Stats NZ releases
// gated on their publication months.
type RBNZ struct{}

func NewRBNZ() *RBNZ { return &RBNZ{} }

func (g *RBNZ) Source() string { return rbnzInstitution.source }

func (g *RBNZ) Generate(_ context.Context, ref time.Time) models.SourceResult {
	bank := newEmitter(rbnzInstitution, ref, meetingWindow)
	for _, day := range rbnzMeetings.dates() {
		bank.emit(rbnzDecision, day)
	}
	bank.checkTable("RBNZ OCR", rbnzMeetings.last())

	stats := newEmitter(rbnzInstitution, ref, longRuleWindow)
	for _, m := range stats.window.months(ref) {
		y, mon := m.Year(), m.Month()
		if nzEmploymentMonths[mon] {
			stats.emit(nzEmployment, FirstWeekday(y, mon, time.Wednesday))
		}
		if nzCPIMonths[mon] {
			stats.emit(nzCPI, NthWeekday(y, mon, time.Wednesday, 3))
		}
		if nzGDPMonths[mon] {
			stats.emit(nzGDP, NthWeekday(y, mon, time.Thursday, 3))
		}
	}

	return merge(rbnzInstitution.source, bank, stats)
}
