package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var rbaInstitution = institution{
	source:   "rba",
	currency: "AUD",
	country:  "AU",
	url:      "https://www.rba.gov.au/schedules-events/board-meeting-schedules.html",
	zone:     "Australia/Sydney",
}

// Second day of each two-day Monetary Policy Board meeting.
var rbaMeetings = dateTable{
	"2025-02-18", "2025-04-01", "2025-05-20", "2025-07-08",
	"2025-08-12", "2025-09-30", "2025-11-04", "2025-12-09",
	"2026-02-03", "2026-03-17", "2026-05-05", "2026-06-16",
	"2026-08-11", "2026-09-29", "2026-11-03", "2026-12-08",
}

// Quarterly CPI is published only in these months.
var auCPIMonths = map[time.Month]bool{
	time.January: true, time.April: true, time.July: true, time.October: true,
}

var (
	rbaDecision = release{
		title:     "RBA Interest Rate Decision",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "Reserve Bank of Australia decision on the cash rate target.",
		why:       "Moves AUD and Australian rates; also read as a signal for China-linked risk appetite.",
		reaction: &models.TypicalReaction{
			Hawkish: "AUD strengthens",
			Dovish:  "AUD weakens, ASX 200 rallies",
		},
		assets:     []string{"AUDUSD", "AUDJPY", "ASX200"},
		volatility: "high",
		at:         clock{14, 30},
	}
	auCPI = release{
		title:     "Australia CPI (QoQ)",
		impact:    models.ImpactHigh,
		category:  models.CategoryInflation,
		frequency: "Quarterly",
		about:     "Quarterly consumer price index from the Australian Bureau of Statistics.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "AUD strengthens",
			LowerThanExpected:  "AUD weakens",
		},
		assets: []string{"AUDUSD"},
		at:     clock{11, 30},
	}
	auEmployment = release{
		title:     "Australia Employment Change",
		impact:    models.ImpactHigh,
		category:  models.CategoryEmployment,
		frequency: "Monthly",
		about:     "Labour Force survey change in employed persons.",
		assets:    []string{"AUDUSD"},
		at:        clock{11, 30},
	}
)

// RBA emits board decisions from a table plus rule-based ABS releases.
type RBA struct{}

func NewRBA() *RBA { return &RBA{} }

func (g *RBA) Source() string { return rbaInstitution.source }

func (g *RBA) Generate(_ context.Context, ref time.Time) models.SourceResult {
	bank := newEmitter(rbaInstitution, ref, meetingWindow)
	for _, day := range rbaMeetings.dates() {
		bank.emit(rbaDecision, day)
	}
	bank.checkTable("RBA board meeting", rbaMeetings.last())

	stats := newEmitter(rbaInstitution, ref, longRuleWindow)
	for _, m := range stats.window.months(ref) {
		if auCPIMonths[m.Month()] {
			stats.emit(auCPI, LastWeekday(m.Year(), m.Month(), time.Wednesday))
		}
		stats.emit(auEmployment, NthWeekday(m.Year(), m.Month(), time.Thursday, 3))
	}

	return merge(rbaInstitution.source, bank, stats)
}
