package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var boeInstitution = institution{
	source:   "boe",
	currency: "GBP",
	country:  "GB",
	url:      "https://www.bankofengland.co.uk/monetary-policy/upcoming-mpc-dates",
	zone:     "Europe/London",
}

// MPC announcement dates. Report marks meetings published with a Monetary Policy Report.
var boeMeetings = []struct {
	date   string
	report bool
}{
	{"2025-02-06", true}, {"2025-03-20", false}, {"2025-05-08", true}, {"2025-06-19", false},
	{"2025-08-07", true}, {"2025-09-18", false}, {"2025-11-06", true}, {"2025-12-18", false},
	{"2026-02-05", true}, {"2026-03-19", false}, {"2026-04-30", true}, {"2026-06-18", false},
	{"2026-07-30", true}, {"2026-09-17", false}, {"2026-11-05", true}, {"2026-12-17", false},
}

var (
	boeDecision = release{
		title:     "BoE Interest Rate Decision",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "Monetary Policy Committee decision on Bank Rate.",
		why:       "Drives GBP, gilt yields and UK mortgage pricing.",
		reaction: &models.TypicalReaction{
			Hawkish: "GBP strengthens, gilts sell off",
			Dovish:  "GBP weakens, FTSE 250 outperforms",
		},
		assets:     []string{"GBPUSD", "EURGBP", "FTSE100", "Gilts"},
		volatility: "high",
		at:         clock{12, 0},
	}
	boeMinutes = release{
		title:     "BoE MPC Meeting Minutes",
		impact:    models.ImpactMedium,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "Minutes and vote split, released together with the decision.",
		why:       "The vote split signals how close the committee is to the next move.",
		assets:    []string{"GBPUSD"},
		at:        clock{12, 0},
	}
	boeReport = release{
		title:     "BoE Monetary Policy Report",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Quarterly",
		about:     "Updated growth and inflation projections.",
		assets:    []string{"GBPUSD", "Gilts"},
		at:        clock{12, 0},
	}
)

// BoE emits MPC announcements from a fixed meeting table.
type BoE struct{}

func NewBoE() *BoE { return &BoE{} }

func (g *BoE) Source() string { return boeInstitution.source }

func (g *BoE) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(boeInstitution, ref, meetingWindow)
	var last time.Time
	for _, m := range boeMeetings {
		day := parseCivil(m.date)
		last = day
		e.emit(boeDecision, day)
		e.emit(boeMinutes, day)
		if m.report {
			e.emit(boeReport, day)
		}
	}
	e.checkTable("BoE MPC", last)
	return e.result()
}
