package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var ecbInstitution = institution{
	source:   "ecb",
	currency: "EUR",
	country:  "EU",
	url:      "https://www.ecb.europa.eu/press/calendars/mgcgc/html/index.en.html",
	zone:     "Europe/Berlin",
}

// Governing Council monetary policy meetings (decision day).
var ecbMeetings = dateTable{
	"2025-01-30", "2025-03-06", "2025-04-17", "2025-06-05",
	"2025-07-24", "2025-09-11", "2025-10-30", "2025-12-18",
	"2026-02-05", "2026-03-19", "2026-04-30", "2026-06-11",
	"2026-07-23", "2026-09-10", "2026-10-29", "2026-12-17",
}

var (
	ecbDecision = release{
		title:     "ECB Interest Rate Decision",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Every six weeks",
		about:     "Governing Council decision on the deposit facility, main refinancing and marginal lending rates.",
		why:       "Sets the cost of money for the euro area and anchors EUR rates and bond spreads.",
		reaction: &models.TypicalReaction{
			Hawkish: "EUR strengthens, Bund yields rise",
			Dovish:  "EUR weakens, European equities rally",
		},
		assets:     []string{"EURUSD", "EURGBP", "DAX", "Bund"},
		volatility: "high",
		at:         clock{14, 15},
	}
	ecbPressConference = release{
		title:     "ECB Press Conference",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Every six weeks",
		about:     "The President explains the decision and answers questions.",
		why:       "Forward guidance in the Q&A often moves EUR more than the decision itself.",
		assets:    []string{"EURUSD", "Bund"},
		at:        clock{14, 45},
	}
	ecbAccounts = release{
		title:     "ECB Monetary Policy Meeting Accounts",
		impact:    models.ImpactMedium,
		category:  models.CategoryCentralBank,
		frequency: "Every six weeks",
		about:     "Account of the Governing Council deliberations, published four weeks after the meeting.",
		assets:    []string{"EURUSD"},
		at:        clock{13, 30},
	}
)

// ECB emits Governing Council decisions from a fixed meeting table.
type ECB struct{}

func NewECB() *ECB { return &ECB{} }

func (g *ECB) Source() string { return ecbInstitution.source }

func (g *ECB) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(ecbInstitution, ref, meetingWindow)
	for _, day := range ecbMeetings.dates() {
		e.emit(ecbDecision, day)
		e.emit(ecbPressConference, day)
		e.emit(ecbAccounts, ShiftWeekend(day.AddDate(0, 0, 28)))
	}
	e.checkTable("ECB meeting", ecbMeetings.last())
	return e.result()
}
