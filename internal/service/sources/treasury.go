package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var treasuryInstitution = institution{
	source:   "treasury",
	currency: "USD",
	country:  "US",
	url:      "https://www.treasurydirect.gov/auctions/upcoming/",
	zone:     newYork,
}

var treasuryWindow = Window{Back: threeMonths, Ahead: fourMonths}

// Announced auction dates. Approximating these from a weekday rule drifts by
// days around holidays and refunding months.
var (
	tenYearAuctions = monthTable{
		"2025-01": "2025-01-13", "2025-02": "2025-02-12", "2025-03": "2025-03-12",
		"2025-04": "2025-04-09", "2025-05": "2025-05-12", "2025-06": "2025-06-11",
		"2025-07": "2025-07-09", "2025-08": "2025-08-12", "2025-09": "2025-09-10",
		"2025-10": "2025-10-08", "2025-11": "2025-11-12", "2025-12": "2025-12-09",
		"2026-01": "2026-01-12", "2026-02": "2026-02-11", "2026-03": "2026-03-11",
		"2026-04": "2026-04-08",
	}
	thirtyYearAuctions = monthTable{
		"2025-01": "2025-01-16", "2025-02": "2025-02-13", "2025-03": "2025-03-13",
		"2025-04": "2025-04-10", "2025-05": "2025-05-08", "2025-06": "2025-06-12",
		"2025-07": "2025-07-10", "2025-08": "2025-08-13", "2025-09": "2025-09-11",
		"2025-10": "2025-10-09", "2025-11": "2025-11-13", "2025-12": "2025-12-11",
		"2026-01": "2026-01-13", "2026-02": "2026-02-12", "2026-03": "2026-03-12",
		"2026-04": "2026-04-09",
	}
)

var (
	tenYearAuction = release{
		title:      "10-Year Note Auction",
		impact:     models.ImpactMedium,
		category:   models.CategoryBonds,
		frequency:  "Monthly",
		about:      "Treasury auction of 10-year notes; high yield and bid-to-cover ratio.",
		why:        "Weak demand pushes long-end yields and mortgage rates higher.",
		assets:     []string{"UST10Y", "DXY"},
		volatility: "medium",
		at:         clock{13, 0},
	}
	thirtyYearAuction = release{
		title:     "30-Year Bond Auction",
		impact:    models.ImpactMedium,
		category:  models.CategoryBonds,
		frequency: "Monthly",
		about:     "Treasury auction of 30-year bonds.",
		assets:    []string{"UST30Y"},
		at:        clock{13, 0},
	}
	twoYearAuction = release{
		title:     "2-Year Note Auction",
		impact:    models.ImpactLow,
		category:  models.CategoryBonds,
		frequency: "Monthly",
		about:     "Treasury auction of 2-year notes.",
		assets:    []string{"UST2Y"},
		at:        clock{13, 0},
	}
	budgetStatement = release{
		title:     "Monthly Budget Statement",
		impact:    models.ImpactLow,
		category:  models.CategoryFiscal,
		frequency: "Monthly",
		about:     "Federal government surplus or deficit for the previous month.",
		at:        clock{14, 0},
	}
)

// Treasury emits auctions and fiscal releases of the US Treasury.
type Treasury struct{}

func NewTreasury() *Treasury { return &Treasury{} }

func (g *Treasury) Source() string { return treasuryInstitution.source }

func (g *Treasury) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(treasuryInstitution, ref, treasuryWindow)
	for _, m := range e.window.months(ref) {
		y, mon := m.Year(), m.Month()

		day, ok := tenYearAuctions.lookup(y, mon)
		if !ok {
			day = NthWeekday(y, mon, time.Wednesday, 2)
		}
		e.emit(tenYearAuction, day)

		day, ok = thirtyYearAuctions.lookup(y, mon)
		if !ok {
			day = NthWeekday(y, mon, time.Thursday, 2)
		}
		e.emit(thirtyYearAuction, day)

		e.emit(twoYearAuction, LastWeekday(y, mon, time.Monday))
		e.emit(budgetStatement, NthBusinessDay(y, mon, 8))
	}
	e.checkMonthTable("10-year auction", tenYearAuctions)
	e.checkMonthTable("30-year auction", thirtyYearAuctions)
	return e.result()
}
