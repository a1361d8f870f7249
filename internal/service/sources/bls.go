package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

const newYork = "America/New_York"

var blsInstitution = institution{
	source:   "bls",
	currency: "USD",
	country:  "US",
	url:      "https://www.bls.gov/schedule/news_release/",
	zone:     newYork,
}

// Published Employment Situation release dates. Months missing from the
// table fall back to the first Friday.
var nfpDates = monthTable{
	"2025-01": "2025-01-10", "2025-02": "2025-02-07", "2025-03": "2025-03-07",
	"2025-04": "2025-04-04", "2025-05": "2025-05-02", "2025-06": "2025-06-06",
	"2025-07": "2025-07-03", "2025-08": "2025-08-01", "2025-09": "2025-09-05",
	"2025-10": "2025-10-03", "2025-11": "2025-11-07", "2025-12": "2025-12-05",
	"2026-01": "2026-01-09", "2026-02": "2026-02-06",
}

var (
	nfp = release{
		title:     "Non-Farm Payrolls",
		impact:    models.ImpactHigh,
		category:  models.CategoryEmployment,
		frequency: "Monthly",
		about:     "Change in the number of employed people, excluding the farming industry.",
		why:       "The single most watched US data point; resets Fed expectations across every asset class.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "USD strengthens, Treasury yields rise",
			LowerThanExpected:  "USD weakens, gold rallies",
		},
		assets:     []string{"DXY", "EURUSD", "USDJPY", "XAUUSD", "SPX", "UST10Y"},
		volatility: "very high",
		at:         clock{8, 30},
	}
	unemploymentRate = release{
		title:     "Unemployment Rate",
		impact:    models.ImpactHigh,
		category:  models.CategoryEmployment,
		frequency: "Monthly",
		about:     "Share of the labor force that is unemployed and actively seeking work.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "USD weakens",
			LowerThanExpected:  "USD strengthens",
		},
		assets: []string{"DXY", "SPX"},
		at:     clock{8, 30},
	}
	usCPI = release{
		title:     "CPI (YoY)",
		impact:    models.ImpactHigh,
		category:  models.CategoryInflation,
		frequency: "Monthly",
		about:     "Consumer Price Index, change in the price of a basket of goods and services.",
		why:       "The Fed's most visible inflation gauge; surprises reprice the rate path.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "USD strengthens, equities fall",
			LowerThanExpected:  "USD weakens, equities rally",
		},
		assets:     []string{"DXY", "XAUUSD", "SPX", "UST2Y"},
		volatility: "very high",
		at:         clock{8, 30},
	}
	usPPI = release{
		title:     "PPI (MoM)",
		impact:    models.ImpactMedium,
		category:  models.CategoryInflation,
		frequency: "Monthly",
		about:     "Producer Price Index, selling prices received by domestic producers.",
		assets:    []string{"DXY"},
		at:        clock{8, 30},
	}
	jolts = release{
		title:     "JOLTS Job Openings",
		impact:    models.ImpactMedium,
		category:  models.CategoryEmployment,
		frequency: "Monthly",
		about:     "Job openings, hires and separations.",
		assets:    []string{"DXY"},
		at:        clock{10, 0},
	}
	joblessClaims = release{
		title:     "Initial Jobless Claims",
		impact:    models.ImpactMedium,
		category:  models.CategoryEmployment,
		frequency: "Weekly",
		about:     "New filings for unemployment insurance in the past week.",
		assets:    []string{"DXY"},
		at:        clock{8, 30},
	}
)

// BLS emits Bureau of Labor Statistics releases.
type BLS struct{}

func NewBLS() *BLS { return &BLS{} }

func (g *BLS) Source() string { return blsInstitution.source }

func (g *BLS) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(blsInstitution, ref, shortRuleWindow)
	for _, m := range e.window.months(ref) {
		y, mon := m.Year(), m.Month()

		day, ok := nfpDates.lookup(y, mon)
		if !ok {
			day = FirstWeekday(y, mon, time.Friday)
		}
		e.emit(nfp, day)
		e.emit(unemploymentRate, day)

		e.emit(usCPI, DayOfMonthShifted(y, mon, 13))
		e.emit(usPPI, DayOfMonthShifted(y, mon, 15))
		e.emit(jolts, FirstWeekday(y, mon, time.Tuesday))
	}

	from := e.window.From(ref)
	to, _ := e.window.To(ref)
	for d := nextWeekday(civil(from.Year(), from.Month(), from.Day()), time.Thursday); !d.After(to); d = d.AddDate(0, 0, 7) {
		e.emit(joblessClaims, d)
	}

	e.checkMonthTable("Employment Situation", nfpDates)
	return e.result()
}

// nextWeekday returns d or the first following day falling on wd.
func nextWeekday(d time.Time, wd time.Weekday) time.Time {
	return d.AddDate(0, 0, (int(wd)-int(d.Weekday())+7)%7)
}
