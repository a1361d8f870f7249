package sources

import (
	"context"
	"time"

	"EconPull/internal/domain/models"
)

var censusInstitution = institution{
	source:   "census",
	currency: "USD",
	country:  "US",
	url:      "https://www.census.gov/economic-indicators/calendar-listview.html",
	zone:     newYork,
}

var (
	retailSales = release{
		title:     "Retail Sales (MoM)",
		impact:    models.ImpactHigh,
		category:  models.CategoryConsumer,
		frequency: "Monthly",
		about:     "Change in the total value of sales at the retail level.",
		why:       "Consumer spending is roughly two thirds of US GDP.",
		reaction: &models.TypicalReaction{
			HigherThanExpected: "USD strengthens",
			LowerThanExpected:  "USD weakens",
		},
		assets: []string{"DXY", "SPX", "XRT"},
		at:     clock{8, 30},
	}
	durableGoods = release{
		title:     "Durable Goods Orders",
		impact:    models.ImpactMedium,
		category:  models.CategoryManufacturing,
		frequency: "Monthly",
		about:     "New orders for manufactured goods expected to last three years or more.",
		assets:    []string{"DXY"},
		at:        clock{8, 30},
	}
	housingStarts = release{
		title:     "Housing Starts",
		impact:    models.ImpactMedium,
		category:  models.CategoryHousing,
		frequency: "Monthly",
		about:     "Number of new residential construction projects begun.",
		assets:    []string{"XHB"},
		at:        clock{8, 30},
	}
	newHomeSales = release{
		title:     "New Home Sales",
		impact:    models.ImpactMedium,
		category:  models.CategoryHousing,
		frequency: "Monthly",
		about:     "Annualized number of new single-family homes sold.",
		assets:    []string{"XHB"},
		at:        clock{10, 0},
	}
	tradeBalance = release{
		title:     "Trade Balance",
		impact:    models.ImpactMedium,
		category:  models.CategoryTrade,
		frequency: "Monthly",
		about:     "Difference between the value of imported and exported goods and services.",
		assets:    []string{"DXY"},
		at:        clock{8, 30},
	}
)

// Census emits Census Bureau releases, all rule-based.
type Census struct{}

func NewCensus() *Census { return &Census{} }

func (g *Census) Source() string { return censusInstitution.source }

func (g *Census) Generate(_ context.Context, ref time.Time) models.SourceResult {
	e := newEmitter(censusInstitution, ref, shortRuleWindow)
	for _, m := range e.window.months(ref) {
		y, mon := m.Year(), m.Month()
		e.emit(retailSales, DayOfMonthShifted(y, mon, 15))
		e.emit(durableGoods, DayOfMonthShifted(y, mon, 26))
		e.emit(housingStarts, NthBusinessDay(y, mon, 12))
		e.emit(newHomeSales, NthBusinessDay(y, mon, 17))
		e.emit(tradeBalance, NthBusinessDay(y, mon, 4))
	}
	return e.result()
}
