package models

import (
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Impact is the qualitative severity tier of a release.
type Impact string

const (
	ImpactHigh    Impact = "high"
	ImpactMedium  Impact = "medium"
	ImpactLow     Impact = "low"
	ImpactHoliday Impact = "holiday"
)

// Valid checks if impact tier is one of the four known values.
func (i Impact) Valid() bool {
	switch i {
	case ImpactHigh, ImpactMedium, ImpactLow, ImpactHoliday:
		return true
	}
	return false
}

// Category groups releases by economic area.
type Category string

const (
	CategoryEmployment    Category = "employment"
	CategoryInflation     Category = "inflation"
	CategoryCentralBank   Category = "central_bank"
	CategoryHousing       Category = "housing"
	CategoryManufacturing Category = "manufacturing"
	CategoryTrade         Category = "trade"
	CategoryGrowth        Category = "growth"
	CategorySentiment     Category = "sentiment"
	CategoryBonds         Category = "bonds"
	CategoryFiscal        Category = "fiscal"
	CategoryConsumer      Category = "consumer"
	CategoryServices      Category = "services"
)

// TypicalReaction holds qualitative market-reaction hints keyed by surprise direction or policy stance.
type TypicalReaction struct {
	HigherThanExpected string `json:"higherThanExpected,omitempty"`
	LowerThanExpected  string `json:"lowerThanExpected,omitempty"`
	Hawkish            string `json:"hawkish,omitempty"`
	Dovish             string `json:"dovish,omitempty"`
}

// EconomicEvent is a single scheduled release. Date and Time are UTC.
type EconomicEvent struct {
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Currency  string   `json:"currency"`
	Title     string   `json:"title"`
	Impact    Impact   `json:"impact"`
	Category  Category `json:"category"`
	Country   string   `json:"country"`
	Source    string   `json:"source"`
	SourceURL string   `json:"sourceUrl"`

	Description          string           `json:"description,omitempty"`
	WhyItMatters         string           `json:"whyItMatters,omitempty"`
	Frequency            string           `json:"frequency,omitempty"`
	TypicalReaction      *TypicalReaction `json:"typicalReaction,omitempty"`
	RelatedAssets        []string         `json:"relatedAssets,omitempty"`
	HistoricalVolatility string           `json:"historicalVolatility,omitempty"`

	// Populated only by the live-data update path.
	Forecast *string `json:"forecast"`
	Previous *string `json:"previous"`
	Actual   *string `json:"actual"`
}

// Key returns the per-source natural key.
func (e EconomicEvent) Key() string {
	return e.Date + "|" + e.Title
}

// IdentityKey is a cross-source identity (normalized title + date + country).
// The aggregator does not apply it; duplicates across sources are kept.
func IdentityKey(e EconomicEvent) string {
	title := strings.Join(strings.Fields(strings.ToLower(e.Title)), " ")
	return e.Date + "|" + strings.ToUpper(e.Country) + "|" + title
}

// DateRange is the inclusive min/max event date of a snapshot.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CalendarSnapshot is one complete aggregation result.
type CalendarSnapshot struct {
	ID          string          `json:"id,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Events      []EconomicEvent `json:"events"`
	DateRange   DateRange       `json:"dateRange"`
}

// EmptySnapshot is the placeholder served when no aggregation has completed yet.
func EmptySnapshot(now time.Time) *CalendarSnapshot {
	today := now.UTC().Format(DateLayout)
	return &CalendarSnapshot{
		LastUpdated: now.UTC(),
		Events:      []EconomicEvent{},
		DateRange:   DateRange{Start: today, End: today},
	}
}

// SourceCounts returns number of events per source.
func (s *CalendarSnapshot) SourceCounts() map[string]int {
	out := make(map[string]int)
	for _, e := range s.Events {
		out[e.Source]++
	}
	return out
}
