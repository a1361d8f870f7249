package models

import "time"

// FilterAll disables a filter dimension.
const FilterAll = "all"

// CalendarFilters are optional, AND-composed query filters.
type CalendarFilters struct {
	Currency  string
	Impact    string
	Category  string
	StartDate string
	EndDate   string
}

// QueryResult is what the calendar query service returns to API consumers.
type QueryResult struct {
	Events      []EconomicEvent `json:"events"`
	LastUpdated time.Time       `json:"lastUpdated"`
	IsRealData  bool            `json:"isRealData"`
	TotalEvents int             `json:"totalEvents"`
	DateRange   DateRange       `json:"dateRange"`
}

// SnapshotStatus summarizes the currently served snapshot.
type SnapshotStatus struct {
	ID           string         `json:"id,omitempty"`
	LastUpdated  time.Time      `json:"lastUpdated"`
	AgeSeconds   int64          `json:"ageSeconds"`
	TotalEvents  int            `json:"totalEvents"`
	IsRealData   bool           `json:"isRealData"`
	DateRange    DateRange      `json:"dateRange"`
	SourceCounts map[string]int `json:"sourceCounts"`
}

// Observation is one point of a statistical time series.
type Observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// SourceReport describes one generator's contribution to an aggregation run.
type SourceReport struct {
	Source     string   `json:"source"`
	Events     int      `json:"events"`
	Error      string   `json:"error,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	DurationMs int64    `json:"durationMs"`
}

// RunReport describes a complete refresh run.
type RunReport struct {
	RunID       string         `json:"runId"`
	StartedAt   time.Time      `json:"startedAt"`
	FinishedAt  time.Time      `json:"finishedAt"`
	TotalEvents int            `json:"totalEvents"`
	Sources     []SourceReport `json:"sources"`
	Updated     int            `json:"valuesUpdated"`
}

// RefreshRequest asks the aggregation worker to run.
type RefreshRequest struct {
	RequestID   string    `json:"requestId"`
	RequestedAt time.Time `json:"requestedAt"`
	Reason      string    `json:"reason,omitempty"`
}

// SnapshotPublished notifies consumers that a new snapshot was written.
type SnapshotPublished struct {
	SnapshotID  string    `json:"snapshotId"`
	LastUpdated time.Time `json:"lastUpdated"`
	TotalEvents int       `json:"totalEvents"`
}

// SourceResult is one generator's output for a reference instant.
// A non-nil Err means the source contributed no events to the run.
type SourceResult struct {
	Source   string
	Events   []EconomicEvent
	Warnings []string
	Err      error
}
