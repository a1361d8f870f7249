package models

// Requests for calendar HTTP endpoints.

// CalendarRequest carries filters unvalidated: a value that names no real
// event, or a malformed date, just narrows the result.
type CalendarRequest struct {
	Currency string `query:"currency" json:"currency" default:"all"`
	Impact   string `query:"impact" json:"impact" default:"all"`
	Category string `query:"category" json:"category" default:"all"`
	Start    string `query:"start" json:"start"`
	End      string `query:"end" json:"end"`
}

// Filters converts the request into query filters.
func (r *CalendarRequest) Filters() CalendarFilters {
	return CalendarFilters{
		Currency:  r.Currency,
		Impact:    r.Impact,
		Category:  r.Category,
		StartDate: r.Start,
		EndDate:   r.End,
	}
}

type RefreshHTTPRequest struct {
	Reason string `json:"reason" query:"reason" validate:"max=200"`
}
