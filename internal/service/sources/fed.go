package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"EconPull/internal/domain/models"
	pkghttp "EconPull/pkg/http"
	"EconPull/pkg/logger"
)

const (
	DefaultFedCalendarURL = "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm"
	defaultFedTimeout     = 8 * time.Second
	minutesLag            = 21
)

var ErrNoMeetings = errors.New("no FOMC meetings found in calendar page")

var fedInstitution = institution{
	source:   "fed",
	currency: "USD",
	country:  "US",
	url:      DefaultFedCalendarURL,
	zone:     newYork,
}

var (
	fomcDecision = release{
		title:     "FOMC Interest Rate Decision",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "Federal Open Market Committee decision on the federal funds target range.",
		why:       "Sets the global risk-free rate; every USD asset reprices on surprises.",
		reaction: &models.TypicalReaction{
			Hawkish: "USD strengthens, equities and gold fall",
			Dovish:  "USD weakens, equities and gold rally",
		},
		assets:     []string{"DXY", "SPX", "XAUUSD", "UST2Y", "UST10Y"},
		volatility: "very high",
		at:         clock{14, 0},
	}
	fomcPress = release{
		title:     "FOMC Press Conference",
		impact:    models.ImpactHigh,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "The Chair's statement and Q&A following the decision.",
		assets:    []string{"DXY", "SPX"},
		at:        clock{14, 30},
	}
	fomcMinutes = release{
		title:     "FOMC Meeting Minutes",
		impact:    models.ImpactMedium,
		category:  models.CategoryCentralBank,
		frequency: "Eight times a year",
		about:     "Detailed record of the committee's discussion, released three weeks after the meeting.",
		assets:    []string{"DXY", "UST10Y"},
		at:        clock{14, 0},
	}
)

var (
	yearHeadingRe = regexp.MustCompile(`^(\d{4}) FOMC Meetings$`)
	monthRe       = regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?(?:/(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?)?$`)
	meetingDaysRe = regexp.MustCompile(`^(\d{1,2})(?:-(\d{1,2}))?\*?$`)
)

var monthAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March, "Apr": time.April,
	"May": time.May, "Jun": time.June, "Jul": time.July, "Aug": time.August,
	"Sep": time.September, "Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// FedOption configures the Fed generator.
type FedOption func(*Fed)

// WithCalendarURL overrides the FOMC calendar page location.
func WithCalendarURL(url string) FedOption {
	return func(g *Fed) {
		g.url = url
	}
}

// WithFetchTimeout bounds the page fetch.
func WithFetchTimeout(d time.Duration) FedOption {
	return func(g *Fed) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// Fed reads meeting dates from the live FOMC calendar page.
type Fed struct {
	client  *pkghttp.Client
	logger  *logger.Logger
	url     string
	timeout time.Duration
}

func NewFed(client *pkghttp.Client, log *logger.Logger, opts ...FedOption) *Fed {
	g := &Fed{
		client:  client,
		logger:  log,
		url:     DefaultFedCalendarURL,
		timeout: defaultFedTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Fed) Source() string { return fedInstitution.source }

// Generate never returns events on fetch or parse failure; the reason is
// logged and carried in SourceResult.Err.
func (g *Fed) Generate(ctx context.Context, ref time.Time) models.SourceResult {
	page, err := g.fetch(ctx)
	if err != nil {
		return g.fail(err)
	}

	decisions, err := ParseFOMCCalendar(bytes.NewReader(page))
	if err != nil {
		return g.fail(err)
	}

	return g.build(decisions, ref)
}

func (g *Fed) fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var body []byte
	err := g.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodGet,
		URL:     g.url,
		Headers: map[string]string{"Accept": "text/html"},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch FOMC calendar: %w", err)
	}
	return body, nil
}

func (g *Fed) fail(err error) models.SourceResult {
	if g.logger != nil {
		g.logger.Warn("FOMC calendar unavailable, skipping source",
			logger.String("url", g.url),
			logger.Error(err),
		)
	}
	return models.SourceResult{Source: fedInstitution.source, Err: err}
}

func (g *Fed) build(decisions []time.Time, ref time.Time) models.SourceResult {
	inst := fedInstitution
	inst.url = g.url
	e := newEmitter(inst, ref, meetingWindow)
	for _, day := range decisions {
		e.emit(fomcDecision, day)
		e.emit(fomcPress, day)
		e.emit(fomcMinutes, ShiftWeekend(day.AddDate(0, 0, minutesLag)))
	}
	return e.result()
}

// ParseFOMCCalendar extracts policy decision dates (the last day of each
// meeting) from the FOMC calendar page. Meetings spanning two months are
// dated in the second month.
func ParseFOMCCalendar(r io.Reader) ([]time.Time, error) {
	texts, err := textRuns(r)
	if err != nil {
		return nil, fmt.Errorf("parse FOMC calendar: %w", err)
	}

	var (
		year      int
		month     time.Month
		haveMonth bool
		seen      = make(map[time.Time]struct{})
		out       []time.Time
	)
	for _, t := range texts {
		if m := yearHeadingRe.FindStringSubmatch(t); m != nil {
			year, _ = strconv.Atoi(m[1])
			haveMonth = false
			continue
		}
		if year == 0 {
			continue
		}
		if m := monthRe.FindStringSubmatch(t); m != nil {
			month = monthAbbrev[m[1]]
			if m[2] != "" {
				month = monthAbbrev[m[2]]
			}
			haveMonth = true
			continue
		}
		if !haveMonth {
			continue
		}
		// The meeting days must immediately follow the month.
		haveMonth = false
		m := meetingDaysRe.FindStringSubmatch(t)
		if m == nil {
			continue
		}

		day, _ := strconv.Atoi(m[1])
		if m[2] != "" {
			day, _ = strconv.Atoi(m[2])
		}
		d := civil(year, month, day)
		if d.Month() != month || d.Day() != day {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	if len(out) == 0 {
		return nil, ErrNoMeetings
	}
	return out, nil
}

// textRuns returns the trimmed, non-empty text nodes of an HTML document in
// document order, skipping script and style content.
func textRuns(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)
	var (
		out  []string
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return out, nil
			}
			return nil, z.Err()
		case html.StartTagToken:
			if isRawTextTag(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextTag(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if s := strings.Join(strings.Fields(string(z.Text())), " "); s != "" {
				out = append(out, s)
			}
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
