package sources

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"EconPull/internal/domain/models"
)

// clock is a local wall-clock release time.
type clock struct {
	hour, minute int
}

// release is the static description of one release type.
type release struct {
	title      string
	impact     models.Impact
	category   models.Category
	frequency  string
	about      string
	why        string
	reaction   *models.TypicalReaction
	assets     []string
	volatility string
	at         clock
}

// institution carries the fields shared by every event of one source.
type institution struct {
	source   string
	currency string
	country  string
	url      string
	zone     string
}

func mustZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("sources: load zone %s: %v", name, err))
	}
	return loc
}

// emitter converts local release dates into UTC events, applying the window
// and the per-source (date, title) uniqueness.
type emitter struct {
	inst     institution
	loc      *time.Location
	ref      time.Time
	window   Window
	seen     map[string]struct{}
	events   []models.EconomicEvent
	warnings []string
}

func newEmitter(inst institution, ref time.Time, window Window) *emitter {
	return &emitter{
		inst:   inst,
		loc:    mustZone(inst.zone),
		ref:    ref,
		window: window,
		seen:   make(map[string]struct{}),
	}
}

// instant returns the UTC instant of a release on a local civil date.
func (e *emitter) instant(day time.Time, c clock) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, e.loc).UTC()
}

// emit adds r on the local civil date day if it falls inside the window.
// It reports whether the event was kept.
func (e *emitter) emit(r release, day time.Time) bool {
	return e.emitIn(r, day, e.window)
}

func (e *emitter) emitIn(r release, day time.Time, w Window) bool {
	at := e.instant(day, r.at)
	if !w.Contains(e.ref, at) {
		return false
	}

	ev := models.EconomicEvent{
		Date:                 at.Format(models.DateLayout),
		Time:                 at.Format(models.TimeLayout),
		Currency:             e.inst.currency,
		Title:                r.title,
		Impact:               r.impact,
		Category:             r.category,
		Country:              e.inst.country,
		Source:               e.inst.source,
		SourceURL:            e.inst.url,
		Description:          r.about,
		WhyItMatters:         r.why,
		Frequency:            r.frequency,
		TypicalReaction:      r.reaction,
		HistoricalVolatility: r.volatility,
	}
	if len(r.assets) > 0 {
		ev.RelatedAssets = append([]string(nil), r.assets...)
	}

	key := ev.Key()
	if _, dup := e.seen[key]; dup {
		return false
	}
	e.seen[key] = struct{}{}
	e.events = append(e.events, ev)
	return true
}

func (e *emitter) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// checkTable warns when the reference instant has passed the final table entry.
func (e *emitter) checkTable(name string, last time.Time) {
	if last.IsZero() {
		return
	}
	if e.ref.After(e.instant(last, clock{23, 59})) {
		e.warnf("%s table exhausted after %s", name, last.Format(models.DateLayout))
	}
}

// checkMonthTable warns when the window reaches months the table does not cover.
func (e *emitter) checkMonthTable(name string, t monthTable) {
	last := t.lastMonth()
	to, ok := e.window.To(e.ref)
	if !ok {
		to = e.ref
	}
	if to.Format("2006-01") > last {
		e.warnf("%s table ends at %s, using rule fallback", name, last)
	}
}

func (e *emitter) result() models.SourceResult {
	return models.SourceResult{
		Source:   e.inst.source,
		Events:   e.events,
		Warnings: e.warnings,
	}
}

// merge appends another emitter's output, keeping per-source uniqueness.
func merge(source string, parts ...*emitter) models.SourceResult {
	res := models.SourceResult{Source: source}
	seen := make(map[string]struct{})
	for _, p := range parts {
		for _, ev := range p.events {
			k := ev.Source + "|" + ev.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			res.Events = append(res.Events, ev)
		}
		res.Warnings = append(res.Warnings, p.warnings...)
	}
	return res
}
