package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "EconPull/pkg/http"
	"EconPull/pkg/logger"
)

const fomcFixture = `<!DOCTYPE html>
<html>
<head><title>Meeting calendars</title>
<script>var legacy = "2019 FOMC Meetings";</script>
<style>.fomc-meeting__date { font-weight: bold; }</style>
</head>
<body>
<h4><a id="2025">2025 FOMC Meetings</a></h4>
<div class="row fomc-meeting">
  <div class="fomc-meeting__month"><strong>January</strong></div>
  <div class="fomc-meeting__date">28-29</div>
</div>
<div class="row fomc-meeting">
  <div class="fomc-meeting__month"><strong>March</strong></div>
  <div class="fomc-meeting__date">18-19*</div>
</div>
<div class="row fomc-meeting">
  <div class="fomc-meeting__month"><strong>April/May</strong></div>
  <div class="fomc-meeting__date">30-1</div>
</div>
<div class="row fomc-meeting">
  <div class="fomc-meeting__month"><strong>June</strong></div>
  <div class="fomc-meeting__date">17-18*</div>
  <div>Press Conference</div>
</div>
<div class="row fomc-meeting">
  <div class="fomc-meeting__month"><strong>June</strong></div>
  <div class="fomc-meeting__date">17-18*</div>
</div>
<h4><a id="2026">2026 FOMC Meetings</a></h4>
<div class="row fomc-meeting">
  <div class="fomc-meeting__month"><strong>January</strong></div>
  <div class="fomc-meeting__date">27-28</div>
</div>
<p>* Meeting associated with a Summary of Economic Projections.</p>
</body>
</html>`

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func TestParseFOMCCalendar(t *testing.T) {
	got, err := ParseFOMCCalendar(strings.NewReader(fomcFixture))
	require.NoError(t, err)

	var dates []string
	for _, d := range got {
		dates = append(dates, d.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2025-01-29", "2025-03-19", "2025-05-01", "2025-06-18", "2026-01-28"}, dates)
}

func TestParseFOMCCalendarNoMeetings(t *testing.T) {
	_, err := ParseFOMCCalendar(strings.NewReader("<html><body><h1>Maintenance</h1><p>May 12</p></body></html>"))
	assert.ErrorIs(t, err, ErrNoMeetings)
}

func TestFedGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(fomcFixture))
	}))
	defer srv.Close()

	g := NewFed(pkghttp.NewClient(), testLogger(t), WithCalendarURL(srv.URL))
	ref := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)

	res := g.Generate(context.Background(), ref)
	require.NoError(t, res.Err)
	assert.Equal(t, "fed", res.Source)
	assert.Len(t, res.Events, 9)

	dec := findEvent(t, res.Events, "FOMC Interest Rate Decision", "2025-05-01")
	assert.Equal(t, "18:00", dec.Time)
	assert.Equal(t, srv.URL, dec.SourceURL)
	press := findEvent(t, res.Events, "FOMC Press Conference", "2025-05-01")
	assert.Equal(t, "18:30", press.Time)
	findEvent(t, res.Events, "FOMC Meeting Minutes", "2025-05-22")

	for _, e := range res.Events {
		assert.False(t, e.Date < "2025-04-13", "meeting older than a week: %s", e.Date)
	}

	again := g.Generate(context.Background(), ref)
	assert.Equal(t, res.Events, again.Events)
}

func TestFedSoftFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := NewFed(pkghttp.NewClient(), testLogger(t), WithCalendarURL(srv.URL)).
		Generate(context.Background(), time.Now())
	assert.Error(t, res.Err)
	assert.Empty(t, res.Events)
}

func TestFedSoftFailsOnMalformedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>redesigned</body></html>"))
	}))
	defer srv.Close()

	res := NewFed(pkghttp.NewClient(), nil, WithCalendarURL(srv.URL)).
		Generate(context.Background(), time.Now())
	assert.ErrorIs(t, res.Err, ErrNoMeetings)
	assert.Empty(t, res.Events)
}

func TestFedSoftFailsOnTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := NewFed(pkghttp.NewClient(), testLogger(t),
		WithCalendarURL(srv.URL),
		WithFetchTimeout(50*time.Millisecond),
	)

	start := time.Now()
	res := g.Generate(context.Background(), time.Now())
	assert.Error(t, res.Err)
	assert.Empty(t, res.Events)
	assert.Less(t, time.Since(start), 5*time.Second)
}
