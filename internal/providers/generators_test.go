package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocal/internal/config"
	"ecocal/internal/fred"
	"ecocal/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func yearWindow(year int) Window {
	return Window{
		Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestUSHolidays2026(t *testing.T) {
	events, err := NewUSHolidays().Events(context.Background(), yearWindow(2026))
	require.NoError(t, err)

	want := map[string]string{
		"New Year's Day":             "2026-01-01",
		"Martin Luther King Jr. Day": "2026-01-19",
		"Presidents' Day":            "2026-02-16",
		"Good Friday":                "2026-04-03",
		"Memorial Day":               "2026-05-25",
		"Juneteenth":                 "2026-06-19",
		"Independence Day":           "2026-07-03", // Jul 4 is a Saturday, observed Friday
		"Labor Day":                  "2026-09-07",
		"Thanksgiving Day":           "2026-11-26",
		"Christmas Day":              "2026-12-25",
	}

	require.Len(t, events, len(want))
	for _, e := range events {
		assert.Equal(t, want[e.Title], e.Date, e.Title)
		assert.Equal(t, domain.ImpactHoliday, e.Impact)
		assert.Equal(t, domain.CategoryHoliday, e.Category)
		assert.Equal(t, domain.TimeAllDay, e.Time)
	}
}

func TestUSHolidaysSundayObservance(t *testing.T) {
	// Jul 4, 2021 was a Sunday, observed Monday Jul 5.
	events, err := NewUSHolidays().Events(context.Background(), yearWindow(2021))
	require.NoError(t, err)

	var independence string
	for _, e := range events {
		if e.Title == "Independence Day" {
			independence = e.Date
		}
	}
	assert.Equal(t, "2021-07-05", independence)
}

func TestEnergyWeeklyCycle(t *testing.T) {
	window := Window{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	events, err := NewEnergy().Events(context.Background(), window)
	require.NoError(t, err)

	byTitle := map[string][]string{}
	for _, e := range events {
		byTitle[e.Title] = append(byTitle[e.Title], e.Date)
	}

	assert.Equal(t, []string{"2025-09-03", "2025-09-10", "2025-09-17", "2025-09-24"},
		byTitle["EIA Crude Oil Inventories"])
	assert.Equal(t, []string{"2025-09-02", "2025-09-09", "2025-09-16", "2025-09-23"},
		byTitle["API Weekly Statistical Bulletin"])
	assert.Equal(t, []string{"2025-09-04", "2025-09-11", "2025-09-18", "2025-09-25"},
		byTitle["EIA Natural Gas Storage"])
}

func TestEnergySkipsPreviewBeforeWindow(t *testing.T) {
	// Window opens on a Wednesday; the Tuesday preview falls outside.
	window := Window{
		Start: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
	}

	events, err := NewEnergy().Events(context.Background(), window)
	require.NoError(t, err)

	for _, e := range events {
		assert.NotEqual(t, "API Weekly Statistical Bulletin", e.Title)
	}
}

func TestLPRRollsWeekendForward(t *testing.T) {
	window := Window{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
	}

	events, err := NewLPR().Events(context.Background(), window)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Sep 20, 2025 is a Saturday, fixed Monday Sep 22; Oct 20 is a Monday.
	assert.Equal(t, "2025-09-22", events[0].Date)
	assert.Equal(t, "2025-10-20", events[1].Date)
	for _, e := range events {
		assert.Equal(t, "CNY", e.Currency)
		assert.Equal(t, "01:15", e.Time)
	}
}

func TestGeneratorWindowContainment(t *testing.T) {
	window := Window{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
	}

	generators := []Provider{NewUSHolidays(), NewEnergy(), NewLPR()}
	for _, p := range generators {
		events, err := p.Events(context.Background(), window)
		require.NoError(t, err, p.Name())
		for _, e := range events {
			assert.True(t, window.ContainsDate(e.Date),
				"%s event %q on %s escapes the window", p.Name(), e.Title, e.Date)
		}
	}
}

func fredTestClient(baseURL string) *fred.Client {
	return fred.NewClient(config.FredConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		RPS:        1000,
		Burst:      100,
	}, nil)
}

func TestFredScheduleExpandsEmploymentSituation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("release_id") == "50" {
			w.Write([]byte(`{"release_dates":[{"release_id":50,"date":"2025-09-05"}]}`))
			return
		}
		w.Write([]byte(`{"release_dates":[]}`))
	}))
	defer srv.Close()

	p := NewFredSchedule(fredTestClient(srv.URL), testLogger())

	events, err := p.Events(context.Background(), Window{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, events, 2, "one release date expands to both headline events")

	titles := []string{events[0].Title, events[1].Title}
	assert.ElementsMatch(t, []string{"Nonfarm Payrolls", "Unemployment Rate"}, titles)
	for _, e := range events {
		assert.Equal(t, "2025-09-05", e.Date)
		assert.Equal(t, domain.ImpactHigh, e.Impact)
	}
}

func TestFredScheduleToleratesPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("release_id") == "10" {
			w.Write([]byte(`{"release_dates":[{"release_id":10,"date":"2025-09-11"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewFredSchedule(fredTestClient(srv.URL), testLogger())

	events, err := p.Events(context.Background(), Window{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err, "a single failed release must not fail the provider")
	require.Len(t, events, 1)
	assert.Equal(t, "Consumer Price Index", events[0].Title)
}

func TestFredScheduleFailsWhenAllReleasesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewFredSchedule(fredTestClient(srv.URL), testLogger())

	_, err := p.Events(context.Background(), Window{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}
