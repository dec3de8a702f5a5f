package domain

import (
	"fmt"
	"time"
)

// Layouts for the string-typed date and time fields carried on calendar
// events. Dates and times are always UTC.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Sentinel values for ReleaseEvent.Time when a release has no fixed
// clock time.
const (
	TimeAllDay    = "All Day"
	TimeTentative = "Tentative"
)

// Impact is the editorial classification of expected market-moving
// significance.
type Impact string

const (
	ImpactHigh    Impact = "high"
	ImpactMedium  Impact = "medium"
	ImpactLow     Impact = "low"
	ImpactHoliday Impact = "holiday"
)

// IsValid reports whether the impact is one of the known values.
func (i Impact) IsValid() bool {
	switch i {
	case ImpactHigh, ImpactMedium, ImpactLow, ImpactHoliday:
		return true
	}
	return false
}

// Category is the coarse topical bucket an event belongs to.
type Category string

const (
	CategoryEmployment    Category = "employment"
	CategoryInflation     Category = "inflation"
	CategoryGrowth        Category = "growth"
	CategoryCentralBank   Category = "central_bank"
	CategoryEnergy        Category = "energy"
	CategoryHousing       Category = "housing"
	CategoryTrade         Category = "trade"
	CategorySentiment     Category = "sentiment"
	CategoryManufacturing Category = "manufacturing"
	CategoryServices      Category = "services"
	CategoryBonds         Category = "bonds"
	CategoryFiscal        Category = "fiscal"
	CategoryHoliday       Category = "holiday"
	CategoryOther         Category = "other"
)

// ReleaseEvent is the canonical unit of the calendar: one scheduled
// publication of an economic indicator, policy decision or market
// holiday. Field names follow the published snapshot wire contract
// (camelCase), which downstream dashboards consume directly.
type ReleaseEvent struct {
	// ID is a stable slug derived from the title at ingestion time.
	// The title remains the human-readable display label.
	ID       string   `json:"id,omitempty"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string   `json:"time,omitempty"`
	Title    string   `json:"title" validate:"required"`
	Impact   Impact   `json:"impact" validate:"required,oneof=high medium low holiday"`
	Category Category `json:"category,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Country  string   `json:"country,omitempty"`

	// Provenance: the provider that produced the event and a reference
	// link for the underlying source.
	Source    string `json:"source" validate:"required"`
	SourceURL string `json:"sourceUrl,omitempty"`

	// Descriptive metadata attached during normalization when the
	// provider did not supply it.
	Description string `json:"description,omitempty"`

	// String-formatted, unit-decorated values (e.g. "+3.1%", "214K").
	// Actual is only populated once the scheduled instant has passed.
	Forecast string `json:"forecast,omitempty"`
	Previous string `json:"previous,omitempty"`
	Actual   string `json:"actual,omitempty"`

	// Raw two-observation comparison attached by the enrichment
	// service for events with a series mapping.
	SeriesID    string `json:"seriesId,omitempty"`
	LatestValue string `json:"latestValue,omitempty"`
	PriorValue  string `json:"priorValue,omitempty"`
	LatestDate  string `json:"latestDate,omitempty"`
	PriorDate   string `json:"priorDate,omitempty"`
}

// Key returns the deduplication key for the event. The published
// snapshot holds exactly one event per key.
func (e ReleaseEvent) Key() string {
	return e.Date + "|" + e.Title
}

// SortTime returns the time used for ordering events within a day.
// Events without a parseable clock time sort by the raw sentinel string,
// so "All Day" entries group after timed entries.
func (e ReleaseEvent) SortTime() string {
	if e.Time == "" {
		return "00:00"
	}
	return e.Time
}

// ScheduledAt resolves the event's scheduled instant in UTC. Sentinel
// times ("All Day", "Tentative") resolve to the end of the calendar day
// so that data attribution only flips to "released" once the whole day
// has elapsed.
func (e ReleaseEvent) ScheduledAt() (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, e.Date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse event date %q: %w", e.Date, err)
	}
	if e.Time == "" || e.Time == TimeAllDay || e.Time == TimeTentative {
		return day.Add(24*time.Hour - time.Second), nil
	}
	clock, err := time.Parse(TimeLayout, e.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse event time %q: %w", e.Time, err)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// HasPassed reports whether the event's scheduled instant is at or
// before now. Events with unparseable dates are treated as not passed.
func (e ReleaseEvent) HasPassed(now time.Time) bool {
	at, err := e.ScheduledAt()
	if err != nil {
		return false
	}
	return !at.After(now)
}
