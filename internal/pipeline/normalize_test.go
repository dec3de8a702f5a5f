package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocal/pkg/contracts/domain"
)

func event(date, clock, title, source string) domain.ReleaseEvent {
	return domain.ReleaseEvent{
		Date:   date,
		Time:   clock,
		Title:  title,
		Impact: domain.ImpactMedium,
		Source: source,
	}
}

func TestNormalizeSortsByDateThenTime(t *testing.T) {
	out := Normalize([]domain.ReleaseEvent{
		event("2025-09-05", "13:30", "Nonfarm Payrolls", "fred"),
		event("2025-09-01", domain.TimeAllDay, "Labor Day", "holidays"),
		event("2025-09-04", "13:30", "Initial Jobless Claims", "fred"),
		event("2025-09-04", "12:00", "BOE Rate Decision", "boe"),
	})

	require.Len(t, out, 4)
	assert.Equal(t, "Labor Day", out[0].Title)
	assert.Equal(t, "BOE Rate Decision", out[1].Title)
	assert.Equal(t, "Initial Jobless Claims", out[2].Title)
	assert.Equal(t, "Nonfarm Payrolls", out[3].Title)
}

func TestNormalizeDeduplicatesKeepingFirst(t *testing.T) {
	// Two providers emit the same (date, title); the earlier one in
	// concatenation order wins, regardless of event times.
	out := Normalize([]domain.ReleaseEvent{
		event("2025-09-11", "13:30", "Consumer Price Index", "fred"),
		event("2025-09-11", "12:30", "Consumer Price Index", "api"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, "fred", out[0].Source)
	assert.Equal(t, "13:30", out[0].Time)
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize([]domain.ReleaseEvent{
		event("2025-09-05", "13:30", "Nonfarm Payrolls", "fred"),
		event("2025-09-01", domain.TimeAllDay, "Labor Day", "holidays"),
		event("2025-09-17", "19:00", "FOMC Rate Decision", "fomc"),
	})

	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestNormalizeAttachesMetadata(t *testing.T) {
	out := Normalize([]domain.ReleaseEvent{
		event("2025-09-04", "13:30", "Initial Jobless Claims", "fred"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, "initial-jobless-claims", out[0].ID)
	assert.Equal(t, domain.CategoryEmployment, out[0].Category)
	assert.NotEmpty(t, out[0].Description)
}

func TestNormalizeProviderFieldsWin(t *testing.T) {
	in := event("2025-09-04", "13:30", "Initial Jobless Claims", "fred")
	in.Category = domain.CategoryOther
	in.Description = "provider supplied"
	in.ID = "custom-id"

	out := Normalize([]domain.ReleaseEvent{in})

	require.Len(t, out, 1)
	assert.Equal(t, "custom-id", out[0].ID)
	assert.Equal(t, domain.CategoryOther, out[0].Category)
	assert.Equal(t, "provider supplied", out[0].Description)
}

func TestNormalizeDefaultsInvalidImpact(t *testing.T) {
	in := event("2025-09-04", "13:30", "Some Regional Survey", "api")
	in.Impact = ""

	out := Normalize([]domain.ReleaseEvent{in})

	require.Len(t, out, 1)
	assert.Equal(t, domain.ImpactLow, out[0].Impact)
}
