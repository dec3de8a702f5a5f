package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecocal/pkg/contracts/domain"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{214, "214"},
		{214.004, "214"},
		{1.4, "1.4"},
		{1.36, "1.36"},
		{0, "0"},
		{-2.1, "-2.1"},
		{3.1, "3.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.value))
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+0.3%", formatSigned(0.3, "%"))
	assert.Equal(t, "-2.1M", formatSigned(-2.1, "M"))
	assert.Equal(t, "+0%", formatSigned(0, "%"))
}

func TestDeriveValuesLevel(t *testing.T) {
	mapping := domain.SeriesMapping{SeriesID: "ICSA", Meaning: domain.MeaningLevel, Unit: "K", Scale: 1000}
	obs := []domain.Observation{
		{Date: "2025-08-16", Value: 214000},
		{Date: "2025-08-09", Value: 221000},
		{Date: "2025-08-02", Value: 218000},
	}

	latest, prior := deriveValues(obs, mapping)
	assert.Equal(t, "214K", latest)
	assert.Equal(t, "221K", prior)
}

func TestDeriveValuesLevelSingleObservation(t *testing.T) {
	mapping := domain.SeriesMapping{SeriesID: "UNRATE", Meaning: domain.MeaningLevel, Unit: "%"}

	latest, prior := deriveValues([]domain.Observation{{Date: "2025-07-01", Value: 4.2}}, mapping)
	assert.Equal(t, "4.2%", latest)
	assert.Empty(t, prior, "prior needs a second observation")
}

func TestDeriveValuesPctChange(t *testing.T) {
	mapping := domain.SeriesMapping{SeriesID: "CPIAUCSL", Meaning: domain.MeaningPctChange, Unit: "%"}
	obs := []domain.Observation{
		{Date: "2025-07-01", Value: 322.132},
		{Date: "2025-06-01", Value: 321.500},
		{Date: "2025-05-01", Value: 320.580},
	}

	latest, prior := deriveValues(obs, mapping)
	assert.Equal(t, "+0.2%", latest)
	assert.Equal(t, "+0.3%", prior)
}

func TestDeriveValuesPctChangeNeedsTwoObservations(t *testing.T) {
	mapping := domain.SeriesMapping{Meaning: domain.MeaningPctChange, Unit: "%"}

	latest, prior := deriveValues([]domain.Observation{{Date: "2025-07-01", Value: 100}}, mapping)
	assert.Empty(t, latest)
	assert.Empty(t, prior)
}

func TestDeriveValuesChange(t *testing.T) {
	mapping := domain.SeriesMapping{SeriesID: "PAYEMS", Meaning: domain.MeaningChange, Unit: "K", Scale: 1}
	obs := []domain.Observation{
		{Date: "2025-07-01", Value: 159539},
		{Date: "2025-06-01", Value: 159466},
		{Date: "2025-05-01", Value: 159452},
	}

	latest, prior := deriveValues(obs, mapping)
	assert.Equal(t, "+73K", latest)
	assert.Equal(t, "+14K", prior)
}

func TestDeriveValuesChangeNegative(t *testing.T) {
	mapping := domain.SeriesMapping{SeriesID: "WCESTUS1", Meaning: domain.MeaningChange, Unit: "M", Scale: 1000}
	obs := []domain.Observation{
		{Date: "2025-08-15", Value: 420500},
		{Date: "2025-08-08", Value: 426500},
	}

	latest, prior := deriveValues(obs, mapping)
	assert.Equal(t, "-6M", latest)
	assert.Empty(t, prior, "prior change needs a third observation")
}

func TestRound1(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{0.25, 0.3},
		{-0.25, -0.3},
		{0.24, 0.2},
		{-0.24, -0.2},
		{1.0, 1.0},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, round1(tt.value), 1e-9, "round1(%v)", tt.value)
	}
}

func TestPctChangeZeroDenominator(t *testing.T) {
	_, ok := pctChange(5, 0)
	assert.False(t, ok)
}

func TestPctChangeNegativeBase(t *testing.T) {
	// A move from -100 to -99 is an increase; the magnitude
	// denominator keeps the sign pointing up.
	pct, ok := pctChange(-99, -100)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, pct, 1e-9)
}
