package enrich

import (
	"fmt"
	"math"
	"strings"

	"ecocal/pkg/contracts/domain"
)

// formatNumber renders a scaled observation with up to two decimal
// places, trimming trailing zeros so "214.00" displays as "214" and
// "1.40" as "1.4".
func formatNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// formatSigned renders a signed delta with an explicit leading "+" for
// non-negative values, matching the convention of published headline
// figures ("+0.3%", "-2.1M").
func formatSigned(v float64, unit string) string {
	if v >= 0 {
		return "+" + formatNumber(v) + unit
	}
	return formatNumber(v) + unit
}

// scaled divides a raw observation by the mapping's scale. A zero
// scale means the series is already stored in display units.
func scaled(v float64, m domain.SeriesMapping) float64 {
	if m.Scale == 0 || m.Scale == 1 {
		return v
	}
	return v / m.Scale
}

// formatLevel renders a raw observation as a display value per the
// mapping's unit and scale.
func formatLevel(v float64, m domain.SeriesMapping) string {
	return formatNumber(scaled(v, m)) + m.Unit
}

// pctChange computes the percentage change from prev to cur. The
// denominator uses the magnitude of prev so the sign always reflects
// the direction of the move.
func pctChange(cur, prev float64) (float64, bool) {
	if prev == 0 {
		return 0, false
	}
	denom := prev
	if denom < 0 {
		denom = -denom
	}
	return (cur - prev) / denom * 100, true
}

// deriveValues turns the most recent observations of a series into the
// formatted (latest, prior) display pair per the mapping's meaning.
// Observations arrive newest first. An empty string means the value
// could not be derived from the available observations.
func deriveValues(obs []domain.Observation, m domain.SeriesMapping) (latest, prior string) {
	switch m.Meaning {
	case domain.MeaningLevel:
		if len(obs) > 0 {
			latest = formatLevel(obs[0].Value, m)
		}
		if len(obs) > 1 {
			prior = formatLevel(obs[1].Value, m)
		}

	case domain.MeaningPctChange:
		if len(obs) > 1 {
			if pct, ok := pctChange(obs[0].Value, obs[1].Value); ok {
				latest = formatSigned(round1(pct), "%")
			}
		}
		if len(obs) > 2 {
			if pct, ok := pctChange(obs[1].Value, obs[2].Value); ok {
				prior = formatSigned(round1(pct), "%")
			}
		}

	case domain.MeaningChange:
		if len(obs) > 1 {
			latest = formatSigned(scaled(obs[0].Value-obs[1].Value, m), m.Unit)
		}
		if len(obs) > 2 {
			prior = formatSigned(scaled(obs[1].Value-obs[2].Value, m), m.Unit)
		}
	}

	return latest, prior
}

// round1 rounds to one decimal place. Percentage changes are published
// at headline precision, not raw float precision.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
