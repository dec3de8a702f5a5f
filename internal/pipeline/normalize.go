package pipeline

import (
	"sort"

	"ecocal/internal/indicators"
	"ecocal/pkg/contracts/domain"
)

// Normalize finishes raw provider output into the published event
// list: metadata is attached where providers left gaps, duplicates are
// dropped and the result is sorted by (date, time). Events must arrive
// concatenated in provider registration order; the first provider to
// emit a (date, title) pair wins the deduplication.
func Normalize(events []domain.ReleaseEvent) []domain.ReleaseEvent {
	out := make([]domain.ReleaseEvent, 0, len(events))
	seen := make(map[string]bool, len(events))

	for _, e := range events {
		finish(&e)
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].SortTime() < out[j].SortTime()
	})

	return out
}

// finish fills the fields a provider may legitimately leave empty.
// Provider-supplied values always win.
func finish(e *domain.ReleaseEvent) {
	if e.ID == "" {
		e.ID = indicators.Slug(e.Title)
	}
	if e.Category == "" {
		e.Category = indicators.Classify(e.Title)
	}
	if !e.Impact.IsValid() {
		e.Impact = domain.ImpactLow
	}
	if e.Description == "" {
		e.Description = indicators.Describe(e.Title).Description
	}
}
