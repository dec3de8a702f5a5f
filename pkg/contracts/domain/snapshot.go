package domain

import "time"

// SnapshotVersion is the wire-contract version stamped on every
// published snapshot. Bump only on breaking shape changes.
const SnapshotVersion = "3.0"

// Snapshot is the versioned document published after every collection
// run: the full normalized event list plus run provenance.
type Snapshot struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`

	// Sources lists the providers that contributed at least one event
	// to this snapshot, in provider registration order.
	Sources []string `json:"sources"`

	// DataIncluded records whether enrichment ran for this snapshot.
	// DataRefreshedAt is set by quick refreshes that re-fetch
	// observations without rebuilding the event list.
	DataIncluded    bool       `json:"dataIncluded"`
	DataRefreshedAt *time.Time `json:"dataRefreshedAt,omitempty"`

	Events []ReleaseEvent `json:"events"`
}

// EventFilter selects a subset of snapshot events. Zero-valued fields
// match everything.
type EventFilter struct {
	From     string
	To       string
	Impact   Impact
	Category Category
}

// Matches reports whether the event satisfies every populated filter
// field. Date bounds are inclusive; the YYYY-MM-DD layout makes plain
// string comparison equivalent to chronological comparison.
func (f EventFilter) Matches(e ReleaseEvent) bool {
	if f.From != "" && e.Date < f.From {
		return false
	}
	if f.To != "" && e.Date > f.To {
		return false
	}
	if f.Impact != "" && e.Impact != f.Impact {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	return true
}

// Filter returns the events matching f, preserving snapshot order.
func (s *Snapshot) Filter(f EventFilter) []ReleaseEvent {
	out := make([]ReleaseEvent, 0, len(s.Events))
	for _, e := range s.Events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
