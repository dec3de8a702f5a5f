package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocal/internal/providers"
	"ecocal/pkg/contracts/domain"
)

// fakeProvider emits canned events, fails, or panics on demand.
type fakeProvider struct {
	name   string
	events []domain.ReleaseEvent
	err    error
	panics bool
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Events(context.Context, providers.Window) ([]domain.ReleaseEvent, error) {
	if p.panics {
		panic("provider exploded")
	}
	return p.events, p.err
}

// recordingEnricher notes what it was asked to enrich.
type recordingEnricher struct {
	called bool
	count  int
}

func (e *recordingEnricher) Enrich(_ context.Context, events []domain.ReleaseEvent) []domain.ReleaseEvent {
	e.called = true
	e.count = len(events)
	return events
}

func testWindow(t *testing.T) providers.Window {
	t.Helper()
	return providers.Window{
		Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}
}

func newRegistry(t *testing.T, ps ...providers.Provider) *providers.Registry {
	t.Helper()
	reg := providers.NewRegistry()
	for _, p := range ps {
		require.NoError(t, reg.Register(p))
	}
	return reg
}

func TestRunMergesAllProviders(t *testing.T) {
	reg := newRegistry(t,
		&fakeProvider{name: "fomc", events: []domain.ReleaseEvent{
			event("2025-09-17", "19:00", "FOMC Rate Decision", ""),
		}},
		&fakeProvider{name: "holidays", events: []domain.ReleaseEvent{
			event("2025-09-01", domain.TimeAllDay, "Labor Day", ""),
		}},
	)
	enricher := &recordingEnricher{}
	runner := NewRunner(reg, enricher, 2, nil, nil)

	snap, err := runner.Run(context.Background(), Options{Window: testWindow(t)})
	require.NoError(t, err)

	require.Len(t, snap.Events, 2)
	assert.Equal(t, []string{"fomc", "holidays"}, snap.Sources)
	assert.True(t, snap.DataIncluded)
	assert.True(t, enricher.called)
	assert.Equal(t, domain.SnapshotVersion, snap.Version)

	// Provenance was tagged from the provider name.
	for _, e := range snap.Events {
		assert.NotEmpty(t, e.Source)
	}
}

func TestRunIsolatesFailingProvider(t *testing.T) {
	reg := newRegistry(t,
		&fakeProvider{name: "fred", err: errors.New("upstream down")},
		&fakeProvider{name: "holidays", events: []domain.ReleaseEvent{
			event("2025-09-01", domain.TimeAllDay, "Labor Day", ""),
		}},
	)
	runner := NewRunner(reg, nil, 2, nil, nil)

	snap, err := runner.Run(context.Background(), Options{Window: testWindow(t), SkipEnrichment: true})
	require.NoError(t, err, "one provider failing must not fail the run")

	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Labor Day", snap.Events[0].Title)
	assert.Equal(t, []string{"holidays"}, snap.Sources, "failed provider contributes no source")
}

func TestRunIsolatesPanickingProvider(t *testing.T) {
	reg := newRegistry(t,
		&fakeProvider{name: "bad", panics: true},
		&fakeProvider{name: "holidays", events: []domain.ReleaseEvent{
			event("2025-09-01", domain.TimeAllDay, "Labor Day", ""),
		}},
	)
	runner := NewRunner(reg, nil, 2, nil, nil)

	snap, err := runner.Run(context.Background(), Options{Window: testWindow(t), SkipEnrichment: true})
	require.NoError(t, err)
	require.Len(t, snap.Events, 1)
}

func TestRunSingleProviderFilter(t *testing.T) {
	reg := newRegistry(t,
		&fakeProvider{name: "fomc", events: []domain.ReleaseEvent{
			event("2025-09-17", "19:00", "FOMC Rate Decision", ""),
		}},
		&fakeProvider{name: "holidays", events: []domain.ReleaseEvent{
			event("2025-09-01", domain.TimeAllDay, "Labor Day", ""),
		}},
	)
	runner := NewRunner(reg, nil, 2, nil, nil)

	snap, err := runner.Run(context.Background(), Options{
		Window:         testWindow(t),
		Provider:       "holidays",
		SkipEnrichment: true,
	})
	require.NoError(t, err)

	require.Len(t, snap.Events, 1)
	assert.Equal(t, "Labor Day", snap.Events[0].Title)
}

func TestRunUnknownProviderFails(t *testing.T) {
	runner := NewRunner(newRegistry(t), nil, 1, nil, nil)

	_, err := runner.Run(context.Background(), Options{Window: testWindow(t), Provider: "nope"})
	assert.Error(t, err)
}

func TestRunSkipEnrichment(t *testing.T) {
	reg := newRegistry(t, &fakeProvider{name: "holidays", events: []domain.ReleaseEvent{
		event("2025-09-01", domain.TimeAllDay, "Labor Day", ""),
	}})
	enricher := &recordingEnricher{}
	runner := NewRunner(reg, enricher, 1, nil, nil)

	snap, err := runner.Run(context.Background(), Options{Window: testWindow(t), SkipEnrichment: true})
	require.NoError(t, err)

	assert.False(t, enricher.called)
	assert.False(t, snap.DataIncluded)
}

func TestRunDedupPriorityFollowsRegistrationOrder(t *testing.T) {
	dup := event("2025-09-11", "13:30", "Consumer Price Index", "")
	reg := newRegistry(t,
		&fakeProvider{name: "first", events: []domain.ReleaseEvent{dup}},
		&fakeProvider{name: "second", events: []domain.ReleaseEvent{dup}},
	)
	runner := NewRunner(reg, nil, 2, nil, nil)

	snap, err := runner.Run(context.Background(), Options{Window: testWindow(t), SkipEnrichment: true})
	require.NoError(t, err)

	require.Len(t, snap.Events, 1)
	assert.Equal(t, "first", snap.Events[0].Source)
}
