package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocal/internal/config"
	"ecocal/pkg/contracts/domain"
)

func writeSnapshot(t *testing.T, dir string, snap *domain.Snapshot) {
	t.Helper()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "calendar.json"), data, 0o644))
}

func sampleSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		LastUpdated:  time.Date(2025, 8, 29, 6, 0, 0, 0, time.UTC),
		Version:      domain.SnapshotVersion,
		Sources:      []string{"holidays"},
		DataIncluded: false,
		Events: []domain.ReleaseEvent{
			{
				ID: "labor-day", Date: "2025-09-01", Time: domain.TimeAllDay,
				Title: "Labor Day", Impact: domain.ImpactHoliday,
				Category: domain.CategoryHoliday, Source: "holidays",
			},
			{
				ID: "fomc-rate-decision", Date: "2025-09-17", Time: "19:00",
				Title: "FOMC Rate Decision", Impact: domain.ImpactHigh,
				Category: domain.CategoryCentralBank, Source: "fomc",
			},
		},
	}
}

func newService(t *testing.T, dirs ...string) *CalendarService {
	t.Helper()
	return NewCalendarService(config.OutputsConfig{
		Destinations: dirs,
		SnapshotFile: "calendar.json",
	}, nil)
}

func TestSnapshotUnavailable(t *testing.T) {
	svc := newService(t, t.TempDir())

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)
}

func TestSnapshotLoads(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, sampleSnapshot())
	svc := newService(t, dir)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Events, 2)
	assert.Equal(t, domain.SnapshotVersion, snap.Version)
}

func TestSnapshotCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, sampleSnapshot())
	svc := newService(t, dir)

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	again, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again, "unchanged file served from cache")

	// Rewrite with a different event count and a newer mod time.
	updated := sampleSnapshot()
	updated.Events = updated.Events[:1]
	writeSnapshot(t, dir, updated)
	newTime := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "calendar.json"), newTime, newTime))

	reloaded, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, reloaded.Events, 1)
}

func TestEventsFilter(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, sampleSnapshot())
	svc := newService(t, dir)

	events, err := svc.Events(context.Background(), domain.EventFilter{Impact: domain.ImpactHigh})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "FOMC Rate Decision", events[0].Title)

	events, err = svc.Events(context.Background(), domain.EventFilter{From: "2025-09-02"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "FOMC Rate Decision", events[0].Title)
}

func TestHealthDegradedWithoutSnapshot(t *testing.T) {
	health := NewHealthService(newService(t, t.TempDir()))

	status := health.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Zero(t, status.EventCount)
}

func TestHealthHealthyWithSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, sampleSnapshot())
	health := NewHealthService(newService(t, dir))

	status := health.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 2, status.EventCount)
	require.NotNil(t, status.LastUpdated)
}
