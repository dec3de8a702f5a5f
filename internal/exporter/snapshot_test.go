package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocal/internal/config"
	"ecocal/pkg/contracts/domain"
)

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		LastUpdated:  time.Date(2025, 8, 29, 6, 0, 0, 0, time.UTC),
		Version:      domain.SnapshotVersion,
		Sources:      []string{"fomc", "holidays"},
		DataIncluded: true,
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
				Currency: "USD", Country: "US",
			},
		},
	}
}

func newPublisher(t *testing.T, destinations ...string) *Publisher {
	t.Helper()
	return NewPublisher(config.OutputsConfig{
		Destinations: destinations,
		SnapshotFile: "calendar.json",
		ICSFile:      "calendar.ics",
		ExcelFile:    "calendar.xlsx",
	}, nil)
}

func TestPublishAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := newPublisher(t, dir)

	snap := testSnapshot()
	require.NoError(t, p.Publish(context.Background(), snap))

	loaded, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.Version, loaded.Version)
	assert.Equal(t, snap.Sources, loaded.Sources)
	assert.Equal(t, snap.Events, loaded.Events)
	assert.True(t, snap.LastUpdated.Equal(loaded.LastUpdated))
}

func TestPublishSkipsMissingDestination(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")
	p := newPublisher(t, missing, dir)

	require.NoError(t, p.Publish(context.Background(), testSnapshot()))

	_, err := os.Stat(filepath.Join(dir, "calendar.json"))
	assert.NoError(t, err, "existing destination still written")
	_, err = os.Stat(filepath.Join(missing, "calendar.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestPublishFailsWhenNoDestinationWritable(t *testing.T) {
	p := newPublisher(t, "/nonexistent/a", "/nonexistent/b")

	err := p.Publish(context.Background(), testSnapshot())
	assert.Error(t, err)
}

func TestPublishWritesToAllDestinations(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	p := newPublisher(t, a, b)

	require.NoError(t, p.Publish(context.Background(), testSnapshot()))

	for _, dir := range []string{a, b} {
		_, err := os.Stat(filepath.Join(dir, "calendar.json"))
		assert.NoError(t, err)
	}
}

func TestLoadNoSnapshot(t *testing.T) {
	p := newPublisher(t, t.TempDir())

	_, err := p.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadPrefersFirstDestination(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()

	first := newPublisher(t, a)
	snapA := testSnapshot()
	snapA.Sources = []string{"only-a"}
	require.NoError(t, first.Publish(context.Background(), snapA))

	second := newPublisher(t, b)
	snapB := testSnapshot()
	snapB.Sources = []string{"only-b"}
	require.NoError(t, second.Publish(context.Background(), snapB))

	both := newPublisher(t, a, b)
	loaded, err := both.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"only-a"}, loaded.Sources)
}

func TestPublishWritesICS(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(config.OutputsConfig{
		Destinations: []string{dir},
		SnapshotFile: "calendar.json",
		ICSFile:      "calendar.ics",
		WriteICS:     true,
	}, nil)

	require.NoError(t, p.Publish(context.Background(), testSnapshot()))

	data, err := os.ReadFile(filepath.Join(dir, "calendar.ics"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "BEGIN:VCALENDAR")
	assert.Contains(t, content, "SUMMARY:FOMC Rate Decision")
	assert.Contains(t, content, "SUMMARY:Labor Day")
}

func TestPublishWritesExcel(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(config.OutputsConfig{
		Destinations: []string{dir},
		SnapshotFile: "calendar.json",
		ExcelFile:    "calendar.xlsx",
		WriteExcel:   true,
	}, nil)

	require.NoError(t, p.Publish(context.Background(), testSnapshot()))

	_, err := os.Stat(filepath.Join(dir, "calendar.xlsx"))
	assert.NoError(t, err)
}
