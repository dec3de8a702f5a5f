// Package services holds the read-side service layer of the calendar
// server. The engine publishes snapshots as files; these services load
// them for HTTP consumers with a modification-time cache so repeated
// requests do not re-read or re-parse an unchanged snapshot.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ecocal/internal/config"
	"ecocal/pkg/contracts/domain"
)

// ErrSnapshotUnavailable is returned when no published snapshot exists
// at any configured destination.
var ErrSnapshotUnavailable = errors.New("services: no snapshot published yet")

// CalendarService serves the published snapshot to HTTP handlers.
type CalendarService struct {
	outputs config.OutputsConfig
	logger  *slog.Logger

	mu      sync.RWMutex
	cached  *domain.Snapshot
	path    string
	modTime time.Time
}

// NewCalendarService creates a calendar read service over the
// configured output destinations.
func NewCalendarService(outputs config.OutputsConfig, logger *slog.Logger) *CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarService{outputs: outputs, logger: logger}
}

// Snapshot returns the most recently published snapshot, reloading
// from disk only when the file changed since the last read.
func (s *CalendarService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	path, info, err := s.locate()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.cached != nil && s.path == path && s.modTime.Equal(info.ModTime()) {
		snap := s.cached
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}

	s.mu.Lock()
	s.cached = &snap
	s.path = path
	s.modTime = info.ModTime()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "snapshot_loaded",
		slog.String("path", path),
		slog.Int("event_count", len(snap.Events)))

	return &snap, nil
}

// Events returns the snapshot events matching the filter, in snapshot
// order.
func (s *CalendarService) Events(ctx context.Context, filter domain.EventFilter) ([]domain.ReleaseEvent, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Filter(filter), nil
}

// locate finds the snapshot file at the first destination that has
// one.
func (s *CalendarService) locate() (string, os.FileInfo, error) {
	for _, dest := range s.outputs.Destinations {
		path := filepath.Join(dest, s.outputs.SnapshotFile)
		info, err := os.Stat(path)
		if err == nil {
			return path, info, nil
		}
	}
	return "", nil, ErrSnapshotUnavailable
}
