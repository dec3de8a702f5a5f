package services

import (
	"context"
	"time"

	"ecocal/internal/config"
)

// HealthStatus is the health endpoint's response body.
type HealthStatus struct {
	Status      string     `json:"status"`
	Version     string     `json:"version"`
	Timestamp   time.Time  `json:"timestamp"`
	SnapshotAge string     `json:"snapshotAge,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
	EventCount  int        `json:"eventCount"`
}

// HealthService reports server health from the calendar service's view
// of the published snapshot.
type HealthService struct {
	calendar *CalendarService
}

// NewHealthService creates a health service.
func NewHealthService(calendar *CalendarService) *HealthService {
	return &HealthService{calendar: calendar}
}

// Check reports current health. A missing snapshot degrades the status
// rather than failing the endpoint: the server is up, the engine just
// has not run yet.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Version:   config.AppVersion,
		Timestamp: time.Now().UTC(),
	}

	snap, err := s.calendar.Snapshot(ctx)
	if err != nil {
		status.Status = "degraded"
		return status
	}

	status.EventCount = len(snap.Events)
	status.LastUpdated = &snap.LastUpdated
	status.SnapshotAge = time.Since(snap.LastUpdated).Round(time.Second).String()
	return status
}
