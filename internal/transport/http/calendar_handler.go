// Package http holds the chi handlers of the read-only calendar
// server: the published snapshot, filtered event queries, health and
// Prometheus metrics.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	apierrors "ecocal/internal/errors"
	"ecocal/internal/services"
	"ecocal/pkg/contracts/domain"
)

// CalendarHandler serves the published calendar snapshot.
type CalendarHandler struct {
	service *services.CalendarService
	logger  *slog.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(service *services.CalendarService, logger *slog.Logger) *CalendarHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "calendar")),
	}
}

// GetSnapshot handles GET /api/calendar
func (h *CalendarHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// GetEvents handles GET /api/calendar/events with optional from, to,
// impact and category query filters.
func (h *CalendarHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		render.Render(w, r, apierrors.InvalidParameterWithError(err))
		return
	}

	events, err := h.service.Events(r.Context(), filter)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

func (h *CalendarHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrSnapshotUnavailable) {
		render.Render(w, r, apierrors.ErrSnapshotUnavailable)
		return
	}
	h.logger.ErrorContext(r.Context(), "snapshot_request_failed",
		slog.String("error", err.Error()))
	render.Render(w, r, apierrors.ErrInternalServer)
}

// parseEventFilter validates the query parameters of an event listing.
func parseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		From: q.Get("from"),
		To:   q.Get("to"),
	}

	for name, value := range map[string]string{"from": filter.From, "to": filter.To} {
		if value == "" {
			continue
		}
		if _, err := parseDate(value); err != nil {
			return domain.EventFilter{}, fmt.Errorf("%s: %w", name, err)
		}
	}

	if impact := q.Get("impact"); impact != "" {
		filter.Impact = domain.Impact(impact)
		if !filter.Impact.IsValid() {
			return domain.EventFilter{}, fmt.Errorf("impact: unknown value %q", impact)
		}
	}

	if category := q.Get("category"); category != "" {
		filter.Category = domain.Category(category)
	}

	return filter, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout, s, time.UTC)
}
