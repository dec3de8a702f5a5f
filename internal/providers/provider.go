// Package providers contains the event sources the calendar is built
// from: hand-maintained central-bank meeting tables, algorithmic
// holiday and weekly-cycle generators, the FRED release schedule and a
// generic remote calendar API. Every source implements Provider and is
// held in an ordered Registry; registration order doubles as the
// deduplication priority when two sources emit the same event.
package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecocal/pkg/contracts/domain"
)

// Window is the date range a collection run covers, inclusive on both
// ends. Bounds are UTC dates at midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// ContainsDate reports whether a YYYY-MM-DD string falls inside the
// window. Unparseable dates are outside.
func (w Window) ContainsDate(date string) bool {
	d, err := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	if err != nil {
		return false
	}
	return w.Contains(d)
}

// Years returns every calendar year the window touches, ascending.
func (w Window) Years() []int {
	var years []int
	for y := w.Start.Year(); y <= w.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// Provider produces calendar event candidates for a window. Pure
// generators never return an error; remote-backed providers may, and
// the orchestrator isolates their failures.
type Provider interface {
	Name() string
	Events(ctx context.Context, window Window) ([]domain.ReleaseEvent, error)
}

// Registry manages registered providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string // Maintains registration order
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		order:     make([]string, 0),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("cannot register nil provider")
	}

	name := p.Name()
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider with name %s already registered", name)
	}

	r.providers[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a provider by name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider with name %s not found", name)
	}

	return p, nil
}

// Has checks if a provider is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.providers[name]
	return exists
}

// List returns all registered providers in registration order
func (r *Registry) List() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		if p, exists := r.providers[name]; exists {
			out = append(out, p)
		}
	}

	return out
}

// ListNames returns all registered provider names in registration order
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}
