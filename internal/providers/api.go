package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ecocal/internal/config"
	"ecocal/pkg/contracts/domain"
)

// CalendarAPI queries a remote release-schedule API for events the
// local generators do not cover. The upstream speaks a JSON shape
// close to the canonical one; missing impact and category are filled
// in during normalization.
type CalendarAPI struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewCalendarAPI creates the remote calendar provider.
func NewCalendarAPI(cfg config.APIConfig) *CalendarAPI {
	return &CalendarAPI{
		baseURL: cfg.BaseURL,
		key:     cfg.Key,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Name implements Provider.
func (p *CalendarAPI) Name() string { return "api" }

// apiEvent is the upstream's event shape.
type apiEvent struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Title    string `json:"title"`
	Impact   string `json:"impact"`
	Category string `json:"category"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
	URL      string `json:"url"`
}

// Events fetches the remote schedule for the window in one request.
// Any failure surfaces as an error for the orchestrator to isolate.
func (p *CalendarAPI) Events(ctx context.Context, window Window) ([]domain.ReleaseEvent, error) {
	params := url.Values{}
	params.Set("from", window.Start.Format(domain.DateLayout))
	params.Set("to", window.End.Format(domain.DateLayout))
	params.Set("api_key", p.key)

	endpoint := fmt.Sprintf("%s/events?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("calendar api: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("calendar api: read response: %w", err)
	}

	var decoded struct {
		Events []apiEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("calendar api: decode: %w", err)
	}

	out := make([]domain.ReleaseEvent, 0, len(decoded.Events))
	for _, e := range decoded.Events {
		if e.Title == "" || !window.ContainsDate(e.Date) {
			continue
		}
		out = append(out, domain.ReleaseEvent{
			Date:      e.Date,
			Time:      e.Time,
			Title:     e.Title,
			Impact:    domain.Impact(e.Impact),
			Category:  domain.Category(e.Category),
			Currency:  e.Currency,
			Country:   e.Country,
			SourceURL: e.URL,
		})
	}
	return out, nil
}
