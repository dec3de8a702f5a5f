package domain

// SeriesMeaning describes how consecutive observations of a series are
// turned into the displayed headline figure.
type SeriesMeaning string

const (
	// MeaningLevel publishes the observation as-is (e.g. an
	// unemployment rate).
	MeaningLevel SeriesMeaning = "level"
	// MeaningPctChange publishes the percentage change between
	// consecutive observations (e.g. CPI month over month).
	MeaningPctChange SeriesMeaning = "pct_change"
	// MeaningChange publishes the arithmetic difference between
	// consecutive observations (e.g. payrolls added).
	MeaningChange SeriesMeaning = "change"
)

// SeriesMapping binds an event title to the time series that backs its
// headline number, with formatting instructions.
type SeriesMapping struct {
	SeriesID string        `json:"seriesId" validate:"required"`
	Meaning  SeriesMeaning `json:"meaning" validate:"required,oneof=level pct_change change"`

	// Unit is the suffix appended to formatted values ("%", "K", "M").
	Unit string `json:"unit,omitempty"`

	// Scale divides the raw observation before formatting. A claims
	// figure stored in units with Scale 1000 displays as thousands.
	// Zero means no scaling.
	Scale float64 `json:"scale,omitempty"`
}

// Observation is a single dated value from a time series, as returned
// by the data API. Date uses the YYYY-MM-DD layout.
type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeriesData is the enrichment result for one series: the most recent
// observations, newest first.
type SeriesData struct {
	SeriesID     string        `json:"seriesId"`
	Observations []Observation `json:"observations"`
}

// Latest returns the newest observation, if any.
func (d SeriesData) Latest() (Observation, bool) {
	if len(d.Observations) == 0 {
		return Observation{}, false
	}
	return d.Observations[0], true
}

// Prior returns the observation immediately preceding the newest.
func (d SeriesData) Prior() (Observation, bool) {
	if len(d.Observations) < 2 {
		return Observation{}, false
	}
	return d.Observations[1], true
}
