// Package indicators holds the editorial knowledge about economic
// indicators: which FRED series backs a given event title, which
// topical category a title belongs to, and the slug derivation used
// for stable event IDs.
package indicators

import (
	"sort"
	"strings"

	"ecocal/pkg/contracts/domain"
)

// seriesMappings binds canonical event titles to the series that back
// their headline figures. Keys are matched case-insensitively, first
// exactly and then by substring in either direction, so "Core Consumer
// Price Index" resolves through the "Consumer Price Index" entry.
var seriesMappings = map[string]domain.SeriesMapping{
	"Nonfarm Payrolls": {
		SeriesID: "PAYEMS", Meaning: domain.MeaningChange, Unit: "K", Scale: 1,
	},
	"Unemployment Rate": {
		SeriesID: "UNRATE", Meaning: domain.MeaningLevel, Unit: "%",
	},
	"Consumer Price Index": {
		SeriesID: "CPIAUCSL", Meaning: domain.MeaningPctChange, Unit: "%",
	},
	"Producer Price Index": {
		SeriesID: "PPIFIS", Meaning: domain.MeaningPctChange, Unit: "%",
	},
	"Gross Domestic Product": {
		SeriesID: "GDPC1", Meaning: domain.MeaningPctChange, Unit: "%",
	},
	"Retail Sales": {
		SeriesID: "RSAFS", Meaning: domain.MeaningPctChange, Unit: "%",
	},
	"PCE Price Index": {
		SeriesID: "PCEPI", Meaning: domain.MeaningPctChange, Unit: "%",
	},
	"Initial Jobless Claims": {
		SeriesID: "ICSA", Meaning: domain.MeaningLevel, Unit: "K", Scale: 1000,
	},
	"Continuing Claims": {
		SeriesID: "CCSA", Meaning: domain.MeaningLevel, Unit: "M", Scale: 1000000,
	},
	"FOMC Rate Decision": {
		SeriesID: "FEDFUNDS", Meaning: domain.MeaningLevel, Unit: "%",
	},
	"EIA Crude Oil Inventories": {
		SeriesID: "WCESTUS1", Meaning: domain.MeaningChange, Unit: "M", Scale: 1000,
	},
	"Trade Balance": {
		SeriesID: "BOPGSTB", Meaning: domain.MeaningLevel, Unit: "B", Scale: 1000,
	},
	"Housing Starts": {
		SeriesID: "HOUST", Meaning: domain.MeaningLevel, Unit: "M", Scale: 1000,
	},
	"Consumer Sentiment": {
		SeriesID: "UMCSENT", Meaning: domain.MeaningLevel, Unit: "",
	},
}

// mappingKeys holds the lowercased table keys in a deterministic match
// order: longest first, then alphabetical. Longer keys are more
// specific and must win substring matching.
var mappingKeys = sortedKeysByLength(func() []string {
	keys := make([]string, 0, len(seriesMappings))
	for k := range seriesMappings {
		keys = append(keys, strings.ToLower(k))
	}
	return keys
}())

// sortedKeysByLength orders lookup keys longest first, then
// alphabetically, so substring matching always prefers the most
// specific key.
func sortedKeysByLength(keys []string) []string {
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// mappingsLower indexes the table by lowercased key.
var mappingsLower = func() map[string]domain.SeriesMapping {
	m := make(map[string]domain.SeriesMapping, len(seriesMappings))
	for k, v := range seriesMappings {
		m[strings.ToLower(k)] = v
	}
	return m
}()

// Resolve finds the series mapping for an event title. Exact matches
// win; otherwise the title and table keys are compared by substring in
// both directions. Titles without a mapping return ok=false and stay
// unenriched.
func Resolve(title string) (domain.SeriesMapping, bool) {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return domain.SeriesMapping{}, false
	}

	if m, ok := mappingsLower[t]; ok {
		return m, true
	}

	for _, key := range mappingKeys {
		if strings.Contains(t, key) || strings.Contains(key, t) {
			return mappingsLower[key], true
		}
	}

	return domain.SeriesMapping{}, false
}

// categoryRule pairs a category with the keywords that select it.
type categoryRule struct {
	category domain.Category
	keywords []string
}

// categoryRules are evaluated in order; the first keyword hit wins.
// Central-bank terms come first so "ECB Rate Decision" never falls
// through to a weaker match.
var categoryRules = []categoryRule{
	{domain.CategoryHoliday, []string{"holiday", "market closed", "markets closed"}},
	{domain.CategoryCentralBank, []string{
		"fomc", "rate decision", "interest rate", "central bank", "monetary policy",
		"minutes", "press conference", "loan prime rate", "ecb", "boe", "economic projections",
	}},
	{domain.CategoryEnergy, []string{
		"crude", "oil", "gasoline", "natural gas", "petroleum", "eia", "rig count", "opec",
	}},
	{domain.CategoryEmployment, []string{
		"payroll", "unemployment", "jobless", "claims", "employment", "jolts", "adp", "hourly earnings",
	}},
	{domain.CategoryInflation, []string{
		"cpi", "ppi", "pce", "inflation", "price index", "deflator",
	}},
	{domain.CategoryHousing, []string{
		"housing", "home sales", "mortgage", "building permits", "construction",
	}},
	{domain.CategoryTrade, []string{
		"trade balance", "exports", "imports", "current account",
	}},
	{domain.CategorySentiment, []string{
		"sentiment", "confidence", "optimism", "expectations",
	}},
	{domain.CategoryManufacturing, []string{
		"manufacturing", "industrial production", "factory", "durable goods", "ism",
	}},
	{domain.CategoryServices, []string{
		"services pmi", "non-manufacturing",
	}},
	{domain.CategoryBonds, []string{
		"auction", "treasury", "bond", "note sale", "bill sale",
	}},
	{domain.CategoryFiscal, []string{
		"budget", "fiscal", "deficit", "government spending",
	}},
	{domain.CategoryGrowth, []string{
		"gdp", "gross domestic product", "retail sales", "growth",
		"personal income", "personal spending",
	}},
}

// Classify assigns a topical category to an event title. Titles that
// match no rule land in CategoryOther.
func Classify(title string) domain.Category {
	t := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}

// Slug derives a stable URL-safe identifier from an event title:
// lowercase, alphanumeric runs joined by single hyphens.
func Slug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
