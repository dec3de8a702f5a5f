package indicators

import (
	"strings"

	"ecocal/pkg/contracts/domain"
)

// Metadata is the descriptive record attached to an event during
// normalization when the provider did not supply its own.
type Metadata struct {
	Category    domain.Category
	Description string
}

// metadataTable keys canonical event titles to their descriptions.
// Matched like the series table: exact first, then substring in either
// direction.
var metadataTable = map[string]Metadata{
	"Nonfarm Payrolls": {
		Category:    domain.CategoryEmployment,
		Description: "Monthly change in US employment excluding the farming sector",
	},
	"Unemployment Rate": {
		Category:    domain.CategoryEmployment,
		Description: "Share of the US labor force that is jobless and seeking work",
	},
	"Initial Jobless Claims": {
		Category:    domain.CategoryEmployment,
		Description: "Weekly count of new unemployment insurance claims",
	},
	"Continuing Claims": {
		Category:    domain.CategoryEmployment,
		Description: "Number of people receiving ongoing unemployment benefits",
	},
	"Consumer Price Index": {
		Category:    domain.CategoryInflation,
		Description: "Monthly change in the prices urban consumers pay for goods and services",
	},
	"Producer Price Index": {
		Category:    domain.CategoryInflation,
		Description: "Monthly change in selling prices received by domestic producers",
	},
	"PCE Price Index": {
		Category:    domain.CategoryInflation,
		Description: "The Federal Reserve's preferred gauge of consumer inflation",
	},
	"Gross Domestic Product": {
		Category:    domain.CategoryGrowth,
		Description: "Quarterly output of goods and services produced in the US",
	},
	"Retail Sales": {
		Category:    domain.CategoryGrowth,
		Description: "Monthly receipts of retail stores, a proxy for consumer spending",
	},
	"FOMC Rate Decision": {
		Category:    domain.CategoryCentralBank,
		Description: "The Federal Open Market Committee's target federal funds rate",
	},
	"FOMC Meeting Minutes": {
		Category:    domain.CategoryCentralBank,
		Description: "Detailed record of the most recent FOMC policy discussion",
	},
	"FOMC Press Conference": {
		Category:    domain.CategoryCentralBank,
		Description: "The Fed Chair's remarks and Q&A following the rate decision",
	},
	"FOMC Economic Projections": {
		Category:    domain.CategoryCentralBank,
		Description: "Quarterly FOMC forecasts for growth, unemployment, inflation and rates",
	},
	"ECB Rate Decision": {
		Category:    domain.CategoryCentralBank,
		Description: "The European Central Bank's main refinancing rate announcement",
	},
	"ECB Press Conference": {
		Category:    domain.CategoryCentralBank,
		Description: "The ECB President's remarks following the Governing Council meeting",
	},
	"BOE Rate Decision": {
		Category:    domain.CategoryCentralBank,
		Description: "The Bank of England Monetary Policy Committee's Bank Rate vote",
	},
	"China Loan Prime Rate": {
		Category:    domain.CategoryCentralBank,
		Description: "Monthly benchmark lending rate set by the People's Bank of China",
	},
	"EIA Crude Oil Inventories": {
		Category:    domain.CategoryEnergy,
		Description: "Weekly change in US commercial crude oil stockpiles",
	},
	"EIA Natural Gas Storage": {
		Category:    domain.CategoryEnergy,
		Description: "Weekly change in US underground natural gas storage",
	},
	"API Weekly Statistical Bulletin": {
		Category:    domain.CategoryEnergy,
		Description: "Industry estimate of US crude inventories ahead of the EIA report",
	},
	"Trade Balance": {
		Category:    domain.CategoryTrade,
		Description: "Difference between US exports and imports of goods and services",
	},
	"Housing Starts": {
		Category:    domain.CategoryHousing,
		Description: "Annualized number of new residential construction projects begun",
	},
	"Consumer Sentiment": {
		Category:    domain.CategorySentiment,
		Description: "University of Michigan survey of household economic confidence",
	},
}

// metadataKeys mirrors mappingKeys: lowercased, longest first so the
// most specific key wins substring matching.
var metadataKeys = sortedKeysByLength(func() []string {
	keys := make([]string, 0, len(metadataTable))
	for k := range metadataTable {
		keys = append(keys, strings.ToLower(k))
	}
	return keys
}())

var metadataLower = func() map[string]Metadata {
	m := make(map[string]Metadata, len(metadataTable))
	for k, v := range metadataTable {
		m[strings.ToLower(k)] = v
	}
	return m
}()

// Describe resolves the descriptive metadata for an event title. The
// lookup never fails: titles missing from the table get a generic
// record with the keyword-classified category and no description.
func Describe(title string) Metadata {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return Metadata{Category: domain.CategoryOther}
	}

	if m, ok := metadataLower[t]; ok {
		return m
	}

	for _, key := range metadataKeys {
		if strings.Contains(t, key) || strings.Contains(key, t) {
			return metadataLower[key]
		}
	}

	return Metadata{Category: Classify(title)}
}
