package config

import "time"

// Application constants shared across the calendar pipeline
const (
	// Application Info
	AppName    = "Economic Calendar"
	AppVersion = "3.0.0"

	// EnvPrefix namespaces every environment variable the service reads
	EnvPrefix = "ECOCAL"

	// Collection Window
	DefaultMonthsBack  = 3
	DefaultMonthsAhead = 6

	// Provider fan-out bound for a collection run
	DefaultProviderConcurrency = 4

	// FRED API
	FredBaseURL           = "https://api.stlouisfed.org/fred"
	FredMaxRetries        = 3
	FredRetryDelay        = 1 * time.Second
	FredRequestsPerSecond = 2.0
	FredBurst             = 4

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Output Files
	DefaultOutputDir = "public/data"
	SnapshotFileName = "economic-calendar.json"
	ICSFileName      = "economic-calendar.ics"
	ExcelFileName    = "economic-calendar.xlsx"

	// Log Settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/calendar.log"
)
