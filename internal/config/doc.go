// Package config provides centralized configuration management for the
// economic calendar service. It handles loading configuration from
// multiple sources, validation, and a type-safe API for the rest of the
// application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ECOCAL_* for
// namespacing:
//
//	ECOCAL_FRED_API_KEY=abcdef0123456789
//	ECOCAL_CALENDAR_MONTHS_AHEAD=6
//	ECOCAL_OUTPUTS_DESTINATIONS=public/data,dist/data
//	ECOCAL_LOGGING_LEVEL=debug
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
