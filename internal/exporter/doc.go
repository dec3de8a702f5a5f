// Package exporter publishes the consolidated calendar to its output
// destinations.
//
// The primary artifact is the versioned JSON snapshot, the wire
// contract every downstream consumer reads. It is written atomically
// to every configured destination directory; destinations whose
// directory does not exist are skipped so optional deployment layouts
// do not fail the run, and the run fails only when no destination
// could be written at all.
//
// Two supplementary formats can be written to the primary destination:
// an ICS feed for calendar subscriptions and an XLSX workbook for
// spreadsheet users.
package exporter
