// Package report turns in-memory snapshots of ledger and savings records
// into dashboard totals, period rollups, yearly reports and savings
// statistics. Every function is pure and total: an empty input yields
// zero values, never an error. Inputs are trusted to be already scoped to
// a single owner.
package report
