// Package store provides the SQLite database reports execute against and
// the append-only run log that records each execution.
package store
