// Package harness runs report scenarios end to end: load a schema and a
// report definition, seed a throwaway SQLite database from fixture
// scripts, execute the report and snapshot the outcome.
//
// Snapshots serialize to canonical JSON and compare against golden files,
// so any change to compiled SQL, parameter order or result rows shows up
// as a byte-level diff.
package harness
