// Package kv implements the keyed store that persists alert state.
//
// Values are JSON documents addressed by string keys. Writes are tentative
// until Confirm is called by the transaction host; GetConfirmed only observes
// confirmed values. Memory, JSON file and SQLite implementations share the
// Store interface and are selected by Open.
package kv
