// Package sentry implements the alert lifecycle state machine.
//
// A Machine validates every transaction payload against a strict schema before
// any business rule runs, then reads and writes alerts, the alert index and the
// last-alert pointer through the keyed store. It does no locking: the host
// executes one transaction at a time.
package sentry
