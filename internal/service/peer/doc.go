// Package peer hosts the alert state machine for one node.
//
// A Peer executes transactions strictly one at a time: it routes the command,
// dispatches the typed operation, confirms the store writes and emits a
// result record. It also applies feature entries and serves raw key reads.
package peer
