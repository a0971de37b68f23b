// Package client implements the pulse-sentry CLI subcommands.
//
// Every runner loads settings, dials the server, performs one call and
// prints the JSON response to the command output.
package client
