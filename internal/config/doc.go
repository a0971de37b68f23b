// Package config defines the settings shared by the pulse-sentry binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Config carries the gRPC server address, the keyed store driver and path,
// the RPC timeout and logging options.
package config
