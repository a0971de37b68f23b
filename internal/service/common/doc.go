// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper with timeouts and a helper
// that derives the transaction sender from the current user and hostname.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
