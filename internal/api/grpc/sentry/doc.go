// Package sentry implements the gRPC transport for the alert peer.
//
// Messages are protobuf well-known Struct and Value types, so the service
// descriptor is declared by hand instead of generated from a .proto file.
package sentry
