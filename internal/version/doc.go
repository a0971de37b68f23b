// Package version exposes build metadata and the application descriptor.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// Info describes the application to peers and is served by the AppInfo RPC.
package version
