package version

import "fmt"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

const (
	// AppName identifies the application on the peer network.
	AppName = "pulse-sentry"
	// AppDescription is the one-line summary reported to peers.
	AppDescription = "Alert and incident coordination on Trac subnet"
	// ProtocolVersion is bumped whenever the command surface changes incompatibly.
	ProtocolVersion = 1
)

// AppInfo describes the running application.
type AppInfo struct {
	App         string `json:"app"`
	Description string `json:"description"`
	Version     int    `json:"version"`
	Build       string `json:"build"`
}

// Info returns the application descriptor.
func Info() AppInfo {
	return AppInfo{
		App:         AppName,
		Description: AppDescription,
		Version:     ProtocolVersion,
		Build:       Short(),
	}
}

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("%s version: %s, protocol: %d, commit: %s, built at: %s",
		AppName, Version, ProtocolVersion, Commit, BuildTime)
}
