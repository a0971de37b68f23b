package main

import "github.com/oshokin/pulse-sentry/cmd/pulse-sentry-server/cmd"

func main() {
	cmd.Execute()
}
