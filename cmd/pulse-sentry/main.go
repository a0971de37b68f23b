package main

import "github.com/oshokin/pulse-sentry/cmd/pulse-sentry/cmd"

func main() {
	cmd.Execute()
}
