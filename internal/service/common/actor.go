//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// DetectSender builds a "user@host" sender for transactions submitted from
// this machine.
func DetectSender() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}

// ResolveSender returns explicit when set, then fallback, then DetectSender.
func ResolveSender(explicit, fallback string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if fallback != "" {
		return fallback, nil
	}

	return DetectSender()
}
