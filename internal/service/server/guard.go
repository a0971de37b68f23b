package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// maxCommLength is the length Linux truncates process names to.
const maxCommLength = 15

// ErrAlreadyRunning is returned when another server process owns the store.
var ErrAlreadyRunning = errors.New("another server process is already running")

// ensureSingleWriter fails when another process runs the same executable.
// Two servers over one file store would overwrite each other's writes.
func ensureSingleWriter(executable string) error {
	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if pid, found := findConflicting(processList, os.Getpid(), executable); found {
		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
	}

	return nil
}

// findConflicting returns the pid of a process other than self named executable.
func findConflicting(processList []ps.Process, self int, executable string) (int, bool) {
	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if sameExecutable(process.Executable(), executable) {
			return process.Pid(), true
		}
	}

	return 0, false
}

// sameExecutable compares process names ignoring the .exe extension and the
// truncation Linux applies to long names.
func sameExecutable(processName, executable string) bool {
	processName = strings.TrimSuffix(processName, ".exe")
	executable = strings.TrimSuffix(executable, ".exe")

	if processName == "" || executable == "" {
		return false
	}

	if processName == executable {
		return true
	}

	return len(processName) == maxCommLength && strings.HasPrefix(executable, processName)
}

// currentExecutable returns the base name of the running binary.
func currentExecutable() string {
	path, err := os.Executable()
	if err != nil {
		path = os.Args[0]
	}

	return filepath.Base(path)
}
