package client

import (
	"encoding/json"
	"fmt"
	"io"
)

// Example is a ready-to-run tx command.
type Example struct {
	// Label describes what the command does.
	Label string
	// Command is the value passed to tx --command.
	Command string
}

// Payload structs keep "op" first in the printed JSON.
type (
	raisePayload struct {
		Op       string   `json:"op"`
		AlertID  string   `json:"alertId"`
		Title    string   `json:"title"`
		Severity string   `json:"severity"`
		Message  string   `json:"message"`
		Channel  string   `json:"channel"`
		Tags     []string `json:"tags,omitempty"`
	}

	ackPayload struct {
		Op      string `json:"op"`
		AlertID string `json:"alertId"`
		Note    string `json:"note"`
	}

	resolvePayload struct {
		Op         string `json:"op"`
		AlertID    string `json:"alertId"`
		Resolution string `json:"resolution"`
	}
)

const exampleAlertID = "alert-001"

// lifecycleExamples returns raise, ack and resolve commands for one alert.
func lifecycleExamples(tags []string) []Example {
	return []Example{
		{
			Label: "Raise alert",
			Command: mustJSON(raisePayload{
				Op:       "alert_raise",
				AlertID:  exampleAlertID,
				Title:    "Indexer lag",
				Severity: "high",
				Message:  "Indexer peer is 200 blocks behind",
				Channel:  "ops/indexer",
				Tags:     tags,
			}),
		},
		{
			Label: "Acknowledge",
			Command: mustJSON(ackPayload{
				Op:      "alert_ack",
				AlertID: exampleAlertID,
				Note:    "On-call investigating",
			}),
		},
		{
			Label: "Resolve",
			Command: mustJSON(resolvePayload{
				Op:         "alert_resolve",
				AlertID:    exampleAlertID,
				Resolution: "Indexer restarted and synced",
			}),
		},
	}
}

// Examples returns every command a new user can paste into tx.
func Examples() []Example {
	return append(lifecycleExamples([]string{"indexer", "sync"}),
		Example{Label: "Counters and last alert", Command: "alert_snapshot"},
		Example{Label: "Latest alerts", Command: "alert_list:50"},
		Example{Label: "Open alerts", Command: "alert_status:open"},
		Example{Label: "One alert", Command: "alert_read:" + exampleAlertID},
		Example{Label: "Timer value", Command: "read_timer"},
	)
}

// WriteExamples prints Examples as shell commands.
func WriteExamples(w io.Writer, binary string) error {
	if _, err := fmt.Fprintln(w, "Pulse Sentry tx examples:"); err != nil {
		return err
	}

	for _, example := range Examples() {
		if _, err := fmt.Fprintf(w, "%s tx --command '%s'\n", binary, example.Command); err != nil {
			return err
		}
	}

	return nil
}

// WriteWizard prints the numbered lifecycle walkthrough.
func WriteWizard(w io.Writer, binary string) error {
	if _, err := fmt.Fprintln(w, "Alert wizard:"); err != nil {
		return err
	}

	for i, example := range lifecycleExamples(nil) {
		_, err := fmt.Fprintf(w, "%d) %-12s -> %s tx --command '%s'\n", i+1, example.Label, binary, example.Command)
		if err != nil {
			return err
		}
	}

	return nil
}

func mustJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}

	return string(data)
}
