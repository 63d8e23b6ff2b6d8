package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
	"record": true,
}

// OutputEvent writes an event in the specified format to the writer.
func OutputEvent(format string, ev event.Event, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, out)
	case "pretty":
		return OutputPretty(ev, out)
	case "record":
		return OutputRecord(ev, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an event as JSON Lines format.
func OutputJSON(ev event.Event, out io.Writer) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes an event in human-readable format.
func OutputPretty(ev event.Event, out io.Writer) error {
	ts := ev.LocalTime.Format("15:04:05")
	_, err := fmt.Fprintf(out, "[%s] #%d %s (%s)\n", ts, ev.DetectorID, ev.Description, ev.Character)
	return err
}

// OutputRecord writes the raw wire record, as delivered to the sinks.
func OutputRecord(ev event.Event, out io.Writer) error {
	_, err := fmt.Fprintln(out, ev.Record())
	return err
}
