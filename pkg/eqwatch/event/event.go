// Package event defines the structured event produced when a log line
// matches a detector, and its delimiter-separated wire encoding.
package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Marker is the leading field of every wire record. Remote collectors use it
// to recognize records coming from this parser.
const Marker = "EQ__"

// Separator is the wire record field separator.
const Separator = "|"

// utcLayout is the timestamp format used in the wire record.
const utcLayout = "2006-01-02 15:04:05-07:00"

// Event is a single detected occurrence in the log. Events are immutable
// once produced; they are created at match time, delivered to the sinks and
// then discarded.
type Event struct {
	// Character is the name of the character whose log produced the event.
	Character string `json:"character"`

	// DetectorID identifies the detector that matched.
	DetectorID int `json:"detector_id"`

	// Description is the detector's rendered description for this match.
	Description string `json:"description"`

	// LocalTime is the line's timestamp in the machine's local zone.
	LocalTime time.Time `json:"local_time"`

	// UTCTime is the same instant converted to UTC.
	UTCTime time.Time `json:"utc_time"`

	// RawLine is the original log line, including the timestamp prefix.
	RawLine string `json:"raw_line"`
}

// Record renders the event as a single delimiter-separated line:
//
//	EQ__|character|detector_id|description|utc_timestamp|raw_line
//
// Field order and separator are a wire contract with the remote collectors
// and must not change.
func (e Event) Record() string {
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString(Separator)
	b.WriteString(e.Character)
	b.WriteString(Separator)
	b.WriteString(strconv.Itoa(e.DetectorID))
	b.WriteString(Separator)
	b.WriteString(e.Description)
	b.WriteString(Separator)
	b.WriteString(e.UTCTime.Format(utcLayout))
	b.WriteString(Separator)
	b.WriteString(e.RawLine)
	return b.String()
}

// ParseRecord parses a wire record produced by Record. The raw line is the
// final field and may itself contain the separator, so the record is split
// into at most six fields.
func ParseRecord(s string) (Event, error) {
	parts := strings.SplitN(s, Separator, 6)
	if len(parts) != 6 {
		return Event{}, fmt.Errorf("record has %d fields, want 6", len(parts))
	}
	if parts[0] != Marker {
		return Event{}, fmt.Errorf("record marker %q, want %q", parts[0], Marker)
	}

	id, err := strconv.Atoi(parts[2])
	if err != nil {
		return Event{}, fmt.Errorf("invalid detector id %q: %w", parts[2], err)
	}

	utc, err := time.Parse(utcLayout, parts[4])
	if err != nil {
		return Event{}, fmt.Errorf("invalid timestamp %q: %w", parts[4], err)
	}

	return Event{
		Character:   parts[1],
		DetectorID:  id,
		Description: parts[3],
		UTCTime:     utc,
		RawLine:     parts[5],
	}, nil
}
