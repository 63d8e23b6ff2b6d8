package event

import (
	"errors"
	"time"
)

// timestampLayout is the Go layout for the fixed-width timestamp prefix that
// every log line carries, e.g. "[Sun Sep 18 15:22:41 2022]".
const timestampLayout = "[Mon Jan 02 15:04:05 2006]"

// TimestampWidth is the length of the timestamp prefix.
const TimestampWidth = 26

// BodyOffset is the offset of the line body: the timestamp prefix plus the
// separating space. Detectors match against line[BodyOffset:].
const BodyOffset = TimestampWidth + 1

// ErrNoTimestamp is returned when a line is too short to carry the
// fixed-width timestamp prefix, or the prefix does not parse.
var ErrNoTimestamp = errors.New("line has no valid timestamp prefix")

// ParseTimestamp extracts the line's timestamp as a local/UTC instant pair.
// The game writes timestamps in the machine's local zone without zone
// information, so the prefix is parsed in time.Local.
func ParseTimestamp(line string) (local, utc time.Time, err error) {
	if len(line) < BodyOffset {
		return time.Time{}, time.Time{}, ErrNoTimestamp
	}
	local, err = time.ParseInLocation(timestampLayout, line[:TimestampWidth], time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, ErrNoTimestamp
	}
	return local, local.UTC(), nil
}

// StripTimestamp returns the body of the line after the timestamp prefix.
// Returns false if the line is too short to have one.
func StripTimestamp(line string) (string, bool) {
	if len(line) < BodyOffset {
		return "", false
	}
	return line[BodyOffset:], true
}
