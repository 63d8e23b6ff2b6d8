// Package detect classifies log lines into structured events.
//
// A Detector holds an ordered list of regular expression triggers and an
// optional correlation gate. Triggers are OR'd: any trigger matching the
// line body (the part after the timestamp prefix) counts as a raw match, and
// every raw match is offered to the gate, which decides whether it becomes
// an accepted event. Gates may hold state across lines, which is how a
// single logical event spanning two physical lines is detected.
//
// A Detector's gate state and latest-match fields are mutated during
// matching, so a Detector instance must not be shared across concurrent
// evaluations. The watcher's single poll loop satisfies this naturally.
package detect

import (
	"fmt"
	"regexp"
	"time"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
)

// Match gives a gate access to the named capture groups of a raw trigger
// match.
type Match struct {
	groups map[string]string
}

// Group returns the value captured by the named group, and whether the
// group exists in the matched trigger. A group that exists but matched
// nothing returns ("", true).
func (m Match) Group(name string) (string, bool) {
	v, ok := m.groups[name]
	return v, ok
}

// Gate decides whether a raw trigger match becomes an accepted event.
// It may rewrite the detector's Description and may keep state across calls.
type Gate func(d *Detector, m Match) bool

// acceptAll is the default gate.
func acceptAll(*Detector, Match) bool { return true }

// Detector classifies a line into zero or one event.
type Detector struct {
	// ID uniquely identifies this detector in the wire record.
	ID int

	// Description is the human-readable description embedded in reports.
	// Gates may rewrite it per match.
	Description string

	triggers []*regexp.Regexp
	gate     Gate

	character string

	// Latest accepted match; Report reflects the most recent hit.
	lastLine  string
	lastLocal time.Time
	lastUTC   time.Time
}

// New compiles the trigger patterns into a Detector with the default
// accept-all gate. Patterns are matched against the line body, after the
// timestamp prefix.
func New(id int, description string, patterns []string) (*Detector, error) {
	return NewWithGate(id, description, patterns, nil)
}

// NewWithGate is New with a custom correlation gate.
func NewWithGate(id int, description string, patterns []string, gate Gate) (*Detector, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("detector %d: at least one trigger is required", id)
	}
	triggers := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("detector %d: invalid trigger %q: %w", id, p, err)
		}
		triggers = append(triggers, re)
	}
	if gate == nil {
		gate = acceptAll
	}
	return &Detector{
		ID:          id,
		Description: description,
		triggers:    triggers,
		gate:        gate,
	}, nil
}

// MustNew is New but panics on an invalid pattern. For the stock detector
// set, whose patterns are compile-time constants.
func MustNew(id int, description string, patterns []string) *Detector {
	d, err := New(id, description, patterns)
	if err != nil {
		panic(err)
	}
	return d
}

// MustNewWithGate is NewWithGate but panics on an invalid pattern.
func MustNewWithGate(id int, description string, patterns []string, gate Gate) *Detector {
	d, err := NewWithGate(id, description, patterns, gate)
	if err != nil {
		panic(err)
	}
	return d
}

// Matches evaluates the line against every trigger in order. All triggers
// are evaluated (no short-circuit); each raw match is offered to the gate.
// If any is accepted, the match line and its timestamps are recorded and
// Matches returns true.
//
// Lines too short to carry the timestamp prefix, or with a malformed
// prefix, never match.
func (d *Detector) Matches(line string) bool {
	body, ok := event.StripTimestamp(line)
	if !ok {
		return false
	}
	local, utc, err := event.ParseTimestamp(line)
	if err != nil {
		return false
	}

	matched := false
	for _, re := range d.triggers {
		sub := re.FindStringSubmatch(body)
		if sub == nil {
			continue
		}
		if d.gate(d, newMatch(re, sub)) {
			matched = true
			d.lastLine = line
			d.lastLocal = local
			d.lastUTC = utc
		}
	}
	return matched
}

func newMatch(re *regexp.Regexp, sub []string) Match {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(sub) {
			groups[name] = sub[i]
		}
	}
	return Match{groups: groups}
}

// SetCharacter sets the name of the character whose log is being parsed.
// The rendered report embeds this name, so it must be updated whenever the
// watcher switches log files.
func (d *Detector) SetCharacter(name string) {
	d.character = name
}

// Event returns the event for the most recent accepted match.
func (d *Detector) Event() event.Event {
	return event.Event{
		Character:   d.character,
		DetectorID:  d.ID,
		Description: d.Description,
		LocalTime:   d.lastLocal,
		UTCTime:     d.lastUTC,
		RawLine:     d.lastLine,
	}
}

// Report renders the wire record for the most recent accepted match.
func (d *Detector) Report() string {
	return d.Event().Record()
}
