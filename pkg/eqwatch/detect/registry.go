package detect

import (
	"io"
	"log/slog"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
)

// Registry is an ordered collection of detectors. Every detector is
// evaluated against every line; a line may produce events from several
// detectors at once.
type Registry struct {
	detectors []*Detector
	character string
	log       *slog.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewRegistry creates a registry over the given detectors. A nil logger
// disables logging.
func NewRegistry(log *slog.Logger, detectors ...*Detector) *Registry {
	if log == nil {
		log = discardLogger
	}
	return &Registry{detectors: detectors, log: log}
}

// Add appends detectors to the evaluation order.
func (r *Registry) Add(detectors ...*Detector) {
	for _, d := range detectors {
		if d != nil {
			d.SetCharacter(r.character)
			r.detectors = append(r.detectors, d)
		}
	}
}

// SetCharacter updates every detector's notion of whose log this is.
// Called when the watcher opens a log file for a different character.
func (r *Registry) SetCharacter(name string) {
	r.character = name
	for _, d := range r.detectors {
		d.SetCharacter(name)
	}
}

// Match evaluates the line against every detector and returns one event per
// detector that matched. A panic inside one detector's evaluation (e.g. a
// misbehaving gate) is isolated so the remaining detectors still run.
func (r *Registry) Match(line string) []event.Event {
	var events []event.Event
	for _, d := range r.detectors {
		if r.matchOne(d, line) {
			events = append(events, d.Event())
		}
	}
	return events
}

func (r *Registry) matchOne(d *Detector, line string) (matched bool) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("detector panicked", "detector_id", d.ID, "panic", p)
			matched = false
		}
	}()
	return d.Matches(line)
}
