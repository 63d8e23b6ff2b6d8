package eqwatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/eqwatch/eqwatch-go/internal/logfinder"
	"github.com/eqwatch/eqwatch-go/internal/tailer"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/detect"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/pettrack"
	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/sink"
)

// watcherErrBuffer is the buffer size for the error channel.
// A small buffer prevents error loss during brief moments when the consumer
// is busy processing events, while keeping memory usage minimal.
const watcherErrBuffer = 16

// Status is a point-in-time snapshot of what the watcher is doing.
type Status struct {
	File      string // current log file path, empty before the first open
	Character string // character parsed from the file name
	PetName   string // "No Pet" when pet tracking is off or no pet is up
	Position  int64  // byte offset in the current file
}

// Watcher follows the newest EverQuest log file, classifies each line
// through the detector registry and the pet tracker, and emits matched
// events.
type Watcher struct {
	cfg      watchConfig // internal configuration (immutable after creation)
	logDir   string
	log      *slog.Logger
	registry *detect.Registry
	tracker  *pettrack.Tracker

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc // cancel func to stop the goroutine
	doneCh   chan struct{}      // signals when goroutine has exited
	watching bool               // true if Watch() has been called

	stateMu sync.Mutex
	status  Status
}

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NewWatcherWithOptions creates a watcher using functional options.
// Validates options and resolves the log directory.
// Does NOT start goroutines (cheap to call).
//
// Example:
//
//	watcher, err := eqwatch.NewWatcherWithOptions(
//	    eqwatch.WithLogDir("/games/everquest/Logs"),
//	    eqwatch.WithServer("project1999"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	events, errs, err := watcher.Watch(ctx)
func NewWatcherWithOptions(opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logDir, err := logfinder.FindLogDir(cfg.logDir)
	if err != nil {
		return nil, fmt.Errorf("finding log directory: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	detectors := cfg.detectors
	if detectors == nil {
		detectors = detect.Default()
	}
	registry := detect.NewRegistry(log, detectors...)

	var tracker *pettrack.Tracker
	if cfg.petTracking {
		tracker = pettrack.New(petNotifier(log))
	}

	if cfg.fanout == nil && len(cfg.sinks) > 0 {
		cfg.fanout = sink.NewFanout(log, cfg.sinks...)
	}

	return &Watcher{
		cfg:      *cfg, // copy to ensure immutability
		logDir:   logDir,
		log:      log,
		registry: registry,
		tracker:  tracker,
		status:   Status{PetName: "No Pet"},
	}, nil
}

// WatchWithOptions creates a watcher using functional options and starts
// watching.
//
// Note: This function does not return the underlying Watcher, so callers
// cannot call Close() to perform synchronous shutdown. The watcher will
// stop when the context is cancelled. For more control over shutdown, use
// NewWatcherWithOptions and Watcher.Watch() directly.
func WatchWithOptions(ctx context.Context, opts ...WatchOption) (<-chan event.Event, <-chan error, error) {
	w, err := NewWatcherWithOptions(opts...)
	if err != nil {
		return nil, nil, err
	}
	return w.Watch(ctx)
}

// Watch starts watching and returns channels.
// Starts internal goroutines here.
// When ctx is cancelled, channels are closed automatically.
// Both channels close on ctx.Done() or fatal error.
// Watch can only be called once per Watcher instance.
//
// Returns ErrWatcherClosed if the watcher has been closed.
// Returns ErrAlreadyWatching if Watch() has already been called.
func (w *Watcher) Watch(ctx context.Context) (<-chan event.Event, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	eventCh := make(chan event.Event)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, eventCh, errCh)

	return eventCh, errCh, nil
}

// Close stops the watcher and releases resources.
// Safe to call multiple times.
// Blocks until the goroutine has exited.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	if w.cfg.fanout != nil {
		return w.cfg.fanout.Close()
	}
	return nil
}

// Status returns a snapshot of the watcher state. Safe to call from any
// goroutine.
func (w *Watcher) Status() Status {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return w.status
}

func (w *Watcher) run(ctx context.Context, eventCh chan<- event.Event, errCh chan<- error) {
	defer close(w.doneCh) // Signal that goroutine has exited
	defer close(eventCh)
	defer close(errCh)

	t := tailer.New(w.logDir, w.cfg.server, w.log)
	defer t.Stop()

	if _, err := t.OpenLatest(!w.cfg.replayFromStart); err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpFindLatest, Err: err})
		return
	}
	w.adoptFile(t)
	w.log.Debug("started tailing", "path", t.Filename(), "character", t.Character())

	heartbeat := time.NewTicker(w.cfg.heartbeat)
	defer heartbeat.Stop()
	idle := time.NewTicker(w.cfg.pollInterval)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if line, ok := t.ReadLine(); ok {
			if !w.processLine(ctx, line, eventCh) {
				return
			}
			w.updateStatus(t)
			continue
		}

		// No line ready: idle until the next poll tick, checking the
		// heartbeat for a newer log file (character switch or rotation).
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			switched, err := t.OpenLatest(false)
			if err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpHeartbeat, Path: t.Filename(), Err: err})
				continue
			}
			if switched {
				w.log.Debug("log rotation detected", "to", t.Filename(), "character", t.Character())
				w.adoptFile(t)
			}
		case <-idle.C:
		}
	}
}

// adoptFile propagates the current file's character name into the
// registry, the tracker, and the status snapshot.
func (w *Watcher) adoptFile(t *tailer.Tailer) {
	char := t.Character()
	w.registry.SetCharacter(char)
	if w.tracker != nil {
		w.tracker.SetCharacter(char)
	}

	w.stateMu.Lock()
	w.status.File = t.Filename()
	w.status.Character = char
	w.stateMu.Unlock()
}

// processLine classifies one line. Detector matches fan out to the sinks
// and the event channel; the pet tracker sees every line regardless.
// Returns false when the context was cancelled mid-send.
func (w *Watcher) processLine(ctx context.Context, line string, eventCh chan<- event.Event) bool {
	if w.tracker != nil {
		w.tracker.ProcessLine(line)
	}

	for _, ev := range w.registry.Match(line) {
		if w.cfg.fanout != nil {
			w.cfg.fanout.Deliver(ev.Record())
		}
		select {
		case eventCh <- ev:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// updateStatus refreshes the position and pet fields of the snapshot.
func (w *Watcher) updateStatus(t *tailer.Tailer) {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	w.status.Position = t.Position()
	if w.tracker != nil {
		w.status.PetName = w.tracker.PetName()
	}
}

// sendError sends an error to the error channel.
// With a buffered channel, errors are only dropped if the buffer is full.
// The context case ensures we don't block during shutdown.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
		// Don't block during shutdown
	default:
		// Drop error only if buffer is full (rare with buffer size 16)
	}
}
