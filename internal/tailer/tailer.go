// Package tailer owns the open log file handle and its read position.
//
// A Tailer follows exactly one log file at a time. OpenLatest selects the
// newest file for the watched server and switches to it when the game
// rotates to a new one (new character or session), closing the old handle
// before the new one is opened so lines are never read twice.
//
// A Tailer is not safe for concurrent use; it is owned by a single watcher
// goroutine.
package tailer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nxadm/tail"

	"github.com/eqwatch/eqwatch-go/internal/logfinder"
)

// Tailer tracks the active log file for one server in one directory.
type Tailer struct {
	dir    string
	server string
	log    *slog.Logger

	active bool
	file   string
	char   string
	t      *tail.Tail
}

// New creates a Tailer for the given log directory and server name.
// No file is opened until OpenLatest is called.
func New(dir, server string, log *slog.Logger) *Tailer {
	return &Tailer{dir: dir, server: server, log: log}
}

// OpenLatest scans the log directory for the newest matching log file and
// makes it the active file.
//
// Returns (false, nil) if the active file is already the newest one,
// (true, nil) if a file was opened or switched to, and an error if no log
// files exist or the open fails. When seekEnd is true reading starts at the
// end of the file, otherwise at the beginning.
func (tr *Tailer) OpenLatest(seekEnd bool) (bool, error) {
	latest, char, err := logfinder.FindLatest(tr.dir, tr.server)
	if err != nil {
		return false, err
	}

	if tr.active && tr.file == latest {
		return false, nil
	}

	if tr.active {
		// Rotation: release the old handle before opening the new file.
		tr.Stop()
	}

	if err := tr.open(latest, char, seekEnd); err != nil {
		return false, err
	}
	return true, nil
}

func (tr *Tailer) open(path, char string, seekEnd bool) error {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    false,
		Poll:      true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}
	if seekEnd {
		cfg.Location = &tail.SeekInfo{Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return fmt.Errorf("opening log file %q: %w", path, err)
	}

	tr.t = t
	tr.file = path
	tr.char = char
	tr.active = true
	tr.log.Debug("opened log file", "path", path, "character", char, "seek_end", seekEnd)
	return nil
}

// ReadLine returns the next line if the tailer is active and a line is
// available. Never blocks: returns ("", false) when inactive or when no new
// data has arrived yet.
func (tr *Tailer) ReadLine() (string, bool) {
	if !tr.active {
		return "", false
	}
	select {
	case line, ok := <-tr.t.Lines:
		if !ok {
			tr.active = false
			return "", false
		}
		if line.Err != nil {
			tr.log.Debug("read error", "path", tr.file, "err", line.Err)
			return "", false
		}
		return line.Text, true
	default:
		return "", false
	}
}

// Stop closes the active file and marks the tailer inactive.
// Safe to call when already inactive.
func (tr *Tailer) Stop() {
	if !tr.active {
		return
	}
	_ = tr.t.Stop()
	tr.t.Cleanup()
	tr.t = nil
	tr.active = false
	tr.log.Debug("closed log file", "path", tr.file)
}

// Active reports whether a log file is currently open.
func (tr *Tailer) Active() bool { return tr.active }

// Filename returns the path of the active log file ("" when inactive).
func (tr *Tailer) Filename() string {
	if !tr.active {
		return ""
	}
	return tr.file
}

// Character returns the character name extracted from the active log
// filename ("" when inactive).
func (tr *Tailer) Character() string {
	if !tr.active {
		return ""
	}
	return tr.char
}

// Position returns the current read offset in the active file.
func (tr *Tailer) Position() int64 {
	if !tr.active {
		return 0
	}
	pos, err := tr.t.Tell()
	if err != nil {
		return 0
	}
	return pos
}
