package eqwatch

import (
	"errors"
	"fmt"

	"github.com/eqwatch/eqwatch-go/internal/logfinder"
)

// Sentinel errors returned by the watcher API.
var (
	// ErrWatcherClosed is returned by Watch after Close has been called.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrAlreadyWatching is returned by a second call to Watch.
	ErrAlreadyWatching = errors.New("watcher is already watching")

	// ErrLogDirNotFound indicates the log directory could not be located.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound

	// ErrNoLogFiles indicates the directory holds no matching log files.
	ErrNoLogFiles = logfinder.ErrNoLogFiles
)

// WatchOp identifies which watcher operation an error came from.
type WatchOp string

const (
	WatchOpFindLatest WatchOp = "find_latest"
	WatchOpTail       WatchOp = "tail"
	WatchOpHeartbeat  WatchOp = "heartbeat"
)

// WatchError wraps an error from the watch loop with its operation and,
// when known, the log file involved.
type WatchError struct {
	Op   WatchOp
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("watch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Op, e.Err)
}

func (e *WatchError) Unwrap() error { return e.Err }
