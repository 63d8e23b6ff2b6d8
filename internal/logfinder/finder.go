// Package logfinder locates character log files and extracts the character
// name embedded in their filenames.
//
// The game writes one log file per character per server, named
// eqlog_<character>_<server>.txt, and starts a new file whenever the player
// logs a character in. The newest file by modification time is the one the
// game is currently appending to.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// EnvLogDir is the environment variable name for specifying the log directory.
const EnvLogDir = "EQWATCH_LOGDIR"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// charNamePattern extracts the character name from a log filename.
// Character names may contain word characters and spaces.
var charNamePattern = regexp.MustCompile(`^eqlog_([\w ]+)_`)

// logCandidate holds a log file path and its cached modification time.
// Stat results are cached so files deleted between filtering and sorting
// cannot skew the ordering.
type logCandidate struct {
	path    string
	modTime int64
}

// FindLatest returns the path of the most recently modified log file for the
// given server in dir, along with the character name extracted from its
// filename.
//
// Returns ErrNoLogFiles if no log files match.
func FindLatest(dir, server string) (path, charName string, err error) {
	pattern := filepath.Join(dir, "eqlog_*_"+server+".txt")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", "", fmt.Errorf("globbing log files: %w", err)
	}

	if len(matches) == 0 {
		return "", "", ErrNoLogFiles
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil {
			// Skip files that can't be stat'd (deleted, permission issues, etc.)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{
			path:    m,
			modTime: info.ModTime().UnixNano(),
		})
	}

	if len(candidates) == 0 {
		return "", "", ErrNoLogFiles
	}

	// Newest first.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})

	latest := candidates[0].path
	name, err := CharacterName(latest)
	if err != nil {
		return "", "", err
	}
	return latest, name, nil
}

// CharacterName extracts the character name from a log file path.
func CharacterName(path string) (string, error) {
	m := charNamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("cannot extract character name from %q", filepath.Base(path))
	}
	return m[1], nil
}

// FindLogDir returns the log directory to watch.
//
// Priority:
//  1. explicit (if non-empty)
//  2. EQWATCH_LOGDIR environment variable
//
// Returns ErrLogDirNotFound if neither names an existing directory.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if isDir(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("%w: %q is not a directory", ErrLogDirNotFound, explicit)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if isDir(envDir) {
			return envDir, nil
		}
		return "", fmt.Errorf("%w: %s points to an invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	return "", ErrLogDirNotFound
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
