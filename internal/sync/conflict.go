package sync

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/notesync/notesync/internal/utils"
)

// ConflictPolicy decides what happens when a file changed locally and the
// remote page changed too since the last sync.
type ConflictPolicy string

const (
	// PolicyOverwrite is last-writer-wins: the incoming side replaces the
	// other without ceremony.
	PolicyOverwrite ConflictPolicy = "overwrite"
	// PolicyKeepLocal leaves the local file alone and skips the operation.
	PolicyKeepLocal ConflictPolicy = "keep-local"
	// PolicyBackup saves the losing version as a conflict copy first.
	PolicyBackup ConflictPolicy = "backup"
)

// ParseConflictPolicy maps config values to a policy. The empty string and
// the legacy "newer_wins" spelling mean overwrite.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite", "newer_wins", "newer-wins":
		return PolicyOverwrite, nil
	case "keep-local", "keep_local", "local":
		return PolicyKeepLocal, nil
	case "backup":
		return PolicyBackup, nil
	}
	return "", fmt.Errorf("sync: unknown conflict policy %q", s)
}

// ConflictMarker is the dot-suffix for conflict copies. Simple suffixes
// keep the paths command-line friendly.
const ConflictMarker = ".conflict"

// markerTimeFormat timestamps rotated conflict copies so they sort
// lexicographically by time.
const markerTimeFormat = "20060102150405"

// SetConflictMarker moves a file aside as its conflict copy, rotating any
// existing copy out of the way. Returns the marked path.
// e.g. "note.md" -> "note.conflict.md"
func SetConflictMarker(path string) (string, error) {
	if !utils.FileExists(path) {
		return "", fmt.Errorf("cannot mark file: source file does not exist: %s", path)
	}

	marked, err := prepareMarkedPath(path)
	if err != nil {
		return "", err
	}

	if err := os.Rename(path, marked); err != nil {
		return "", fmt.Errorf("failed to mark file from %s to %s: %w", path, marked, err)
	}

	return marked, nil
}

// CopyConflictMarker writes a conflict copy of a file while leaving the
// original in place. Used on the push side, where the local file must
// survive the skipped operation.
func CopyConflictMarker(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot copy file for marking: %w", err)
	}

	marked, err := prepareMarkedPath(path)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(marked, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write conflict copy %s: %w", marked, err)
	}

	return marked, nil
}

// prepareMarkedPath computes the marked path and rotates an existing
// conflict copy out of the way with its timestamp.
func prepareMarkedPath(path string) (string, error) {
	marked := asMarkedPath(path)
	if utils.FileExists(marked) {
		rotated := asRotatedPath(marked, time.Now())
		if err := os.Rename(marked, rotated); err != nil {
			return "", fmt.Errorf("failed to rotate existing conflict copy from %s to %s: %w", marked, rotated, err)
		}
		slog.Debug("rotated conflict copy", "from", marked, "to", rotated)
	}
	return marked, nil
}

// asMarkedPath constructs the marked path string.
// e.g. "note.md" -> "note.conflict.md"
func asMarkedPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + ConflictMarker + ext
}

// asRotatedPath constructs the timestamped path for rotation.
// e.g. "note.conflict.md" -> "note.conflict.20250712234500.md"
func asRotatedPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s.%s%s", base, t.Format(markerTimeFormat), ext)
}
