package sync

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/notesync/notesync/internal/utils"
)

const (
	// LedgerFileName is the sync journal kept inside each synced directory.
	LedgerFileName = ".notion_sync.json"
	lockFileName   = ".notion_sync.lock"
)

// ErrLedgerLocked means another process holds the ledger for this
// directory. The caller should fail fast rather than wait.
var ErrLedgerLocked = errors.New("sync: ledger locked by another process")

// LedgerEntry records what was known about a page's local file at the
// last successful sync. LastEditedTime is the remote timestamp echoed
// verbatim; LastSynced is our wall clock.
type LedgerEntry struct {
	LocalPath      string    `json:"local_path"`
	ContentHash    string    `json:"content_hash"`
	LastEditedTime string    `json:"last_edited_time"`
	LastSynced     time.Time `json:"last_synced"`
}

type ledgerState struct {
	LastSync *time.Time              `json:"last_sync,omitempty"`
	Files    map[string]*LedgerEntry `json:"files"`
}

// Ledger is the write-through sync journal for one directory. Every
// RecordSync persists the whole state before returning, so a crash mid-run
// loses at most the page being processed. A flock sidecar guards against
// concurrent runs over the same directory.
type Ledger struct {
	dir   string
	path  string
	lock  *flock.Flock
	state ledgerState
}

// OpenLedger loads the journal for dir, creating the directory if needed.
// A missing journal file is an empty state, never an error. Returns
// ErrLedgerLocked when another process holds the directory.
func OpenLedger(dir string) (*Ledger, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create sync dir %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLedgerLocked, dir)
	}

	ledger := &Ledger{
		dir:   dir,
		path:  filepath.Join(dir, LedgerFileName),
		lock:  lock,
		state: ledgerState{Files: make(map[string]*LedgerEntry)},
	}

	data, err := os.ReadFile(ledger.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ledger, nil
		}
		_ = lock.Unlock()
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if err := jsonUnmarshal(data, &ledger.state); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("parse ledger %s: %w", ledger.path, err)
	}
	if ledger.state.Files == nil {
		ledger.state.Files = make(map[string]*LedgerEntry)
	}

	return ledger, nil
}

// Close releases the directory lock. State already persisted stays on disk.
func (l *Ledger) Close() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release ledger lock: %w", err)
	}
	return nil
}

// Dir returns the directory this ledger journals.
func (l *Ledger) Dir() string {
	return l.dir
}

// TouchLastSync stages the watermark for the run. It reaches disk with the
// next RecordSync, so a run that syncs nothing leaves the stored watermark
// untouched and the next incremental pull re-covers the same window.
func (l *Ledger) TouchLastSync(t time.Time) {
	l.state.LastSync = &t
}

// LastSyncTime reports the persisted watermark, ok=false if never synced.
func (l *Ledger) LastSyncTime() (time.Time, bool) {
	if l.state.LastSync == nil {
		return time.Time{}, false
	}
	return *l.state.LastSync, true
}

// IsKnown reports whether a page already has a ledger entry. Accepts
// dashed or undashed ids.
func (l *Ledger) IsKnown(pageID string) bool {
	_, ok := l.state.Files[normalizeID(pageID)]
	return ok
}

// Entry returns the recorded state for a page.
func (l *Ledger) Entry(pageID string) (*LedgerEntry, bool) {
	entry, ok := l.state.Files[normalizeID(pageID)]
	return entry, ok
}

// Len is the number of tracked pages.
func (l *Ledger) Len() int {
	return len(l.state.Files)
}

// PathOwner reports which page currently owns a local path.
func (l *Ledger) PathOwner(path string) (string, bool) {
	for id, entry := range l.state.Files {
		if entry.LocalPath == path {
			return id, true
		}
	}
	return "", false
}

// RecordSync upserts a page's entry, stamps it with the current time and
// persists the whole journal before returning.
func (l *Ledger) RecordSync(pageID, localPath, contentHash, lastEditedTime string) error {
	l.state.Files[normalizeID(pageID)] = &LedgerEntry{
		LocalPath:      localPath,
		ContentHash:    contentHash,
		LastEditedTime: lastEditedTime,
		LastSynced:     time.Now(),
	}
	return l.persist()
}

// DetectLocalChanges fingerprints every tracked file and returns the paths
// whose content differs from the last sync, sorted. Entries whose file is
// gone are skipped.
func (l *Ledger) DetectLocalChanges() []string {
	var modified []string
	for id, entry := range l.state.Files {
		if entry.LocalPath == "" || entry.ContentHash == "" {
			continue
		}
		if !utils.FileExists(entry.LocalPath) {
			slog.Debug("tracked file no longer exists", "path", entry.LocalPath, "page", id)
			continue
		}
		current, err := FileFingerprint(entry.LocalPath)
		if err != nil {
			slog.Warn("could not fingerprint file", "path", entry.LocalPath, "error", err)
			continue
		}
		if current != entry.ContentHash {
			modified = append(modified, entry.LocalPath)
		}
	}
	sort.Strings(modified)
	return modified
}

func (l *Ledger) persist() error {
	data, err := jsonMarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := utils.WriteFileAtomic(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
