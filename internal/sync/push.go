package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/notesync/notesync/internal/markdown"
)

// ErrNotLinked marks a file whose frontmatter carries no page id. Such a
// file cannot be pushed; it is skipped, never fatal.
var ErrNotLinked = errors.New("sync: file has no linked page id")

// errConflictSkip means the conflict policy vetoed a push. The veto is
// logged where it is decided.
var errConflictSkip = errors.New("sync: push vetoed by conflict policy")

// Push sends locally modified files back to their pages. The input is
// normally DetectLocalChanges output. Unlinked files and per-file API
// failures are logged and skipped; a failed file keeps its old ledger
// entry, so the next run picks it up again.
func (e *Engine) Push(ctx context.Context, files []string) ([]string, error) {
	pushed := make([]string, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return pushed, err
		}

		if err := e.pushFile(ctx, path); err != nil {
			switch {
			case errors.Is(err, ErrNotLinked):
				slog.Warn("skipping unlinked file", "path", path)
			case errors.Is(err, errConflictSkip):
				// already reported
			default:
				slog.Error("push file", "path", path, "error", err)
			}
			continue
		}

		pushed = append(pushed, path)
		slog.Info("pushed local changes", "path", path)
	}
	return pushed, nil
}

func (e *Engine) pushFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fields, body, ok := markdown.ParseFrontmatter(string(data))
	if !ok {
		return ErrNotLinked
	}
	pageID := fields[markdown.FieldNotionID]
	if pageID == "" {
		return ErrNotLinked
	}

	if err := e.checkRemoteDrift(ctx, pageID, path); err != nil {
		return err
	}

	blocks := markdown.ToBlocks(strings.TrimSpace(body))
	if _, err := e.client.AppendBlockChildren(ctx, pageID, blocks); err != nil {
		return fmt.Errorf("update page %s: %w", pageID, err)
	}

	// Move the ledger forward so the file stops reporting as modified.
	// The remote timestamp is carried over unchanged; the next pull
	// decides whether the page needs re-fetching.
	var lastEdited string
	if entry, known := e.ledger.Entry(pageID); known {
		lastEdited = entry.LastEditedTime
	}
	return e.ledger.RecordSync(pageID, path, Fingerprint(data), lastEdited)
}

// checkRemoteDrift applies the conflict policy before a push. The default
// overwrite policy is explicit last-writer-wins and performs no extra
// read. The other policies retrieve the page and compare its current
// timestamp against the one recorded at last sync; a moved remote vetoes
// the push, with backup saving a conflict copy of the local file first.
func (e *Engine) checkRemoteDrift(ctx context.Context, pageID, path string) error {
	if e.policy == PolicyOverwrite {
		return nil
	}

	entry, ok := e.ledger.Entry(pageID)
	if !ok || entry.LastEditedTime == "" {
		return nil
	}

	page, err := e.client.RetrievePage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	if page.LastEditedTime == entry.LastEditedTime {
		return nil
	}

	switch e.policy {
	case PolicyBackup:
		marked, err := CopyConflictMarker(path)
		if err != nil {
			return fmt.Errorf("conflict copy: %w", err)
		}
		slog.Warn("conflict: remote changed since last sync, local copy saved", "path", path, "page", pageID, "backup", marked)
	default:
		slog.Warn("conflict: remote changed since last sync, not pushing", "path", path, "page", pageID)
	}
	return errConflictSkip
}
