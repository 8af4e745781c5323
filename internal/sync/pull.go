package sync

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/notesync/notesync/internal/markdown"
	"github.com/notesync/notesync/internal/notion"
	"github.com/notesync/notesync/internal/utils"
)

// PullOptions controls one pull run.
type PullOptions struct {
	// Full ignores the incremental watermark and fetches every page.
	Full bool
}

// PullResult lists the files a pull wrote, split by whether the page was
// already tracked in the ledger before this run.
type PullResult struct {
	New     []string
	Updated []string
}

// Total is the number of files written.
func (r *PullResult) Total() int {
	return len(r.New) + len(r.Updated)
}

// Pull fetches pages from the database and writes them as markdown files
// with frontmatter into the ledger's directory. Incremental runs only
// query pages edited at or after the last recorded sync. The full result
// set is materialized across all pagination cursors before the first file
// is written. A failed content fetch or file write skips that page only;
// the rest of the batch proceeds.
func (e *Engine) Pull(ctx context.Context, opts PullOptions) (*PullResult, error) {
	var filter *notion.TimestampFilter
	switch {
	case opts.Full:
		slog.Info("full pull", "db", e.databaseID)
	default:
		if since, ok := e.ledger.LastSyncTime(); ok {
			filter = notion.EditedOnOrAfter(since)
			slog.Info("incremental pull", "db", e.databaseID, "since", since)
		} else {
			slog.Info("first sync, pulling everything", "db", e.databaseID)
		}
	}

	pages, err := e.client.QueryDatabaseAll(ctx, e.databaseID, filter)
	if err != nil {
		return nil, fmt.Errorf("query database %s: %w", e.databaseID, err)
	}
	slog.Info("pages to process", "db", e.databaseID, "count", len(pages))

	// Stage the watermark now; it reaches disk with the first RecordSync.
	e.ledger.TouchLastSync(time.Now())

	result := &PullResult{}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// Classified before this page's ledger write.
		isNew := !e.ledger.IsKnown(page.ID)

		blocks, err := e.client.GetBlockChildren(ctx, page.ID)
		if err != nil {
			slog.Error("fetch page content", "page", page.ID, "error", err)
			continue
		}

		body, unsupported := markdown.FromBlocks(blocks)
		if len(unsupported) > 0 {
			slog.Warn("dropped unsupported blocks", "page", page.ID, "types", unsupported)
		}

		path := e.localPath(page)
		if !e.shouldWriteLocal(page, path) {
			continue
		}

		content := markdown.RenderFrontmatter(page.Properties, page.ID, page.LastEditedTime) + body
		if err := utils.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
			slog.Error("write page file", "path", path, "error", err)
			continue
		}

		if err := e.ledger.RecordSync(page.ID, path, Fingerprint([]byte(content)), page.LastEditedTime); err != nil {
			return result, fmt.Errorf("record sync for %s: %w", page.ID, err)
		}

		if isNew {
			result.New = append(result.New, path)
			slog.Info("saved new page", "page", page.ID, "path", path)
		} else {
			result.Updated = append(result.Updated, path)
			slog.Info("updated page", "page", page.ID, "path", path)
		}
	}

	return result, nil
}

// localPath decides where a page lands on disk. Known pages keep their
// recorded path even when the title changed. New pages get the sanitized
// title; if another page already owns that name, a short id suffix keeps
// the two from overwriting each other.
func (e *Engine) localPath(page *notion.Page) string {
	if entry, ok := e.ledger.Entry(page.ID); ok && entry.LocalPath != "" {
		return entry.LocalPath
	}

	name := SanitizeTitle(page.Title())
	path := filepath.Join(e.ledger.Dir(), name+".md")
	if owner, taken := e.ledger.PathOwner(path); taken && owner != normalizeID(page.ID) {
		path = filepath.Join(e.ledger.Dir(), fmt.Sprintf("%s-%s.md", name, shortID(page.ID)))
	}
	return path
}

// shouldWriteLocal reports whether the remote version may replace the
// local file. A local edit with nothing new remotely always survives the
// pull (the push phase owns it). When both sides changed, the conflict
// policy decides.
func (e *Engine) shouldWriteLocal(page *notion.Page, path string) bool {
	entry, ok := e.ledger.Entry(page.ID)
	if !ok || !utils.FileExists(path) {
		return true
	}

	current, err := FileFingerprint(path)
	if err != nil {
		slog.Warn("could not fingerprint local file", "path", path, "error", err)
		return true
	}
	if current == entry.ContentHash {
		return true
	}

	if page.LastEditedTime == entry.LastEditedTime {
		slog.Debug("keeping local edit, remote unchanged", "path", path)
		return false
	}

	switch e.policy {
	case PolicyKeepLocal:
		slog.Warn("conflict: local and remote both changed, keeping local", "path", path, "page", page.ID)
		return false
	case PolicyBackup:
		marked, err := SetConflictMarker(path)
		if err != nil {
			slog.Error("conflict: could not back up local edit", "path", path, "error", err)
			return false
		}
		slog.Warn("conflict: local edit moved aside", "path", path, "backup", marked)
		return true
	default:
		slog.Warn("conflict: local and remote both changed, overwriting local", "path", path, "page", page.ID)
		return true
	}
}
