// Package sync implements the notesync engine: a write-through ledger
// per synced directory, content fingerprinting for change detection, and
// the pull and push pipelines between a page database and local markdown
// files.
package sync

import (
	"github.com/notesync/notesync/internal/notion"
)

// Engine runs the pull and push pipelines for one database against the
// directory owned by its ledger. Processing is strictly sequential: one
// page at a time, and pull never interleaves with push within a run.
type Engine struct {
	client     *notion.Client
	ledger     *Ledger
	databaseID string
	policy     ConflictPolicy
}

// NewEngine wires a sync engine. The ledger must already be open; the
// engine does not close it. An empty policy means overwrite.
func NewEngine(client *notion.Client, ledger *Ledger, databaseID string, policy ConflictPolicy) *Engine {
	if policy == "" {
		policy = PolicyOverwrite
	}
	return &Engine{
		client:     client,
		ledger:     ledger,
		databaseID: databaseID,
		policy:     policy,
	}
}

// Ledger exposes the engine's journal for status queries and change
// detection.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}
