package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/notesync/notesync/internal/notion"
	"github.com/stretchr/testify/require"
)

// fakeService is an in-memory page database good enough for engine
// tests: query with optional timestamp filter and cursor pagination,
// block children fetch/append, and page retrieval.
type fakeService struct {
	t *testing.T

	pages    []*notion.Page
	blocks   map[string][]*notion.Block
	pageSize int // pages per query response; 0 means everything at once

	failBlocksFor map[string]bool // page ids whose content fetch fails
	failAppendFor map[string]bool // page ids whose content append fails

	queryCursors []string // start_cursor of every query request
	lastFilter   *notion.TimestampFilter
	appends      map[string][]*notion.Block // blocks appended per page id
	retrieves    int
	onQuery      func()
}

func newFakeService() *fakeService {
	return &fakeService{
		blocks:        map[string][]*notion.Block{},
		failBlocksFor: map[string]bool{},
		failAppendFor: map[string]bool{},
		appends:       map[string][]*notion.Block{},
	}
}

func (f *fakeService) addPage(id, title, lastEdited string, blocks ...*notion.Block) {
	f.pages = append(f.pages, &notion.Page{
		Object:         "page",
		ID:             id,
		LastEditedTime: lastEdited,
		Properties: map[string]notion.PropertyValue{
			"Name": {Type: notion.PropTitle, Title: []notion.RichText{{PlainText: title}}},
		},
	})
	f.blocks[id] = blocks
}

func (f *fakeService) page(id string) *notion.Page {
	for _, p := range f.pages {
		if normalizeID(p.ID) == normalizeID(id) {
			return p
		}
	}
	return nil
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/databases/{id}/query", f.handleQuery)
	mux.HandleFunc("GET /v1/blocks/{id}/children", f.handleBlocks)
	mux.HandleFunc("PATCH /v1/blocks/{id}/children", f.handleAppend)
	mux.HandleFunc("GET /v1/pages/{id}", f.handleRetrieve)
	return mux
}

func (f *fakeService) handleQuery(w http.ResponseWriter, r *http.Request) {
	if f.onQuery != nil {
		f.onQuery()
	}

	var req notion.QueryDatabaseRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.queryCursors = append(f.queryCursors, req.StartCursor)
	f.lastFilter = req.Filter

	matched := f.pages
	if req.Filter != nil && req.Filter.LastEditedTime != nil && req.Filter.LastEditedTime.OnOrAfter != "" {
		since, err := time.Parse(time.RFC3339, req.Filter.LastEditedTime.OnOrAfter)
		require.NoError(f.t, err)
		matched = nil
		for _, p := range f.pages {
			edited, err := time.Parse(time.RFC3339, p.LastEditedTime)
			require.NoError(f.t, err)
			if !edited.Before(since) {
				matched = append(matched, p)
			}
		}
	}

	start := 0
	if req.StartCursor != "" {
		start, _ = strconv.Atoi(req.StartCursor)
	}
	end := len(matched)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	resp := notion.QueryDatabaseResponse{Results: matched[start:end]}
	if end < len(matched) {
		resp.HasMore = true
		resp.NextCursor = strconv.Itoa(end)
	}
	writeJSON(w, resp)
}

func (f *fakeService) handleBlocks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if f.failBlocksFor[id] {
		writeAPIError(w)
		return
	}
	writeJSON(w, notion.BlockChildrenResponse{Object: "list", Results: f.blocks[id]})
}

func (f *fakeService) handleAppend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if f.failAppendFor[id] {
		writeAPIError(w)
		return
	}
	var req notion.AppendBlockChildrenRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.appends[id] = append(f.appends[id], req.Children...)
	writeJSON(w, notion.BlockChildrenResponse{Object: "list", Results: req.Children})
}

func (f *fakeService) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	f.retrieves++
	if p := f.page(r.PathValue("id")); p != nil {
		writeJSON(w, p)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"no such page"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(`{"object":"error","status":500,"code":"internal_server_error","message":"simulated failure"}`))
}

// newTestEngine stands up a fake service and an engine synced into a
// fresh temp directory.
func newTestEngine(t *testing.T, fake *fakeService, policy ConflictPolicy) (*Engine, string) {
	t.Helper()
	fake.t = t

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client, err := notion.New("test-token", notion.WithBaseURL(srv.URL))
	require.NoError(t, err)

	dir := t.TempDir()
	ledger, err := OpenLedger(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	return NewEngine(client, ledger, "db1", policy), dir
}
