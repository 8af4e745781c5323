package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notesync/notesync/internal/notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pageOne = "11111111-1111-1111-1111-111111111111"
	pageTwo = "22222222-2222-2222-2222-222222222222"

	march = "2024-03-01T10:00:00.000Z"
	april = "2024-04-01T10:00:00.000Z"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPull_FirstSyncWritesFilesAndLedger(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "Meeting Notes", march,
		notion.NewHeadingBlock(1, "Agenda"),
		notion.NewToDoBlock("send invites", false),
	)
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	result, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)

	require.Len(t, result.New, 1)
	assert.Empty(t, result.Updated)

	path := filepath.Join(dir, "Meeting Notes.md")
	assert.Equal(t, []string{path}, result.New)

	content := readFile(t, path)
	assert.Contains(t, content, "notion_id: "+normalizeID(pageOne))
	assert.Contains(t, content, "last_edited_time: "+march)
	assert.Contains(t, content, "# Agenda\n")
	assert.Contains(t, content, "- [ ] send invites\n")

	entry, ok := eng.Ledger().Entry(pageOne)
	require.True(t, ok)
	assert.Equal(t, path, entry.LocalPath)
	assert.Equal(t, march, entry.LastEditedTime)
	assert.Equal(t, Fingerprint([]byte(content)), entry.ContentHash)

	_, ok = eng.Ledger().LastSyncTime()
	assert.True(t, ok, "pull records the sync watermark")
}

func TestPull_PaginationAggregatesBeforeWriting(t *testing.T) {
	fake := newFakeService()
	fake.pageSize = 1
	fake.addPage(pageOne, "One", march, notion.NewParagraphBlock("1"))
	fake.addPage(pageTwo, "Two", march, notion.NewParagraphBlock("2"))
	fake.addPage("33333333-3333-3333-3333-333333333333", "Three", march, notion.NewParagraphBlock("3"))
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	fake.onQuery = func() {
		files, err := filepath.Glob(filepath.Join(dir, "*.md"))
		require.NoError(t, err)
		require.Empty(t, files, "no file may be written before pagination completes")
	}

	result, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "1", "2"}, fake.queryCursors)
	assert.Len(t, result.New, 3)
	for _, name := range []string{"One.md", "Two.md", "Three.md"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestPull_PartialFailureIsolation(t *testing.T) {
	fake := newFakeService()
	ids := []string{
		"aaaaaaaa-0000-0000-0000-000000000001",
		"aaaaaaaa-0000-0000-0000-000000000002",
		"aaaaaaaa-0000-0000-0000-000000000003",
		"aaaaaaaa-0000-0000-0000-000000000004",
		"aaaaaaaa-0000-0000-0000-000000000005",
	}
	for i, id := range ids {
		fake.addPage(id, "Page "+string(rune('A'+i)), march, notion.NewParagraphBlock("text"))
	}
	fake.failBlocksFor[ids[1]] = true
	eng, _ := newTestEngine(t, fake, PolicyOverwrite)

	result, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err, "one failed page does not fail the batch")

	assert.Len(t, result.New, 4)
	assert.False(t, eng.Ledger().IsKnown(ids[1]), "failed page stays out of the ledger")
	for _, id := range []string{ids[0], ids[2], ids[3], ids[4]} {
		assert.True(t, eng.Ledger().IsKnown(id))
	}
}

func TestPull_NewVsUpdatedClassification(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "Note", march, notion.NewParagraphBlock("text"))
	eng, _ := newTestEngine(t, fake, PolicyOverwrite)

	first, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)
	assert.Len(t, first.New, 1)
	assert.Empty(t, first.Updated)

	second, err := eng.Pull(t.Context(), PullOptions{Full: true})
	require.NoError(t, err)
	assert.Empty(t, second.New)
	assert.Len(t, second.Updated, 1)
}

func TestPull_Idempotent(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "Note", march,
		notion.NewParagraphBlock("text"),
		notion.NewCodeBlock("x := 1", "go"),
	)
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	_, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)

	path := filepath.Join(dir, "Note.md")
	firstContent := readFile(t, path)
	firstEntry, _ := eng.Ledger().Entry(pageOne)

	_, err = eng.Pull(t.Context(), PullOptions{Full: true})
	require.NoError(t, err)

	assert.Equal(t, firstContent, readFile(t, path), "unchanged remote produces identical bytes")
	secondEntry, _ := eng.Ledger().Entry(pageOne)
	assert.Equal(t, firstEntry.ContentHash, secondEntry.ContentHash)
	assert.Empty(t, eng.Ledger().DetectLocalChanges())
}

func TestPull_IncrementalFiltersOnWatermark(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "Old", "2024-01-15T00:00:00.000Z", notion.NewParagraphBlock("old"))
	fake.addPage(pageTwo, "New", april, notion.NewParagraphBlock("new"))
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	eng.Ledger().TouchLastSync(mustParseTime(t, "2024-03-01T00:00:00Z"))

	result, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)

	require.NotNil(t, fake.lastFilter)
	assert.Equal(t, "last_edited_time", fake.lastFilter.Timestamp)
	assert.Equal(t, "2024-03-01T00:00:00Z", fake.lastFilter.LastEditedTime.OnOrAfter)

	assert.Len(t, result.New, 1)
	assert.FileExists(t, filepath.Join(dir, "New.md"))
	assert.NoFileExists(t, filepath.Join(dir, "Old.md"))

	// A full pull ignores the watermark and sends no filter.
	result, err = eng.Pull(t.Context(), PullOptions{Full: true})
	require.NoError(t, err)
	assert.Nil(t, fake.lastFilter)
	assert.FileExists(t, filepath.Join(dir, "Old.md"))
	assert.Len(t, result.New, 1, "the old page is new to the ledger")
}

func TestPull_CollidingTitlesGetIDSuffix(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "A/B", march, notion.NewParagraphBlock("first"))
	fake.addPage(pageTwo, "A_B", march, notion.NewParagraphBlock("second"))
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	result, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)
	require.Len(t, result.New, 2)

	first := filepath.Join(dir, "A_B.md")
	second := filepath.Join(dir, "A_B-22222222.md")
	assert.Equal(t, []string{first, second}, result.New)
	assert.Contains(t, readFile(t, first), "first")
	assert.Contains(t, readFile(t, second), "second")
}

func TestPull_KnownPageKeepsPathAfterRename(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "Draft", march, notion.NewParagraphBlock("v1"))
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	_, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)

	fake.page(pageOne).Properties["Name"] = notion.PropertyValue{
		Type:  notion.PropTitle,
		Title: []notion.RichText{{PlainText: "Final"}},
	}
	fake.page(pageOne).LastEditedTime = april
	fake.blocks[pageOne] = []*notion.Block{notion.NewParagraphBlock("v2")}

	result, err := eng.Pull(t.Context(), PullOptions{Full: true})
	require.NoError(t, err)

	require.Len(t, result.Updated, 1)
	assert.Equal(t, filepath.Join(dir, "Draft.md"), result.Updated[0])
	assert.NoFileExists(t, filepath.Join(dir, "Final.md"))
	assert.Contains(t, readFile(t, filepath.Join(dir, "Draft.md")), "v2")
}

func TestPull_LocalEditSurvivesWhenRemoteUnchanged(t *testing.T) {
	fake := newFakeService()
	fake.addPage(pageOne, "Note", march, notion.NewParagraphBlock("remote text"))
	eng, dir := newTestEngine(t, fake, PolicyOverwrite)

	_, err := eng.Pull(t.Context(), PullOptions{})
	require.NoError(t, err)

	path := filepath.Join(dir, "Note.md")
	edited := readFile(t, path) + "local addition\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	result, err := eng.Pull(t.Context(), PullOptions{Full: true})
	require.NoError(t, err)

	assert.Empty(t, result.Updated, "nothing to write, remote did not move")
	assert.Equal(t, edited, readFile(t, path))
	assert.Equal(t, []string{path}, eng.Ledger().DetectLocalChanges(), "edit still pending for push")
}

func TestPull_ConflictPolicies(t *testing.T) {
	setup := func(t *testing.T, policy ConflictPolicy) (*Engine, *fakeService, string) {
		fake := newFakeService()
		fake.addPage(pageOne, "Note", march, notion.NewParagraphBlock("remote v1"))
		eng, dir := newTestEngine(t, fake, policy)

		_, err := eng.Pull(t.Context(), PullOptions{})
		require.NoError(t, err)

		path := filepath.Join(dir, "Note.md")
		require.NoError(t, os.WriteFile(path, []byte(readFile(t, path)+"local edit\n"), 0o644))

		fake.page(pageOne).LastEditedTime = april
		fake.blocks[pageOne] = []*notion.Block{notion.NewParagraphBlock("remote v2")}
		return eng, fake, path
	}

	t.Run("overwrite replaces the local edit", func(t *testing.T) {
		eng, _, path := setup(t, PolicyOverwrite)

		result, err := eng.Pull(t.Context(), PullOptions{Full: true})
		require.NoError(t, err)

		require.Len(t, result.Updated, 1)
		content := readFile(t, path)
		assert.Contains(t, content, "remote v2")
		assert.NotContains(t, content, "local edit")
		assert.Empty(t, eng.Ledger().DetectLocalChanges())
	})

	t.Run("keep-local preserves the local edit", func(t *testing.T) {
		eng, _, path := setup(t, PolicyKeepLocal)

		result, err := eng.Pull(t.Context(), PullOptions{Full: true})
		require.NoError(t, err)

		assert.Empty(t, result.Updated)
		content := readFile(t, path)
		assert.Contains(t, content, "local edit")
		assert.NotContains(t, content, "remote v2")
		assert.Equal(t, []string{path}, eng.Ledger().DetectLocalChanges(), "the skipped page still counts as locally modified")
	})

	t.Run("backup saves the local edit then replaces", func(t *testing.T) {
		eng, _, path := setup(t, PolicyBackup)

		result, err := eng.Pull(t.Context(), PullOptions{Full: true})
		require.NoError(t, err)

		require.Len(t, result.Updated, 1)
		assert.Contains(t, readFile(t, path), "remote v2")

		backup := asMarkedPath(path)
		require.FileExists(t, backup)
		assert.Contains(t, readFile(t, backup), "local edit")
	})
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}
