package notion

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePage_BodyShape(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"page","id":"new-page"}`))
	}))

	page, err := client.CreatePage(t.Context(), &CreatePageRequest{
		Parent: Parent{DatabaseID: "db1"},
		Properties: map[string]PropertyValue{
			"Name":     NewTitleProperty("Buy milk"),
			"Checkbox": NewCheckboxProperty(false),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-page", page.ID)

	parent := got["parent"].(map[string]any)
	assert.Equal(t, "db1", parent["database_id"])

	props := got["properties"].(map[string]any)
	title := props["Name"].(map[string]any)["title"].([]any)
	require.Len(t, title, 1)
	text := title[0].(map[string]any)["text"].(map[string]any)
	assert.Equal(t, "Buy milk", text["content"])

	// an unchecked box still serializes explicitly
	checkbox := props["Checkbox"].(map[string]any)
	assert.Equal(t, false, checkbox["checkbox"])
}

func TestRetrievePage_ParsesProperties(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pages/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object": "page",
			"id": "p1",
			"last_edited_time": "2024-03-01T10:00:00.000Z",
			"properties": {
				"Name": {"type":"title","title":[{"plain_text":"Groceries"}]},
				"Done": {"type":"checkbox","checkbox":true}
			}
		}`))
	}))

	page, err := client.RetrievePage(t.Context(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "Groceries", page.Title())
	assert.Equal(t, "2024-03-01T10:00:00.000Z", page.LastEditedTime)
	assert.True(t, page.Properties["Done"].Checked())
}

func TestUpdatePageCheckbox(t *testing.T) {
	var got map[string]any
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"page","id":"p9"}`))
	}))

	_, err := client.UpdatePageCheckbox(t.Context(), "p9", "Done", true)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/v1/pages/p9", gotPath)
	done := got["properties"].(map[string]any)["Done"].(map[string]any)
	assert.Equal(t, true, done["checkbox"])
}
