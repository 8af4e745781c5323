package notion

import "strings"

// Property value types understood by the sync engine. Anything else is
// passed through untyped and ignored by the renderer.
const (
	PropTitle       = "title"
	PropRichText    = "rich_text"
	PropSelect      = "select"
	PropMultiSelect = "multi_select"
	PropCheckbox    = "checkbox"
	PropDate        = "date"
)

// Page is a database row. Content blocks are fetched separately via the
// block children endpoint. Timestamps stay opaque strings so they compare
// and render exactly as the service sent them.
type Page struct {
	Object         string                   `json:"object,omitempty"`
	ID             string                   `json:"id"`
	CreatedTime    string                   `json:"created_time,omitempty"`
	LastEditedTime string                   `json:"last_edited_time,omitempty"`
	Archived       bool                     `json:"archived,omitempty"`
	Properties     map[string]PropertyValue `json:"properties,omitempty"`
	URL            string                   `json:"url,omitempty"`
}

// Title returns the plain text of the page's title property, or "Untitled"
// when the property is absent or empty.
func (p *Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type != PropTitle {
			continue
		}
		if text := JoinPlainText(prop.Title); text != "" {
			return text
		}
		break
	}
	return "Untitled"
}

// PropertyValue is a tagged union over the property payloads. Type names
// the field that is set. Values built locally for create/update calls leave
// Type empty; the API infers it from the payload key.
type PropertyValue struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
}

// PlainText flattens the title or rich_text fragments into one string.
func (p PropertyValue) PlainText() string {
	switch p.Type {
	case PropTitle:
		return JoinPlainText(p.Title)
	case PropRichText:
		return JoinPlainText(p.RichText)
	}
	return ""
}

// Checked reports the checkbox state, false when unset.
func (p PropertyValue) Checked() bool {
	return p.Checkbox != nil && *p.Checkbox
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// Plain returns the fragment's text, preferring the service-populated
// plain_text over locally set content.
func (r RichText) Plain() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// CreatePageRequest is the body for page creation.
type CreatePageRequest struct {
	Parent     Parent                   `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
	Children   []*Block                 `json:"children,omitempty"`
}

// UpdatePageRequest patches a subset of page properties.
type UpdatePageRequest struct {
	Properties map[string]PropertyValue `json:"properties"`
}

// JoinPlainText concatenates the plain text of all fragments.
func JoinPlainText(fragments []RichText) string {
	var sb strings.Builder
	for _, frag := range fragments {
		sb.WriteString(frag.Plain())
	}
	return sb.String()
}

// NewRichText wraps content in a single text fragment, the shape the API
// expects on writes.
func NewRichText(content string) []RichText {
	return []RichText{{
		Type: "text",
		Text: &TextContent{Content: content},
	}}
}

func NewTitleProperty(text string) PropertyValue {
	return PropertyValue{Title: NewRichText(text)}
}

func NewCheckboxProperty(checked bool) PropertyValue {
	return PropertyValue{Checkbox: &checked}
}
