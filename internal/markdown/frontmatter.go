package markdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notesync/notesync/internal/notion"
)

const delimiter = "---"

// Well-known frontmatter keys. FieldNotionID links a local file to its
// page; a file without it cannot be pushed.
const (
	FieldNotionID       = "notion_id"
	FieldLastEditedTime = "last_edited_time"
)

// RenderFrontmatter builds the frontmatter header for a pulled page. The
// page id is stored with dashes stripped. Property lines follow in sorted
// property-name order so repeated pulls of an unchanged page are
// byte-identical. Properties with no renderable value are omitted;
// checkboxes always render.
func RenderFrontmatter(props map[string]notion.PropertyValue, pageID, lastEditedTime string) string {
	var sb strings.Builder
	sb.WriteString(delimiter + "\n")
	fmt.Fprintf(&sb, "%s: %s\n", FieldNotionID, strings.ReplaceAll(pageID, "-", ""))
	fmt.Fprintf(&sb, "%s: %s\n", FieldLastEditedTime, lastEditedTime)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := props[name]
		key := strings.ToLower(name)

		switch prop.Type {
		case notion.PropTitle:
			if len(prop.Title) > 0 {
				fmt.Fprintf(&sb, "title: %q\n", notion.JoinPlainText(prop.Title))
			}
		case notion.PropRichText:
			if len(prop.RichText) > 0 {
				fmt.Fprintf(&sb, "%s: %q\n", key, notion.JoinPlainText(prop.RichText))
			}
		case notion.PropSelect:
			if prop.Select != nil && prop.Select.Name != "" {
				fmt.Fprintf(&sb, "%s: %s\n", key, prop.Select.Name)
			}
		case notion.PropMultiSelect:
			var quoted []string
			for _, opt := range prop.MultiSelect {
				if opt.Name != "" {
					quoted = append(quoted, fmt.Sprintf("%q", opt.Name))
				}
			}
			if len(quoted) > 0 {
				fmt.Fprintf(&sb, "%s: [%s]\n", key, strings.Join(quoted, ", "))
			}
		case notion.PropCheckbox:
			fmt.Fprintf(&sb, "%s: %t\n", key, prop.Checked())
		case notion.PropDate:
			if prop.Date != nil && prop.Date.Start != "" {
				fmt.Fprintf(&sb, "%s: %s\n", key, prop.Date.Start)
			}
		}
	}

	sb.WriteString(delimiter + "\n\n")
	return sb.String()
}

// ParseFrontmatter splits a markdown file into its frontmatter fields and
// body. Values are naive "key: value" pairs with surrounding quotes
// stripped. Returns ok=false when the header is missing or unterminated,
// with the full content as body; files without a header are not an error.
func ParseFrontmatter(content string) (fields map[string]string, body string, ok bool) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != delimiter {
		return nil, content, false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, content, false
	}

	fields = make(map[string]string)
	for _, line := range lines[1:end] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}
		if key != "" {
			fields[key] = value
		}
	}

	return fields, strings.Join(lines[end+1:], "\n"), true
}
