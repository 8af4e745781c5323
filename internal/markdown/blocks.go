// Package markdown converts between the service's block lists and local
// markdown files with frontmatter headers.
package markdown

import (
	"fmt"
	"strings"

	"github.com/notesync/notesync/internal/notion"
)

// FromBlocks renders blocks as markdown. Unrecognized block types are
// skipped; their tags come back in unsupported (unique, first-seen order)
// so callers can report what was dropped.
func FromBlocks(blocks []*notion.Block) (body string, unsupported []string) {
	var sb strings.Builder
	seen := map[string]bool{}

	for _, block := range blocks {
		text := block.PlainText()
		switch block.Type {
		case notion.BlockParagraph:
			sb.WriteString(text + "\n\n")
		case notion.BlockHeading1:
			sb.WriteString("# " + text + "\n\n")
		case notion.BlockHeading2:
			sb.WriteString("## " + text + "\n\n")
		case notion.BlockHeading3:
			sb.WriteString("### " + text + "\n\n")
		case notion.BlockBulletedListItem:
			sb.WriteString("- " + text + "\n")
		case notion.BlockNumberedListItem:
			sb.WriteString("1. " + text + "\n")
		case notion.BlockToDo:
			box := " "
			if block.Checked() {
				box = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s\n", box, text)
		case notion.BlockCode:
			fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", block.Language(), text)
		default:
			if !seen[block.Type] {
				seen[block.Type] = true
				unsupported = append(unsupported, block.Type)
			}
		}
	}

	return sb.String(), unsupported
}

// ToBlocks parses markdown into content blocks, the inverse of FromBlocks.
// Lines are handled one at a time: headings 1-3, checklist items, bulleted
// and numbered items, fenced code, and paragraphs for everything else.
// Blank lines outside code fences separate blocks and produce nothing.
func ToBlocks(body string) []*notion.Block {
	var (
		blocks    []*notion.Block
		inFence   bool
		fenceLang string
		fenceBuf  []string
	)

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)

		if inFence {
			if line == "```" {
				blocks = append(blocks, notion.NewCodeBlock(strings.Join(fenceBuf, "\n"), fenceLang))
				inFence = false
				fenceBuf = nil
				continue
			}
			// keep code lines verbatim, indentation included
			fenceBuf = append(fenceBuf, raw)
			continue
		}

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "```"):
			inFence = true
			fenceLang = strings.TrimSpace(line[3:])
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, notion.NewHeadingBlock(1, line[2:]))
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, notion.NewHeadingBlock(2, line[3:]))
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, notion.NewHeadingBlock(3, line[4:]))
		case strings.HasPrefix(line, "- [x] "), strings.HasPrefix(line, "- [X] "):
			blocks = append(blocks, notion.NewToDoBlock(line[6:], true))
		case strings.HasPrefix(line, "- [ ] "):
			blocks = append(blocks, notion.NewToDoBlock(line[6:], false))
		case strings.HasPrefix(line, "- "):
			blocks = append(blocks, notion.NewBulletedItemBlock(line[2:]))
		default:
			if text, ok := numberedItemText(line); ok {
				blocks = append(blocks, notion.NewNumberedItemBlock(text))
			} else {
				blocks = append(blocks, notion.NewParagraphBlock(line))
			}
		}
	}

	// unterminated fence: treat the buffered lines as code anyway
	if inFence {
		blocks = append(blocks, notion.NewCodeBlock(strings.Join(fenceBuf, "\n"), fenceLang))
	}

	return blocks
}

// numberedItemText matches "N. text" where N is one or more digits.
func numberedItemText(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || !strings.HasPrefix(line[i:], ". ") {
		return "", false
	}
	return line[i+2:], true
}
