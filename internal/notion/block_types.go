package notion

// Block types the content codec understands.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
	BlockCode             = "code"
)

// Block is a flat content block. Type carries the raw tag from the wire, so
// variants this client has no payload struct for still identify themselves
// and can be reported instead of dropped silently.
type Block struct {
	Object           string         `json:"object,omitempty"`
	ID               string         `json:"id,omitempty"`
	Type             string         `json:"type"`
	HasChildren      bool           `json:"has_children,omitempty"`
	Paragraph        *RichTextValue `json:"paragraph,omitempty"`
	Heading1         *RichTextValue `json:"heading_1,omitempty"`
	Heading2         *RichTextValue `json:"heading_2,omitempty"`
	Heading3         *RichTextValue `json:"heading_3,omitempty"`
	BulletedListItem *RichTextValue `json:"bulleted_list_item,omitempty"`
	NumberedListItem *RichTextValue `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoValue     `json:"to_do,omitempty"`
	Code             *CodeValue     `json:"code,omitempty"`
}

type RichTextValue struct {
	RichText []RichText `json:"rich_text"`
}

type ToDoValue struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type CodeValue struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// AppendBlockChildrenRequest is the body for appending content blocks.
type AppendBlockChildrenRequest struct {
	Children []*Block `json:"children"`
}

// BlockChildrenResponse is the list envelope returned by the block
// children endpoints.
type BlockChildrenResponse struct {
	Object     string   `json:"object,omitempty"`
	Results    []*Block `json:"results"`
	HasMore    bool     `json:"has_more,omitempty"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// PlainText flattens the block's rich text fragments.
func (b *Block) PlainText() string {
	return JoinPlainText(b.richText())
}

// Checked reports the to_do state. False for every other block type.
func (b *Block) Checked() bool {
	return b.ToDo != nil && b.ToDo.Checked
}

// Language returns the code block language, empty for other types.
func (b *Block) Language() string {
	if b.Code == nil {
		return ""
	}
	return b.Code.Language
}

func (b *Block) richText() []RichText {
	switch b.Type {
	case BlockParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.RichText
		}
	case BlockHeading1:
		if b.Heading1 != nil {
			return b.Heading1.RichText
		}
	case BlockHeading2:
		if b.Heading2 != nil {
			return b.Heading2.RichText
		}
	case BlockHeading3:
		if b.Heading3 != nil {
			return b.Heading3.RichText
		}
	case BlockBulletedListItem:
		if b.BulletedListItem != nil {
			return b.BulletedListItem.RichText
		}
	case BlockNumberedListItem:
		if b.NumberedListItem != nil {
			return b.NumberedListItem.RichText
		}
	case BlockToDo:
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	case BlockCode:
		if b.Code != nil {
			return b.Code.RichText
		}
	}
	return nil
}

func NewParagraphBlock(text string) *Block {
	return &Block{
		Object:    "block",
		Type:      BlockParagraph,
		Paragraph: &RichTextValue{RichText: NewRichText(text)},
	}
}

// NewHeadingBlock builds a heading block. Levels outside 1..3 clamp to 3.
func NewHeadingBlock(level int, text string) *Block {
	value := &RichTextValue{RichText: NewRichText(text)}
	block := &Block{Object: "block"}
	switch level {
	case 1:
		block.Type = BlockHeading1
		block.Heading1 = value
	case 2:
		block.Type = BlockHeading2
		block.Heading2 = value
	default:
		block.Type = BlockHeading3
		block.Heading3 = value
	}
	return block
}

func NewBulletedItemBlock(text string) *Block {
	return &Block{
		Object:           "block",
		Type:             BlockBulletedListItem,
		BulletedListItem: &RichTextValue{RichText: NewRichText(text)},
	}
}

func NewNumberedItemBlock(text string) *Block {
	return &Block{
		Object:           "block",
		Type:             BlockNumberedListItem,
		NumberedListItem: &RichTextValue{RichText: NewRichText(text)},
	}
}

func NewToDoBlock(text string, checked bool) *Block {
	return &Block{
		Object: "block",
		Type:   BlockToDo,
		ToDo:   &ToDoValue{RichText: NewRichText(text), Checked: checked},
	}
}

func NewCodeBlock(text, language string) *Block {
	return &Block{
		Object: "block",
		Type:   BlockCode,
		Code:   &CodeValue{RichText: NewRichText(text), Language: language},
	}
}
