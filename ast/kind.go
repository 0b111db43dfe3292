// Package ast defines the tagged-variant node tree produced by the block
// and inline parsers and consumed by the HTML renderer and highlight
// provider.
//
// # ARCHITECTURE OVERVIEW
//
// A Node is a single concrete struct carrying a Kind tag plus every payload
// field any kind might need; unused fields are simply zero for a given
// kind. This replaces the more common one-struct-per-kind-plus-interface
// design: there is no visitor interface and no dynamic dispatch anywhere in
// this package or its consumers — every switch over node behavior is a
// plain `switch node.Kind()`. The tree itself stays a doubly linked list of
// siblings (FirstChild/LastChild/Next/Prev), the same traversal shape
// goldmark's ast.Node exposes (Parse, Walk, AppendChild, RemoveChild), so
// code written against this package reads the way code written against
// goldmark does, without adopting goldmark's per-kind interface hierarchy.
//
// KEY DESIGN PRINCIPLES
//   - Nodes are built once by the block/inline parsers and never mutated by
//     consumers; the HTML renderer and highlight provider are read-only
//     walkers.
//   - Every non-synthetic node carries a Span (see package span) that
//     survives every parser transformation (dedent, marker-stripping, tab
//     expansion) because spans are computed against the original source,
//     never against an intermediate string.
package ast

// Kind tags the variant a Node represents.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Block kinds.
	KindDocument
	KindHeading
	KindParagraph
	KindBlockQuote
	KindList
	KindListItem
	KindTaskCheckbox
	KindCodeBlock
	KindHTMLBlock
	KindThematicBreak
	KindTable
	KindTableRow
	KindTableCell
	KindReferenceDefinition
	KindMathBlock
	KindAdmonition
	KindFootnoteDefinition

	// Inline kinds.
	KindText
	KindCode
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindHighlight
	KindSubscript
	KindSuperscript
	KindLink
	KindImage
	KindReferenceLink
	KindReferenceImage
	KindAutolink
	KindHTMLInline
	KindLineBreak
	KindEscaped
	KindMathInline
	KindEmoji
	KindFootnoteRef
	KindInlineFootnote
	KindRunInline
	KindBookmark
	KindToc
	KindUserMention
)

var kindNames = map[Kind]string{
	KindInvalid:             "Invalid",
	KindDocument:            "Document",
	KindHeading:             "Heading",
	KindParagraph:           "Paragraph",
	KindBlockQuote:          "BlockQuote",
	KindList:                "List",
	KindListItem:            "ListItem",
	KindTaskCheckbox:        "TaskCheckbox",
	KindCodeBlock:           "CodeBlock",
	KindHTMLBlock:           "HtmlBlock",
	KindThematicBreak:       "ThematicBreak",
	KindTable:               "Table",
	KindTableRow:            "TableRow",
	KindTableCell:           "TableCell",
	KindReferenceDefinition: "ReferenceDefinition",
	KindMathBlock:           "MathBlock",
	KindAdmonition:          "Admonition",
	KindFootnoteDefinition:  "FootnoteDefinition",
	KindText:                "Text",
	KindCode:                "Code",
	KindEmphasis:            "Emphasis",
	KindStrong:              "Strong",
	KindStrikethrough:       "Strikethrough",
	KindHighlight:           "Highlight",
	KindSubscript:           "Subscript",
	KindSuperscript:         "Superscript",
	KindLink:                "Link",
	KindImage:               "Image",
	KindReferenceLink:       "ReferenceLink",
	KindReferenceImage:      "ReferenceImage",
	KindAutolink:            "Autolink",
	KindHTMLInline:          "HtmlInline",
	KindLineBreak:           "LineBreak",
	KindEscaped:             "Escaped",
	KindMathInline:          "MathInline",
	KindEmoji:               "Emoji",
	KindFootnoteRef:         "FootnoteRef",
	KindInlineFootnote:      "InlineFootnote",
	KindRunInline:           "RunInline",
	KindBookmark:            "Bookmark",
	KindToc:                 "Toc",
	KindUserMention:         "UserMention",
}

// String returns the variant's name, used in diagnostics and highlight tags.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsBlock reports whether k is one of the block-level variants.
func (k Kind) IsBlock() bool {
	return k >= KindDocument && k <= KindFootnoteDefinition
}

// IsInline reports whether k is one of the inline variants.
func (k Kind) IsInline() bool {
	return k >= KindText && k <= KindUserMention
}

// Alignment is a table column alignment.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "none"
	}
}
