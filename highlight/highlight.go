// Package highlight computes a flat, nesting-safe list of syntax highlights
// from a parsed document for editor buffer coloring, grounded on spec.md
// §4.H. The walk mirrors the post-order traversal shape used throughout this
// module's AST helpers (ast.TextContent's recursive descent), but emission
// itself happens in pre-order: a parent's highlight is appended before its
// children's, which combined with the tree's own containment guarantees the
// no-cross-overlap invariant for free.
package highlight

import (
	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// Tag names the semantic class of a highlighted span. The vocabulary is the
// set of node kinds that carry visual meaning for an editor, per spec.md
// §4.H; container kinds with no styling of their own (Document, Paragraph,
// TableRow, TableCell, LineBreak) are walked but never emit a highlight.
type Tag string

const (
	TagHeading1      Tag = "heading.1"
	TagHeading2      Tag = "heading.2"
	TagHeading3      Tag = "heading.3"
	TagHeading4      Tag = "heading.4"
	TagHeading5      Tag = "heading.5"
	TagHeading6      Tag = "heading.6"
	TagBlockQuote    Tag = "blockquote"
	TagList          Tag = "list"
	TagListItem      Tag = "list.item"
	TagTaskCheckbox  Tag = "task_checkbox"
	TagCodeBlock     Tag = "code.block"
	TagHTMLBlock     Tag = "html.block"
	TagThematicBreak Tag = "thematic_break"
	TagTable         Tag = "table"
	TagReferenceDef  Tag = "reference.definition"
	TagMathBlock     Tag = "math.block"
	TagAdmonition    Tag = "admonition"
	TagFootnoteDef   Tag = "footnote.definition"
	TagEmphasis      Tag = "emphasis"
	TagStrong        Tag = "strong"
	TagStrikethrough Tag = "strikethrough"
	TagHighlight     Tag = "highlight"
	TagSubscript     Tag = "subscript"
	TagSuperscript   Tag = "superscript"
	TagCode          Tag = "code.inline"
	TagLink          Tag = "link"
	TagImage         Tag = "image"
	TagAutolink      Tag = "autolink"
	TagHTMLInline    Tag = "html.inline"
	TagEscaped       Tag = "escaped"
	TagMathInline    Tag = "math.inline"
	TagEmoji         Tag = "emoji"
	TagFootnoteRef   Tag = "footnote.ref"
	TagRunInline     Tag = "run.inline"
	TagBookmark      Tag = "bookmark"
	TagToc           Tag = "toc"
	TagUserMention   Tag = "user.mention"
)

var kindTags = map[ast.Kind]Tag{
	ast.KindBlockQuote:          TagBlockQuote,
	ast.KindList:                TagList,
	ast.KindListItem:            TagListItem,
	ast.KindTaskCheckbox:        TagTaskCheckbox,
	ast.KindCodeBlock:           TagCodeBlock,
	ast.KindHTMLBlock:           TagHTMLBlock,
	ast.KindThematicBreak:       TagThematicBreak,
	ast.KindTable:               TagTable,
	ast.KindReferenceDefinition: TagReferenceDef,
	ast.KindMathBlock:           TagMathBlock,
	ast.KindAdmonition:          TagAdmonition,
	ast.KindFootnoteDefinition:  TagFootnoteDef,
	ast.KindEmphasis:            TagEmphasis,
	ast.KindStrong:              TagStrong,
	ast.KindStrikethrough:       TagStrikethrough,
	ast.KindHighlight:           TagHighlight,
	ast.KindSubscript:           TagSubscript,
	ast.KindSuperscript:         TagSuperscript,
	ast.KindCode:                TagCode,
	ast.KindLink:                TagLink,
	ast.KindReferenceLink:       TagLink,
	ast.KindImage:               TagImage,
	ast.KindReferenceImage:      TagImage,
	ast.KindAutolink:            TagAutolink,
	ast.KindHTMLInline:          TagHTMLInline,
	ast.KindEscaped:             TagEscaped,
	ast.KindMathInline:          TagMathInline,
	ast.KindEmoji:               TagEmoji,
	ast.KindFootnoteRef:         TagFootnoteRef,
	ast.KindInlineFootnote:      TagFootnoteRef,
	ast.KindRunInline:           TagRunInline,
	ast.KindBookmark:            TagBookmark,
	ast.KindToc:                 TagToc,
	ast.KindUserMention:         TagUserMention,
}

var headingTags = [...]Tag{TagHeading1, TagHeading2, TagHeading3, TagHeading4, TagHeading5, TagHeading6}

// Highlight is one (span, tag) styling record.
type Highlight struct {
	Span span.Span
	Tag  Tag
}

// Compute walks doc's tree in pre-order and returns its highlight list. The
// walk order is deterministic for a given tree: children are visited in
// document order, left to right.
func Compute(doc *ast.Document) []Highlight {
	var out []Highlight
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if tag, ok := tagFor(n); ok {
			out = append(out, Highlight{Span: n.Span(), Tag: tag})
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(doc.Root)
	return out
}

func tagFor(n *ast.Node) (Tag, bool) {
	if n.Kind() == ast.KindHeading {
		level := n.Level
		if level < 1 {
			level = 1
		}
		if level > len(headingTags) {
			level = len(headingTags)
		}
		return headingTags[level-1], true
	}
	tag, ok := kindTags[n.Kind()]
	return tag, ok
}
