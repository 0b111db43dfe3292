package ast

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ReferenceDefinition is one entry of a document's reference-definition
// side table (label -> url/title).
type ReferenceDefinition struct {
	Label string
	URL   string
	Title string
}

// FootnoteDefinition is one entry of a document's footnote side table
// (label -> content subtree).
type FootnoteDefinition struct {
	Label   string
	Content *Node
}

// Document wraps the root Node together with the side tables the spec
// requires (reference definitions, footnote definitions), the original
// source bytes, and the source's line count.
type Document struct {
	Root *Node

	// References maps a normalized label to its definition. The first
	// writer for a given normalized label wins; later duplicate
	// definitions are not installed (see AddReference).
	References map[string]ReferenceDefinition

	// Footnotes maps a normalized label to its definition subtree.
	Footnotes map[string]*FootnoteDefinition

	// Source is the original document bytes, retained so renderers and
	// highlighters needing literal text (safe-mode raw HTML, for example)
	// never need a second copy threaded through every call.
	Source []byte

	// LineCount is the number of lines in Source, used by the highlight
	// provider's span-containment invariant check.
	LineCount int
}

// NewDocument creates an empty Document rooted at a KindDocument node.
func NewDocument(source []byte) *Document {
	return &Document{
		Root:       NewNode(KindDocument, Span{}),
		References: make(map[string]ReferenceDefinition),
		Footnotes:  make(map[string]*FootnoteDefinition),
		Source:     source,
	}
}

// NormalizeLabel implements the §3.3 normalization rule: Unicode
// case-folding with internal whitespace collapsed to single spaces.
// Normalization is idempotent: NormalizeLabel(NormalizeLabel(s)) == NormalizeLabel(s).
func NormalizeLabel(label string) string {
	fields := strings.Fields(label)
	collapsed := strings.Join(fields, " ")
	folded := norm.NFKC.String(strings.ToLower(collapsed))
	return folded
}

// AddReference installs a reference definition if no definition for its
// normalized label exists yet. It reports whether the definition was
// installed (false means a duplicate was ignored).
func (d *Document) AddReference(def ReferenceDefinition) bool {
	key := NormalizeLabel(def.Label)
	if _, exists := d.References[key]; exists {
		return false
	}
	d.References[key] = def
	return true
}

// LookupReference resolves a label through normalization.
func (d *Document) LookupReference(label string) (ReferenceDefinition, bool) {
	def, ok := d.References[NormalizeLabel(label)]
	return def, ok
}

// AddFootnote installs a footnote definition if no definition for its
// normalized label exists yet, mirroring AddReference's first-writer-wins
// rule.
func (d *Document) AddFootnote(label string, content *Node) bool {
	key := NormalizeLabel(label)
	if _, exists := d.Footnotes[key]; exists {
		return false
	}
	d.Footnotes[key] = &FootnoteDefinition{Label: label, Content: content}
	return true
}

// LookupFootnote resolves a footnote label through normalization.
func (d *Document) LookupFootnote(label string) (*FootnoteDefinition, bool) {
	def, ok := d.Footnotes[NormalizeLabel(label)]
	return def, ok
}
