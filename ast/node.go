package ast

import "github.com/ranrar/marco/span"

// Node is the single concrete type backing every variant in Kind. Only the
// fields relevant to a node's Kind are populated; the rest are zero.
type Node struct {
	kind Kind
	span span.Span

	parent, firstChild, lastChild, next, prev *Node

	// Heading
	Level     int
	HeadingID string

	// List
	Ordered    bool
	Start      *uint32
	Tight      bool

	// ListItem
	Task *bool

	// TaskCheckbox
	Checked bool

	// CodeBlock
	Language string
	Info     string
	Fenced   bool

	// HtmlBlock
	HTMLBlockKind int

	// Table / TableRow
	Alignments []Alignment
	HeaderRow  bool

	// ReferenceDefinition / Link / Image / ReferenceLink / ReferenceImage / Autolink / FootnoteRef / FootnoteDefinition
	Label string
	URL   string
	Title string
	Alt   string

	// Admonition
	AdmonitionKind string

	// LineBreak
	Hard bool

	// Escaped
	Char rune

	// Emoji
	Name      string
	Shortcode bool

	// RunInline
	ScriptType string
	Command    string

	// Toc
	Depth    *uint32
	Document string

	// Bookmark
	Path string
	Line *uint32

	// UserMention
	Username    string
	Platform    string
	DisplayName string

	// Text / Code / HtmlInline / MathInline / MathBlock / CodeBlock content.
	// Populated with the literal text payload for leaf nodes; for Text
	// nodes produced directly from a source slice, Literal is still kept
	// in sync with Span.Value(source) by the producer, so consumers never
	// need the original source just to read node text.
	Literal string
}

// NewNode constructs a bare node of the given kind and span. Callers attach
// children with AppendChild.
func NewNode(kind Kind, sp span.Span) *Node {
	return &Node{kind: kind, span: sp}
}

// Kind returns the node's tagged variant.
func (n *Node) Kind() Kind { return n.kind }

// Span returns the node's source span.
func (n *Node) Span() span.Span { return n.span }

// SetSpan overwrites the node's span; used by the builder when a span must
// be widened after children are attached (e.g. a List's span growing to
// cover its last item).
func (n *Node) SetSpan(sp span.Span) { n.span = sp }

// Parent returns the node's parent, or nil for the document root.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the node's first child, or nil if it has none.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the node's last child, or nil if it has none.
func (n *Node) LastChild() *Node { return n.lastChild }

// NextSibling returns the next sibling in document order, or nil.
func (n *Node) NextSibling() *Node { return n.next }

// PrevSibling returns the previous sibling in document order, or nil.
func (n *Node) PrevSibling() *Node { return n.prev }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.next {
		count++
	}
	return count
}

// AppendChild appends child to the end of parent's child list. child must
// not already be attached to a tree.
func AppendChild(parent, child *Node) {
	child.parent = parent
	child.prev = parent.lastChild
	child.next = nil
	if parent.lastChild != nil {
		parent.lastChild.next = child
	} else {
		parent.firstChild = child
	}
	parent.lastChild = child
}

// PrependChild inserts child at the start of parent's child list.
func PrependChild(parent, child *Node) {
	child.parent = parent
	child.next = parent.firstChild
	child.prev = nil
	if parent.firstChild != nil {
		parent.firstChild.prev = child
	} else {
		parent.lastChild = child
	}
	parent.firstChild = child
}

// RemoveChild detaches child from parent's child list. It is a no-op if
// child is not currently a child of parent.
func RemoveChild(parent, child *Node) {
	if child.parent != parent {
		return
	}
	if child.prev != nil {
		child.prev.next = child.next
	} else {
		parent.firstChild = child.next
	}
	if child.next != nil {
		child.next.prev = child.prev
	} else {
		parent.lastChild = child.prev
	}
	child.parent, child.next, child.prev = nil, nil, nil
}

// Children returns the direct children as a slice, for callers that prefer
// range-over-slice to manual linked-list walking.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, n.ChildCount())
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// TextContent flattens the textual content of n and its descendants,
// concatenating every Text/Code/Escaped/HtmlInline leaf. Used for alt text
// and autolink labels where the spec requires "the flattened textual
// content of the inner inlines."
func TextContent(n *Node) string {
	var out []byte
	Walk(n, func(node *Node, entering bool) (WalkStatus, error) {
		if !entering {
			return WalkContinue, nil
		}
		switch node.kind {
		case KindText, KindCode, KindHTMLInline, KindMathInline:
			out = append(out, node.Literal...)
		case KindEscaped:
			out = append(out, string(node.Char)...)
		case KindLineBreak:
			out = append(out, ' ')
		}
		return WalkContinue, nil
	})
	return string(out)
}
