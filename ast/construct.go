package ast

import "github.com/ranrar/marco/span"

// NewText builds a Text leaf node, grounded on the original implementation's
// `Node::text(content, span)` convenience constructor (links.rs uses it as
// the universal fallback when link/image validation fails).
func NewText(literal string, sp span.Span) *Node {
	n := NewNode(KindText, sp)
	n.Literal = literal
	return n
}

// NewLink builds a Link node with a single Text child, mirroring
// `Node::link(children, url, title, span)` from the original source.
func NewLink(text string, url, title string, sp span.Span) *Node {
	n := NewNode(KindLink, sp)
	n.URL = url
	n.Title = title
	AppendChild(n, NewText(text, sp))
	return n
}

// NewHeading builds an empty Heading node; callers append inline children.
func NewHeading(level int, sp span.Span) *Node {
	n := NewNode(KindHeading, sp)
	n.Level = level
	return n
}

// NewCodeBlock builds a CodeBlock leaf node.
func NewCodeBlock(language, info, content string, fenced bool, sp span.Span) *Node {
	n := NewNode(KindCodeBlock, sp)
	n.Language = language
	n.Info = info
	n.Literal = content
	n.Fenced = fenced
	return n
}
