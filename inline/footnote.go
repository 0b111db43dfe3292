package inline

import "github.com/ranrar/marco/ast"

// scanFootnoteRef recognizes "[^label]", a reference to a footnote defined
// elsewhere in the document (spec.md §3.1's FootnoteRef{label}). Tried
// before scanLinkOrImage for the same '[' so a caret-prefixed bracket never
// falls through to the ordinary reference-link path, where "^label" would
// just be looked up (and fail) as an ordinary link label.
func scanFootnoteRef(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	if i+1 >= end || text[i] != '[' || text[i+1] != '^' {
		return nil, 0, false
	}
	closeBracket, ok := findBracketClose(text, i+2, end)
	if !ok {
		return nil, 0, false
	}
	label := text[i+2 : closeBracket]
	if label == "" {
		return nil, 0, false
	}
	next := closeBracket + 1
	node := ast.NewNode(ast.KindFootnoteRef, p.spanFor(i, next))
	node.Label = label
	return node, next, true
}

// scanInlineFootnote recognizes "^[content]", an inline footnote whose body
// is parsed as ordinary inline content rather than referencing a separate
// definition (spec.md §3.1's bare InlineFootnote variant). The content is
// recursively inline-parsed the same way link/image bracket text is.
func scanInlineFootnote(p *parser, i, end int) (*ast.Node, int, bool) {
	text := p.text
	if i+1 >= end || text[i] != '^' || text[i+1] != '[' {
		return nil, 0, false
	}
	closeBracket, ok := findBracketClose(text, i+2, end)
	if !ok {
		return nil, 0, false
	}
	next := closeBracket + 1
	node := ast.NewNode(ast.KindInlineFootnote, p.spanFor(i, next))
	for _, c := range p.parseInlines(i+2, closeBracket) {
		ast.AppendChild(node, c)
	}
	return node, next, true
}
