package inline

import "github.com/ranrar/marco/ast"

// scanMathInline implements spec.md §4.D.3: a single '$' opens inline math,
// closed by the next unescaped '$' on the same line. A doubled "$$" is not
// inline math; no block recognizer in this module builds a MathBlock from
// "$$" lines either, so they stay paragraph text. A delimiter adjacent to
// whitespace on either side is not treated as math at all.
func scanMathInline(p *parser, i, end int) (*ast.Node, int, bool) {
	if i+1 < end && p.text[i+1] == '$' {
		return nil, 0, false
	}
	if i+1 >= end || p.text[i+1] == ' ' || p.text[i+1] == '\t' || p.text[i+1] == '\n' {
		return nil, 0, false
	}
	j := i + 1
	for j < end {
		c := p.text[j]
		if c == '\\' && j+1 < end {
			j += 2
			continue
		}
		if c == '\n' {
			return nil, 0, false
		}
		if c == '$' {
			if p.text[j-1] == ' ' || p.text[j-1] == '\t' {
				return nil, 0, false
			}
			node := ast.NewNode(ast.KindMathInline, p.spanFor(i, j+1))
			node.Literal = p.text[i+1 : j]
			return node, j + 1, true
		}
		j++
	}
	return nil, 0, false
}
