package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

func sp(startOffset, endOffset uint64) span.Span {
	return span.Span{
		Start: span.Position{Offset: startOffset},
		End:   span.Position{Offset: endOffset},
	}
}

func TestComputeEmitsInPreOrderAndNests(t *testing.T) {
	doc := ast.NewDocument([]byte("**hi**"))
	doc.Root.SetSpan(sp(0, 6))

	strong := ast.NewNode(ast.KindStrong, sp(0, 6))
	text := ast.NewText("hi", sp(2, 4))
	ast.AppendChild(strong, text)
	ast.AppendChild(doc.Root, strong)

	highlights := Compute(doc)

	assert.Len(t, highlights, 1) // Text carries no tag; Strong does.
	assert.Equal(t, TagStrong, highlights[0].Tag)
	assert.Equal(t, sp(0, 6), highlights[0].Span)
}

func TestComputeHeadingLevelSelectsTag(t *testing.T) {
	doc := ast.NewDocument([]byte("# hi"))
	h := ast.NewNode(ast.KindHeading, sp(0, 4))
	h.Level = 1
	ast.AppendChild(doc.Root, h)

	highlights := Compute(doc)
	assert.Equal(t, TagHeading1, highlights[0].Tag)
}

func TestNoCrossOverlapAcrossSiblingsAndParent(t *testing.T) {
	doc := ast.NewDocument([]byte("*a* *b*"))
	em1 := ast.NewNode(ast.KindEmphasis, sp(0, 3))
	em2 := ast.NewNode(ast.KindEmphasis, sp(4, 7))
	ast.AppendChild(doc.Root, em1)
	ast.AppendChild(doc.Root, em2)

	highlights := Compute(doc)
	require := func(cond bool) {
		if !cond {
			t.Fatalf("cross-overlap detected")
		}
	}
	for i := range highlights {
		for j := i + 1; j < len(highlights); j++ {
			a, b := highlights[i].Span, highlights[j].Span
			overlap := a.Start.Offset < b.End.Offset && b.Start.Offset < a.End.Offset
			contains := (a.Start.Offset <= b.Start.Offset && b.End.Offset <= a.End.Offset) ||
				(b.Start.Offset <= a.Start.Offset && a.End.Offset <= b.End.Offset)
			require(!overlap || contains)
		}
	}
}
