package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranrar/marco/span"
)

func TestAppendAndRemoveChild(t *testing.T) {
	idx := span.NewIndex([]byte("hello world"))
	parentSpan, err := span.SpanFrom(idx, 0, 11)
	require.NoError(t, err)

	parent := NewNode(KindParagraph, parentSpan)
	childSpan, _ := span.SpanFrom(idx, 0, 5)
	child := NewText("hello", childSpan)

	AppendChild(parent, child)
	assert.Equal(t, 1, parent.ChildCount())
	assert.Same(t, child, parent.FirstChild())
	assert.Same(t, child, parent.LastChild())
	assert.Same(t, parent, child.Parent())

	otherSpan, _ := span.SpanFrom(idx, 6, 11)
	other := NewText("world", otherSpan)
	AppendChild(parent, other)
	assert.Equal(t, 2, parent.ChildCount())
	assert.Same(t, other, child.NextSibling())
	assert.Same(t, child, other.PrevSibling())

	RemoveChild(parent, child)
	assert.Equal(t, 1, parent.ChildCount())
	assert.Nil(t, child.Parent())
	assert.Same(t, other, parent.FirstChild())
}

func TestWalkPreOrderVisitsAllNodes(t *testing.T) {
	root := NewNode(KindDocument, span.Span{})
	a := NewNode(KindParagraph, span.Span{})
	b := NewNode(KindParagraph, span.Span{})
	AppendChild(root, a)
	AppendChild(root, b)
	AppendChild(a, NewText("x", span.Span{}))

	var visited []Kind
	err := WalkPreOrder(root, func(n *Node) (WalkStatus, error) {
		visited = append(visited, n.Kind())
		return WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindDocument, KindParagraph, KindText, KindParagraph}, visited)
}

func TestWalkStopHaltsTraversal(t *testing.T) {
	root := NewNode(KindDocument, span.Span{})
	a := NewNode(KindParagraph, span.Span{})
	b := NewNode(KindParagraph, span.Span{})
	AppendChild(root, a)
	AppendChild(root, b)

	var visited int
	err := Walk(root, func(n *Node, entering bool) (WalkStatus, error) {
		if entering {
			visited++
			if n == a {
				return WalkStop, nil
			}
		}
		return WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, visited) // Document, then a; b never visited
}

func TestTextContentFlattensDescendants(t *testing.T) {
	root := NewNode(KindEmphasis, span.Span{})
	AppendChild(root, NewText("hello ", span.Span{}))
	strong := NewNode(KindStrong, span.Span{})
	AppendChild(strong, NewText("world", span.Span{}))
	AppendChild(root, strong)

	assert.Equal(t, "hello world", TextContent(root))
}

func TestNormalizeLabelIsIdempotentAndCaseFolds(t *testing.T) {
	label := "  Foo   BAR  "
	normalized := NormalizeLabel(label)
	assert.Equal(t, "foo bar", normalized)
	assert.Equal(t, normalized, NormalizeLabel(normalized))
}

func TestDocumentAddReferenceFirstWriterWins(t *testing.T) {
	doc := NewDocument([]byte("doc"))
	installed := doc.AddReference(ReferenceDefinition{Label: "Foo", URL: "/a"})
	assert.True(t, installed)

	installedAgain := doc.AddReference(ReferenceDefinition{Label: "foo", URL: "/b"})
	assert.False(t, installedAgain)

	def, ok := doc.LookupReference("FOO")
	require.True(t, ok)
	assert.Equal(t, "/a", def.URL)
}
