package inline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/diag"
	"github.com/ranrar/marco/span"
)

func parseLeafNodes(t *testing.T, text string) []*ast.Node {
	t.Helper()
	doc := ast.NewDocument([]byte(text))
	ctx := &Context{Doc: doc, Bag: &diag.Bag{}}
	idx := span.NewIndex([]byte(text))
	return ParseLeaf(ctx, text, idx, 0)
}

func TestGFMAutolinkBareWWW(t *testing.T) {
	nodes := parseLeafNodes(t, "www.commonmark.org")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.KindAutolink, nodes[0].Kind())
	assert.Equal(t, "http://www.commonmark.org", nodes[0].URL)
}

func TestGFMAutolinkBareEmail(t *testing.T) {
	nodes := parseLeafNodes(t, "foo@bar.baz")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.KindAutolink, nodes[0].Kind())
	assert.Equal(t, "mailto:foo@bar.baz", nodes[0].URL)
}

func TestGFMAutolinkTrailingPunctuationTrimmed(t *testing.T) {
	nodes := parseLeafNodes(t, "Visit www.commonmark.org.")
	require.Len(t, nodes, 3)
	assert.Equal(t, "Visit ", nodes[0].Literal)
	assert.Equal(t, ast.KindAutolink, nodes[1].Kind())
	assert.Equal(t, "http://www.commonmark.org", nodes[1].URL)
	assert.Equal(t, ".", nodes[2].Literal)
}

func TestGFMAutolinkInvalidLocalPartFallsBackToText(t *testing.T) {
	nodes := parseLeafNodes(t, "foo.@bar.baz")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.KindText, nodes[0].Kind())
}

func TestAngleBracketAutolink(t *testing.T) {
	nodes := parseLeafNodes(t, "<http://foo.bar.baz>")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.KindAutolink, nodes[0].Kind())
	assert.Equal(t, "http://foo.bar.baz", nodes[0].URL)
}

func TestGFMAutolinkEntitySuffixTrimmed(t *testing.T) {
	nodes := parseLeafNodes(t, "go to www.google.com/search?q=x&hl;")
	require.NotEmpty(t, nodes)
	var link *ast.Node
	for _, n := range nodes {
		if n.Kind() == ast.KindAutolink {
			link = n
			break
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "www.google.com/search?q=x", link.Label)
}

func TestGFMAutolinkXMPPResource(t *testing.T) {
	nodes := parseLeafNodes(t, "xmpp:foo@bar.baz/txt/bin")
	require.Len(t, nodes, 2)
	assert.Equal(t, ast.KindAutolink, nodes[0].Kind())
	assert.Equal(t, "xmpp:foo@bar.baz/txt", nodes[0].Label)
	assert.Equal(t, "/bin", nodes[1].Literal)
}

func TestGFMAutolinkInvalidMailtoTrailingHyphenFallsBackToText(t *testing.T) {
	nodes := parseLeafNodes(t, "mailto:a.b-c_d@a.b-")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.KindText, nodes[0].Kind())
}
