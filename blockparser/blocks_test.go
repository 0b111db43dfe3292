package blockparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranrar/marco/ast"
)

func TestParseATXHeading(t *testing.T) {
	doc, bag := New().Parse([]byte("# Hello\n"))
	require.Equal(t, 1, doc.Root.ChildCount())
	h := doc.Root.FirstChild()
	assert.Equal(t, ast.KindHeading, h.Kind())
	assert.Equal(t, 1, h.Level)
	assert.Empty(t, bag.All())
}

func TestParseOverLongATXHashRunFallsBackToParagraph(t *testing.T) {
	doc, bag := New().Parse([]byte("####### foo\n"))
	require.Equal(t, 1, doc.Root.ChildCount())
	assert.Equal(t, ast.KindParagraph, doc.Root.FirstChild().Kind())
	require.NotEmpty(t, bag.All())
	assert.Equal(t, "atx_heading_fallback", bag.All()[0].Rule)
}

func TestParseTightAndLooseLists(t *testing.T) {
	doc, _ := New().Parse([]byte("- a\n- b\n"))
	list := doc.Root.FirstChild()
	assert.Equal(t, ast.KindList, list.Kind())
	assert.True(t, list.Tight)

	doc2, _ := New().Parse([]byte("- a\n\n- b\n"))
	list2 := doc2.Root.FirstChild()
	assert.False(t, list2.Tight)
}

func TestParseTaskListItem(t *testing.T) {
	source := []byte("- [x] done\n- [ ] todo\n")
	doc, _ := New().Parse(source)
	list := doc.Root.FirstChild()
	first := list.FirstChild()
	second := first.NextSibling()

	require.NotNil(t, first.Task)
	assert.True(t, *first.Task)
	assert.True(t, first.Checked)

	require.NotNil(t, second.Task)
	assert.True(t, *second.Task)
	assert.False(t, second.Checked)

	checkbox := first.FirstChild()
	require.NotNil(t, checkbox)
	require.Equal(t, ast.KindTaskCheckbox, checkbox.Kind())
	assert.True(t, checkbox.Checked)
	assert.Equal(t, uint64(3), checkbox.Span().End.Offset-checkbox.Span().Start.Offset)
	assert.Equal(t, "[x]", string(source[checkbox.Span().Start.Offset:checkbox.Span().End.Offset]))

	checkbox2 := second.FirstChild()
	require.NotNil(t, checkbox2)
	require.Equal(t, ast.KindTaskCheckbox, checkbox2.Kind())
	assert.False(t, checkbox2.Checked)
	assert.Equal(t, uint64(3), checkbox2.Span().End.Offset-checkbox2.Span().Start.Offset)
	assert.Equal(t, "[ ]", string(source[checkbox2.Span().Start.Offset:checkbox2.Span().End.Offset]))
}

func TestParseReferenceDefinitionResolvesLink(t *testing.T) {
	doc, _ := New().Parse([]byte("[foo][bar]\n\n[bar]: /url \"title\"\n"))
	para := doc.Root.FirstChild()
	require.Equal(t, ast.KindParagraph, para.Kind())
	link := para.FirstChild()
	require.Equal(t, ast.KindReferenceLink, link.Kind())
	assert.Equal(t, "/url", link.URL)
	assert.Equal(t, "title", link.Title)
}

func TestParseFootnoteDefinitionIsInvisibleButRegistered(t *testing.T) {
	doc, _ := New().Parse([]byte("see[^1]\n\n[^1]: note body\n"))
	assert.Equal(t, 1, doc.Root.ChildCount())
	def, ok := doc.LookupFootnote("1")
	require.True(t, ok)
	assert.NotNil(t, def.Content)
}

func TestParseBlockQuote(t *testing.T) {
	doc, _ := New().Parse([]byte("> # Foo\n> bar\n"))
	bq := doc.Root.FirstChild()
	assert.Equal(t, ast.KindBlockQuote, bq.Kind())
	assert.Equal(t, ast.KindHeading, bq.FirstChild().Kind())
}

func TestMaxBlockDepthOptionIsHonored(t *testing.T) {
	p := New(WithMaxBlockDepth(2))
	assert.NotNil(t, p)

	// Three nested blockquotes put the innermost content at depth 3.
	_, bag := p.Parse([]byte("> > > a\n"))
	require.NotEmpty(t, bag.All())
	assert.Equal(t, "depth_limit", bag.All()[0].Rule)
}
