package htmlrender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

func doc(children ...*ast.Node) *ast.Document {
	d := ast.NewDocument(nil)
	for _, c := range children {
		ast.AppendChild(d.Root, c)
	}
	return d
}

func text(s string) *ast.Node {
	return ast.NewText(s, span.Span{})
}

func TestRenderParagraphEscapesEntities(t *testing.T) {
	p := ast.NewNode(ast.KindParagraph, span.Span{})
	ast.AppendChild(p, text("a < b & c"))
	html := Render(doc(p), DefaultRenderOptions(), nil)
	assert.Equal(t, "<p>a &lt; b &amp; c</p>", html)
}

func TestRenderHeadingLevel(t *testing.T) {
	h := ast.NewNode(ast.KindHeading, span.Span{})
	h.Level = 3
	ast.AppendChild(h, text("hi"))
	html := Render(doc(h), DefaultRenderOptions(), nil)
	assert.Equal(t, "<h3>hi</h3>", html)
}

func TestRenderThematicBreakXHTML(t *testing.T) {
	hr := ast.NewNode(ast.KindThematicBreak, span.Span{})
	html := Render(doc(hr), RenderOptions{XHTML: true}, nil)
	assert.Equal(t, "<hr />", html)

	html2 := Render(doc(hr), RenderOptions{}, nil)
	assert.Equal(t, "<hr>", html2)
}

func TestRenderLinkSafeModeBlocksDangerousScheme(t *testing.T) {
	link := ast.NewNode(ast.KindLink, span.Span{})
	link.URL = "javascript:alert(1)"
	ast.AppendChild(link, text("click"))

	html := Render(doc(link), RenderOptions{Safe: true}, nil)
	assert.Equal(t, `<a href="">click</a>`, html)

	html2 := Render(doc(link), RenderOptions{Safe: false}, nil)
	assert.Equal(t, `<a href="javascript:alert(1)">click</a>`, html2)
}

func TestRenderImageSafeModeAllowsHTTP(t *testing.T) {
	img := ast.NewNode(ast.KindImage, span.Span{})
	img.URL = "https://example.com/a.png"
	img.Alt = "alt text"

	html := Render(doc(img), RenderOptions{Safe: true}, nil)
	assert.Equal(t, `<img src="https://example.com/a.png" alt="alt text">`, html)
}

func TestRenderTaskListCheckbox(t *testing.T) {
	list := ast.NewNode(ast.KindList, span.Span{})
	list.Tight = true
	item := ast.NewNode(ast.KindListItem, span.Span{})
	checked := true
	item.Task = &checked
	item.Checked = true
	checkbox := ast.NewNode(ast.KindTaskCheckbox, span.Span{})
	checkbox.Checked = true
	ast.AppendChild(item, checkbox)
	p := ast.NewNode(ast.KindParagraph, span.Span{})
	ast.AppendChild(p, text("done"))
	ast.AppendChild(item, p)
	ast.AppendChild(list, item)

	html := Render(doc(list), RenderOptions{TaskLists: true}, nil)
	assert.Equal(t, `<ul><li><input type="checkbox" checked disabled> done</li></ul>`, html)
}

func TestRenderGFMTableFallbackWhenDisabled(t *testing.T) {
	table := ast.NewNode(ast.KindTable, span.Span{})
	row := ast.NewNode(ast.KindTableRow, span.Span{})
	cell := ast.NewNode(ast.KindTableCell, span.Span{})
	ast.AppendChild(cell, text("a"))
	ast.AppendChild(row, cell)
	ast.AppendChild(table, row)

	html := Render(doc(table), RenderOptions{GFMTables: false}, nil)
	assert.Equal(t, "<p>a</p>", html)
}
