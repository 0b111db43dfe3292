// Package htmlrender walks a parsed Marco document and emits HTML, grounded
// on other_examples' zombiezen-go-commonmark html.go renderer: a single
// post-order switch over node kind appending directly to a growable byte
// buffer, rather than an io.Writer visitor interface (consistent with this
// module's tagged-variant-over-interface design, ast/kind.go).
package htmlrender

import (
	"strconv"
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/diag"
)

// Render walks doc's tree and returns its HTML rendering. Rendering never
// fails: an unrecognized node kind is rendered as its flattened text
// content with a warning Diagnostic appended to bag (bag may be nil to
// discard these), per spec.md §4.G.
func Render(doc *ast.Document, opts RenderOptions, bag *diag.Bag) string {
	r := &renderer{opts: opts, bag: bag, doc: doc}
	r.block(doc.Root, false)
	return r.buf.String()
}

type renderer struct {
	opts RenderOptions
	bag  *diag.Bag
	doc  *ast.Document
	buf  strings.Builder
}

func (r *renderer) warnUnknown(n *ast.Node) {
	if r.bag == nil {
		return
	}
	r.bag.Warn("unknown node kind in renderer: "+n.Kind().String(), n.Span(), "render_unknown_kind")
}

func (r *renderer) sourcePos(n *ast.Node) string {
	if !r.opts.SourcePositions {
		return ""
	}
	return ` data-sourcepos="` + n.Span().String() + `"`
}

func (r *renderer) selfClose() string {
	if r.opts.XHTML {
		return " />"
	}
	return ">"
}

func (r *renderer) blockChildren(n *ast.Node, tight bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if tight && c.Kind() == ast.KindParagraph {
			r.inlineChildren(c)
			continue
		}
		r.block(c, tight)
	}
}

func (r *renderer) inlineChildren(n *ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c)
	}
}

func (r *renderer) block(n *ast.Node, tight bool) {
	switch n.Kind() {
	case ast.KindDocument:
		r.blockChildren(n, false)

	case ast.KindParagraph:
		r.buf.WriteString("<p" + r.sourcePos(n) + ">")
		r.inlineChildren(n)
		r.buf.WriteString("</p>")

	case ast.KindHeading:
		tag := "h" + strconv.Itoa(n.Level)
		r.buf.WriteString("<" + tag + r.sourcePos(n) + ">")
		r.inlineChildren(n)
		r.buf.WriteString("</" + tag + ">")

	case ast.KindBlockQuote:
		r.buf.WriteString("<blockquote" + r.sourcePos(n) + ">")
		r.blockChildren(n, false)
		r.buf.WriteString("</blockquote>")

	case ast.KindThematicBreak:
		r.buf.WriteString("<hr" + r.sourcePos(n) + r.selfClose())

	case ast.KindList:
		if n.Ordered {
			r.buf.WriteString("<ol" + r.sourcePos(n))
			if n.Start != nil && *n.Start != 1 {
				r.buf.WriteString(` start="` + strconv.FormatUint(uint64(*n.Start), 10) + `"`)
			}
			r.buf.WriteString(">")
		} else {
			r.buf.WriteString("<ul" + r.sourcePos(n) + ">")
		}
		r.blockChildren(n, n.Tight)
		if n.Ordered {
			r.buf.WriteString("</ol>")
		} else {
			r.buf.WriteString("</ul>")
		}

	case ast.KindListItem:
		r.buf.WriteString("<li" + r.sourcePos(n) + ">")
		if n.Task != nil && *n.Task && r.opts.TaskLists {
			if n.Checked {
				r.buf.WriteString(`<input type="checkbox" checked disabled` + r.selfClose())
			} else {
				r.buf.WriteString(`<input type="checkbox" disabled` + r.selfClose())
			}
			r.buf.WriteString(" ")
		}
		r.blockChildren(n, tight)
		r.buf.WriteString("</li>")

	case ast.KindTaskCheckbox:
		// Rendered by the owning ListItem case above, which reads
		// Task/Checked directly; the child node exists for span-accurate
		// tooling (highlighting, LSP), not for a second rendering here.

	case ast.KindCodeBlock:
		r.buf.WriteString("<pre" + r.sourcePos(n) + "><code")
		if n.Language != "" {
			r.buf.WriteString(` class="language-` + escapeAttr(n.Language) + `"`)
		}
		r.buf.WriteString(">")
		r.buf.WriteString(escapeText(n.Literal))
		r.buf.WriteString("</code></pre>")

	case ast.KindHTMLBlock:
		if r.opts.Safe {
			r.buf.WriteString(escapeText(n.Literal))
		} else {
			r.buf.WriteString(n.Literal)
		}

	case ast.KindMathBlock:
		r.buf.WriteString(`<div class="math-block">` + escapeText(n.Literal) + "</div>")

	case ast.KindAdmonition:
		r.buf.WriteString(`<div class="admonition admonition-` + escapeAttr(n.AdmonitionKind) + `"` + r.sourcePos(n) + ">")
		r.blockChildren(n, false)
		r.buf.WriteString("</div>")

	case ast.KindTable:
		if !r.opts.GFMTables {
			r.renderTableFallback(n)
			return
		}
		r.buf.WriteString("<table" + r.sourcePos(n) + ">")
		first := true
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			if row.HeaderRow {
				r.buf.WriteString("<thead>")
				r.tableRow(row, true)
				r.buf.WriteString("</thead><tbody>")
				first = false
				continue
			}
			if first {
				r.buf.WriteString("<tbody>")
				first = false
			}
			r.tableRow(row, false)
		}
		if !first {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")

	case ast.KindReferenceDefinition, ast.KindFootnoteDefinition:
		// Emit nothing, per spec.md §4.G ("Reference-def nodes emit
		// nothing").

	default:
		r.warnUnknown(n)
		r.buf.WriteString(escapeText(ast.TextContent(n)))
	}
}

func (r *renderer) renderTableFallback(n *ast.Node) {
	r.buf.WriteString("<p" + r.sourcePos(n) + ">")
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			r.inlineChildren(cell)
			if cell.NextSibling() != nil {
				r.buf.WriteString(" | ")
			}
		}
		if row.NextSibling() != nil {
			r.buf.WriteString("<br" + r.selfClose())
		}
	}
	r.buf.WriteString("</p>")
}

func (r *renderer) tableRow(row *ast.Node, header bool) {
	r.buf.WriteString("<tr" + r.sourcePos(row) + ">")
	cellTag := "td"
	if header {
		cellTag = "th"
	}
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		r.buf.WriteString("<" + cellTag + alignAttr(cell, r.opts.XHTML) + ">")
		r.inlineChildren(cell)
		r.buf.WriteString("</" + cellTag + ">")
	}
	r.buf.WriteString("</tr>")
}

func alignAttr(cell *ast.Node, xhtml bool) string {
	if len(cell.Alignments) == 0 {
		return ""
	}
	switch cell.Alignments[0] {
	case ast.AlignLeft:
		if xhtml {
			return ` align="left"`
		}
		return ` style="text-align:left"`
	case ast.AlignRight:
		if xhtml {
			return ` align="right"`
		}
		return ` style="text-align:right"`
	case ast.AlignCenter:
		if xhtml {
			return ` align="center"`
		}
		return ` style="text-align:center"`
	default:
		return ""
	}
}

func (r *renderer) inline(n *ast.Node) {
	switch n.Kind() {
	case ast.KindText:
		r.buf.WriteString(escapeText(n.Literal))

	case ast.KindEscaped:
		r.buf.WriteString(escapeText(string(n.Char)))

	case ast.KindCode:
		r.buf.WriteString("<code>" + escapeText(n.Literal) + "</code>")

	case ast.KindEmphasis:
		r.buf.WriteString("<em>")
		r.inlineChildren(n)
		r.buf.WriteString("</em>")

	case ast.KindStrong:
		r.buf.WriteString("<strong>")
		r.inlineChildren(n)
		r.buf.WriteString("</strong>")

	case ast.KindStrikethrough:
		r.buf.WriteString("<del>")
		r.inlineChildren(n)
		r.buf.WriteString("</del>")

	case ast.KindHighlight:
		r.buf.WriteString("<mark>")
		r.inlineChildren(n)
		r.buf.WriteString("</mark>")

	case ast.KindSubscript:
		r.buf.WriteString("<sub>")
		r.inlineChildren(n)
		r.buf.WriteString("</sub>")

	case ast.KindSuperscript:
		r.buf.WriteString("<sup>")
		r.inlineChildren(n)
		r.buf.WriteString("</sup>")

	case ast.KindLink, ast.KindReferenceLink:
		r.renderLinkLike(n, false)

	case ast.KindImage, ast.KindReferenceImage:
		r.renderLinkLike(n, true)

	case ast.KindAutolink:
		url := n.URL
		if url == "" {
			url = n.Label
		}
		if r.opts.Safe && !safeScheme(url) {
			r.buf.WriteString(escapeText(n.Label))
			return
		}
		r.buf.WriteString(`<a href="` + escapeAttr(url) + `">` + escapeText(n.Label) + "</a>")

	case ast.KindHTMLInline:
		if r.opts.Safe {
			r.buf.WriteString(escapeText(n.Literal))
		} else {
			r.buf.WriteString(n.Literal)
		}

	case ast.KindLineBreak:
		if n.Hard {
			r.buf.WriteString("<br" + r.selfClose() + "\n")
		} else {
			r.buf.WriteString("\n")
		}

	case ast.KindMathInline:
		r.buf.WriteString(`<span class="math-inline">` + escapeText(n.Literal) + "</span>")

	case ast.KindEmoji:
		r.buf.WriteString(`<span class="emoji" data-name="` + escapeAttr(n.Name) + `">:` + escapeText(n.Name) + `:</span>`)

	case ast.KindFootnoteRef:
		r.buf.WriteString(`<sup class="footnote-ref"><a href="#fn-` + escapeAttr(n.Label) + `">` + escapeText(n.Label) + "</a></sup>")

	case ast.KindInlineFootnote:
		r.buf.WriteString(`<sup class="footnote-inline">`)
		r.inlineChildren(n)
		r.buf.WriteString("</sup>")

	case ast.KindRunInline:
		r.buf.WriteString(`<code class="run-inline" data-lang="` + escapeAttr(n.ScriptType) + `">` + escapeText(n.Command) + "</code>")

	case ast.KindBookmark:
		href := n.Path
		if n.Line != nil {
			href += "=" + strconv.FormatUint(uint64(*n.Line), 10)
		}
		r.buf.WriteString(`<a class="bookmark" href="` + escapeAttr(href) + `">` + escapeText(n.Label) + "</a>")

	case ast.KindToc:
		r.buf.WriteString(`<div class="toc"` + r.sourcePos(n) + "></div>")

	case ast.KindUserMention:
		display := n.Username
		if n.DisplayName != "" {
			display = n.DisplayName
		}
		r.buf.WriteString(`<span class="user-mention" data-platform="` + escapeAttr(n.Platform) + `">@` + escapeText(display) + "</span>")

	default:
		r.warnUnknown(n)
		r.buf.WriteString(escapeText(ast.TextContent(n)))
	}
}

func (r *renderer) renderLinkLike(n *ast.Node, isImage bool) {
	url := n.URL
	blocked := r.opts.Safe && !safeScheme(url)
	if blocked {
		url = ""
	}
	if isImage {
		r.buf.WriteString(`<img src="` + escapeAttr(url) + `" alt="` + escapeAttr(n.Alt) + `"`)
		if n.Title != "" {
			r.buf.WriteString(` title="` + escapeAttr(n.Title) + `"`)
		}
		r.buf.WriteString(r.selfClose())
		return
	}
	r.buf.WriteString(`<a href="` + escapeAttr(url) + `"`)
	if n.Title != "" {
		r.buf.WriteString(` title="` + escapeAttr(n.Title) + `"`)
	}
	r.buf.WriteString(">")
	r.inlineChildren(n)
	r.buf.WriteString("</a>")
}

// safeScheme reports whether url's leading scheme (before the first ':')
// is in the safe-mode allowlist, per spec.md §4.G. A bare "www." or a
// schemeless autolink destination is treated as safe http(s), mirroring
// NormalizeURI's own scheme-prepending rule for such forms.
func safeScheme(url string) bool {
	i := strings.IndexByte(url, ':')
	if i < 0 {
		return true
	}
	return safeSchemes[strings.ToLower(url[:i])]
}

// escapeText implements CommonMark's text-escaping rule: '&' and '<' are
// escaped; '>' is additionally escaped for robustness against consumers
// that don't distinguish text from attribute context.
func escapeText(s string) string {
	var sb strings.Builder
	start := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		default:
			continue
		}
		sb.WriteString(s[start:i])
		sb.WriteString(esc)
		start = i + 1
	}
	sb.WriteString(s[start:])
	return sb.String()
}

// escapeAttr additionally escapes '"' for safe inclusion in a
// double-quoted HTML attribute value, per spec.md §4.G.
func escapeAttr(s string) string {
	var sb strings.Builder
	start := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		default:
			continue
		}
		sb.WriteString(s[start:i])
		sb.WriteString(esc)
		start = i + 1
	}
	sb.WriteString(s[start:])
	return sb.String()
}
