package blockparser

import (
	"bytes"
	"strings"

	"github.com/ranrar/marco/ast"
	"github.com/ranrar/marco/span"
)

// htmlBlockOpenKind classifies the CommonMark HTML block condition (1-7)
// that line l opens, or 0 if none apply. Conditions 1-5 each carry their
// own end condition; condition 6/7 end at the next blank line.
func htmlBlockOpenKind(source []byte, l lineSpan) int {
	indent, contentStart := leadingIndent(source, l)
	if indent > 3 {
		return 0
	}
	if contentStart >= l.End || source[contentStart] != '<' {
		return 0
	}
	rest := string(source[contentStart:l.End])
	lower := strings.ToLower(rest)

	for _, tag := range []string{"<script", "<pre", "<style"} {
		if strings.HasPrefix(lower, tag) {
			next := rest[len(tag):]
			if next == "" || next[0] == ' ' || next[0] == '\t' || next[0] == '>' || strings.HasPrefix(next, "/>") {
				return 1
			}
		}
	}
	if strings.HasPrefix(rest, "<!--") {
		return 2
	}
	if strings.HasPrefix(rest, "<?") {
		return 3
	}
	if strings.HasPrefix(rest, "<!") && len(rest) > 2 && isASCIILetter(rest[2]) {
		return 4
	}
	if strings.HasPrefix(rest, "<![CDATA[") {
		return 5
	}
	if k := matchHTMLBlockTag6(lower); k {
		return 6
	}
	if isHTMLBlockType7(rest) {
		return 7
	}
	return 0
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

var htmlBlockTags6 = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true, "basefont": true,
	"blockquote": true, "body": true, "caption": true, "center": true, "col": true,
	"colgroup": true, "dd": true, "details": true, "dialog": true, "dir": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hr": true, "html": true, "iframe": true,
	"legend": true, "li": true, "link": true, "main": true, "menu": true,
	"menuitem": true, "nav": true, "noframes": true, "ol": true, "optgroup": true,
	"option": true, "p": true, "param": true, "section": true, "summary": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "title": true, "tr": true, "track": true, "ul": true,
}

func matchHTMLBlockTag6(lower string) bool {
	rest := strings.TrimPrefix(lower, "<")
	rest = strings.TrimPrefix(rest, "/")
	end := 0
	for end < len(rest) && (isASCIILetter(rest[end]) || (rest[end] >= '0' && rest[end] <= '9') || rest[end] == '-') {
		end++
	}
	if end == 0 {
		return false
	}
	tag := rest[:end]
	if !htmlBlockTags6[tag] {
		return false
	}
	after := rest[end:]
	return after == "" || after[0] == ' ' || after[0] == '\t' || after[0] == '>' || strings.HasPrefix(after, "/>")
}

// isHTMLBlockType7 approximates the type-7 condition: a complete open or
// closing tag (not script/pre/style) followed only by whitespace to end of
// line, on a line with nothing else before it.
func isHTMLBlockType7(rest string) bool {
	trimmed := strings.TrimRight(rest, " \t")
	if !strings.HasSuffix(trimmed, ">") {
		return false
	}
	inner := trimmed
	if strings.HasPrefix(inner, "</") {
		inner = inner[2:]
	} else {
		inner = inner[1:]
	}
	end := 0
	for end < len(inner) && (isASCIILetter(inner[end]) || (end > 0 && inner[end] >= '0' && inner[end] <= '9')) {
		end++
	}
	return end > 0
}

// recognizeHTMLBlock consumes an HTML block starting at lines[i] per its
// end condition (1: case-insensitive closing tag name; 2: "-->"; 3: "?>";
// 4: ">"; 5: "]]>"; 6/7: blank line).
func recognizeHTMLBlock(source []byte, idx *span.Index, lines []lineSpan, i int) (*ast.Node, int, bool) {
	kind := htmlBlockOpenKind(source, lines[i])
	if kind == 0 {
		return nil, 0, false
	}
	j := i
	switch kind {
	case 1:
		for j < len(lines) {
			lower := strings.ToLower(string(lineText(source, lines[j])))
			if strings.Contains(lower, "</script>") || strings.Contains(lower, "</pre>") || strings.Contains(lower, "</style>") {
				j++
				break
			}
			j++
		}
	case 2:
		for j < len(lines) {
			if bytes.Contains(lineText(source, lines[j]), []byte("-->")) {
				j++
				break
			}
			j++
		}
	case 3:
		for j < len(lines) {
			if bytes.Contains(lineText(source, lines[j]), []byte("?>")) {
				j++
				break
			}
			j++
		}
	case 4:
		for j < len(lines) {
			if bytes.Contains(lineText(source, lines[j]), []byte(">")) {
				j++
				break
			}
			j++
		}
	case 5:
		for j < len(lines) {
			if bytes.Contains(lineText(source, lines[j]), []byte("]]>")) {
				j++
				break
			}
			j++
		}
	default: // 6, 7
		j++
		for j < len(lines) && !isBlank(source, lines[j]) {
			j++
		}
	}
	if j == i {
		j = i + 1
	}
	sp := span.Span{Start: idx.Position(lines[i].Start), End: idx.Position(lines[j-1].End)}
	node := ast.NewNode(ast.KindHTMLBlock, sp)
	node.HTMLBlockKind = kind
	node.Literal = joinRawLines(source, lines[i:j])
	return node, j - i, true
}

func joinRawLines(source []byte, lines []lineSpan) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = string(lineText(source, l))
	}
	return strings.Join(parts, "\n")
}
