// Package render serializes a sequenced list of semantic Blocks into an
// HTML document string, escaping text via programmatic node-tree
// construction and applying the single known-formula normalization last.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdf2html/model"
)

// mangledAttentionFormulaRe matches the garbled "Attention(Q,K,V)" equation
// a common extraction artifact collapses fragment spacing into, and
// replaces it with the canonical plain-text form.
var mangledAttentionFormulaRe = regexp.MustCompile(`Attention\s*\(\s*Q\s*,\s*K\s*,\s*V\s*\)\s*=\s*softmax\s*\(\s*QK\s*T\s*√\s*dk\s*\)\s*V`)

const mangledAttentionFormulaFix = `Attention(Q, K, V) = softmax(QK^T / sqrt(dk)) V`

// bareURLRe matches a bare URL inside otherwise-plain text, such as a
// footnote that cites a link directly rather than through a marker.
var bareURLRe = regexp.MustCompile(`https?://\S+`)

// Render serializes blocks into the full HTML document string.
func Render(blocks []model.Block) string {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlNode := elem(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}})
	doc.AppendChild(htmlNode)

	head := elem(atom.Head, nil)
	meta1 := &html.Node{Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta, Attr: []html.Attribute{{Key: "charset", Val: "UTF-8"}}}
	meta2 := &html.Node{Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta, Attr: []html.Attribute{
		{Key: "name", Val: "viewport"}, {Key: "content", Val: "width=device-width, initial-scale=1"},
	}}
	title := elem(atom.Title, nil)
	title.AppendChild(text("Converted PDF"))
	head.AppendChild(meta1)
	head.AppendChild(meta2)
	head.AppendChild(title)
	htmlNode.AppendChild(head)

	body := elem(atom.Body, nil)
	for _, b := range blocks {
		appendBlock(body, b)
	}
	htmlNode.AppendChild(body)

	var buf bytes.Buffer
	_ = html.Render(&buf, doc)
	out := buf.String()
	out = mangledAttentionFormulaRe.ReplaceAllString(out, mangledAttentionFormulaFix)
	return out
}

func appendBlock(parent *html.Node, b model.Block) {
	switch b.Kind {
	case model.BlockTitle:
		h := elem(atom.H1, nil)
		h.AppendChild(text(b.Text))
		parent.AppendChild(h)
	case model.BlockHeading:
		h := elem(headingAtom(b.Level), nil)
		h.AppendChild(text(b.Text))
		parent.AppendChild(h)
	case model.BlockParagraph:
		p := elem(atom.P, nil)
		appendInline(p, b.Text)
		parent.AppendChild(p)
	case model.BlockBulletList:
		ul := elem(atom.Ul, nil)
		for _, item := range b.Items {
			li := elem(atom.Li, nil)
			li.AppendChild(text(item))
			ul.AppendChild(li)
		}
		parent.AppendChild(ul)
	case model.BlockOrderedList:
		ol := elem(atom.Ol, nil)
		for i, item := range b.Items {
			li := elem(atom.Li, []html.Attribute{{Key: "id", Val: refID(i + 1)}})
			appendInline(li, item)
			ol.AppendChild(li)
		}
		parent.AppendChild(ol)
	case model.BlockCodeBlock:
		pre := elem(atom.Pre, nil)
		code := elem(atom.Code, nil)
		code.AppendChild(text(b.Text))
		pre.AppendChild(code)
		parent.AppendChild(pre)
	case model.BlockTable:
		parent.AppendChild(renderTable(b.Table))
	case model.BlockFootnoteSection:
		parent.AppendChild(renderFootnotes(b.Footnotes))
	}
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	default:
		return atom.H2
	}
}

func refID(n int) string { return "ref-" + itoa(n) }

func renderTable(t *model.Table) *html.Node {
	if t == nil {
		t = &model.Table{}
	}
	tbl := elem(atom.Table, nil)
	if t.Caption != "" {
		cap := elem(atom.Caption, nil)
		cap.AppendChild(text(t.Caption))
		tbl.AppendChild(cap)
	}
	if len(t.HeaderRows) > 0 {
		thead := elem(atom.Thead, nil)
		for _, row := range t.HeaderRows {
			thead.AppendChild(renderRow(row, true))
		}
		tbl.AppendChild(thead)
	}
	if len(t.BodyRows) > 0 {
		tbody := elem(atom.Tbody, nil)
		for _, row := range t.BodyRows {
			tbody.AppendChild(renderRow(row, false))
		}
		tbl.AppendChild(tbody)
	}
	return tbl
}

func renderRow(cells []model.Cell, header bool) *html.Node {
	tr := elem(atom.Tr, nil)
	for _, c := range cells {
		tag := atom.Td
		if header || c.IsHeader {
			tag = atom.Th
		}
		cell := elem(tag, nil)
		cell.AppendChild(text(c.Text))
		tr.AppendChild(cell)
	}
	return tr
}

func renderFootnotes(entries []model.FootnoteEntry) *html.Node {
	div := elem(atom.Div, []html.Attribute{{Key: "class", Val: "footnotes"}})
	for _, e := range entries {
		p := elem(atom.P, []html.Attribute{{Key: "id", Val: "fn" + itoa(e.Marker)}})
		appendWithBareURLs(p, e.Text)
		div.AppendChild(p)
	}
	return div
}

// appendWithBareURLs appends s to parent as text, wrapping any bare URL
// substring in a real <a href> node instead of leaving it as inert text.
// Used for footnote text and for the plain-text segments of paragraph/list
// inline content, so a URL wrapped across lines by the paragraph merger
// still renders as a link once rejoined into one string.
func appendWithBareURLs(parent *html.Node, s string) {
	loc := bareURLRe.FindStringIndex(s)
	if loc == nil {
		parent.AppendChild(text(s))
		return
	}
	if loc[0] > 0 {
		parent.AppendChild(text(s[:loc[0]]))
	}
	url := s[loc[0]:loc[1]]
	a := elem(atom.A, []html.Attribute{{Key: "href", Val: url}})
	a.AppendChild(text(url))
	parent.AppendChild(a)
	if loc[1] < len(s) {
		appendWithBareURLs(parent, s[loc[1]:])
	}
}

// FootnoteRefNode builds the inline `<sup id="fnrefN">` anchor the footnote
// linker splices into body text.
func FootnoteRefNode(marker int) *html.Node {
	sup := elem(atom.Sup, []html.Attribute{{Key: "id", Val: "fnref" + itoa(marker)}})
	a := elem(atom.A, []html.Attribute{{Key: "href", Val: "#fn" + itoa(marker)}, {Key: "class", Val: "footnote-ref"}})
	a.AppendChild(text(itoa(marker)))
	sup.AppendChild(a)
	return sup
}

// Inline markers. Paragraph and reference-item text may carry these
// sentinels, produced by the pipeline's footnote linker and reference
// linker, to request an inline <sup>/<a> element at that position instead
// of plain escaped text. The delimiter is a NUL byte, which never occurs in
// normalized fragment text.
const (
	sentinelDelim   = "\x00"
	fnrefPrefix     = "FNREF:"
	refPrefix       = "REF:"
)

// FootnoteRefSentinel returns the inline marker the pipeline splices into
// paragraph text to request a footnote-reference anchor at that position.
func FootnoteRefSentinel(marker int) string {
	return sentinelDelim + fnrefPrefix + itoa(marker) + sentinelDelim
}

// ReferenceLinkSentinel returns the inline marker the pipeline splices into
// paragraph text to request a `<a href="#ref-N">display</a>` anchor.
func ReferenceLinkSentinel(n int, display string) string {
	return sentinelDelim + refPrefix + itoa(n) + ":" + display + sentinelDelim
}

// appendInline splits s on sentinel markers and appends a mix of text nodes
// and inline element nodes to parent, so footnote/reference anchors render
// as real elements instead of escaped literal text.
func appendInline(parent *html.Node, s string) {
	for len(s) > 0 {
		start := strings.Index(s, sentinelDelim)
		if start < 0 {
			appendWithBareURLs(parent, s)
			return
		}
		if start > 0 {
			appendWithBareURLs(parent, s[:start])
		}
		rest := s[start+1:]
		end := strings.Index(rest, sentinelDelim)
		if end < 0 {
			appendWithBareURLs(parent, s[start:])
			return
		}
		token := rest[:end]
		s = rest[end+1:]

		switch {
		case strings.HasPrefix(token, fnrefPrefix):
			marker := atoiLocal(strings.TrimPrefix(token, fnrefPrefix))
			parent.AppendChild(FootnoteRefNode(marker))
		case strings.HasPrefix(token, refPrefix):
			parts := strings.SplitN(strings.TrimPrefix(token, refPrefix), ":", 2)
			if len(parts) == 2 {
				n := atoiLocal(parts[0])
				a := elem(atom.A, []html.Attribute{{Key: "href", Val: "#ref-" + itoa(n)}})
				a.AppendChild(text(parts[1]))
				parent.AppendChild(a)
			}
		default:
			parent.AppendChild(text(sentinelDelim + token + sentinelDelim))
		}
	}
}

func atoiLocal(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func elem(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// EscapeText replaces &, <, > with entities, & first so the later
// replacements don't double-escape. Render does not use it:
// golang.org/x/net/html escapes TextNode content itself during Render.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
