package render

import (
	"strings"
	"testing"

	"github.com/tsawler/pdf2html/model"
)

func TestRenderBasicDocumentStructure(t *testing.T) {
	blocks := []model.Block{
		{Kind: model.BlockTitle, Text: "A Study of Things"},
		{Kind: model.BlockHeading, Text: "Introduction", Level: 2},
		{Kind: model.BlockParagraph, Text: "Some body text."},
	}
	out := Render(blocks)
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("expected doctype prefix, got %q", out[:20])
	}
	if !strings.Contains(out, "<h1>A Study of Things</h1>") {
		t.Error("expected title rendered as h1")
	}
	if !strings.Contains(out, "<h2>Introduction</h2>") {
		t.Error("expected heading rendered as h2")
	}
	if !strings.Contains(out, "<p>Some body text.</p>") {
		t.Error("expected paragraph rendered as p")
	}
}

func TestRenderEscapesParagraphText(t *testing.T) {
	blocks := []model.Block{
		{Kind: model.BlockParagraph, Text: "a < b & c > d"},
	}
	out := Render(blocks)
	if !strings.Contains(out, "a &lt; b &amp; c &gt; d") {
		t.Errorf("expected escaped text, got %q", out)
	}
}

func TestRenderFootnoteSentinelProducesRealAnchor(t *testing.T) {
	text := "See the result" + FootnoteRefSentinel(3) + " for details."
	blocks := []model.Block{{Kind: model.BlockParagraph, Text: text}}
	out := Render(blocks)
	if !strings.Contains(out, `<sup id="fnref3">`) {
		t.Errorf("expected literal sup element, got %q", out)
	}
	if !strings.Contains(out, `<a href="#fn3" class="footnote-ref">3</a>`) {
		t.Errorf("expected literal anchor element, got %q", out)
	}
	if strings.Contains(out, "&lt;sup") {
		t.Error("sentinel should not have been escaped as text")
	}
}

func TestRenderReferenceSentinel(t *testing.T) {
	text := "as shown in" + ReferenceLinkSentinel(2, "[2]") + " earlier."
	blocks := []model.Block{{Kind: model.BlockParagraph, Text: text}}
	out := Render(blocks)
	if !strings.Contains(out, `<a href="#ref-2">[2]</a>`) {
		t.Errorf("expected reference anchor, got %q", out)
	}
}

func TestRenderTable(t *testing.T) {
	tbl := &model.Table{
		Caption:    "Table 1: Results",
		HeaderRows: [][]model.Cell{{{Text: "Model", IsHeader: true}, {Text: "Score", IsHeader: true}}},
		BodyRows:   [][]model.Cell{{{Text: "A"}, {Text: "1"}}},
	}
	blocks := []model.Block{{Kind: model.BlockTable, Table: tbl}}
	out := Render(blocks)
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<th>Model</th>") || !strings.Contains(out, "<td>A</td>") {
		t.Errorf("expected table structure, got %q", out)
	}
}

func TestRenderFootnoteLinkifiesBareURL(t *testing.T) {
	blocks := []model.Block{{Kind: model.BlockFootnoteSection, Footnotes: []model.FootnoteEntry{
		{Marker: 4, Text: "4 See https://example.com/dataset for the source."},
	}}}
	out := Render(blocks)
	if !strings.Contains(out, `id="fn4"`) {
		t.Errorf("expected footnote paragraph id, got %q", out)
	}
	if !strings.Contains(out, `<a href="https://example.com/dataset">https://example.com/dataset</a>`) {
		t.Errorf("expected footnote URL linkified, got %q", out)
	}
}

func TestRenderParagraphLinkifiesBareURL(t *testing.T) {
	// A URL that the paragraph merger rejoined across a wrapped line still
	// needs to render as a real anchor, not inert text.
	blocks := []model.Block{{Kind: model.BlockParagraph, Text: "See https://example.com/paper for details."}}
	out := Render(blocks)
	if !strings.Contains(out, `<a href="https://example.com/paper">https://example.com/paper</a>`) {
		t.Errorf("expected paragraph URL linkified, got %q", out)
	}
}

func TestMangledAttentionFormulaFix(t *testing.T) {
	mangled := "Attention(Q,K,V) = softmax(QK T √ dk) V"
	blocks := []model.Block{{Kind: model.BlockParagraph, Text: mangled}}
	out := Render(blocks)
	if !strings.Contains(out, mangledAttentionFormulaFix) {
		t.Errorf("expected formula fix applied, got %q", out)
	}
}
