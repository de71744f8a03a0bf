// Package pipeline orchestrates the reconstruction stages end to end: a
// pure function from an ExtractedDocument to the rendered HTML string.
package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/pdf2html/artifact"
	"github.com/tsawler/pdf2html/assemble"
	"github.com/tsawler/pdf2html/classify"
	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/footnote"
	"github.com/tsawler/pdf2html/merge"
	"github.com/tsawler/pdf2html/model"
	"github.com/tsawler/pdf2html/order"
	"github.com/tsawler/pdf2html/render"
	"github.com/tsawler/pdf2html/table"
	"github.com/tsawler/pdf2html/title"
)

var referenceMarkerRe = regexp.MustCompile(`\[(\d{1,3})\]`)

// Convert runs the full pipeline over an ExtractedDocument and returns the
// rendered HTML document.
func Convert(doc model.ExtractedDocument, cfg *config.Config) string {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	lines := assemble.Lines(doc, cfg)
	if len(lines) == 0 {
		return render.Render(nil)
	}
	profile := assemble.BuildProfile(lines)
	rulesByPage := rulesByPageIndex(doc)

	filtered := artifact.Filter(lines, profile, cfg)
	lines = filtered.Lines
	profile = filtered.Profile

	lines = order.Reorder(lines, cfg)

	fn := footnote.Segregate(lines, profile, cfg)
	bodyLines := fn.Body

	footnoteEntries := buildFootnoteEntries(fn.Footnotes)
	if markers := footnoteMarkerSet(footnoteEntries); len(markers) > 0 {
		bodyLines = linkFootnoteMarkers(bodyLines, markers)
	}

	titleResult := extractTitle(bodyLines, profile, cfg)
	bodyLines = removeConsumed(bodyLines, titleResult.consumedIdx)

	blocks := buildBlocks(titleResult.text, bodyLines, footnoteEntries, rulesByPage, profile, cfg)
	return render.Render(blocks)
}

// rulesByPageIndex indexes each page's ruled vector-graphics lines by page
// index, so the table reconstructor can consult the right page's rules once
// lines have been flattened out of their per-page grouping.
func rulesByPageIndex(doc model.ExtractedDocument) map[int][]model.RuleLine {
	out := make(map[int][]model.RuleLine, len(doc.Pages))
	for _, p := range doc.Pages {
		if len(p.Rules) > 0 {
			out[p.PageIndex] = p.Rules
		}
	}
	return out
}

type titleExtraction struct {
	text        string
	consumedIdx map[int]bool
}

func extractTitle(bodyLines []model.Line, profile model.DocumentProfile, cfg *config.Config) titleExtraction {
	var page0 []model.Line
	var page0Idx []int
	for i, l := range bodyLines {
		if l.PageIndex == 0 {
			page0 = append(page0, l)
			page0Idx = append(page0Idx, i)
		}
	}
	if len(page0) == 0 {
		return titleExtraction{consumedIdx: map[int]bool{}}
	}
	extent := profile.PageExtents[0]
	res := title.Detect(page0, extent, profile, cfg)

	consumed := make(map[int]bool)
	for localIdx := range res.Consumed {
		consumed[page0Idx[localIdx]] = true
	}
	return titleExtraction{text: res.Text, consumedIdx: consumed}
}

func removeConsumed(lines []model.Line, consumed map[int]bool) []model.Line {
	if len(consumed) == 0 {
		return lines
	}
	out := make([]model.Line, 0, len(lines))
	for i, l := range lines {
		if consumed[i] {
			continue
		}
		out = append(out, l)
	}
	return out
}

func buildBlocks(titleText string, bodyLines []model.Line, footnoteEntries []model.FootnoteEntry, rulesByPage map[int][]model.RuleLine, profile model.DocumentProfile, cfg *config.Config) []model.Block {
	var blocks []model.Block
	if titleText != "" {
		blocks = append(blocks, model.Block{Kind: model.BlockTitle, Text: titleText})
	}

	classified := classify.Classify(bodyLines, profile, cfg)
	blocks = append(blocks, buildBodyBlocks(classified, rulesByPage, cfg)...)

	blocks = linkReferences(blocks)

	if len(footnoteEntries) > 0 {
		blocks = append(blocks, model.Block{Kind: model.BlockFootnoteSection, Footnotes: footnoteEntries})
	}
	return blocks
}

// buildBodyBlocks groups classified lines into heading/bullet/code/table/
// paragraph blocks, in document order.
func buildBodyBlocks(classified []classify.Classified, rulesByPage map[int][]model.RuleLine, cfg *config.Config) []model.Block {
	var blocks []model.Block
	i := 0
	for i < len(classified) {
		c := classified[i]
		text := strings.TrimSpace(c.Line.Text)

		switch c.Role {
		case classify.RoleHeading1, classify.RoleHeading2, classify.RoleHeading3, classify.RoleHeading4:
			if label, body, ok := classify.SplitInlineLabel(text); ok {
				blocks = append(blocks, model.Block{Kind: model.BlockHeading, Text: label, Level: headingLevel(c.Role)})
				blocks = append(blocks, model.Block{Kind: model.BlockParagraph, Text: body})
			} else {
				blocks = append(blocks, model.Block{Kind: model.BlockHeading, Text: text, Level: headingLevel(c.Role)})
			}
			i++
		case classify.RoleBullet:
			items, next := collectBullets(classified, i)
			blocks = append(blocks, model.Block{Kind: model.BlockBulletList, Items: items})
			i = next
		case classify.RoleReferenceItem:
			items, next := collectReferences(classified, i)
			blocks = append(blocks, model.Block{Kind: model.BlockOrderedList, Items: items})
			i = next
		case classify.RoleCodeLine:
			items, next := collectCodeLines(classified, i)
			blocks = append(blocks, model.Block{Kind: model.BlockCodeBlock, Items: items, Text: strings.Join(items, "\n")})
			i = next
		case classify.RoleTableRowCandidate:
			rows, next := collectTableRows(classified, i)
			t := table.Reconstruct(c.Line, rows, rulesByPage[c.Line.PageIndex], cfg)
			blocks = append(blocks, model.Block{Kind: model.BlockTable, Table: t})
			i = next
		default:
			paras := merge.Merge([]classify.Classified{c}, cfg)
			run, next := collectParagraphRun(classified, i, cfg)
			if len(run) > 1 {
				paras = merge.Merge(run, cfg)
				i = next
			} else {
				i++
			}
			for _, p := range paras {
				blocks = append(blocks, model.Block{Kind: model.BlockParagraph, Text: p.Text})
			}
		}
	}
	return blocks
}

func headingLevel(role classify.Role) int {
	switch role {
	case classify.RoleHeading2:
		return 2
	case classify.RoleHeading3:
		return 3
	case classify.RoleHeading4:
		return 4
	default:
		return 2
	}
}

func collectBullets(classified []classify.Classified, start int) ([]string, int) {
	x := classified[start].Line.X
	var items []string
	i := start
	for i < len(classified) && classified[i].Role == classify.RoleBullet {
		if i > start && absF(classified[i].Line.X-x) > 5 {
			break
		}
		items = append(items, strings.TrimPrefix(strings.TrimSpace(classified[i].Line.Text), "•"))
		i++
	}
	return items, i
}

// collectReferences gathers a run of "[N] ..." reference items plus any
// wrapped continuation lines classify left as RoleParagraph in between
// them. This relies on classify.Classify checking heading patterns before
// the reference pattern, so a real section break (including "Appendix",
// which is in the named-heading table) always reclassifies as a heading
// and stops the run rather than being swallowed as a continuation.
func collectReferences(classified []classify.Classified, start int) ([]string, int) {
	var items []string
	i := start
	for i < len(classified) {
		if classified[i].Role == classify.RoleReferenceItem {
			items = append(items, unescapeRefEntities(strings.TrimSpace(classified[i].Line.Text)))
			i++
			continue
		}
		if classified[i].Role == classify.RoleParagraph && len(items) > 0 {
			items[len(items)-1] += " " + strings.TrimSpace(classified[i].Line.Text)
			i++
			continue
		}
		break
	}
	return items, i
}

func unescapeRefEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

func collectCodeLines(classified []classify.Classified, start int) ([]string, int) {
	var items []string
	i := start
	for i < len(classified) && classified[i].Role == classify.RoleCodeLine {
		items = append(items, classify.StripLineNumber(strings.TrimSpace(classified[i].Line.Text)))
		i++
	}
	return items, i
}

func collectTableRows(classified []classify.Classified, start int) ([]model.Line, int) {
	captionLine := classified[start].Line
	var rows []model.Line
	i := start + 1
	for i < len(classified) {
		l := classified[i].Line
		if l.PageIndex != captionLine.PageIndex {
			break
		}
		if classified[i].Role != classify.RoleParagraph && classified[i].Role != classify.RoleTableRowCandidate {
			break
		}
		rows = append(rows, l)
		i++
		if len(rows) >= 40 {
			break
		}
	}
	return rows, i
}

func collectParagraphRun(classified []classify.Classified, start int, cfg *config.Config) ([]classify.Classified, int) {
	var run []classify.Classified
	i := start
	for i < len(classified) && classified[i].Role == classify.RoleParagraph {
		run = append(run, classified[i])
		i++
	}
	return run, i
}

// linkReferences rewrites inline "[N]" citations in paragraph blocks into
// render.ReferenceLinkSentinel markers, which the render package turns into
// `<a href="#ref-N">[N]</a>` anchors. A citation with no matching reference
// item is left untouched.
func linkReferences(blocks []model.Block) []model.Block {
	refIDs := make(map[int]bool)
	for _, b := range blocks {
		if b.Kind == model.BlockOrderedList {
			for i := range b.Items {
				refIDs[i+1] = true
			}
		}
	}
	for i, b := range blocks {
		if b.Kind != model.BlockParagraph {
			continue
		}
		blocks[i].Text = referenceMarkerRe.ReplaceAllStringFunc(b.Text, func(m string) string {
			sub := referenceMarkerRe.FindStringSubmatch(m)
			n := atoi(sub[1])
			if !refIDs[n] {
				return m
			}
			return render.ReferenceLinkSentinel(n, m)
		})
	}
	return blocks
}

func buildFootnoteEntries(footnoteLines []model.Line) []model.FootnoteEntry {
	entries := make([]model.FootnoteEntry, 0, len(footnoteLines))
	for _, l := range footnoteLines {
		text := strings.TrimSpace(l.Text)
		marker := leadingNumericMarker(text)
		entries = append(entries, model.FootnoteEntry{Marker: marker, Text: text})
	}
	return entries
}

var leadingMarkerRe = regexp.MustCompile(`^\(?(\d{1,2})\)?[.)]?\s`)

func leadingNumericMarker(text string) int {
	m := leadingMarkerRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return atoi(m[1])
}

func footnoteMarkerSet(entries []model.FootnoteEntry) map[int]bool {
	markers := make(map[int]bool)
	for _, e := range entries {
		if e.Marker > 0 {
			markers[e.Marker] = true
		}
	}
	return markers
}

// mathOperatorRe matches a fragment that is purely a math operator/relation
// glyph, used to rule out an equation's exponent or subscript digit being
// mistaken for a footnote marker.
var mathOperatorRe = regexp.MustCompile(`^[=+\-−×÷/^*]+$`)

// linkFootnoteMarkers scans each body line's retained Fragments for a
// superscript footnote-reference marker: a fragment whose text is exactly
// one of the known marker numbers, set in a font small enough and narrow
// enough to be a superscript rather than running body text, sitting next to
// a word (not floating alone in an equation). Qualifying fragments are
// rewritten in the line's Text to the footnote-ref sentinel the renderer
// turns into a real `<sup id="fnrefN">` anchor. Operating on fragments
// rather than already-merged paragraph text is what keeps this from
// matching an ordinary inline number like "Table 4 shows".
func linkFootnoteMarkers(lines []model.Line, markers map[int]bool) []model.Line {
	out := make([]model.Line, len(lines))
	for i, l := range lines {
		out[i] = linkLineFootnoteMarkers(l, markers)
	}
	return out
}

func linkLineFootnoteMarkers(l model.Line, markers map[int]bool) model.Line {
	if len(l.Fragments) == 0 || len(markers) == 0 {
		return l
	}
	median := medianNonMarkerFont(l.Fragments)
	if median <= 0 {
		return l
	}

	changed := false
	texts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		trimmed := strings.TrimSpace(f.Text)
		n := exactMarkerDigits(trimmed)
		if n > 0 && markers[n] && qualifiesAsFootnoteMarker(l.Fragments, i, median) {
			texts[i] = render.FootnoteRefSentinel(n)
			changed = true
			continue
		}
		texts[i] = f.Text
	}
	if !changed {
		return l
	}
	l.Text = strings.Join(texts, " ")
	return l
}

// qualifiesAsFootnoteMarker applies the superscript-marker heuristic to the
// fragment at idx: small font relative to the line's body text, narrow
// glyph-run width, a word-like neighbor close enough to read as attached
// inline text, and no adjacent math-operator glyph.
func qualifiesAsFootnoteMarker(frags []model.Fragment, idx int, medianFont float64) bool {
	f := frags[idx]
	if f.FontSize > medianFont*0.84 {
		return false
	}
	if f.EstimatedWidth() > f.FontSize*0.95 {
		return false
	}
	if !hasWordNeighbor(frags, idx, f.FontSize*8) {
		return false
	}
	if isMathContext(frags, idx) {
		return false
	}
	return true
}

func medianNonMarkerFont(frags []model.Fragment) float64 {
	var sizes []float64
	for _, f := range frags {
		if exactMarkerDigits(strings.TrimSpace(f.Text)) > 0 {
			continue
		}
		sizes = append(sizes, f.FontSize)
	}
	if len(sizes) == 0 {
		for _, f := range frags {
			sizes = append(sizes, f.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	n := len(sizes)
	if n%2 == 1 {
		return sizes[n/2]
	}
	return (sizes[n/2-1] + sizes[n/2]) / 2
}

func exactMarkerDigits(s string) int {
	if s == "" || len(s) > 2 {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	return atoi(s)
}

func hasWordNeighbor(frags []model.Fragment, idx int, maxDist float64) bool {
	f := frags[idx]
	for _, j := range [2]int{idx - 1, idx + 1} {
		if j < 0 || j >= len(frags) {
			continue
		}
		other := frags[j]
		if absF(other.X-f.X) > maxDist {
			continue
		}
		if isWordLike(strings.TrimSpace(other.Text)) {
			return true
		}
	}
	return false
}

func isWordLike(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func isMathContext(frags []model.Fragment, idx int) bool {
	for _, j := range [2]int{idx - 1, idx + 1} {
		if j < 0 || j >= len(frags) {
			continue
		}
		if mathOperatorRe.MatchString(strings.TrimSpace(frags[j].Text)) {
			return true
		}
	}
	return false
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
