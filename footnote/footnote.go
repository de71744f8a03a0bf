// Package footnote detaches page-bottom footnotes from the body flow and
// produces a normalized footnote stream: marker/unmarked start detection,
// continuation-range extension, and normalization (standalone-marker
// merging, wrapped-line joining, missing-marker inference).
package footnote

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

var (
	symbolMarkerRe  = regexp.MustCompile(`^[*∗†‡§¶#]`)
	numericMarkerRe = regexp.MustCompile(`^\(?\d{1,2}\)?[.)]?\s`)
	urlOnlyRe       = regexp.MustCompile(`^(https?://|www\.)\S+$`)
	leadingMarkerRe = regexp.MustCompile(`^\(?(\d{1,2})\)?[.)]?\s`)
)

// Result separates a page's lines into surviving body lines and the
// detected footnote lines, in page order.
type Result struct {
	Body      []model.Line
	Footnotes []model.Line
}

// Segregate partitions lines (already reordered for reading order) into
// body and footnote streams, page by page, and normalizes the footnote
// stream.
func Segregate(lines []model.Line, profile model.DocumentProfile, cfg *config.Config) Result {
	byPage := make(map[int][]model.Line)
	var pageOrder []int
	seen := make(map[int]bool)
	for _, l := range lines {
		if !seen[l.PageIndex] {
			seen[l.PageIndex] = true
			pageOrder = append(pageOrder, l.PageIndex)
		}
		byPage[l.PageIndex] = append(byPage[l.PageIndex], l)
	}

	var body, footnotes []model.Line
	for _, p := range pageOrder {
		pageLines := byPage[p]
		start := findFootnoteStart(pageLines, profile, cfg)
		if start < 0 {
			body = append(body, pageLines...)
			continue
		}
		end := extendRange(pageLines, start, profile, cfg)
		body = append(body, pageLines[:start]...)
		footnotes = append(footnotes, pageLines[start:end]...)
		if end < len(pageLines) {
			body = append(body, pageLines[end:]...)
		}
	}

	footnotes = normalize(footnotes, cfg)
	return Result{Body: body, Footnotes: footnotes}
}

// findFootnoteStart returns the index within pageLines (sorted by
// descending y, i.e. top to bottom) where the footnote range begins, or -1
// if none is detected.
func findFootnoteStart(pageLines []model.Line, profile model.DocumentProfile, cfg *config.Config) int {
	extent, ok := profile.PageExtents[0]
	if len(pageLines) > 0 {
		if e, found := profile.PageExtents[pageLines[0].PageIndex]; found {
			extent = e
			ok = found
		}
	}
	if !ok {
		return -1
	}

	for i, l := range pageLines {
		relY := l.RelativeY(extent)
		text := strings.TrimSpace(l.Text)

		if isMarkerStart(text, l, relY, profile, cfg) {
			if i+1 < len(pageLines) && !isFootnoteText(pageLines[i+1], profile, cfg) && !isMarkerStart(strings.TrimSpace(pageLines[i+1].Text), pageLines[i+1], pageLines[i+1].RelativeY(extent), profile, cfg) {
				continue
			}
			return i
		}
		if isUnmarkedStart(text, l, relY, pageLines, i, profile, cfg) {
			return i
		}
	}
	return -1
}

func isMarkerStart(text string, l model.Line, relY float64, profile model.DocumentProfile, cfg *config.Config) bool {
	if relY > cfg.FootnoteStartMaxRelY {
		return false
	}
	if symbolMarkerRe.MatchString(text) {
		return l.FontSize <= profile.BodyFontSize*cfg.FootnoteSymbolFontRatio
	}
	if numericMarkerRe.MatchString(text) {
		return l.FontSize <= profile.BodyFontSize*cfg.FootnoteNumericFontRatio
	}
	return false
}

func isFootnoteText(l model.Line, profile model.DocumentProfile, cfg *config.Config) bool {
	text := strings.TrimSpace(l.Text)
	if len(text) < cfg.FootnoteMinTextLen {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter && l.FontSize <= profile.BodyFontSize*0.98
}

func isUnmarkedStart(text string, l model.Line, relY float64, pageLines []model.Line, i int, profile model.DocumentProfile, cfg *config.Config) bool {
	if relY > cfg.FootnoteUnmarkedMaxRelY {
		return false
	}
	if l.FontSize > profile.BodyFontSize*cfg.FootnoteUnmarkedFontRatio {
		return false
	}
	words := strings.Fields(text)
	if len(words) < cfg.FootnoteUnmarkedMinWords {
		return false
	}
	lower := 0
	for _, w := range words {
		r := []rune(w)
		if len(r) > 0 && unicode.IsLower(r[0]) {
			lower++
		}
	}
	if lower < cfg.FootnoteUnmarkedMinLower {
		return false
	}
	if i == 0 {
		return false
	}
	gap := pageLines[i-1].Y - l.Y
	return gap >= cfg.FootnoteUnmarkedMinGap
}

// extendRange walks forward from start while lines are continuations: y
// strictly descends, gap <= max, still footnote-font. Returns the exclusive
// end index of the footnote range, so the range is pageLines[start:end].
func extendRange(pageLines []model.Line, start int, profile model.DocumentProfile, cfg *config.Config) int {
	end := start + 1
	for i := start + 1; i < len(pageLines); i++ {
		prev := pageLines[i-1]
		cur := pageLines[i]
		if cur.Y >= prev.Y {
			break
		}
		if prev.Y-cur.Y > cfg.FootnoteMaxContinuationGap {
			break
		}
		if cur.FontSize > profile.BodyFontSize*cfg.FootnoteNumericFontRatio {
			break
		}
		end = i + 1
	}
	return end
}

// normalize merges standalone marker lines with their following text line,
// merges wrapped continuation lines, and infers missing numeric markers.
func normalize(footnotes []model.Line, cfg *config.Config) []model.Line {
	merged := mergeStandaloneMarkers(footnotes)
	merged = mergeWrappedContinuations(merged, cfg)
	merged = inferMissingMarkers(merged)
	return merged
}

func mergeStandaloneMarkers(lines []model.Line) []model.Line {
	var out []model.Line
	for i := 0; i < len(lines); i++ {
		text := strings.TrimSpace(lines[i].Text)
		if (symbolMarkerRe.MatchString(text) || numericMarkerRe.MatchString(text+" ")) && len(text) <= 3 && i+1 < len(lines) {
			next := lines[i+1]
			next.Text = text + " " + next.Text
			out = append(out, next)
			i++
			continue
		}
		out = append(out, lines[i])
	}
	return out
}

func mergeWrappedContinuations(lines []model.Line, cfg *config.Config) []model.Line {
	var out []model.Line
	for _, l := range lines {
		if len(out) == 0 {
			out = append(out, l)
			continue
		}
		last := &out[len(out)-1]
		text := strings.TrimSpace(l.Text)
		if last.PageIndex != l.PageIndex {
			out = append(out, l)
			continue
		}
		startsWithMarker := symbolMarkerRe.MatchString(text) || numericMarkerRe.MatchString(text)
		startsWithURL := urlOnlyRe.MatchString(text)
		xDrift := l.X - last.X
		if xDrift < 0 {
			xDrift = -xDrift
		}
		fontDelta := l.FontSize - last.FontSize
		if fontDelta < 0 {
			fontDelta = -fontDelta
		}
		if !startsWithMarker && !startsWithURL && xDrift <= 0.08*l.PageWidth && fontDelta <= 0.8 {
			last.Text = strings.TrimSpace(last.Text + " " + l.Text)
			continue
		}
		out = append(out, l)
	}
	return out
}

func inferMissingMarkers(lines []model.Line) []model.Line {
	for i, l := range lines {
		text := strings.TrimSpace(l.Text)
		if urlOnlyRe.MatchString(text) {
			prevMarker, hasPrev := leadingNumericMarker(lines, i, -1)
			nextMarker, hasNext := leadingNumericMarker(lines, i, 1)
			if hasPrev && hasNext && nextMarker == prevMarker+2 {
				lines[i].Text = itoa(prevMarker+1) + " " + text
			}
		}
	}
	return lines
}

func leadingNumericMarker(lines []model.Line, from, dir int) (int, bool) {
	for i := from; i >= 0 && i < len(lines); i += dir {
		m := leadingMarkerRe.FindStringSubmatch(strings.TrimSpace(lines[i].Text))
		if m != nil {
			return atoi(m[1]), true
		}
	}
	return 0, false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
