// Package title finds the document title on page 0 by scoring large-font
// centered candidates, falling back to a pre-author top-matter walk-back
// when none qualifies, and merges wrapped title continuations.
package title

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

var (
	authorListRe    = regexp.MustCompile(`,`)
	metadataTokenRe = regexp.MustCompile(`(?i)university|department|institute|email|abstract|arxiv`)
)

// Result holds the detected title text and the set of original-line indexes
// (into the page-0 line slice passed to Detect) that were consumed by the
// title, so the caller can exclude them from the body sequence.
type Result struct {
	Text     string
	Consumed map[int]bool
}

// Detect finds the title among a page's lines (already reading-order
// sorted) using the primary scoring rule, falling back to the top-matter
// walk-back when nothing qualifies.
func Detect(page0Lines []model.Line, extent model.PageVerticalExtent, profile model.DocumentProfile, cfg *config.Config) Result {
	negY := profile.NegativeCoordinatePages[0]
	fontDelta, fontRatio := cfg.TitleFontDelta, cfg.TitleFontRatio
	if negY {
		fontDelta, fontRatio = cfg.TitleFontDeltaNegativeY, cfg.TitleFontRatioNegativeY
	}

	bestIdx := -1
	bestScore := -1.0
	for i, l := range page0Lines {
		if !qualifiesPrimary(l, page0Lines, extent, profile, fontDelta, fontRatio, cfg) {
			continue
		}
		score := scoreCandidate(l, extent, profile)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx >= 0 {
		return mergeContinuation(page0Lines, bestIdx)
	}
	return fallbackTopMatter(page0Lines)
}

func qualifiesPrimary(l model.Line, all []model.Line, extent model.PageVerticalExtent, profile model.DocumentProfile, fontDelta, fontRatio float64, cfg *config.Config) bool {
	if l.FontSize < profile.BodyFontSize+fontDelta && l.FontSize < profile.BodyFontSize*fontRatio {
		return false
	}
	text := strings.TrimSpace(l.Text)
	if len(text) < cfg.TitleMinLen {
		return false
	}
	if r := []rune(text); len(r) > 0 {
		last := r[len(r)-1]
		if last == '.' || last == '!' || last == '?' {
			return false
		}
	}
	if l.RelativeY(extent) < cfg.TitleMinRelativeY {
		return false
	}
	if l.EstimatedWidth > l.PageWidth*cfg.TitleMaxWidthRatio {
		return false
	}
	center := l.X + l.EstimatedWidth/2
	pageCenter := l.PageWidth / 2
	if absF(center-pageCenter) > l.PageWidth*cfg.TitleCenterTolerance {
		return false
	}
	if isInDenseSameFontBlock(l, all, cfg) {
		return false
	}
	return true
}

func isInDenseSameFontBlock(l model.Line, all []model.Line, cfg *config.Config) bool {
	count := 0
	for _, other := range all {
		if absF(other.FontSize-l.FontSize) < 0.01 && absF(other.Y-l.Y) <= cfg.TitleDenseBlockYWindow {
			count++
		}
	}
	return count > cfg.TitleDenseBlockMinLines
}

func scoreCandidate(l model.Line, extent model.PageVerticalExtent, profile model.DocumentProfile) float64 {
	fontScore := l.FontSize / maxF(profile.BodyFontSize, 1)
	center := l.X + l.EstimatedWidth/2
	pageCenter := l.PageWidth / 2
	centerScore := 1 - minF(absF(center-pageCenter)/maxF(l.PageWidth/2, 1), 1)
	verticalScore := l.RelativeY(extent)
	return 3*fontScore + 2*centerScore + verticalScore
}

func mergeContinuation(page0Lines []model.Line, idx int) Result {
	consumed := map[int]bool{idx: true}
	title := strings.TrimSpace(page0Lines[idx].Text)

	for i := idx - 1; i >= 0; i-- {
		if !isContinuationOf(page0Lines[i], page0Lines[idx]) {
			break
		}
		title = strings.TrimSpace(page0Lines[i].Text) + " " + title
		consumed[i] = true
	}
	for i := idx + 1; i < len(page0Lines); i++ {
		if !isContinuationOf(page0Lines[i], page0Lines[idx]) {
			break
		}
		title = title + " " + strings.TrimSpace(page0Lines[i].Text)
		consumed[i] = true
	}
	return Result{Text: title, Consumed: consumed}
}

func isContinuationOf(candidate, title model.Line) bool {
	if absF(candidate.FontSize-title.FontSize) > 0.5 {
		return false
	}
	candidateCenter := candidate.X + candidate.EstimatedWidth/2
	titleCenter := title.X + title.EstimatedWidth/2
	if absF(candidateCenter-titleCenter) > title.PageWidth*0.1 {
		return false
	}
	if candidate.EstimatedWidth >= candidate.PageWidth*0.9 {
		return false
	}
	text := strings.TrimSpace(candidate.Text)
	r := []rune(text)
	return len(r) > 0 && unicode.IsLower(r[0])
}

func fallbackTopMatter(page0Lines []model.Line) Result {
	authorIdx := -1
	for i, l := range page0Lines {
		if looksLikeAuthorList(l.Text) {
			authorIdx = i
			break
		}
	}
	if authorIdx <= 0 {
		return Result{Text: "", Consumed: map[int]bool{}}
	}

	start := authorIdx - 1
	limit := authorIdx - 8
	if limit < 0 {
		limit = 0
	}
	var candidates []int
	leftX := page0Lines[authorIdx].X
	for i := start; i >= limit; i-- {
		text := strings.TrimSpace(page0Lines[i].Text)
		if len(text) < 20 || len(text) > 140 {
			break
		}
		if strings.Count(text, ",") > 1 {
			break
		}
		if text == strings.ToUpper(text) {
			break
		}
		if absF(page0Lines[i].X-leftX) > 0.08*page0Lines[i].PageWidth {
			break
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return Result{Text: "", Consumed: map[int]bool{}}
	}
	topIdx := candidates[len(candidates)-1]
	return Result{Text: strings.TrimSpace(page0Lines[topIdx].Text), Consumed: map[int]bool{topIdx: true}}
}

func looksLikeAuthorList(text string) bool {
	if strings.Count(text, ",") < 2 {
		return false
	}
	if metadataTokenRe.MatchString(text) {
		return false
	}
	caps := 0
	for _, w := range strings.Fields(text) {
		r := []rune(w)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			caps++
		}
	}
	return caps >= 4
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
