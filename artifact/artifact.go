// Package artifact strips header/footer affixes from body lines, then
// removes running headers/footers, page numbers, arXiv stamps, and a long
// tail of intrinsic per-line artifacts.
package artifact

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
	"github.com/tsawler/pdf2html/textutil"
)

var (
	arxivStampRe    = regexp.MustCompile(`^arXiv:\d{4}\.\d{4,5}(v\d+)?\s+\[[\w.]+\]\s+\d{1,2}\s+\w+\s+\d{4}$`)
	pageCounterRe   = regexp.MustCompile(`\d+\s+of\s+\d+`)
	domainTokenRe   = regexp.MustCompile(`\b[\w-]+\.(com|org|net|edu|io)\b`)
	doiOnlyRe       = regexp.MustCompile(`^(doi:\s*)?10\.\d{4,9}/\S+$`)
	emailRe         = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	affiliationIdxRe = regexp.MustCompile(`^[\d\s.,;:*†‡§¶#]+$`)
	shortDigitTokRe  = regexp.MustCompile(`\b\d{1,2}\b`)
	symbolicClusterRe = regexp.MustCompile(`[*∗†‡§¶#]`)
	specialTokenRe     = regexp.MustCompile(`<pad>|<eos>|<bos>|<unk>`)
	standaloneSymbolRe = regexp.MustCompile(`^[!)+′]{1,3}$`)
	pageNumberRe       = regexp.MustCompile(`^\d{1,4}$`)
	citationOnlyRe     = regexp.MustCompile(`^(\[\d+\]\s*)+$`)
	venueKeywordRe     = regexp.MustCompile(`(?i)conference|proceedings|workshop|symposium|journal|arxiv preprint`)
	yearRe             = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	longNumberRe       = regexp.MustCompile(`\b\d{5,}\b`)
	corporateTokenRe   = regexp.MustCompile(`(?i)inc\.|ltd\.|llc|corporation|copyright|©|all rights reserved`)
)

// Result is the output of Filter: the surviving body lines plus the
// DocumentProfile populated with the running-label and page-number
// statistics that were consulted to produce it.
type Result struct {
	Lines   []model.Line
	Profile model.DocumentProfile
}

// Filter strips header/footer affixes from every line, then removes page
// artifacts (including lines left empty by the stripping), returning the
// cleaned line list and an enriched DocumentProfile.
func Filter(lines []model.Line, profile model.DocumentProfile, cfg *config.Config) Result {
	profile = detectRunningLabels(lines, profile, cfg)
	profile = detectPageNumberSequence(lines, profile, cfg)

	stripped := stripAffixes(lines, profile, cfg)

	out := make([]model.Line, 0, len(stripped))
	for _, l := range stripped {
		if l.IsEmpty() {
			continue
		}
		if isRunningLabel(l, profile) {
			continue
		}
		if isPageNumberSequenceLine(l, profile) {
			continue
		}
		if isIntrinsicArtifact(l, lines, profile, cfg) {
			continue
		}
		out = append(out, l)
	}
	return Result{Lines: out, Profile: profile}
}

// --- Running labels -------------------------------------------------------

type labelStats struct {
	pages           map[int]bool
	edgeOccurrences int
	broadEdgePages  map[int]bool
	minEdgeFont     float64
	total           int
}

func detectRunningLabels(lines []model.Line, profile model.DocumentProfile, cfg *config.Config) model.DocumentProfile {
	stats := make(map[string]*labelStats)
	for _, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		st, ok := stats[text]
		if !ok {
			st = &labelStats{pages: make(map[int]bool), broadEdgePages: make(map[int]bool), minEdgeFont: l.FontSize}
			stats[text] = st
		}
		st.pages[l.PageIndex] = true
		st.total++
		extent, ok := profile.PageExtents[l.PageIndex]
		relY := 0.5
		if ok {
			relY = l.RelativeY(extent)
		}
		if textutil.IsEdgeBand(relY, cfg.PageEdgeMargin) {
			st.edgeOccurrences++
			st.broadEdgePages[l.PageIndex] = true
			if l.FontSize < st.minEdgeFont {
				st.minEdgeFont = l.FontSize
			}
		}
	}

	pageCount := profile.PageCount
	if pageCount == 0 {
		pageCount = 1
	}

	for text, st := range stats {
		pageCoverage := float64(len(st.pages)) / float64(pageCount)
		edgeRatio := 0.0
		if st.total > 0 {
			edgeRatio = float64(st.edgeOccurrences) / float64(st.total)
		}
		edgePageCoverage := float64(len(st.broadEdgePages)) / float64(pageCount)

		isAuthorEtAl := strings.Contains(strings.ToLower(text), "et al")
		qualifiesStandard := len(st.pages) >= cfg.MinRepeatedEdgeTextPages &&
			pageCoverage >= cfg.MinRepeatedEdgeTextCoverage &&
			(edgeRatio >= cfg.RunningLabelEdgeRatio || looksLikeLabelPattern(text)) &&
			edgePageCoverage >= 0.80
		qualifiesAuthorEtAl := isAuthorEtAl &&
			len(st.pages) >= cfg.AuthorEtAlMinPages &&
			pageCoverage >= cfg.AuthorEtAlMinCoverage

		if qualifiesStandard || qualifiesAuthorEtAl {
			pages := make([]int, 0, len(st.pages))
			for p := range st.pages {
				pages = append(pages, p)
			}
			sort.Ints(pages)
			broad := make([]int, 0, len(st.broadEdgePages))
			for p := range st.broadEdgePages {
				broad = append(broad, p)
			}
			sort.Ints(broad)
			profile.RunningLabels[text] = model.RunningLabel{
				Text:                 text,
				PageIndexes:          pages,
				EdgeOccurrences:      st.edgeOccurrences,
				BroadEdgePageIndexes: broad,
				MinEdgeFontSize:      st.minEdgeFont,
			}
		}
	}
	return profile
}

// looksLikeLabelPattern matches the running-label text pattern: 6-40 chars,
// 1-4 words, alphabetic with >=90% uppercase.
func looksLikeLabelPattern(text string) bool {
	if len(text) < 6 || len(text) > 40 {
		return false
	}
	words := strings.Fields(text)
	if len(words) < 1 || len(words) > 4 {
		return false
	}
	return textutil.UppercaseRatio(text) >= 0.9
}

func isRunningLabel(l model.Line, profile model.DocumentProfile) bool {
	text := strings.TrimSpace(l.Text)
	_, ok := profile.RunningLabels[text]
	return ok
}

// stripAffixes strips running labels longer than 12 characters as a prefix
// or suffix of other lines, longest labels first, bounded at three
// iterations, only at a whitespace/punctuation boundary.
func stripAffixes(lines []model.Line, profile model.DocumentProfile, cfg *config.Config) []model.Line {
	var labels []string
	for text := range profile.RunningLabels {
		if len(text) > 12 {
			labels = append(labels, text)
		}
	}
	sort.Slice(labels, func(i, j int) bool { return len(labels[i]) > len(labels[j]) })
	if len(labels) == 0 {
		return lines
	}

	out := make([]model.Line, len(lines))
	copy(out, lines)
	for iter := 0; iter < 3; iter++ {
		changed := false
		for i, l := range out {
			text := l.Text
			for _, label := range labels {
				if strings.HasPrefix(text, label) {
					rest := text[len(label):]
					if rest == "" || isBoundaryRune(rest[0]) {
						text = strings.TrimSpace(rest)
						changed = true
					}
				}
				if strings.HasSuffix(text, label) {
					rest := text[:len(text)-len(label)]
					if rest == "" || isBoundaryRune(rest[len(rest)-1]) {
						text = strings.TrimSpace(rest)
						changed = true
					}
				}
			}
			out[i].Text = text
		}
		if !changed {
			break
		}
	}
	return out
}

func isBoundaryRune(b byte) bool {
	return b == ' ' || b == '\t' || strings.ContainsRune(".,;:-—–", rune(b))
}

// --- Page-number sequence --------------------------------------------------

func detectPageNumberSequence(lines []model.Line, profile model.DocumentProfile, cfg *config.Config) model.DocumentProfile {
	offsetPages := make(map[int]map[int]bool)
	for _, l := range lines {
		text := strings.TrimSpace(l.Text)
		if !pageNumberRe.MatchString(text) {
			continue
		}
		extent, ok := profile.PageExtents[l.PageIndex]
		if !ok || !textutil.IsEdgeBand(l.RelativeY(extent), cfg.PageEdgeMargin) {
			continue
		}
		var value int
		for _, r := range text {
			value = value*10 + int(r-'0')
		}
		offset := value - l.PageIndex
		if offsetPages[offset] == nil {
			offsetPages[offset] = make(map[int]bool)
		}
		offsetPages[offset][l.PageIndex] = true
	}

	pageCount := profile.PageCount
	if pageCount == 0 {
		pageCount = 1
	}
	for offset, pages := range offsetPages {
		coverage := float64(len(pages)) / float64(pageCount)
		if len(pages) >= cfg.MinPageNumberSequencePages && coverage >= cfg.MinPageNumberSequenceCoverage {
			profile.PageNumberOffsets[offset] = len(pages)
		}
	}
	return profile
}

func isPageNumberSequenceLine(l model.Line, profile model.DocumentProfile) bool {
	text := strings.TrimSpace(l.Text)
	if !pageNumberRe.MatchString(text) {
		return false
	}
	var value int
	for _, r := range text {
		value = value*10 + int(r-'0')
	}
	offset := value - l.PageIndex
	_, ok := profile.PageNumberOffsets[offset]
	return ok
}

// --- Intrinsic per-line artifacts ------------------------------------------

func isIntrinsicArtifact(l model.Line, all []model.Line, profile model.DocumentProfile, cfg *config.Config) bool {
	text := strings.TrimSpace(l.Text)
	if text == "" {
		return true
	}
	extent, hasExtent := profile.PageExtents[l.PageIndex]
	relY := 0.5
	if hasExtent {
		relY = l.RelativeY(extent)
	}

	if isArxivStamp(l, text, profile, cfg) {
		return true
	}
	if pageCounterRe.MatchString(text) && domainTokenRe.MatchString(text) && hasExtent && textutil.IsEdgeBand(relY, cfg.PageEdgeMargin) {
		return true
	}
	if l.PageIndex < 2 && doiOnlyRe.MatchString(text) {
		return true
	}
	if l.PageIndex == 0 && strings.HasPrefix(strings.ToLower(text), "e-mail:") && emailRe.MatchString(text) {
		return true
	}
	if l.PageIndex == 0 && isTopMatterAffiliationIndex(l, text, profile, cfg) {
		return true
	}
	if l.PageIndex == 0 && isSymbolicAffiliationCluster(text) {
		return true
	}
	if isFirstPageVenueFooter(l, text, relY, hasExtent) {
		return true
	}
	if isPublisherImprintFooter(l, text, relY, hasExtent) {
		return true
	}
	if specialTokenRe.MatchString(text) {
		return true
	}
	if standaloneSymbolRe.MatchString(text) && l.EstimatedWidth < l.FontSize*3 {
		return true
	}
	if citationOnlyRe.MatchString(text) {
		return true
	}
	if isDetachedMathFragment(l, all, profile, cfg) {
		return true
	}
	if isAlternatingRunningHeader(l, text, all, profile, cfg) {
		return true
	}
	if isDenseInlineFigureLabel(l, all, profile, cfg) {
		return true
	}
	return false
}

func isArxivStamp(l model.Line, text string, profile model.DocumentProfile, cfg *config.Config) bool {
	if !arxivStampRe.MatchString(text) {
		return false
	}
	if l.EstimatedWidth > l.PageWidth*0.7 {
		return false
	}
	return l.FontSize >= profile.BodyFontSize+6 || l.FontSize >= profile.BodyFontSize*1.6
}

func isTopMatterAffiliationIndex(l model.Line, text string, profile model.DocumentProfile, cfg *config.Config) bool {
	if !affiliationIdxRe.MatchString(text) {
		return false
	}
	tokens := shortDigitTokRe.FindAllString(text, -1)
	if len(tokens) < 2 {
		return false
	}
	if l.FontSize > profile.BodyFontSize*0.82 {
		return false
	}
	extent, ok := profile.PageExtents[l.PageIndex]
	return ok && l.RelativeY(extent) >= 0.7
}

func isSymbolicAffiliationCluster(text string) bool {
	return len(symbolicClusterRe.FindAllString(text, -1)) >= 2
}

func isFirstPageVenueFooter(l model.Line, text string, relY float64, hasExtent bool) bool {
	if l.PageIndex != 0 || !hasExtent || relY > 0.1 {
		return false
	}
	return yearRe.MatchString(text) && venueKeywordRe.MatchString(text)
}

func isPublisherImprintFooter(l model.Line, text string, relY float64, hasExtent bool) bool {
	if !hasExtent || relY > 0.1 {
		return false
	}
	tokenHits := 0
	if corporateTokenRe.MatchString(text) {
		tokenHits++
	}
	return tokenHits > 0 && yearRe.MatchString(text) && longNumberRe.MatchString(text)
}

func isDetachedMathFragment(l model.Line, all []model.Line, profile model.DocumentProfile, cfg *config.Config) bool {
	text := strings.TrimSpace(l.Text)
	if textutil.SubstantiveCharCount(text) > 3 || len(text) == 0 {
		return false
	}
	if !looksMathy(text) {
		return false
	}
	prev, next := neighborsOnPage(l, all)
	if prev == nil || next == nil {
		return false
	}
	sameColumnX := textutil.AbsFloat64(prev.X-l.X) < 20 && textutil.AbsFloat64(next.X-l.X) < 20
	if !sameColumnX {
		return false
	}
	if isSingleLetterVariableBridge(text, prev, next) {
		return false
	}
	return true
}

func looksMathy(text string) bool {
	for _, r := range text {
		if strings.ContainsRune("+-=<>≤≥×÷∑∏∫√∂αβγδθλμσ()[]{}^_", r) {
			return true
		}
	}
	return false
}

func isSingleLetterVariableBridge(text string, prev, next *model.Line) bool {
	if len([]rune(text)) != 1 {
		return false
	}
	return strings.HasSuffix(strings.TrimRight(prev.Text, " "), "") && strings.HasPrefix(strings.TrimSpace(next.Text), "(")
}

func neighborsOnPage(l model.Line, all []model.Line) (prev, next *model.Line) {
	var page []model.Line
	for i := range all {
		if all[i].PageIndex == l.PageIndex {
			page = append(page, all[i])
		}
	}
	for i := range page {
		if page[i].Y == l.Y && page[i].X == l.X {
			if i > 0 {
				prev = &page[i-1]
			}
			if i+1 < len(page) {
				next = &page[i+1]
			}
			return
		}
	}
	return nil, nil
}

func isAlternatingRunningHeader(l model.Line, text string, all []model.Line, profile model.DocumentProfile, cfg *config.Config) bool {
	extent, ok := profile.PageExtents[l.PageIndex]
	if !ok || l.RelativeY(extent) < 0.8 {
		return false
	}
	parity := l.PageIndex % 2
	matchPages := make(map[int]bool)
	for _, other := range all {
		if strings.TrimSpace(other.Text) != text {
			continue
		}
		if other.PageIndex%2 != parity {
			continue
		}
		otherExtent, ok := profile.PageExtents[other.PageIndex]
		if !ok || other.RelativeY(otherExtent) < 0.8 {
			continue
		}
		matchPages[other.PageIndex] = true
	}
	totalParityPages := 0
	for p := 0; p < profile.PageCount; p++ {
		if p%2 == parity {
			totalParityPages++
		}
	}
	if totalParityPages == 0 {
		return false
	}
	return float64(len(matchPages))/float64(totalParityPages) >= 0.3
}

func isDenseInlineFigureLabel(l model.Line, all []model.Line, profile model.DocumentProfile, cfg *config.Config) bool {
	if l.X < l.PageWidth/2 {
		return false
	}
	if l.FontSize > profile.BodyFontSize*0.72 {
		return false
	}
	count := 0
	for _, other := range all {
		if other.PageIndex == l.PageIndex && other.X >= other.PageWidth/2 && other.FontSize <= profile.BodyFontSize*0.72 {
			count++
		}
	}
	return count >= 20
}
