// Package merge combines consecutive paragraph lines into flowing
// paragraphs: resolves soft-hyphens, merges wrapped URLs, and collapses
// duplicate sentence-prefix artifacts.
package merge

import (
	"regexp"
	"strings"

	"github.com/tsawler/pdf2html/classify"
	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

var (
	terminalPunctRe = regexp.MustCompile(`[.!?]["')\]]?$`)
	urlTrailRe      = regexp.MustCompile(`https?://\S+$`)
	headingPrefixRe = regexp.MustCompile(`^(\d{1,2}[ .]|\[(\d{1,3})\]|•)`)
)

// softHyphenSuffixes are recognized wrap suffixes where the hyphen was
// introduced only by line-wrapping and must be removed on rejoin.
var softHyphenSuffixes = []string{
	"tion", "sion", "ment", "ing", "ence", "ance", "ity", "able",
	"ible", "ness", "ology", "ization", "ational",
}

// compoundHyphenTokens are known compound terms whose hyphen must be
// preserved even though it falls at a line break.
var compoundHyphenTokens = map[string]bool{
	"a-IGZO": true,
}

// Paragraph is a merged run of classified lines sharing one flowing text.
type Paragraph struct {
	Text string
}

// Merge walks a page's classified lines in order and merges consecutive
// paragraph-role lines per the §4.7 contract, returning one Paragraph per
// merged run.
func Merge(lines []classify.Classified, cfg *config.Config) []Paragraph {
	var out []Paragraph
	open := false

	for i, c := range lines {
		if c.Role != classify.RoleParagraph {
			open = false
			continue
		}
		text := strings.TrimSpace(c.Line.Text)

		if !open || !canMerge(lines[i-1], c, cfg) {
			out = append(out, Paragraph{Text: text})
			open = true
			continue
		}
		last := &out[len(out)-1]
		last.Text = joinContinuation(last.Text, text, lines[i-1].Line.Y, c.Line.Y)
	}
	return out
}

// canMerge reports whether cur continues the paragraph prev left open:
// same page and column, prev's text trails off without terminal
// punctuation (or ends mid-word/soft-hyphenated), and cur's font size and
// left margin stay close to prev's.
func canMerge(prev, cur classify.Classified, cfg *config.Config) bool {
	p, c := prev.Line, cur.Line

	if p.PageIndex != c.PageIndex {
		return false
	}
	if p.Column != c.Column && !(p.Column == model.ColumnNone && c.Column == model.ColumnNone) {
		return false
	}

	prevText := strings.TrimSpace(p.Text)
	columnRight := p.PageWidth
	fullWidth := (p.MaxX() - p.X) >= columnRight*(1-cfg.ParaFullWidthSlack)*0.5
	endsTerminal := terminalPunctRe.MatchString(prevText)
	endsSoftHyphen := strings.HasSuffix(prevText, "-")
	endsMidWord := !endsTerminal && len(prevText) > 0 && !strings.HasSuffix(p.Text, " ")

	cond2 := (!endsTerminal && fullWidth) || endsSoftHyphen || endsMidWord
	if !cond2 {
		return false
	}

	fontDelta := absF(p.FontSize - c.FontSize)
	xDelta := absF(p.X - c.X)
	if fontDelta > cfg.ParaFontDeltaMax || xDelta > cfg.ParaXDeltaMaxFrac*p.PageWidth {
		return false
	}

	if headingPrefixRe.MatchString(strings.TrimSpace(c.Text)) {
		return false
	}
	return true
}

// joinContinuation joins prevText and nextText applying soft-hyphen
// removal, same-row sentence splicing, URL continuation merging, and
// sentence-prefix dedup.
func joinContinuation(prevText, nextText string, prevY, curY float64) string {
	if resolved, ok := resolveSoftHyphen(prevText, nextText); ok {
		return dedupSentencePrefix(resolved)
	}
	if urlTrailRe.MatchString(prevText) {
		return dedupSentencePrefix(prevText + nextText)
	}
	sameRow := absF(prevY-curY) <= 1
	if sameRow && endsMidSentence(prevText) && startsLower(nextText) {
		return dedupSentencePrefix(prevText + " " + nextText)
	}
	return dedupSentencePrefix(prevText + " " + nextText)
}

func resolveSoftHyphen(prevText, nextText string) (string, bool) {
	trimmed := strings.TrimRight(prevText, " ")
	if !strings.HasSuffix(trimmed, "-") {
		return "", false
	}
	word := lastWord(trimmed)
	fullWord := strings.TrimSuffix(word, "-")
	if compoundHyphenTokens[word] {
		return "", false
	}

	nextWords := strings.Fields(nextText)
	if len(nextWords) == 0 {
		return "", false
	}
	firstRune := []rune(nextWords[0])
	if len(firstRune) == 0 || !isLower(firstRune[0]) {
		return "", false
	}

	matched := false
	for _, suf := range softHyphenSuffixes {
		if strings.HasPrefix(strings.ToLower(nextWords[0]), suf[:min(len(suf), len(nextWords[0]))]) {
			matched = true
			break
		}
	}
	if !matched && !isCapitalInternal(fullWord) {
		matched = true
	}
	if !matched {
		return "", false
	}
	joined := trimmed[:len(trimmed)-1] + nextText
	return joined, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isCapitalInternal(word string) bool {
	r := []rune(word)
	for i := 1; i < len(r); i++ {
		if isUpper(r[i]) {
			return true
		}
	}
	return false
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func endsMidSentence(s string) bool {
	return !terminalPunctRe.MatchString(strings.TrimSpace(s))
}

func startsLower(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	r := []rune(fields[0])
	return len(r) > 0 && isLower(r[0])
}

// dedupSentencePrefix collapses a duplicated sentence prefix such as
// "Implementation. Implementation. CleanAgent…" to "Implementation.
// CleanAgent…".
func dedupSentencePrefix(text string) string {
	parts := strings.SplitN(text, ". ", 3)
	if len(parts) >= 2 && strings.TrimSpace(parts[0]) == strings.TrimSpace(parts[1]) {
		return strings.Join(append([]string{parts[0]}, parts[2:]...), ". ")
	}
	return text
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
