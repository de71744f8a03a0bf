// Package classify assigns each body line a role (heading level, bullet,
// code, reference, table-row-candidate, paragraph) from text patterns,
// font ratios, x-position, and column context.
package classify

import (
	"regexp"
	"strings"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
	"github.com/tsawler/pdf2html/textutil"
)

// Role is the per-line classification assigned by Classify.
type Role int

const (
	RoleParagraph Role = iota
	RoleHeading1
	RoleHeading2
	RoleHeading3
	RoleHeading4
	RoleBullet
	RoleCodeLine
	RoleReferenceItem
	RoleTableRowCandidate
)

// Classified pairs a Line with its assigned role and, for headings, the
// heading text with its numeric/named prefix retained.
type Classified struct {
	Line  model.Line
	Role  Role
	Level int
}

var (
	headingL1Re = regexp.MustCompile(`^(\d{1,2})[ .]`)
	headingL2Re = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})[ .]`)
	headingL3Re = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{1,2})[ .]`)
	mathPrefixRe = regexp.MustCompile(`^\d+\s*[A-Za-z]\s*[−-]\s*\d`)
	yearSeqRe    = regexp.MustCompile(`^(19|20)\d{2}[ .]`)
	tableRowRe   = regexp.MustCompile(`\d+\.\d+\s*$`)
	addressRe    = regexp.MustCompile(`(?i)street|avenue|blvd|suite|p\.?o\.? box`)
	bulletRe     = regexp.MustCompile(`^•\s*`)
	referenceRe  = regexp.MustCompile(`^\[(\d{1,3})\]`)
	tableTitleRe = regexp.MustCompile(`^Table\s+\d+[:.]`)
	codeLeadRe   = regexp.MustCompile(`^\d+\s`)
	codeTokenRe  = regexp.MustCompile(`\b(def|class|return|import|from|const|let|var|function)\b|[#=]`)
)

var namedSections = map[string]int{
	"abstract":                     2,
	"introduction":                 2,
	"methods":                      2,
	"results":                      2,
	"discussion":                   2,
	"conclusion":                   2,
	"conclusions":                  2,
	"references":                   2,
	"acknowledgements":             2,
	"acknowledgments":              2,
	"appendix":                     2,
	"limitations":                  2,
	"ethics statement":             2,
	"experimental section":         2,
	"supporting information":       2,
	"ethical approval":             2,
	"funding":                      2,
	"credit authorship contribution statement": 2,
	"declaration of competing interest":        2,
	"data sharing statement":                   2,
	"research in context":                      2,
	"device and film characterization":         3,
	"material preparation and device fabrication": 3,
	"appendix a. supplementary data":               2,
}

// Classify assigns a Role to every line in a page's body sequence. It
// operates per page since heading/bullet/code grouping never crosses a
// page boundary before the paragraph merger runs.
func Classify(lines []model.Line, profile model.DocumentProfile, cfg *config.Config) []Classified {
	out := make([]Classified, len(lines))
	for i, l := range lines {
		out[i] = Classified{Line: l, Role: classifyLine(l, lines, i, profile, cfg)}
		out[i].Level = levelFor(l.Text)
	}
	mergeNumberedHeadingContinuations(out)

	filtered := out[:0]
	for _, c := range out {
		if c.Role == roleConsumed {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

const roleConsumed Role = -1

func classifyLine(l model.Line, all []model.Line, idx int, profile model.DocumentProfile, cfg *config.Config) Role {
	text := strings.TrimSpace(l.Text)

	if named, ok := namedSectionHeading(text); ok {
		return headingRoleForLevel(named)
	}
	if isNumberedHeading(text, cfg) {
		return headingRoleForLevel(levelFor(text))
	}
	if bulletRe.MatchString(text) {
		return RoleBullet
	}
	if referenceRe.MatchString(text) {
		return RoleReferenceItem
	}
	if tableTitleRe.MatchString(text) {
		return RoleTableRowCandidate
	}
	if isCodeLine(l, all, idx) {
		return RoleCodeLine
	}
	return RoleParagraph
}

func headingRoleForLevel(level int) Role {
	switch level {
	case 2:
		return RoleHeading2
	case 3:
		return RoleHeading3
	case 4:
		return RoleHeading4
	default:
		return RoleHeading1
	}
}

func namedSectionHeading(text string) (int, bool) {
	key := strings.ToLower(strings.TrimRight(text, ":."))
	if level, ok := namedSections[key]; ok {
		return level, true
	}
	return 0, false
}

// SplitInlineLabel splits a "Label: body" line into a heading and a
// paragraph remainder when Label is a named section.
func SplitInlineLabel(text string) (label, body string, ok bool) {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return "", "", false
	}
	candidate := strings.TrimSpace(text[:idx])
	if _, isSection := namedSectionHeading(candidate); !isSection {
		return "", "", false
	}
	return candidate, strings.TrimSpace(text[idx+1:]), true
}

func isNumberedHeading(text string, cfg *config.Config) bool {
	if len(text) < cfg.HeadingMinLen || len(text) > cfg.HeadingMaxLen {
		return false
	}
	if len(strings.Fields(text)) > cfg.HeadingMaxWords {
		return false
	}
	if textutil.DigitRatio(text) > cfg.HeadingMaxDigitRatio {
		return false
	}
	if mathPrefixRe.MatchString(text) || yearSeqRe.MatchString(text) || tableRowRe.MatchString(text) || addressRe.MatchString(text) {
		return false
	}
	m := headingL1Re.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	topLevel := atoiSafe(m[1])
	if topLevel > cfg.HeadingMaxTopLevelNum {
		return false
	}
	prefix := m[0]
	if m3 := headingL3Re.FindString(text); m3 != "" {
		prefix = m3
	} else if m2 := headingL2Re.FindString(text); m2 != "" {
		prefix = m2
	}
	rest := strings.TrimLeft(text[len(prefix):], " ")
	return len(rest) > 0 && isLetterStart(rest)
}

func levelFor(text string) int {
	if headingL3Re.MatchString(text) {
		return 4
	}
	if headingL2Re.MatchString(text) {
		return 3
	}
	if headingL1Re.MatchString(text) {
		return 2
	}
	return 0
}

func isLetterStart(s string) bool {
	r := []rune(s)
	if len(r) == 0 {
		return false
	}
	return (r[0] >= 'a' && r[0] <= 'z') || (r[0] >= 'A' && r[0] <= 'Z')
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// mergeNumberedHeadingContinuations merges a wrapped single-word
// continuation line into the preceding numbered heading.
func mergeNumberedHeadingContinuations(lines []Classified) {
	for i := 1; i < len(lines); i++ {
		if lines[i].Role != RoleParagraph {
			continue
		}
		prev := &lines[i-1]
		if prev.Role < RoleHeading1 || prev.Role > RoleHeading4 {
			continue
		}
		if !headingL1Re.MatchString(strings.TrimSpace(prev.Line.Text)) {
			continue
		}
		words := strings.Fields(lines[i].Line.Text)
		if len(words) != 1 {
			continue
		}
		prev.Line.Text = prev.Line.Text + " " + words[0]
		lines[i].Role = roleConsumed
	}
}

func isCodeLine(l model.Line, all []model.Line, idx int) bool {
	text := strings.TrimSpace(l.Text)
	if !codeLeadRe.MatchString(text) {
		return false
	}
	if !codeTokenRe.MatchString(text) {
		return false
	}
	// requires at least one neighbor with the same shape to form a sequence
	for _, dir := range []int{-1, 1} {
		j := idx + dir
		if j < 0 || j >= len(all) {
			continue
		}
		other := strings.TrimSpace(all[j].Text)
		if codeLeadRe.MatchString(other) && codeTokenRe.MatchString(other) {
			return true
		}
	}
	return false
}

// StripLineNumber removes the leading "N " line-number token from a code
// line, used when assembling a <pre><code> block body.
func StripLineNumber(text string) string {
	return codeLeadRe.ReplaceAllString(text, "")
}

// IsReferencesHeading reports whether text is (case-insensitively) the
// literal "References" section heading.
func IsReferencesHeading(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "References")
}

// DocumentPositionFraction is used by the references-list fallback trigger
// (three `[N]`-prefixed lines within a 40-line window past 35% of document
// length).
func DocumentPositionFraction(idx, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(idx) / float64(total)
}
