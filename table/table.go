// Package table groups caption-triggered row candidates, infers column
// boundaries by clustering fragment x-centers (refined by any ruled
// vector-graphics lines the page carries), and emits header/body rows.
package table

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

var tableTitleRe = regexp.MustCompile(`^Table\s+\d+[:.]`)

// Reconstruct groups a run of candidate rows beginning at a "Table N:"
// caption line into a model.Table, inferring columns by x-center
// clustering and consulting the page's ruled vector-graphics lines (when
// any were extracted) as secondary evidence for column separation and the
// header/body boundary.
func Reconstruct(captionLine model.Line, rowLines []model.Line, rules []model.RuleLine, cfg *config.Config) *model.Table {
	caption := strings.TrimSpace(captionLine.Text)
	if len(rowLines) == 0 {
		return &model.Table{Caption: caption}
	}

	tolerance := captionLine.FontSize * cfg.TableColumnClusterFontMultiple
	centers := clusterColumnCenters(rowLines, tolerance, rules)

	rows := make([][]model.Cell, 0, len(rowLines))
	for _, line := range rowLines {
		rows = append(rows, splitRowIntoCells(line, centers))
	}

	headerCount := countHeaderRows(rows)
	if n, ok := headerRowsFromRules(rowLines, rules); ok {
		headerCount = n
	}
	header := rows[:headerCount]
	body := rows[headerCount:]
	for i := range header {
		for j := range header[i] {
			header[i][j].IsHeader = true
		}
	}

	return &model.Table{
		Caption:    caption,
		HeaderRows: header,
		BodyRows:   body,
	}
}

// IsTableCaption reports whether text triggers table reconstruction.
func IsTableCaption(text string) bool {
	return tableTitleRe.MatchString(strings.TrimSpace(text))
}

// clusterColumnCenters performs a simple k-medoids-like pass: sort all
// fragment x-centers across the candidate rows, then merge centers within
// tolerance of each other into a single cluster center — unless a ruled
// vertical line from the page's vector graphics falls between them, in
// which case they are kept as distinct columns regardless of tolerance.
func clusterColumnCenters(rows []model.Line, tolerance float64, rules []model.RuleLine) []float64 {
	var centers []float64
	for _, l := range rows {
		for _, f := range l.Fragments {
			centers = append(centers, f.X+f.EstimatedWidth()/2)
		}
	}
	sort.Float64s(centers)

	minY, maxY := rowYRange(rows)
	verticalXs := verticalRuleXs(rules, minY, maxY)

	var clustered []float64
	var members []float64
	for _, c := range centers {
		if len(clustered) > 0 {
			last := clustered[len(clustered)-1]
			if c-last <= tolerance && !ruleSeparates(last, c, verticalXs) {
				// average into the running cluster center
				n := members[len(members)-1]
				clustered[len(clustered)-1] = (last*n + c) / (n + 1)
				members[len(members)-1] = n + 1
				continue
			}
		}
		clustered = append(clustered, c)
		members = append(members, 1)
	}
	return clustered
}

// rowYRange returns the min and max Y spanned by rows, used to restrict
// rule-line evidence to the table's vertical extent.
func rowYRange(rows []model.Line) (float64, float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	minY, maxY := rows[0].Y, rows[0].Y
	for _, l := range rows[1:] {
		if l.Y < minY {
			minY = l.Y
		}
		if l.Y > maxY {
			maxY = l.Y
		}
	}
	return minY, maxY
}

// verticalRuleXs returns the x-positions of vertical rule lines whose
// y-span overlaps [minY, maxY].
func verticalRuleXs(rules []model.RuleLine, minY, maxY float64) []float64 {
	var xs []float64
	for _, r := range rules {
		if !r.Vertical() {
			continue
		}
		top, bottom := r.Start.Y, r.End.Y
		if top < bottom {
			top, bottom = bottom, top
		}
		if bottom > maxY || top < minY {
			continue
		}
		xs = append(xs, (r.Start.X+r.End.X)/2)
	}
	return xs
}

// ruleSeparates reports whether a vertical rule line falls strictly
// between two adjacent x-positions.
func ruleSeparates(left, right float64, ruleXs []float64) bool {
	for _, x := range ruleXs {
		if x > left && x < right {
			return true
		}
	}
	return false
}

// headerRowsFromRules reports the header row count implied by the first
// horizontal rule line that crosses between two consecutive candidate
// rows, if any ruled separator is present.
func headerRowsFromRules(rows []model.Line, rules []model.RuleLine) (int, bool) {
	for i := 0; i < len(rows)-1; i++ {
		upperY, lowerY := rows[i].Y, rows[i+1].Y
		if lowerY > upperY {
			upperY, lowerY = lowerY, upperY
		}
		for _, r := range rules {
			if !r.Horizontal() {
				continue
			}
			ruleY := (r.Start.Y + r.End.Y) / 2
			if ruleY < upperY && ruleY > lowerY {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// splitRowIntoCells assigns each fragment of a line to the nearest column
// center. A fragment is never divided: one whose text spans several
// inferred columns lands whole in the column nearest its own center.
func splitRowIntoCells(line model.Line, centers []float64) []model.Cell {
	if len(centers) == 0 {
		return []model.Cell{{Text: strings.TrimSpace(line.Text)}}
	}
	cellTexts := make([]string, len(centers))
	for _, f := range line.Fragments {
		center := f.X + f.EstimatedWidth()/2
		col := nearestColumn(center, centers)
		if cellTexts[col] != "" {
			cellTexts[col] += " "
		}
		cellTexts[col] += f.Text
	}
	cells := make([]model.Cell, 0, len(centers))
	for _, t := range cellTexts {
		cells = append(cells, model.Cell{Text: strings.TrimSpace(t)})
	}
	return cells
}

func nearestColumn(x float64, centers []float64) int {
	best, bestDist := 0, absF(x-centers[0])
	for i, c := range centers {
		d := absF(x - c)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// countHeaderRows returns the count of leading rows whose cells are
// predominantly alphabetic (header rows), before the first predominantly
// numeric row (body rows).
func countHeaderRows(rows [][]model.Cell) int {
	for i, row := range rows {
		if isNumericRow(row) {
			if i == 0 {
				return 0
			}
			return i
		}
	}
	if len(rows) > 0 {
		return 1
	}
	return 0
}

func isNumericRow(row []model.Cell) bool {
	numeric := 0
	for _, c := range row {
		if looksNumeric(c.Text) {
			numeric++
		}
	}
	return len(row) > 0 && numeric*2 >= len(row)
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits*2 >= len([]rune(s))
}

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
