// Package order detects multi-column pages, assigns each line a column,
// and reorders lines so the left column precedes the right within a
// page, interleaving straddling lines at their y rank.
package order

import (
	"sort"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

// Reorder assigns columns and reorders lines page by page so each page's
// left-column lines (top to bottom) precede its right-column lines, with
// straddling lines interleaved at their y rank boundary.
func Reorder(lines []model.Line, cfg *config.Config) []model.Line {
	byPage := make(map[int][]model.Line)
	var pageOrder []int
	for _, l := range lines {
		if _, ok := byPage[l.PageIndex]; !ok {
			pageOrder = append(pageOrder, l.PageIndex)
		}
		byPage[l.PageIndex] = append(byPage[l.PageIndex], l)
	}
	sort.Ints(pageOrder)

	var out []model.Line
	for _, p := range pageOrder {
		out = append(out, reorderPage(byPage[p], cfg)...)
	}
	return out
}

func reorderPage(pageLines []model.Line, cfg *config.Config) []model.Line {
	splitX, isTwoColumn := detectSplit(pageLines, cfg)
	if !isTwoColumn {
		sort.SliceStable(pageLines, func(i, j int) bool { return pageLines[i].Y > pageLines[j].Y })
		return pageLines
	}

	var left, right, straddle []model.Line
	for _, l := range pageLines {
		switch classifyColumn(l, splitX, cfg) {
		case model.ColumnLeft:
			l.Column = model.ColumnLeft
			left = append(left, l)
		case model.ColumnRight:
			l.Column = model.ColumnRight
			right = append(right, l)
		default:
			l.Column = model.ColumnNone
			straddle = append(straddle, l)
		}
	}
	sort.SliceStable(left, func(i, j int) bool { return left[i].Y > left[j].Y })
	sort.SliceStable(right, func(i, j int) bool { return right[i].Y > right[j].Y })
	sort.SliceStable(straddle, func(i, j int) bool { return straddle[i].Y > straddle[j].Y })

	return interleaveStraddle(left, right, straddle)
}

// interleaveStraddle emits left-column lines in visual order, then
// right-column lines, with straddling lines spliced in at their y rank
// boundary relative to whichever column run they fall between.
func interleaveStraddle(left, right, straddle []model.Line) []model.Line {
	if len(straddle) == 0 {
		return append(append([]model.Line{}, left...), right...)
	}

	var out []model.Line
	li := 0
	for _, s := range straddle {
		for li < len(left) && left[li].Y >= s.Y {
			out = append(out, left[li])
			li++
		}
	}
	out = append(out, left[li:]...)

	si := 0
	ri := 0
	for _, s := range straddle {
		for ri < len(right) && right[ri].Y >= s.Y {
			out = append(out, right[ri])
			ri++
		}
		out = append(out, straddle[si])
		si++
	}
	out = append(out, right[ri:]...)
	return out
}

func classifyColumn(l model.Line, splitX float64, cfg *config.Config) model.Column {
	left := l.X
	right := l.MaxX()
	if right <= splitX {
		return model.ColumnLeft
	}
	if left >= splitX {
		return model.ColumnRight
	}
	return model.ColumnNone
}

// detectSplit finds the largest horizontal gap between consecutive fragment
// x-centers and reports whether the page qualifies as two-column: the gap
// must clear a minimum width, enough rows must fall cleanly on one side of
// it, and neither column's lines may cross too far into the other's half.
func detectSplit(pageLines []model.Line, cfg *config.Config) (float64, bool) {
	if len(pageLines) == 0 {
		return 0, false
	}
	pageWidth := pageLines[0].PageWidth

	var centers []float64
	for _, l := range pageLines {
		centers = append(centers, l.X+l.EstimatedWidth/2)
	}
	sort.Float64s(centers)

	bestGap := 0.0
	bestSplit := pageWidth / 2
	for i := 1; i < len(centers); i++ {
		gap := centers[i] - centers[i-1]
		if gap > bestGap {
			bestGap = gap
			bestSplit = (centers[i] + centers[i-1]) / 2
		}
	}

	minGap := cfg.ColumnMinGapUnits
	if ratioGap := pageWidth * cfg.ColumnMinGapRatio; ratioGap < minGap {
		minGap = ratioGap
	}
	if bestGap < minGap {
		return bestSplit, false
	}

	qualifyingRows := 0
	for _, l := range pageLines {
		right := l.MaxX()
		left := l.X
		if right < bestSplit-1 || left > bestSplit+1 {
			qualifyingRows++
		}
	}
	minRows := cfg.ColumnMinRows
	if ratioRows := int(float64(len(pageLines)) * cfg.ColumnMinRowRatio); ratioRows < minRows {
		minRows = ratioRows
	}
	if qualifyingRows < minRows {
		return bestSplit, false
	}

	leftMaxRight := 0.0
	rightMinLeft := pageWidth
	for _, l := range pageLines {
		if l.MaxX() <= bestSplit {
			if l.MaxX() > leftMaxRight {
				leftMaxRight = l.MaxX()
			}
		}
		if l.X >= bestSplit {
			if l.X < rightMinLeft {
				rightMinLeft = l.X
			}
		}
	}
	if leftMaxRight > pageWidth*cfg.ColumnLeftMaxRightFrac {
		return bestSplit, false
	}
	if rightMinLeft < pageWidth*cfg.ColumnRightMinLeftFrac {
		return bestSplit, false
	}

	return bestSplit, true
}
