// Package assemble folds a Page's Fragments into Lines, the first stage
// of the reconstruction pipeline: fragments are bucketed by a fixed
// y-coordinate width, normalized, and sorted into a stable per-page then
// per-document order.
package assemble

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

// Lines folds every page of doc into a single globally-ordered Line slice,
// sorted by (pageIndex asc, y desc, x asc)
func Lines(doc model.ExtractedDocument, cfg *config.Config) []model.Line {
	var all []model.Line
	for _, page := range doc.Pages {
		all = append(all, linesForPage(page, cfg)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].PageIndex != all[j].PageIndex {
			return all[i].PageIndex < all[j].PageIndex
		}
		if all[i].Y != all[j].Y {
			return all[i].Y > all[j].Y
		}
		return all[i].X < all[j].X
	})
	return all
}

func linesForPage(page model.Page, cfg *config.Config) []model.Line {
	bucket := cfg.LineYBucketSize
	if bucket <= 0 {
		bucket = 2
	}
	noiseCutoff := page.Height * cfg.NoiseYHeightMultiple

	buckets := make(map[float64][]model.Fragment)
	var keys []float64
	for _, f := range page.Fragments {
		if f.Y > noiseCutoff {
			continue
		}
		text := normalizeFragmentText(f.Text)
		if text == "" {
			continue
		}
		f.Text = text
		key := math.Round(f.Y/bucket) * bucket
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], f)
	}

	lines := make([]model.Line, 0, len(keys))
	for _, y := range keys {
		frags := buckets[y]
		sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })
		lines = append(lines, buildLine(page, y, frags))
	}
	return lines
}

func buildLine(page model.Page, bucketY float64, frags []model.Fragment) model.Line {
	minX := frags[0].X
	maxFontSize := frags[0].FontSize
	maxX := frags[0].X + frags[0].EstimatedWidth()
	texts := make([]string, 0, len(frags))
	for _, f := range frags {
		if f.X < minX {
			minX = f.X
		}
		if f.FontSize > maxFontSize {
			maxFontSize = f.FontSize
		}
		right := f.X + f.EstimatedWidth()
		if right > maxX {
			maxX = right
		}
		texts = append(texts, f.Text)
	}

	var sumEstimated float64
	for _, f := range frags {
		sumEstimated += f.EstimatedWidth()
	}
	geometricWidth := maxX - minX
	estimatedWidth := geometricWidth
	if sumEstimated > estimatedWidth {
		estimatedWidth = sumEstimated
	}

	return model.Line{
		PageIndex:      page.PageIndex,
		PageHeight:     page.Height,
		PageWidth:      page.Width,
		X:              minX,
		Y:              bucketY,
		FontSize:       maxFontSize,
		EstimatedWidth: estimatedWidth,
		Text:           strings.Join(texts, " "),
		Fragments:      frags,
		Column:         model.ColumnNone,
	}
}

// normalizeFragmentText applies NFC normalization (handling fragments that
// arrived in decomposed Unicode form from the extraction backend) and
// collapses runs of whitespace to a single space, trimming the ends.
func normalizeFragmentText(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// NegativeCoordinatePageIndexes returns the set of page indexes where more
// than 60% of lines have a negative y, edge case.
func NegativeCoordinatePageIndexes(lines []model.Line) map[int]bool {
	counts := make(map[int]int)
	negatives := make(map[int]int)
	for _, l := range lines {
		counts[l.PageIndex]++
		if l.Y < 0 {
			negatives[l.PageIndex]++
		}
	}
	result := make(map[int]bool)
	for page, total := range counts {
		if total == 0 {
			continue
		}
		if float64(negatives[page])/float64(total) > 0.6 {
			result[page] = true
		}
	}
	return result
}
