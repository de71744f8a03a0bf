package model

// RunningLabel is a text that repeats across many pages in the edge band —
// a running header/footer.
type RunningLabel struct {
	Text               string
	PageIndexes        []int
	EdgeOccurrences     int
	BroadEdgePageIndexes []int
	MinEdgeFontSize     float64
}

// DocumentProfile is the small, read-only, cross-page statistics struct
// threaded through the pipeline: everything geometric is computed per-page
// except this. It is built once, after line assembly, and never mutated
// again.
type DocumentProfile struct {
	// BodyFontSize is the mode of rounded font sizes across all lines, the
	// reference scale every "small"/"large" font heuristic compares against.
	BodyFontSize float64

	// RunningLabels are repeated-edge-text candidates keyed by text.
	RunningLabels map[string]RunningLabel

	// PageNumberOffsets maps a (value - pageIndex) offset to the count of
	// pages it covers, for running page-number-sequence detection.
	PageNumberOffsets map[int]int

	// PageExtents gives each page's vertical extent.
	PageExtents map[int]PageVerticalExtent

	// NegativeCoordinatePages marks pages where >60% of lines have negative
	// Y, which relaxes several downstream thresholds.
	NegativeCoordinatePages map[int]bool

	// PageCount is the total number of pages in the document.
	PageCount int
}
