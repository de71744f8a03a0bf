package model

// Fragment is a single positioned text run as produced by the glyph-extraction
// backend: a run of glyphs with page coordinates and a font size, and nothing
// else. It carries no notion of paragraph, column, or heading — that
// structure is exactly what the rest of this module recovers.
//
// Coordinates are in PDF user space: the origin is the lower-left corner of
// the page and Y grows upward. Some extractors emit negative Y for content
// above the nominal page origin; callers must not assume Y >= 0.
type Fragment struct {
	// Text is the already whitespace-normalized decoded text of the run.
	// Invariant: non-empty after normalization.
	Text string

	// X, Y are the fragment's origin in PDF user space.
	X, Y float64

	// FontSize is the nominal font size in page units.
	FontSize float64

	// Width is the glyph-run advance width, when the backend reports one.
	// When zero, callers estimate it as len([]rune(Text)) * FontSize * 0.52.
	Width float64
}

// EstimatedWidth returns Width when the backend supplied one, otherwise a
// character-count estimate consistent with Line.estimatedWidth rule.
func (f Fragment) EstimatedWidth() float64 {
	if f.Width > 0 {
		return f.Width
	}
	return float64(len([]rune(f.Text))) * f.FontSize * 0.52
}

// Page is one page of a document as reported by the extraction backend:
// dimensions plus an ordered bag of fragments. Fragment order within a page
// is the backend's stream order, not reading order — reading order is a
// pipeline output, not an input assumption.
type Page struct {
	PageIndex int // 0-based
	Width     float64
	Height    float64
	Fragments []Fragment
	Rules     []RuleLine // vector-graphics lines/rects, for table-grid evidence
}

// ExtractedDocument is the complete input to the pipeline: every page's
// fragments, nothing more. This is the boundary type the glyph-extraction
// backend collaborator produces and everything downstream
// consumes as read-only.
type ExtractedDocument struct {
	Pages []Page
}
