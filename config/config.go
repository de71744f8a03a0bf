// Package config centralizes the tuned thresholds and regex-adjacent
// constants that drive every stage of the layout reconstruction pipeline.
// Each stage takes a *Config rather than hardcoding its own numbers, so the
// full tunable surface lives in one place, documented and testable.
package config

// Config holds every tunable recognized by the pipeline. DefaultConfig
// returns the values the fixture corpus was tuned against; stages must not
// hardcode alternatives.
type Config struct {
	// LineYBucketSize is the y-coordinate bucket width used by the line
	// assembler. Larger widens line grouping; smaller fragments lines.
	LineYBucketSize float64

	// NoiseYHeightMultiple drops fragments whose y exceeds page height
	// times this multiple (extraction noise).
	NoiseYHeightMultiple float64

	// PageEdgeMargin is the relative-y band (from top or bottom) treated
	// as "near the edge" for header/footer detection.
	PageEdgeMargin float64

	// MinRepeatedEdgeTextPages and MinRepeatedEdgeTextCoverage gate
	// running-label removal: a text must appear on at least this many
	// pages and cover at least this fraction of pages.
	MinRepeatedEdgeTextPages    int
	MinRepeatedEdgeTextCoverage float64

	// AuthorEtAlMinPages and AuthorEtAlMinCoverage are the looser
	// thresholds applied to "Author et al." style running labels.
	AuthorEtAlMinPages    int
	AuthorEtAlMinCoverage float64

	// RunningLabelEdgeRatio is the fraction of occurrences that must sit
	// in the edge band for text-pattern-independent removal.
	RunningLabelEdgeRatio float64

	// MinPageNumberSequencePages and MinPageNumberSequenceCoverage gate
	// running page-number-sequence removal.
	MinPageNumberSequencePages    int
	MinPageNumberSequenceCoverage float64

	// TitleFontDelta/TitleFontRatio and their negative-coordinate-page
	// relaxed counterparts gate title-candidate font size.
	TitleFontDelta           float64
	TitleFontRatio           float64
	TitleFontDeltaNegativeY  float64
	TitleFontRatioNegativeY  float64
	TitleMinLen              int
	TitleMinRelativeY        float64
	TitleMaxWidthRatio       float64
	TitleCenterTolerance     float64
	TitleDenseBlockYWindow   float64
	TitleDenseBlockMinLines  int

	// Heading numeric-prefix thresholds.
	HeadingMinLen           int
	HeadingMaxLen           int
	HeadingMaxWords         int
	HeadingMaxTopLevelNum   int
	HeadingMaxDigitRatio    float64

	// Footnote detection thresholds.
	FootnoteStartMaxRelY       float64
	FootnoteBlockMaxRelY       float64
	FootnoteSymbolFontRatio    float64
	FootnoteNumericFontRatio   float64
	FootnoteMinTextLen         int
	FootnoteMaxContinuationGap float64
	FootnoteUnmarkedMaxRelY    float64
	FootnoteUnmarkedFontRatio  float64
	FootnoteUnmarkedMinWords   int
	FootnoteUnmarkedMinLower   int
	FootnoteUnmarkedMinGap     float64

	// Column detection thresholds.
	ColumnMinGapUnits      float64
	ColumnMinGapRatio      float64
	ColumnMinRows          int
	ColumnMinRowRatio      float64
	ColumnLeftMaxRightFrac float64
	ColumnRightMinLeftFrac float64

	// Paragraph merge thresholds.
	ParaFontDeltaMax   float64
	ParaXDeltaMaxFrac  float64
	ParaFullWidthSlack float64

	// Table reconstruction thresholds.
	TableColumnClusterFontMultiple float64

	// Footnote linker thresholds.
	FootnoteMarkerFontRatio  float64
	FootnoteMarkerWidthMult  float64
	FootnoteMarkerNeighborX  float64
}

// DefaultConfig returns the configuration the reference fixtures were
// validated against.
func DefaultConfig() *Config {
	return &Config{
		LineYBucketSize:      2,
		NoiseYHeightMultiple: 2.5,

		PageEdgeMargin: 0.08,

		MinRepeatedEdgeTextPages:    4,
		MinRepeatedEdgeTextCoverage: 0.6,
		AuthorEtAlMinPages:          4,
		AuthorEtAlMinCoverage:       0.45,
		RunningLabelEdgeRatio:       0.85,

		MinPageNumberSequencePages:    3,
		MinPageNumberSequenceCoverage: 0.5,

		TitleFontDelta:          5,
		TitleFontRatio:          1.5,
		TitleFontDeltaNegativeY: 2,
		TitleFontRatioNegativeY: 1.2,
		TitleMinLen:             8,
		TitleMinRelativeY:       0.45,
		TitleMaxWidthRatio:      0.7,
		TitleCenterTolerance:    0.2,
		TitleDenseBlockYWindow:  90,
		TitleDenseBlockMinLines: 3,

		HeadingMinLen:         6,
		HeadingMaxLen:         90,
		HeadingMaxWords:       16,
		HeadingMaxTopLevelNum: 20,
		HeadingMaxDigitRatio:  0.2,

		FootnoteStartMaxRelY:       0.38,
		FootnoteBlockMaxRelY:       0.42,
		FootnoteSymbolFontRatio:    0.82,
		FootnoteNumericFontRatio:   0.65,
		FootnoteMinTextLen:         8,
		FootnoteMaxContinuationGap: 20,
		FootnoteUnmarkedMaxRelY:    0.20,
		FootnoteUnmarkedFontRatio:  0.93,
		FootnoteUnmarkedMinWords:   8,
		FootnoteUnmarkedMinLower:   4,
		FootnoteUnmarkedMinGap:     12,

		ColumnMinGapUnits:      120,
		ColumnMinGapRatio:      0.18,
		ColumnMinRows:          3,
		ColumnMinRowRatio:      0.12,
		ColumnLeftMaxRightFrac: 0.55,
		ColumnRightMinLeftFrac: 0.33,

		ParaFontDeltaMax:   0.8,
		ParaXDeltaMaxFrac:  0.08,
		ParaFullWidthSlack: 0.15,

		TableColumnClusterFontMultiple: 2.0,

		FootnoteMarkerFontRatio: 0.84,
		FootnoteMarkerWidthMult: 0.95,
		FootnoteMarkerNeighborX: 8.0,
	}
}
