package assemble

import (
	"github.com/tsawler/pdf2html/model"
	"github.com/tsawler/pdf2html/textutil"
)

// BuildProfile computes the cross-page, read-only DocumentProfile from an
// assembled line list. Running labels and page-number offsets are left
// empty here; the artifact package fills them in as part of its
// running-label/page-number detection, since that is the only stage that
// needs them.
func BuildProfile(lines []model.Line) model.DocumentProfile {
	return model.DocumentProfile{
		BodyFontSize:            textutil.BodyFontSize(lines),
		RunningLabels:           make(map[string]model.RunningLabel),
		PageNumberOffsets:       make(map[int]int),
		PageExtents:             model.ComputeExtents(lines),
		NegativeCoordinatePages: NegativeCoordinatePageIndexes(lines),
		PageCount:               textutil.PageCount(lines),
	}
}
