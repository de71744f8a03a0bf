package artifact

import (
	"testing"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

func newProfile(pageCount int, extents map[int]model.PageVerticalExtent) model.DocumentProfile {
	return model.DocumentProfile{
		BodyFontSize:      10,
		RunningLabels:     make(map[string]model.RunningLabel),
		PageNumberOffsets: make(map[int]int),
		PageExtents:       extents,
		PageCount:         pageCount,
	}
}

func TestFilterRemovesRunningHeader(t *testing.T) {
	cfg := config.DefaultConfig()
	extents := map[int]model.PageVerticalExtent{}
	var lines []model.Line
	for p := 0; p < 5; p++ {
		extents[p] = model.PageVerticalExtent{PageIndex: p, MinY: 0, MaxY: 700}
		lines = append(lines, model.Line{PageIndex: p, Y: 695, FontSize: 9, Text: "RUNNING TITLE HEADER"})
		lines = append(lines, model.Line{PageIndex: p, Y: 400, FontSize: 10, Text: "Body paragraph text for this page."})
	}
	profile := newProfile(5, extents)

	res := Filter(lines, profile, cfg)
	for _, l := range res.Lines {
		if l.Text == "RUNNING TITLE HEADER" {
			t.Error("expected running header to be filtered out")
		}
	}
	if len(res.Lines) != 5 {
		t.Errorf("got %d surviving lines, want 5 (body only)", len(res.Lines))
	}
}

func TestFilterRemovesPageNumberSequence(t *testing.T) {
	cfg := config.DefaultConfig()
	extents := map[int]model.PageVerticalExtent{}
	var lines []model.Line
	for p := 0; p < 4; p++ {
		extents[p] = model.PageVerticalExtent{PageIndex: p, MinY: 0, MaxY: 700}
		lines = append(lines, model.Line{PageIndex: p, Y: 10, FontSize: 10, Text: itoaTest(p + 1)})
		lines = append(lines, model.Line{PageIndex: p, Y: 400, FontSize: 10, Text: "Body paragraph text for this page."})
	}
	profile := newProfile(4, extents)

	res := Filter(lines, profile, cfg)
	if len(res.Lines) != 4 {
		t.Errorf("got %d surviving lines, want 4 (page numbers removed)", len(res.Lines))
	}
}

func TestIsArxivStampDetection(t *testing.T) {
	cfg := config.DefaultConfig()
	profile := newProfile(1, map[int]model.PageVerticalExtent{0: {PageIndex: 0, MinY: 0, MaxY: 700}})
	l := model.Line{PageIndex: 0, FontSize: 18, PageWidth: 600, EstimatedWidth: 300,
		Text: "arXiv:2301.12345v2 [cs.CL] 5 Jan 2024"}
	if !isArxivStamp(l, l.Text, profile, cfg) {
		t.Error("expected arXiv stamp to be detected")
	}
}

func TestLooksLikeLabelPattern(t *testing.T) {
	if !looksLikeLabelPattern("RUNNING TITLE") {
		t.Error("expected short uppercase phrase to match label pattern")
	}
	if looksLikeLabelPattern("this is a normal lowercase sentence that is too long") {
		t.Error("expected long lowercase sentence to not match")
	}
}

func TestIsDetachedMathFragment(t *testing.T) {
	cfg := config.DefaultConfig()
	profile := newProfile(1, map[int]model.PageVerticalExtent{0: {PageIndex: 0, MinY: 0, MaxY: 700}})
	lines := []model.Line{
		{PageIndex: 0, X: 100, Y: 300, Text: "some preceding text"},
		{PageIndex: 0, X: 102, Y: 295, Text: "+"},
		{PageIndex: 0, X: 101, Y: 290, Text: "some following text"},
	}
	if !isDetachedMathFragment(lines[1], lines, profile, cfg) {
		t.Error("expected standalone math symbol between same-column neighbors to be flagged")
	}
}

func itoaTest(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}
