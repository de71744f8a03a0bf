package assemble

import (
	"testing"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/model"
)

func doc(pages ...model.Page) model.ExtractedDocument {
	return model.ExtractedDocument{Pages: pages}
}

func TestLinesBucketsByY(t *testing.T) {
	cfg := config.DefaultConfig()
	p := model.Page{
		PageIndex: 0, Width: 600, Height: 800,
		Fragments: []model.Fragment{
			{Text: "Hello", X: 10, Y: 100.3, FontSize: 10},
			{Text: "World", X: 60, Y: 100.9, FontSize: 10},
			{Text: "Next", X: 10, Y: 80, FontSize: 10},
		},
	}
	lines := Lines(doc(p), cfg)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "Hello World" {
		t.Errorf("first line text = %q", lines[0].Text)
	}
	if lines[0].Y < lines[1].Y {
		t.Errorf("expected descending y order, got %v then %v", lines[0].Y, lines[1].Y)
	}
}

func TestLinesDropsNoiseFragments(t *testing.T) {
	cfg := config.DefaultConfig()
	p := model.Page{
		PageIndex: 0, Width: 600, Height: 100,
		Fragments: []model.Fragment{
			{Text: "Body", X: 10, Y: 50, FontSize: 10},
			{Text: "Noise", X: 10, Y: 1000, FontSize: 10},
		},
	}
	lines := Lines(doc(p), cfg)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (noise fragment should be dropped)", len(lines))
	}
}

func TestLinesGlobalOrdering(t *testing.T) {
	cfg := config.DefaultConfig()
	p0 := model.Page{PageIndex: 0, Width: 600, Height: 800, Fragments: []model.Fragment{
		{Text: "A", X: 10, Y: 10, FontSize: 10},
	}}
	p1 := model.Page{PageIndex: 1, Width: 600, Height: 800, Fragments: []model.Fragment{
		{Text: "B", X: 10, Y: 700, FontSize: 10},
	}}
	lines := Lines(doc(p1, p0), cfg)
	if lines[0].PageIndex != 0 || lines[1].PageIndex != 1 {
		t.Errorf("expected page 0 lines before page 1, got %+v", lines)
	}
}

func TestNegativeCoordinatePageIndexes(t *testing.T) {
	lines := []model.Line{
		{PageIndex: 0, Y: -5}, {PageIndex: 0, Y: -3}, {PageIndex: 0, Y: 1},
	}
	neg := NegativeCoordinatePageIndexes(lines)
	if !neg[0] {
		t.Error("expected page 0 flagged negative-coordinate")
	}
}
