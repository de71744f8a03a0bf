package model

import "testing"

func TestBBoxIntersects(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 10, 10)
	c := NewBBox(20, 20, 5, 5)

	if !a.Intersects(b) {
		t.Error("expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected a and c not to intersect")
	}
}

func TestFragmentEstimatedWidth(t *testing.T) {
	tests := []struct {
		name string
		f    Fragment
		want float64
	}{
		{"explicit width wins", Fragment{Text: "ab", FontSize: 10, Width: 42}, 42},
		{"falls back to char-count estimate", Fragment{Text: "abcd", FontSize: 10}, 4 * 10 * 0.52},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.EstimatedWidth(); got != tt.want {
				t.Errorf("EstimatedWidth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineRelativeY(t *testing.T) {
	extent := PageVerticalExtent{MinY: 0, MaxY: 100}
	top := Line{Y: 100}
	bottom := Line{Y: 0}
	mid := Line{Y: 50}

	if got := top.RelativeY(extent); got != 1 {
		t.Errorf("top RelativeY = %v, want 1", got)
	}
	if got := bottom.RelativeY(extent); got != 0 {
		t.Errorf("bottom RelativeY = %v, want 0", got)
	}
	if got := mid.RelativeY(extent); got != 0.5 {
		t.Errorf("mid RelativeY = %v, want 0.5", got)
	}
}

func TestComputeExtents(t *testing.T) {
	lines := []Line{
		{PageIndex: 0, Y: 10},
		{PageIndex: 0, Y: 90},
		{PageIndex: 1, Y: 5},
	}
	extents := ComputeExtents(lines)
	if extents[0].MinY != 10 || extents[0].MaxY != 90 {
		t.Errorf("page 0 extent = %+v", extents[0])
	}
	if extents[1].MinY != 5 || extents[1].MaxY != 5 {
		t.Errorf("page 1 extent = %+v", extents[1])
	}
}

func TestTableGridCounts(t *testing.T) {
	g := &TableGrid{RowBounds: []float64{0, 10, 20}, ColBounds: []float64{0, 5, 10, 15}}
	if g.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", g.RowCount())
	}
	if g.ColCount() != 3 {
		t.Errorf("ColCount() = %d, want 3", g.ColCount())
	}
}
