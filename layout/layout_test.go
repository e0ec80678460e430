package layout_test

import (
	"math"
	"testing"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/layout"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type box r3.Box

func (b box) Bounds() r3.Box { return r3.Box(b) }

var plate = r3.Box{
	Min: r3.Vec{X: -30.95625, Y: -7.14375},
	Max: r3.Vec{X: 30.95625, Y: 7.14375, Z: 1.5875},
}

func TestCenterIdempotent(t *testing.T) {
	text := r3.Box{Min: r3.Vec{X: 0, Y: 0}, Max: r3.Vec{X: 41.3, Y: 3.175, Z: 0.5}}
	for _, anchor := range []nameplate.Anchor{
		{Mode: nameplate.AnchorCentered},
		{Mode: nameplate.AnchorLeft, Offset: r2.Vec{X: 2}},
		{Mode: nameplate.AnchorOffset, Offset: r2.Vec{X: 1.25, Y: -0.5}},
	} {
		first := layout.Center(box(text), plate, anchor)
		moved := first.ApplyBox(text)
		second := layout.Center(box(moved), plate, nameplate.Anchor{Mode: anchor.Mode})
		if anchor.Offset != (r2.Vec{}) {
			// Re-centering without the offset must undo exactly the offset.
			back := second.Translation()
			if math.Abs(back.X+anchor.Offset.X) > 1e-9 || math.Abs(back.Y+anchor.Offset.Y) > 1e-9 {
				t.Errorf("%s: offset not applied, got %v", anchor.Mode, back)
			}
			second = layout.Center(box(moved), plate, anchor)
		}
		if !second.IsIdentity(0) {
			t.Errorf("%s: second application is not the identity: %v", anchor.Mode, second.Translation())
		}
		if math.Abs(moved.Max.Z-plate.Max.Z) > 1e-12 {
			t.Errorf("%s: top at %g, want flush with %g", anchor.Mode, moved.Max.Z, plate.Max.Z)
		}
	}
}

func TestCenterLeft(t *testing.T) {
	text := r3.Box{Min: r3.Vec{X: 5, Y: 5}, Max: r3.Vec{X: 10, Y: 7, Z: 1}}
	moved := layout.Center(box(text), plate, nameplate.Anchor{Mode: nameplate.AnchorLeft, Offset: r2.Vec{X: 1}}).ApplyBox(text)
	if math.Abs(moved.Min.X-(plate.Min.X+1)) > 1e-12 {
		t.Errorf("left edge at %g", moved.Min.X)
	}
	if math.Abs(moved.Min.Y+moved.Max.Y) > 1e-12 {
		t.Errorf("not centered in Y: %v", moved)
	}
}

func TestStack(t *testing.T) {
	boxes := []r3.Box{
		{Min: r3.Vec{Y: -1}, Max: r3.Vec{X: 4, Y: 1}},
		{Min: r3.Vec{Y: -2}, Max: r3.Vec{X: 4, Y: 0}},
		{Min: r3.Vec{Y: 10}, Max: r3.Vec{X: 4, Y: 13}},
	}
	ts := layout.Stack(boxes, 2.7, layout.AxisY)
	if len(ts) != len(boxes) {
		t.Fatalf("got %d transforms", len(ts))
	}
	if !ts[0].IsIdentity(0) {
		t.Error("first box moved")
	}
	prev := ts[0].ApplyBox(boxes[0])
	for i := 1; i < len(boxes); i++ {
		cur := ts[i].ApplyBox(boxes[i])
		if gap := cur.Min.Y - prev.Max.Y; math.Abs(gap-2.7) > 1e-12 {
			t.Errorf("gap %d: %g", i, gap)
		}
		if cur.Min.X != boxes[i].Min.X {
			t.Errorf("box %d moved off axis", i)
		}
		prev = cur
	}
}

func TestFit(t *testing.T) {
	b := r3.Box{Min: r3.Vec{X: 1, Y: 2}, Max: r3.Vec{X: 11, Y: 4, Z: 0.5}}
	for _, tc := range []struct {
		widthScale, maxWidth float64
		wantWidth            float64
	}{
		{0, 0, 10 * 1.5},
		{2, 0, 10 * 3},
		{2, 20, 20},
		{0, 100, 15},
	} {
		got := layout.Fit(b, 3, tc.widthScale, tc.maxWidth).ApplyBox(b)
		if math.Abs(got.Max.Y-got.Min.Y-3) > 1e-12 {
			t.Errorf("height %g", got.Max.Y-got.Min.Y)
		}
		if math.Abs(got.Max.X-got.Min.X-tc.wantWidth) > 1e-12 {
			t.Errorf("width %g, want %g", got.Max.X-got.Min.X, tc.wantWidth)
		}
		if got.Min != b.Min || got.Max.Z != b.Max.Z {
			t.Errorf("fit moved the box: %v", got)
		}
	}
}

func TestGroupCenterAlong(t *testing.T) {
	g := layout.Group(
		r3.Box{Min: r3.Vec{Y: 1}, Max: r3.Vec{X: 1, Y: 2}},
		r3.Box{Min: r3.Vec{Y: 4}, Max: r3.Vec{X: 3, Y: 8}},
	)
	if g.Min.Y != 1 || g.Max.Y != 8 || g.Max.X != 3 {
		t.Fatalf("group %v", g)
	}
	moved := layout.CenterAlong(g, plate, layout.AxisY).ApplyBox(g)
	if math.Abs(moved.Min.Y+moved.Max.Y) > 1e-12 {
		t.Errorf("group not centered: %v", moved)
	}
	if moved.Min.X != g.Min.X {
		t.Error("group moved in X")
	}
}
