package nameplate

import (
	"math"
	"testing"

	"github.com/soypat/nameplate/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriangulateAreaConservation(t *testing.T) {
	for _, tc := range []struct {
		name  string
		shape Shape
		area  float64
	}{
		{
			name: "comb",
			shape: Shape{Outer: []r2.Vec{
				{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 1},
				{X: 3, Y: 1}, {X: 3, Y: 3}, {X: 2, Y: 3}, {X: 2, Y: 1}, {X: 1, Y: 1},
				{X: 1, Y: 3}, {X: 0, Y: 3},
			}},
			area: 5 + 3*2,
		},
		{
			name: "ring",
			shape: Shape{
				Outer: circle(r2.Vec{}, 2, 32),
				Holes: [][]r2.Vec{circle(r2.Vec{}, 1, 24)},
			},
			area: d2.Set(circle(r2.Vec{}, 2, 32)).SignedArea() - d2.Set(circle(r2.Vec{}, 1, 24)).SignedArea(),
		},
		{
			name: "two holes same row",
			shape: Shape{
				Outer: []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 4}, {X: 0, Y: 4}},
				Holes: [][]r2.Vec{
					{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}},
					{{X: 6, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 3}, {X: 6, Y: 3}},
				},
			},
			area: 40 - 8,
		},
	} {
		outer, holes, err := tc.shape.normalized()
		if err != nil {
			t.Fatal(err)
		}
		tris, err := triangulate(outer, holes)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		pts := append(d2.Set(nil), outer...)
		for _, h := range holes {
			pts = append(pts, h...)
		}
		var area float64
		for _, tri := range tris {
			a := d2.Orient(pts[tri[0]], pts[tri[1]], pts[tri[2]]) / 2
			if a < 0 {
				t.Errorf("%s: clockwise triangle %v", tc.name, tri)
			}
			area += a
		}
		if math.Abs(area-tc.area) > 1e-9 {
			t.Errorf("%s: triangulated area %g, want %g", tc.name, area, tc.area)
		}
		if want := len(pts) + 2*len(holes) - 2; len(tris) != want {
			t.Errorf("%s: got %d triangles, want %d", tc.name, len(tris), want)
		}
	}
}

func TestCleanLoop(t *testing.T) {
	got := cleanLoop([]r2.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0},
	}, 1e-9)
	if len(got) != 4 {
		t.Errorf("got %d vertices, want 4: %v", len(got), got)
	}
}

func TestWeld(t *testing.T) {
	verts := []r3.Vec{
		{X: 0}, {X: 1}, {X: 1e-9}, {X: 1 + 1e-9}, {X: 2}, {X: 1},
	}
	unique, remap := weld(verts, 1e-7)
	if len(unique) != 3 {
		t.Fatalf("got %d unique vertices, want 3", len(unique))
	}
	want := []int{0, 1, 0, 1, 2, 1}
	for i := range want {
		if remap[i] != want[i] {
			t.Errorf("remap[%d]=%d, want %d", i, remap[i], want[i])
		}
	}
}

func TestComponents(t *testing.T) {
	a, err := MakeSlab(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	b := a.Transform(Translate3D(r3.Vec{X: 3}))
	m := Concat(a, b).m
	comps := m.Components()
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	if len(comps[0]) != a.NumFaces() || len(comps[1]) != b.NumFaces() {
		t.Errorf("component sizes %d,%d", len(comps[0]), len(comps[1]))
	}
}

func circle(c r2.Vec, r float64, n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = r2.Vec{X: c.X + r*cos, Y: c.Y + r*sin}
	}
	return pts
}

func TestSplitJunctions(t *testing.T) {
	// 2x1x1 box whose top is split in two quads, leaving vertices 8 and 9
	// in the middle of the front and back top edges.
	m, err := NewMesh([]r3.Vec{
		{}, {X: 2}, {X: 2, Y: 1}, {Y: 1},
		{Z: 1}, {X: 2, Z: 1}, {X: 2, Y: 1, Z: 1}, {Y: 1, Z: 1},
		{X: 1, Z: 1}, {X: 1, Y: 1, Z: 1},
	}, [][]int{
		{0, 3, 2, 1},
		{4, 8, 9, 7}, {8, 5, 6, 9},
		{0, 1, 5, 4},
		{3, 7, 6, 2},
		{0, 4, 7, 3},
		{1, 2, 6, 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if checkClosed("test", m) == nil {
		t.Fatal("mesh with T-junctions passed closure check")
	}
	w := splitJunctions(m, junctionTolerance)
	if err := checkClosed("test", w); err != nil {
		t.Fatal(err)
	}
	if got := w.Face(3); len(got) != 5 || got[3] != 8 {
		t.Errorf("front face %v, want vertex 8 between 5 and 4", got)
	}
	if v := w.Volume(); math.Abs(v-2) > 1e-12 {
		t.Errorf("volume %g, want 2", v)
	}
	for _, tri := range w.Triangles() {
		if r3.Norm(r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))) < 1e-9 {
			t.Errorf("degenerate triangle %v", tri)
		}
	}
}

func TestSplitJunctionsDropsSlivers(t *testing.T) {
	verts := []r3.Vec{{}, {X: 1}, {X: 0.5, Y: 1e-9}}
	m := &Mesh{vertices: verts, faces: [][]int{{0, 1, 2}}}
	if w := splitJunctions(m, junctionTolerance); w.NumFaces() != 0 {
		t.Errorf("sliver kept: %v", w.faces)
	}
}
