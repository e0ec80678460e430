package nameplate

import (
	"fmt"
	"math"

	"github.com/soypat/nameplate/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// MakeSlab returns a closed box of the given dimensions centered on the
// origin in X and Y with its bottom face at Z=0.
func MakeSlab(length, width, depth float64) (*Solid, error) {
	for _, p := range [...]struct {
		name string
		v    float64
	}{{"length", length}, {"width", width}, {"depth", depth}} {
		if err := positive("slab", p.name, p.v); err != nil {
			return nil, err
		}
	}
	hx, hy := length/2, width/2
	return Extrude(Shape{Outer: []r2.Vec{
		{X: -hx, Y: -hy},
		{X: hx, Y: -hy},
		{X: hx, Y: hy},
		{X: -hx, Y: hy},
	}}, 0, depth)
}

// Extrude returns the prism swept by shape between z0 and z1. Caps are a
// single face when the shape is one convex loop and are triangulated
// otherwise. Each side wall segment is a quad. Outlines that cannot be
// triangulated into a closed prism, such as self-intersecting loops, yield
// a DegenerateGeometryError.
func Extrude(shape Shape, z0, z1 float64) (*Solid, error) {
	if err := positive("extrude", "height", z1-z0); err != nil {
		return nil, err
	}
	outer, holes, err := shape.normalized()
	if err != nil {
		return nil, &DegenerateGeometryError{Stage: "extrude", Reason: err.Error()}
	}
	loops := append([]d2.Set{outer}, holes...)
	var total int
	for _, l := range loops {
		total += len(l)
	}
	m := &Mesh{vertices: make([]r3.Vec, 0, 2*total)}
	for _, z := range [2]float64{z0, z1} {
		for _, l := range loops {
			for _, v := range l {
				m.vertices = append(m.vertices, r3.Vec{X: v.X, Y: v.Y, Z: z})
			}
		}
	}
	if len(holes) == 0 && isConvex(outer) {
		top := make([]int, len(outer))
		bottom := make([]int, len(outer))
		for i := range outer {
			top[i] = total + i
			bottom[len(outer)-1-i] = i
		}
		m.faces = append(m.faces, bottom, top)
	} else {
		tris, err := triangulate(outer, holes)
		if err != nil {
			return nil, &DegenerateGeometryError{Stage: "extrude", Reason: err.Error()}
		}
		if err := checkCover(loops, tris); err != nil {
			return nil, err
		}
		for _, t := range tris {
			m.faces = append(m.faces,
				[]int{t[2], t[1], t[0]},
				[]int{total + t[0], total + t[1], total + t[2]},
			)
		}
	}
	base := 0
	for _, l := range loops {
		n := len(l)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			m.faces = append(m.faces, []int{base + i, base + j, total + base + j, total + base + i})
		}
		base += n
	}
	if err := checkClosed("extrude", m); err != nil {
		return nil, err
	}
	return newSolid(m), nil
}

// checkCover checks the triangles tile the region bounded by loops, the
// outer loop first. Self-intersecting outlines fail this check.
func checkCover(loops []d2.Set, tris [][3]int) error {
	var pts d2.Set
	var want float64
	for _, l := range loops {
		pts = append(pts, l...)
		want += l.SignedArea()
	}
	var got float64
	for _, t := range tris {
		got += d2.Orient(pts[t[0]], pts[t[1]], pts[t[2]]) / 2
	}
	if want <= 0 || math.Abs(got-want) > 1e-6*want {
		return &DegenerateGeometryError{
			Stage:  "extrude",
			Reason: fmt.Sprintf("triangulated area %g does not match outline area %g", got, want),
		}
	}
	return nil
}

func positive(stage, param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return configErr(stage, param, v, "must be finite")
	}
	if v <= 0 {
		return configErr(stage, param, v, "must be positive")
	}
	return nil
}
