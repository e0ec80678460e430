package nameplate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is a closed mesh: every directed edge of every face is matched by
// exactly one opposite directed edge. The solid with no faces is the empty
// solid.
//
// Solids are immutable and safe for concurrent use. Operations on them
// return new solids.
type Solid struct {
	m  *Mesh
	bb r3.Box
}

// newSolid wraps m, which must be closed and not modified afterwards.
func newSolid(m *Mesh) *Solid {
	return &Solid{m: m, bb: m.Bounds()}
}

// NewSolid welds coincident vertices of m and checks the result is closed.
// m is not modified.
func NewSolid(m *Mesh) (*Solid, error) {
	if m == nil {
		return nil, &DegenerateGeometryError{Stage: "solid", Reason: "nil mesh"}
	}
	w := weldMesh(m, weldTolerance)
	if len(w.faces) != len(m.faces) {
		return nil, &DegenerateGeometryError{
			Stage:  "solid",
			Reason: fmt.Sprintf("%d faces collapse when welding", len(m.faces)-len(w.faces)),
		}
	}
	if err := checkClosed("solid", w); err != nil {
		return nil, err
	}
	return newSolid(w), nil
}

// EmptySolid returns the solid with no faces.
func EmptySolid() *Solid { return newSolid(&Mesh{}) }

func checkClosed(stage string, m *Mesh) error {
	edges := make(map[[2]int]int, 3*len(m.faces))
	for _, f := range m.faces {
		for i, a := range f {
			b := f[(i+1)%len(f)]
			edges[[2]int{a, b}]++
		}
	}
	for e, n := range edges {
		if n != 1 {
			return &DegenerateGeometryError{
				Stage:  stage,
				Reason: fmt.Sprintf("edge %d->%d used by %d faces", e[0], e[1], n),
			}
		}
		if edges[[2]int{e[1], e[0]}] != 1 {
			return &DegenerateGeometryError{
				Stage:  stage,
				Reason: fmt.Sprintf("boundary edge %d->%d", e[0], e[1]),
			}
		}
	}
	return nil
}

// IsEmpty reports whether s has no faces.
func (s *Solid) IsEmpty() bool { return len(s.m.faces) == 0 }

// Bounds returns the bounding box of s. The empty solid has the zero box.
func (s *Solid) Bounds() r3.Box { return s.bb }

// Mesh returns a copy of the underlying mesh.
func (s *Solid) Mesh() *Mesh { return s.m.Clone() }

func (s *Solid) NumFaces() int { return s.m.NumFaces() }

func (s *Solid) NumVertices() int { return s.m.NumVertices() }

// Volume returns the enclosed volume of s.
func (s *Solid) Volume() float64 { return s.m.Volume() }

// Triangles returns the faces of s split into triangles.
func (s *Solid) Triangles() [][3]r3.Vec { return s.m.Triangles() }

// Transform returns s transformed by t.
func (s *Solid) Transform(t Transform) *Solid {
	if t == (Transform{}) {
		return s
	}
	return newSolid(s.m.Transform(t))
}

// Concat returns the solid made of all the argument solids. The solids
// must not intersect each other.
func Concat(solids ...*Solid) *Solid {
	m := &Mesh{}
	for _, s := range solids {
		if s != nil {
			m.Append(s.m)
		}
	}
	return newSolid(m)
}

// Equal reports whether s and other have the same vertex and face lists,
// vertices compared within tol.
func (s *Solid) Equal(other *Solid, tol float64) bool {
	a, b := s.m, other.m
	if len(a.vertices) != len(b.vertices) || len(a.faces) != len(b.faces) {
		return false
	}
	for i, v := range a.vertices {
		w := b.vertices[i]
		if math.Abs(v.X-w.X) > tol || math.Abs(v.Y-w.Y) > tol || math.Abs(v.Z-w.Z) > tol {
			return false
		}
	}
	for i, f := range a.faces {
		g := b.faces[i]
		if len(f) != len(g) {
			return false
		}
		for j := range f {
			if f[j] != g[j] {
				return false
			}
		}
	}
	return true
}
