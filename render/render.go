// Package render converts solids to triangle streams and writes them out
// as binary STL files.
package render

import (
	"io"

	"github.com/chewxy/math32"
	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a triangle in 3D space. Vertices are counter-clockwise when
// seen from outside the solid.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of the triangle, or the zero vector for
// a triangle with no area.
func (t Triangle3) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two vertices of the triangle are within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}

// Renderer streams triangles. ReadTriangles returns io.EOF once all
// triangles were read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// MeshRenderer streams the triangles of a solid.
type MeshRenderer struct {
	unread triangle3Buffer
	// Skipped counts triangles dropped because they collapse at STL precision.
	Skipped int
}

var _ Renderer = (*MeshRenderer)(nil)

// NewMeshRenderer returns a renderer over the triangles of s.
func NewMeshRenderer(s *nameplate.Solid) *MeshRenderer {
	tris := s.Triangles()
	mr := &MeshRenderer{unread: triangle3Buffer{buf: make([]Triangle3, 0, len(tris))}}
	for _, tri := range tris {
		t := Triangle3(tri)
		if collapses32(t) {
			mr.Skipped++
			continue
		}
		mr.unread.buf = append(mr.unread.buf, t)
	}
	return mr
}

// ReadTriangles implements Renderer.
func (mr *MeshRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if mr.unread.Len() == 0 {
		return 0, io.EOF
	}
	return mr.unread.Read(t), nil
}

// collapses32 reports whether t has no area once stored as float32.
func collapses32(t Triangle3) bool {
	var f [3][3]float32
	for i, v := range t {
		f[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
		return true
	}
	e1 := [3]float32{f[1][0] - f[0][0], f[1][1] - f[0][1], f[1][2] - f[0][2]}
	e2 := [3]float32{f[2][0] - f[0][0], f[2][1] - f[0][1], f[2][2] - f[0][2]}
	cx := e1[1]*e2[2] - e1[2]*e2[1]
	cy := e1[2]*e2[0] - e1[0]*e2[2]
	cz := e1[0]*e2[1] - e1[1]*e2[0]
	return math32.Sqrt(cx*cx+cy*cy+cz*cz) == 0
}
