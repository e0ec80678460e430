package nameplate

import (
	"errors"
	"fmt"

	"github.com/soypat/nameplate/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a polygonal surface of convex planar faces indexing into a shared
// vertex list. Faces are wound counter-clockwise when viewed from outside.
// The zero value is an empty mesh ready to use.
type Mesh struct {
	vertices []r3.Vec
	faces    [][]int
	bb       r3.Box
	bbValid  bool
}

// NewMesh returns a mesh with the given vertices and faces after checking
// every face refers to existing vertices.
func NewMesh(vertices []r3.Vec, faces [][]int) (*Mesh, error) {
	m := &Mesh{vertices: append([]r3.Vec(nil), vertices...)}
	for i, f := range faces {
		if err := m.AddFace(f...); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
	}
	return m, nil
}

// AddVertex appends v and returns its index.
func (m *Mesh) AddVertex(v r3.Vec) int {
	m.vertices = append(m.vertices, v)
	m.bbValid = false
	return len(m.vertices) - 1
}

// AddFace appends a face made of the vertex indices idx.
func (m *Mesh) AddFace(idx ...int) error {
	if len(idx) < 3 {
		return errors.New("face needs at least 3 vertices")
	}
	for _, i := range idx {
		if i < 0 || i >= len(m.vertices) {
			return fmt.Errorf("vertex index %d out of range [0,%d)", i, len(m.vertices))
		}
	}
	m.faces = append(m.faces, append([]int(nil), idx...))
	m.bbValid = false
	return nil
}

// SetVertex moves vertex i to v.
func (m *Mesh) SetVertex(i int, v r3.Vec) {
	m.vertices[i] = v
	m.bbValid = false
}

// Append adds all of other's vertices and faces to m.
func (m *Mesh) Append(other *Mesh) {
	base := len(m.vertices)
	m.vertices = append(m.vertices, other.vertices...)
	for _, f := range other.faces {
		nf := make([]int, len(f))
		for i, idx := range f {
			nf[i] = idx + base
		}
		m.faces = append(m.faces, nf)
	}
	m.bbValid = false
}

func (m *Mesh) NumVertices() int { return len(m.vertices) }

func (m *Mesh) NumFaces() int { return len(m.faces) }

func (m *Mesh) Vertex(i int) r3.Vec { return m.vertices[i] }

// Face returns a copy of the vertex indices of face i.
func (m *Mesh) Face(i int) []int {
	return append([]int(nil), m.faces[i]...)
}

// Bounds returns the axis-aligned bounding box of the vertices. The empty
// mesh has the zero box.
func (m *Mesh) Bounds() r3.Box {
	if m.bbValid {
		return m.bb
	}
	if len(m.vertices) == 0 {
		m.bb = r3.Box{}
	} else {
		m.bb = r3.Box{Min: d3.Set(m.vertices).Min(), Max: d3.Set(m.vertices).Max()}
	}
	m.bbValid = true
	return m.bb
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		vertices: append([]r3.Vec(nil), m.vertices...),
		faces:    make([][]int, len(m.faces)),
		bb:       m.bb,
		bbValid:  m.bbValid,
	}
	for i, f := range m.faces {
		c.faces[i] = append([]int(nil), f...)
	}
	return c
}

// Transform returns a transformed copy of m. Transforms that mirror
// geometry reverse face winding so faces keep pointing outward.
func (m *Mesh) Transform(t Transform) *Mesh {
	c := m.Clone()
	if t == (Transform{}) {
		return c
	}
	for i, v := range c.vertices {
		c.vertices[i] = t.Apply(v)
	}
	if t.Det() < 0 {
		for _, f := range c.faces {
			for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
				f[i], f[j] = f[j], f[i]
			}
		}
	}
	c.bbValid = false
	return c
}

// Triangles returns the faces of m split into triangles. Faces are fanned
// unless they carry vertices along a straight edge, in which case those
// vertices are kept as triangle corners.
func (m *Mesh) Triangles() [][3]r3.Vec {
	var n int
	for _, f := range m.faces {
		n += len(f) - 2
	}
	tris := make([][3]r3.Vec, 0, n)
	for _, f := range m.faces {
		tris = m.appendFaceTriangles(tris, f)
	}
	return tris
}

func (m *Mesh) appendFaceTriangles(dst [][3]r3.Vec, f []int) [][3]r3.Vec {
	verts := make([]r3.Vec, len(f))
	for i, idx := range f {
		verts[i] = m.vertices[idx]
	}
	normal := faceNormal(verts)
	fan := len(verts) == 3 || r3.Norm(normal) == 0
	if !fan {
		normal = r3.Unit(normal)
		fan = true
		for i := range verts {
			if !isCorner(verts, i, normal) {
				fan = false
				break
			}
		}
	}
	if fan {
		for i := 1; i < len(verts)-1; i++ {
			dst = append(dst, [3]r3.Vec{verts[0], verts[i], verts[i+1]})
		}
		return dst
	}
	for len(verts) > 3 {
		k := -1
		for i := range verts {
			if isCorner(verts, i, normal) && diagonalClear(verts, i) {
				k = i
				break
			}
		}
		if k < 0 {
			break
		}
		n := len(verts)
		dst = append(dst, [3]r3.Vec{verts[(k+n-1)%n], verts[k], verts[(k+1)%n]})
		verts = append(verts[:k], verts[k+1:]...)
	}
	for i := 1; i < len(verts)-1; i++ {
		dst = append(dst, [3]r3.Vec{verts[0], verts[i], verts[i+1]})
	}
	return dst
}

// isCorner reports whether the polygon turns left at vertex k about normal.
func isCorner(verts []r3.Vec, k int, normal r3.Vec) bool {
	n := len(verts)
	a, b, c := verts[(k+n-1)%n], verts[k], verts[(k+1)%n]
	e0, e1 := r3.Sub(b, a), r3.Sub(c, b)
	return r3.Dot(r3.Cross(e0, e1), normal) > 1e-9*r3.Norm(e0)*r3.Norm(e1)
}

// diagonalClear reports whether no other vertex lies on the segment
// joining the neighbours of vertex k.
func diagonalClear(verts []r3.Vec, k int) bool {
	n := len(verts)
	a, c := verts[(k+n-1)%n], verts[(k+1)%n]
	d := r3.Sub(c, a)
	l2 := r3.Norm2(d)
	for i := 2; i < n-1; i++ {
		p := verts[(k+i)%n]
		t := r3.Dot(r3.Sub(p, a), d) / l2
		if t <= 0 || t >= 1 {
			continue
		}
		if r3.Norm(r3.Cross(d, r3.Sub(p, a))) <= 1e-9*l2 {
			return false
		}
	}
	return true
}

// faceHeight returns twice the area of face f over its longest edge, the
// height of the face when it is a triangle.
func faceHeight(vertices []r3.Vec, f []int) float64 {
	verts := make([]r3.Vec, len(f))
	var longest float64
	for i, idx := range f {
		verts[i] = vertices[idx]
		longest = max(longest, r3.Norm(r3.Sub(vertices[f[(i+1)%len(f)]], vertices[idx])))
	}
	if longest == 0 {
		return 0
	}
	return r3.Norm(faceNormal(verts)) / longest
}

// Volume returns the signed volume enclosed by the mesh using the divergence
// theorem. It is only meaningful for closed meshes.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, t := range m.Triangles() {
		vol += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return vol / 6
}

// Components groups faces that share vertices. Each entry holds the face
// indices of one connected component, in ascending order.
func (m *Mesh) Components() [][]int {
	parent := make([]int, len(m.vertices))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, f := range m.faces {
		r0 := find(f[0])
		for _, idx := range f[1:] {
			if r := find(idx); r != r0 {
				parent[r] = r0
			}
		}
	}
	groups := make(map[int]int)
	var comps [][]int
	for i, f := range m.faces {
		root := find(f[0])
		g, ok := groups[root]
		if !ok {
			g = len(comps)
			groups[root] = g
			comps = append(comps, nil)
		}
		comps[g] = append(comps[g], i)
	}
	return comps
}

// faceNormal returns the unnormalized normal of the polygon using Newell's method.
func faceNormal(verts []r3.Vec) r3.Vec {
	var n r3.Vec
	for i, cur := range verts {
		next := verts[(i+1)%len(verts)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n
}
