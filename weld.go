package nameplate

import (
	"cmp"
	"slices"

	"github.com/soypat/nameplate/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdPoints{}
	_ kdtree.Comparable = kdPoint{}
	_ kdtree.SortSlicer = kdPlane{}
)

const (
	// weldTolerance is the distance under which two vertices are merged.
	weldTolerance = 1e-7
	// junctionTolerance is the distance under which a vertex is
	// considered to lie on an edge.
	junctionTolerance = 10 * weldTolerance
)

// weld merges vertices closer than tol. It returns the surviving vertices
// in order of first appearance and, for every input vertex, its index into
// the surviving set.
func weld(vertices []r3.Vec, tol float64) (unique []r3.Vec, remap []int) {
	remap = make([]int, len(vertices))
	if len(vertices) == 0 {
		return nil, remap
	}
	pts := make(kdPoints, len(vertices))
	for i, v := range vertices {
		pts[i] = kdPoint{v: v, idx: i}
		remap[i] = -1
	}
	tree := kdtree.New(pts, false)
	for i, v := range vertices {
		if remap[i] >= 0 {
			continue
		}
		idx := len(unique)
		unique = append(unique, v)
		remap[i] = idx
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, kdPoint{v: v, idx: -1})
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			if j := c.Comparable.(kdPoint).idx; remap[j] < 0 {
				remap[j] = idx
			}
		}
	}
	return unique, remap
}

// weldMesh welds coincident vertices of m and drops faces that collapse
// to fewer than 3 distinct vertices.
func weldMesh(m *Mesh, tol float64) *Mesh {
	unique, remap := weld(m.vertices, tol)
	out := &Mesh{vertices: unique}
	for _, f := range m.faces {
		nf := make([]int, 0, len(f))
		for _, idx := range f {
			r := remap[idx]
			if len(nf) > 0 && nf[len(nf)-1] == r {
				continue
			}
			nf = append(nf, r)
		}
		for len(nf) > 1 && nf[0] == nf[len(nf)-1] {
			nf = nf[:len(nf)-1]
		}
		if len(nf) >= 3 {
			out.faces = append(out.faces, nf)
		}
	}
	return out
}

// splitJunctions inserts into every face edge of m the vertices lying on
// it within tol, so faces meeting along a line share all of its vertices.
// Faces thinner than tol are dropped: their vertices lie on the edges of
// the faces around them.
func splitJunctions(m *Mesh, tol float64) *Mesh {
	out := &Mesh{vertices: m.vertices}
	if len(m.faces) == 0 {
		return out
	}
	pts := make(kdPoints, len(m.vertices))
	for i, v := range m.vertices {
		pts[i] = kdPoint{v: v, idx: i}
	}
	tree := kdtree.New(pts, false)
	split := make(map[[2]int][]int)
	interior := func(a, b int) []int {
		if a < b {
			mid, ok := split[[2]int{a, b}]
			if !ok {
				mid = edgeInterior(tree, m.vertices, a, b, tol)
				split[[2]int{a, b}] = mid
			}
			return mid
		}
		mid, ok := split[[2]int{b, a}]
		if !ok {
			mid = edgeInterior(tree, m.vertices, b, a, tol)
			split[[2]int{b, a}] = mid
		}
		rev := make([]int, len(mid))
		for i, idx := range mid {
			rev[len(mid)-1-i] = idx
		}
		return rev
	}
	for _, f := range m.faces {
		if faceHeight(m.vertices, f) < tol {
			continue
		}
		nf := make([]int, 0, len(f))
		for i, a := range f {
			nf = append(nf, a)
			nf = append(nf, interior(a, f[(i+1)%len(f)])...)
		}
		out.faces = append(out.faces, nf)
	}
	return out
}

// edgeInterior returns the vertices lying strictly inside segment a-b
// within tol, ordered from a to b.
func edgeInterior(tree *kdtree.Tree, vertices []r3.Vec, a, b int, tol float64) []int {
	va, vb := vertices[a], vertices[b]
	dir := r3.Sub(vb, va)
	length := r3.Norm(dir)
	if length == 0 {
		return nil
	}
	dir = r3.Scale(1/length, dir)
	bb := d3.Empty().Include(va).Include(vb).Enlarge(d3.Elem(2 * tol))
	type hit struct {
		idx int
		t   float64
	}
	var hits []hit
	tree.DoBounded(&kdtree.Bounding{Min: kdPoint{v: bb.Min}, Max: kdPoint{v: bb.Max}},
		func(c kdtree.Comparable, _ *kdtree.Bounding, _ int) bool {
			p := c.(kdPoint)
			if p.idx == a || p.idx == b {
				return false
			}
			t := r3.Dot(r3.Sub(p.v, va), dir)
			if t <= weldTolerance || t >= length-weldTolerance {
				return false
			}
			off := r3.Sub(p.v, r3.Add(va, r3.Scale(t, dir)))
			if r3.Norm(off) <= tol {
				hits = append(hits, hit{idx: p.idx, t: t})
			}
			return false
		})
	if len(hits) == 0 {
		return nil
	}
	slices.SortFunc(hits, func(x, y hit) int { return cmp.Compare(x.t, y.t) })
	mid := make([]int, len(hits))
	for i, h := range hits {
		mid[i] = h.idx
	}
	return mid
}

type kdPoint struct {
	v   r3.Vec
	idx int
}

type kdPoints []kdPoint

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a kdPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a.v, b.(kdPoint).v, d)
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdPoint) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.v, b.(kdPoint).v))
}

func (k kdPoints) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdPoints) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdPoints) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: d, points: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdPoints) Slice(start, end int) kdtree.Interface { return k[start:end] }

// kdPlane is required to implement kdtree.Interface for kdPoints.
type kdPlane struct {
	dim    kdtree.Dim
	points kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.points[i].v, p.points[j].v, p.dim) < 0
}

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

func (p kdPlane) Len() int { return len(p.points) }

func kdComp(a, b r3.Vec, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return a.X - b.X
	case 1:
		return a.Y - b.Y
	}
	return a.Z - b.Z
}
