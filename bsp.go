package nameplate

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// csgEpsilon is the distance within which a point is considered on a plane.
const csgEpsilon = 1e-5

type plane struct {
	n r3.Vec // unit normal
	w float64
}

func (p plane) flip() plane { return plane{n: r3.Scale(-1, p.n), w: -p.w} }

// polygon is a convex planar polygon with its supporting plane.
type polygon struct {
	verts []r3.Vec
	plane plane
}

// newPolygon returns the polygon through verts. ok is false for
// polygons without area.
func newPolygon(verts []r3.Vec) (p polygon, ok bool) {
	n := faceNormal(verts)
	l := r3.Norm(n)
	if l < 1e-12 {
		return polygon{}, false
	}
	n = r3.Scale(1/l, n)
	var c r3.Vec
	for _, v := range verts {
		c = r3.Add(c, v)
	}
	c = r3.Scale(1/float64(len(verts)), c)
	return polygon{verts: verts, plane: plane{n: n, w: r3.Dot(n, c)}}, true
}

func (p polygon) flip() polygon {
	n := len(p.verts)
	verts := make([]r3.Vec, n)
	for i, v := range p.verts {
		verts[n-1-i] = v
	}
	return polygon{verts: verts, plane: p.plane.flip()}
}

func flipAll(polys []polygon) []polygon {
	out := make([]polygon, len(polys))
	for i, p := range polys {
		out[i] = p.flip()
	}
	return out
}

func (p polygon) bounds() r3.Box {
	bb := r3.Box{Min: p.verts[0], Max: p.verts[0]}
	for _, v := range p.verts[1:] {
		bb.Min = r3.Vec{X: min(bb.Min.X, v.X), Y: min(bb.Min.Y, v.Y), Z: min(bb.Min.Z, v.Z)}
		bb.Max = r3.Vec{X: max(bb.Max.X, v.X), Y: max(bb.Max.Y, v.Y), Z: max(bb.Max.Z, v.Z)}
	}
	return bb
}

const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// split classifies p against pl and appends it, or its pieces, to the
// matching lists. Coplanar polygons go to coplanarFront when facing the
// same way as pl.
func (pl plane) split(p polygon, coplanarFront, coplanarBack, fronts, backs *[]polygon) {
	var polyType int
	types := make([]int, len(p.verts))
	for i, v := range p.verts {
		t := r3.Dot(pl.n, v) - pl.w
		typ := coplanar
		if t < -csgEpsilon {
			typ = back
		} else if t > csgEpsilon {
			typ = front
		}
		polyType |= typ
		types[i] = typ
	}
	switch polyType {
	case coplanar:
		if r3.Dot(pl.n, p.plane.n) > 0 {
			*coplanarFront = append(*coplanarFront, p)
		} else {
			*coplanarBack = append(*coplanarBack, p)
		}
	case front:
		*fronts = append(*fronts, p)
	case back:
		*backs = append(*backs, p)
	case spanning:
		var f, b []r3.Vec
		n := len(p.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := p.verts[i], p.verts[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if ti|tj == spanning {
				t := (pl.w - r3.Dot(pl.n, vi)) / r3.Dot(pl.n, r3.Sub(vj, vi))
				v := r3.Add(vi, r3.Scale(t, r3.Sub(vj, vi)))
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*fronts = append(*fronts, polygon{verts: f, plane: p.plane})
		}
		if len(b) >= 3 {
			*backs = append(*backs, polygon{verts: b, plane: p.plane})
		}
	}
}

// bspNode is a node of a binary space partitioning tree of polygons.
// Space in front of every plane on a path to a leaf is outside the solid.
type bspNode struct {
	plane       plane
	hasPlane    bool
	front, back *bspNode
	polygons    []polygon
}

func newBSP(polys []polygon) *bspNode {
	node := &bspNode{}
	node.build(polys)
	return node
}

// build adds polys to the tree rooted at node. The first polygon reaching
// an empty node becomes its splitting plane.
func (node *bspNode) build(polys []polygon) {
	for len(polys) > 0 {
		if !node.hasPlane {
			node.plane = polys[0].plane
			node.hasPlane = true
		}
		var fronts, backs []polygon
		for _, p := range polys {
			node.plane.split(p, &node.polygons, &node.polygons, &fronts, &backs)
		}
		if len(fronts) > 0 {
			if node.front == nil {
				node.front = &bspNode{}
			}
			node.front.build(fronts)
		}
		if len(backs) == 0 {
			return
		}
		if node.back == nil {
			node.back = &bspNode{}
		}
		node, polys = node.back, backs
	}
}

// clip removes the parts of polys that lie inside the solid described by
// the tree.
func (node *bspNode) clip(polys []polygon) []polygon {
	if !node.hasPlane {
		return append([]polygon(nil), polys...)
	}
	var fronts, backs []polygon
	for _, p := range polys {
		node.plane.split(p, &fronts, &backs, &fronts, &backs)
	}
	if node.front != nil {
		fronts = node.front.clip(fronts)
	}
	if node.back != nil {
		backs = node.back.clip(backs)
	} else {
		backs = nil
	}
	return append(fronts, backs...)
}
