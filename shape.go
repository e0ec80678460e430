package nameplate

import (
	"errors"
	"math"
	"sort"

	"github.com/soypat/nameplate/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Shape is a planar region bounded by an outer loop and zero or more hole
// loops lying inside it. Loops are implicitly closed and may be given in
// either orientation.
type Shape struct {
	Outer []r2.Vec
	Holes [][]r2.Vec
}

// normalized returns the cleaned loops of the shape with the outer loop
// counter-clockwise and holes clockwise. Holes that vanish while cleaning
// are dropped.
func (s Shape) normalized() (outer d2.Set, holes []d2.Set, err error) {
	if len(s.Outer) < 3 {
		return nil, nil, errors.New("outer loop has fewer than 3 vertices")
	}
	bb := d2.Set(s.Outer).Bounds()
	diag := r2.Norm(bb.Size())
	if diag == 0 || math.IsNaN(diag) || math.IsInf(diag, 0) {
		return nil, nil, errors.New("outer loop has no extent")
	}
	tol := diag * 1e-6
	outer = cleanLoop(s.Outer, tol)
	if len(outer) < 3 {
		return nil, nil, errors.New("outer loop collapses")
	}
	if outer.SignedArea() < 0 {
		outer = outer.Reverse()
	}
	for _, h := range s.Holes {
		hole := cleanLoop(h, tol)
		if len(hole) < 3 {
			continue
		}
		if hole.SignedArea() > 0 {
			hole = hole.Reverse()
		}
		holes = append(holes, hole)
	}
	return outer, holes, nil
}

// cleanLoop removes repeated and collinear vertices from a closed loop.
func cleanLoop(loop []r2.Vec, tol float64) d2.Set {
	pts := make(d2.Set, 0, len(loop))
	for _, v := range loop {
		if len(pts) > 0 && d2.EqualWithin(v, pts[len(pts)-1], tol) {
			continue
		}
		pts = append(pts, v)
	}
	for len(pts) > 1 && d2.EqualWithin(pts[0], pts[len(pts)-1], tol) {
		pts = pts[:len(pts)-1]
	}
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		n := len(pts)
		for i := 0; i < n; i++ {
			e0 := r2.Sub(pts[i], pts[(i+n-1)%n])
			e1 := r2.Sub(pts[(i+1)%n], pts[i])
			if math.Abs(r2.Cross(e0, e1)) <= 1e-10*r2.Norm(e0)*r2.Norm(e1) {
				// pts[i] is collinear with its neighbours.
				pts = append(pts[:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	return pts
}

// isConvex reports whether the counter-clockwise loop turns left at every vertex.
func isConvex(loop d2.Set) bool {
	n := len(loop)
	for i := range loop {
		if d2.Orient(loop[(i+n-1)%n], loop[i], loop[(i+1)%n]) <= 0 {
			return false
		}
	}
	return true
}

// triangulate splits the polygon with holes into counter-clockwise
// triangles by ear clipping. Holes are first joined to the outer loop with
// bridge edges. Returned indices refer to the concatenation of outer and
// the holes in order. outer must be counter-clockwise and holes clockwise.
func triangulate(outer d2.Set, holes []d2.Set) ([][3]int, error) {
	pts := append(d2.Set(nil), outer...)
	poly := make([]int, len(outer))
	for i := range poly {
		poly[i] = i
	}
	type holeRef struct {
		start, n, right int
	}
	refs := make([]holeRef, len(holes))
	for i, h := range holes {
		ref := holeRef{start: len(pts), n: len(h)}
		for j, v := range h {
			if v.X > h[ref.right].X {
				ref.right = j
			}
		}
		refs[i] = ref
		pts = append(pts, h...)
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return pts[refs[i].start+refs[i].right].X > pts[refs[j].start+refs[j].right].X
	})
	for _, h := range refs {
		var err error
		poly, err = bridgeHole(pts, poly, h.start, h.n, h.right)
		if err != nil {
			return nil, err
		}
	}
	return earClip(pts, poly), nil
}

// bridgeHole splices the hole loop into poly through a bridge from the
// hole's rightmost vertex to a vertex of poly visible from it.
func bridgeHole(pts d2.Set, poly []int, start, n, right int) ([]int, error) {
	m := pts[start+right]
	bestX := math.Inf(1)
	k := -1
	for q := range poly {
		a, b := pts[poly[q]], pts[poly[(q+1)%len(poly)]]
		if a.Y > m.Y || b.Y < m.Y || a.Y == b.Y {
			continue
		}
		x := a.X + (m.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < m.X || x >= bestX {
			continue
		}
		bestX = x
		if a.X > b.X {
			k = q
		} else {
			k = (q + 1) % len(poly)
		}
	}
	if k < 0 {
		return nil, errors.New("hole is not inside the outer loop")
	}
	p := pts[poly[k]]
	if p.Y != m.Y {
		// Reflex vertices inside triangle (m, i, p) may hide p from m.
		// Take the one closest in angle to the ray.
		i := r2.Vec{X: bestX, Y: m.Y}
		tri := [3]r2.Vec{m, i, p}
		if d2.Orient(m, i, p) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		bestTan := math.Inf(1)
		for q := range poly {
			r := pts[poly[q]]
			if r == p || r.X <= m.X || !inTriangle(r, tri[0], tri[1], tri[2]) {
				continue
			}
			prev := pts[poly[(q+len(poly)-1)%len(poly)]]
			next := pts[poly[(q+1)%len(poly)]]
			if d2.Orient(prev, r, next) >= 0 {
				continue
			}
			tan := math.Abs(r.Y-m.Y) / (r.X - m.X)
			if tan < bestTan || (tan == bestTan && r.X < pts[poly[k]].X) {
				bestTan = tan
				k = q
			}
		}
	}
	spliced := make([]int, 0, len(poly)+n+2)
	spliced = append(spliced, poly[:k+1]...)
	for j := 0; j <= n; j++ {
		spliced = append(spliced, start+(right+j)%n)
	}
	spliced = append(spliced, poly[k:]...)
	return spliced, nil
}

// earClip triangulates the simple counter-clockwise polygon given by
// indices into pts. Indices may repeat along bridge edges. When no ear can
// be clipped the triangulation returned is partial.
func earClip(pts d2.Set, poly []int) [][3]int {
	n := len(poly)
	prev := make([]int, n)
	next := make([]int, n)
	for i := range poly {
		prev[i] = (i + n - 1) % n
		next[i] = (i + 1) % n
	}
	at := func(k int) r2.Vec { return pts[poly[k]] }
	isEar := func(k int) bool {
		a, b, c := at(prev[k]), at(k), at(next[k])
		if d2.Orient(a, b, c) <= 0 {
			return false
		}
		for q := next[next[k]]; q != prev[k]; q = next[q] {
			p := at(q)
			if p == a || p == b || p == c {
				continue
			}
			if inTriangle(p, a, b, c) {
				return false
			}
		}
		return true
	}
	tris := make([][3]int, 0, n-2)
	clip := func(k int) int {
		tris = append(tris, [3]int{poly[prev[k]], poly[k], poly[next[k]]})
		next[prev[k]] = next[k]
		prev[next[k]] = prev[k]
		return next[k]
	}
	k := 0
	for remaining := n; remaining > 3; remaining-- {
		found := false
		for tries := 0; tries < remaining; tries++ {
			if isEar(k) {
				found = true
				break
			}
			k = next[k]
		}
		if !found {
			// No clean ear due to rounding. Clip the convex vertex with
			// the largest triangle so the loop always shrinks.
			best, bestArea := -1, 0.0
			q := k
			for i := 0; i < remaining; i++ {
				if area := d2.Orient(at(prev[q]), at(q), at(next[q])); area > bestArea {
					best, bestArea = q, area
				}
				q = next[q]
			}
			if best < 0 {
				return tris
			}
			k = best
		}
		k = clip(k)
	}
	if a, b, c := poly[prev[k]], poly[k], poly[next[k]]; a != b && b != c && c != a {
		tris = append(tris, [3]int{a, b, c})
	}
	return tris
}

// inTriangle reports whether p lies inside or on the counter-clockwise triangle abc.
func inTriangle(p, a, b, c r2.Vec) bool {
	return d2.Orient(a, b, p) >= 0 && d2.Orient(b, c, p) >= 0 && d2.Orient(c, a, p) >= 0
}
