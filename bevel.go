package nameplate

import (
	"math"

	"github.com/soypat/nameplate/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Bevel rounds the four vertical edges of the axis-aligned slab s.
//
// With segments == 0 s is returned unchanged. Otherwise the slab outline is
// eroded by offset on every side and each corner is replaced by a circular
// arc of segments facets, so the XY extent shrinks by exactly 2*offset.
// The arc radius is offset, limited so opposite arcs never overlap.
// Z extent is unchanged.
func Bevel(s *Solid, offset float64, segments int) (*Solid, error) {
	const stage = "bevel"
	if s == nil {
		return nil, &DegenerateGeometryError{Stage: stage, Reason: "nil solid"}
	}
	if segments < 0 {
		return nil, configErr(stage, "segments", float64(segments), "must not be negative")
	}
	if segments == 0 {
		return s, nil
	}
	if s.IsEmpty() || !isAxisAlignedSlab(s) {
		return nil, configErr(stage, "solid", float64(s.NumVertices()), "must be an axis-aligned slab")
	}
	bb := s.Bounds()
	size := r2.Vec{X: bb.Max.X - bb.Min.X, Y: bb.Max.Y - bb.Min.Y}
	if err := positive(stage, "offset", offset); err != nil {
		return nil, err
	}
	if offset >= math.Min(size.X, size.Y)/2 {
		return nil, configErr(stage, "offset", offset, "must be less than half the smallest slab side")
	}
	inner := d2.Box{
		Min: r2.Vec{X: bb.Min.X + offset, Y: bb.Min.Y + offset},
		Max: r2.Vec{X: bb.Max.X - offset, Y: bb.Max.Y - offset},
	}
	isz := inner.Size()
	radius := math.Min(offset, math.Min(isz.X, isz.Y)/2)
	corners := []r2.Vec{
		inner.Min,
		{X: inner.Max.X, Y: inner.Min.Y},
		inner.Max,
		{X: inner.Min.X, Y: inner.Max.Y},
	}
	return Extrude(Shape{Outer: smoothCorners(corners, radius, segments)}, bb.Min.Z, bb.Max.Z)
}

// isAxisAlignedSlab reports whether every vertex of s lies on a corner of
// its bounding box.
func isAxisAlignedSlab(s *Solid) bool {
	const tol = 1e-9
	bb := s.Bounds()
	on := func(v, lo, hi float64) bool {
		return math.Abs(v-lo) <= tol || math.Abs(v-hi) <= tol
	}
	for _, v := range s.m.vertices {
		if !on(v.X, bb.Min.X, bb.Max.X) || !on(v.Y, bb.Min.Y, bb.Max.Y) || !on(v.Z, bb.Min.Z, bb.Max.Z) {
			return false
		}
	}
	return true
}

// smoothCorners replaces every vertex of the closed counter-clockwise
// polygon with a circular fillet of the given radius made of facets
// segments. Fillets too large for the adjacent edges leave the vertex sharp.
func smoothCorners(vertices []r2.Vec, radius float64, facets int) []r2.Vec {
	n := len(vertices)
	out := make([]r2.Vec, 0, n*(facets+1))
	for i, v := range vertices {
		vp := vertices[(i+n-1)%n]
		vn := vertices[(i+1)%n]
		// work out the angle
		v0 := r2.Unit(r2.Sub(vp, v))
		v1 := r2.Unit(r2.Sub(vn, v))
		theta := math.Acos(r2.Dot(v0, v1))
		// distance from vertex to circle tangent
		d1 := radius / math.Tan(theta/2)
		if radius <= 0 || d1 > r2.Norm(r2.Sub(vp, v))+1e-12 || d1 > r2.Norm(r2.Sub(vn, v))+1e-12 {
			out = append(out, v)
			continue
		}
		// tangent point
		p0 := r2.Add(v, r2.Scale(d1, v0))
		// distance from vertex to circle center
		dc := radius / math.Sin(theta/2)
		c := r2.Add(v, r2.Scale(dc, r2.Unit(r2.Add(v0, v1))))
		dtheta := math.Copysign(1, r2.Cross(v1, v0)) * (math.Pi - theta) / float64(facets)
		rv := r2.Sub(p0, c)
		for j := 0; j <= facets; j++ {
			sin, cos := math.Sincos(float64(j) * dtheta)
			out = append(out, r2.Add(c, r2.Vec{
				X: rv.X*cos - rv.Y*sin,
				Y: rv.X*sin + rv.Y*cos,
			}))
		}
	}
	return out
}
