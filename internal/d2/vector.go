package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Orient returns twice the signed area of triangle abc. Positive
// when a, b, c turn counter-clockwise.
func Orient(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, b))
}

type Set []r2.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// Bounds returns the bounding box of the set. The set must not be empty.
func (a Set) Bounds() Box {
	return Box{Min: a.Min(), Max: a.Max()}
}

// SignedArea returns the shoelace area of the closed loop formed by the set.
// Counter-clockwise loops have positive area.
func (a Set) SignedArea() float64 {
	var sum float64
	n := len(a)
	for i := range a {
		p, q := a[i], a[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Reverse returns the set in reverse order.
func (a Set) Reverse() Set {
	n := len(a)
	r := make(Set, n)
	for i, v := range a {
		r[n-1-i] = v
	}
	return r
}

// ContainsPoint uses the winding number rule to determine if p lies inside
// the closed loop formed by the set.
// See: http://geomalgorithms.com/a03-_inclusion.html
func (a Set) ContainsPoint(p r2.Vec) bool {
	wn := 0
	n := len(a)
	for i := range a {
		v0, v1 := a[i], a[(i+1)%n]
		if v0.Y <= p.Y {
			if v1.Y > p.Y && Orient(v0, v1, p) > 0 {
				wn++ // upward crossing with p left of edge
			}
		} else if v1.Y <= p.Y && Orient(v0, v1, p) < 0 {
			wn-- // downward crossing with p right of edge
		}
	}
	return wn != 0
}
