package nameplate

import (
	"math"

	"github.com/soypat/nameplate/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform represents an affine 3D spatial transformation.
// The zero value of Transform is the identity transform.
type Transform struct {
	// in order to make the zero value of Transform represent the identity
	// transform we store it with the identity matrix subtracted.
	//  d00 = x00-1, d11 = x11-1, d22 = x22-1
	// The last row is always (0,0,0,1).
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
}

// Translate3D returns a translation by v.
func Translate3D(v r3.Vec) Transform {
	return Transform{x03: v.X, x13: v.Y, x23: v.Z}
}

// Scale3D returns a scaling by factor about origin.
func Scale3D(origin, factor r3.Vec) Transform {
	return Transform{
		d00: factor.X - 1, x03: origin.X - factor.X*origin.X,
		d11: factor.Y - 1, x13: origin.Y - factor.Y*origin.Y,
		d22: factor.Z - 1, x23: origin.Z - factor.Z*origin.Z,
	}
}

// Apply applies the Transform to the argument vector
// and returns the result.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z + t.x03,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z + t.x13,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z + t.x23,
	}
}

// ApplyBox returns the bounding box of the transformed corners of b.
func (t Transform) ApplyBox(b r3.Box) r3.Box {
	out := d3.Empty()
	for _, v := range d3.Box(b).Vertices() {
		out = out.Include(t.Apply(v))
	}
	return r3.Box(out)
}

// Translate returns t followed by a translation by v.
func (t Transform) Translate(v r3.Vec) Transform {
	t.x03 += v.X
	t.x13 += v.Y
	t.x23 += v.Z
	return t
}

// Scale returns t followed by a scaling by factor about origin.
func (t Transform) Scale(origin, factor r3.Vec) Transform {
	return Scale3D(origin, factor).Mul(t)
}

// Mul multiplies the Transforms t and b and returns the result.
// The result applies b first, then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x00 := t.d00 + 1
	x11 := t.d11 + 1
	x22 := t.d22 + 1
	y00 := b.d00 + 1
	y11 := b.d11 + 1
	y22 := b.d22 + 1
	var m Transform
	m.d00 = x00*y00 + t.x01*b.x10 + t.x02*b.x20 - 1
	m.x10 = t.x10*y00 + x11*b.x10 + t.x12*b.x20
	m.x20 = t.x20*y00 + t.x21*b.x10 + x22*b.x20
	m.x01 = x00*b.x01 + t.x01*y11 + t.x02*b.x21
	m.d11 = t.x10*b.x01 + x11*y11 + t.x12*b.x21 - 1
	m.x21 = t.x20*b.x01 + t.x21*y11 + x22*b.x21
	m.x02 = x00*b.x02 + t.x01*b.x12 + t.x02*y22
	m.x12 = t.x10*b.x02 + x11*b.x12 + t.x12*y22
	m.d22 = t.x20*b.x02 + t.x21*b.x12 + x22*y22 - 1
	m.x03 = x00*b.x03 + t.x01*b.x13 + t.x02*b.x23 + t.x03
	m.x13 = t.x10*b.x03 + x11*b.x13 + t.x12*b.x23 + t.x13
	m.x23 = t.x20*b.x03 + t.x21*b.x13 + x22*b.x23 + t.x23
	return m
}

// Det returns the determinant of the Transform.
func (t Transform) Det() float64 {
	x00 := t.d00 + 1
	x11 := t.d11 + 1
	x22 := t.d22 + 1
	return x00*(x11*x22-t.x12*t.x21) -
		t.x01*(t.x10*x22-t.x12*t.x20) +
		t.x02*(t.x10*t.x21-x11*t.x20)
}

// Translation returns the translational component of the transform.
func (t Transform) Translation() r3.Vec {
	return r3.Vec{X: t.x03, Y: t.x13, Z: t.x23}
}

// IsIdentity reports whether every element of t is within tol of
// the identity transform.
func (t Transform) IsIdentity(tol float64) bool {
	for _, v := range [...]float64{
		t.d00, t.x01, t.x02, t.x03,
		t.x10, t.d11, t.x12, t.x13,
		t.x20, t.x21, t.d22, t.x23,
	} {
		if math.Abs(v) > tol {
			return false
		}
	}
	return true
}
