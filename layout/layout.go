// Package layout computes transforms that size and place solids relative
// to each other from their bounding boxes alone. It never reads or
// modifies geometry.
package layout

import (
	"math"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// snap is the translation magnitude below which a component is treated as zero.
const snap = 1e-12

// Bounder is implemented by anything with an axis-aligned bounding box.
type Bounder interface {
	Bounds() r3.Box
}

// Axis is a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) of(v r3.Vec) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	return v.Z
}

func (a Axis) vec(f float64) r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: f}
	case AxisY:
		return r3.Vec{Y: f}
	}
	return r3.Vec{Z: f}
}

// Center returns the translation that places b on relativeTo according to
// anchor. The top face of b ends flush with the top face of relativeTo.
//
// AnchorCentered and AnchorOffset align the XY centers, AnchorLeft aligns
// the minimum X and centers Y. Anchor offsets are added in all modes.
func Center(b Bounder, relativeTo r3.Box, anchor nameplate.Anchor) nameplate.Transform {
	bb := d3.Box(b.Bounds())
	ref := d3.Box(relativeTo)
	c, rc := bb.Center(), ref.Center()
	t := r3.Vec{
		X: rc.X - c.X + anchor.Offset.X,
		Y: rc.Y - c.Y + anchor.Offset.Y,
		Z: ref.Max.Z - bb.Max.Z,
	}
	if anchor.Mode == nameplate.AnchorLeft {
		t.X = ref.Min.X - bb.Min.X + anchor.Offset.X
	}
	return translation(t)
}

// CenterAlong returns the translation along axis that centers group on
// relativeTo.
func CenterAlong(group, relativeTo r3.Box, axis Axis) nameplate.Transform {
	d := axis.of(d3.Box(relativeTo).Center()) - axis.of(d3.Box(group).Center())
	return translation(axis.vec(d))
}

// Stack returns one translation per box placing every box gap beyond the
// previous one along axis, after the previous box has been moved. The
// first box stays where it is.
func Stack(boxes []r3.Box, gap float64, axis Axis) []nameplate.Transform {
	out := make([]nameplate.Transform, len(boxes))
	if len(boxes) == 0 {
		return out
	}
	end := axis.of(boxes[0].Max)
	for i := 1; i < len(boxes); i++ {
		d := end + gap - axis.of(boxes[i].Min)
		out[i] = translation(axis.vec(d))
		end = axis.of(boxes[i].Max) + d
	}
	return out
}

// Group returns the box enclosing all boxes.
func Group(boxes ...r3.Box) r3.Box {
	if len(boxes) == 0 {
		return r3.Box{}
	}
	g := d3.Box(boxes[0])
	for _, b := range boxes[1:] {
		g = g.Extend(d3.Box(b))
	}
	return r3.Box(g)
}

// Fit returns the scaling about b.Min that makes b exactly height tall in
// Y. X is scaled by the same factor, multiplied by widthScale when it is
// positive, and reduced further if the result would be wider than a
// positive maxWidth. Z is not scaled.
func Fit(b r3.Box, height, widthScale, maxWidth float64) nameplate.Transform {
	size := d3.Box(b).Size()
	if size.Y <= 0 {
		return nameplate.Transform{}
	}
	fy := height / size.Y
	fx := fy
	if widthScale > 0 {
		fx *= widthScale
	}
	if maxWidth > 0 && size.X*fx > maxWidth {
		fx = maxWidth / size.X
	}
	return nameplate.Scale3D(b.Min, r3.Vec{X: fx, Y: fy, Z: 1})
}

func translation(v r3.Vec) nameplate.Transform {
	for _, c := range []*float64{&v.X, &v.Y, &v.Z} {
		if math.Abs(*c) < snap {
			*c = 0
		}
	}
	return nameplate.Translate3D(v)
}
