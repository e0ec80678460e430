// Package material describes what tag parts are made of: display metadata
// handed to the sink and shrinkage of printing materials.
package material

import (
	"strings"

	"github.com/soypat/nameplate"
	"gonum.org/v1/gonum/spatial/r3"
)

// Material is appearance metadata for a part. It has no effect on geometry.
type Material struct {
	Name string `yaml:"name"`
	// Color is the RGBA diffuse color, each channel in [0,1].
	Color [4]float64 `yaml:"color"`
}

var (
	// Metal is the default plate material.
	Metal = Material{Name: "Metal", Color: [4]float64{0.8, 0.8, 0.8, 1}}
	// Black is the default text material.
	Black = Material{Name: "Black", Color: [4]float64{0, 0, 0, 1}}
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
)

type ViscousMaterial struct {
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Shrinkage returns the shrinking material registered as name. Names are
// case insensitive.
func Shrinkage(name string) (ViscousMaterial, bool) {
	switch strings.ToLower(name) {
	case "pla":
		return PLA, true
	}
	return ViscousMaterial{}, false
}

// Scale returns s enlarged so it measures its nominal size after the
// material cools. Scaling is about the center of the bottom face so parts
// keep resting on Z=0.
func (m ViscousMaterial) Scale(s *nameplate.Solid) *nameplate.Solid {
	scale := 1 / (1 - m.shrink)
	bb := s.Bounds()
	origin := r3.Vec{X: (bb.Min.X + bb.Max.X) / 2, Y: (bb.Min.Y + bb.Max.Y) / 2, Z: bb.Min.Z}
	return s.Transform(nameplate.Scale3D(origin, r3.Vec{X: scale, Y: scale, Z: scale}))
}

// InternalDimScale returns the size to model an internal feature (a hole)
// so it measures real after printing.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
