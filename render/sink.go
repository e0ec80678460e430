package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/material"
	"gonum.org/v1/gonum/spatial/r3"
)

// Units declares the length unit of solid coordinates.
type Units int

const (
	Millimeters Units = iota
	Inches
)

func (u Units) String() string {
	switch u {
	case Millimeters:
		return "mm"
	case Inches:
		return "in"
	}
	return fmt.Sprintf("Units(%d)", int(u))
}

// Millimeters returns the length of one unit in millimeters.
func (u Units) Millimeters() float64 {
	switch u {
	case Inches:
		return 25.4
	default:
		return 1
	}
}

// Sink receives finished solids.
type Sink interface {
	// Place hands over the solid s under name. mats lists the materials of
	// the parts of s, outermost first.
	Place(name string, s *nameplate.Solid, units Units, mats []material.Material) error
}

// STLSink writes every placed solid to a binary STL file in millimeters.
// The first material is recorded as the part color in the STL header.
type STLSink struct {
	// Dir is the output directory. It is created if missing.
	Dir string
}

var _ Sink = STLSink{}

// Path returns the file path a solid placed under name is written to.
func (sink STLSink) Path(name string) string {
	return filepath.Join(sink.Dir, name+".stl")
}

// Place implements Sink.
func (sink STLSink) Place(name string, s *nameplate.Solid, units Units, mats []material.Material) error {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid object name %q", name)
	}
	if s == nil || s.IsEmpty() {
		return errors.New("cannot place empty solid " + name)
	}
	if units != Millimeters && units != Inches {
		return fmt.Errorf("placing %s: unknown units %v", name, units)
	}
	if f := units.Millimeters(); f != 1 {
		s = s.Transform(nameplate.Scale3D(r3.Vec{}, r3.Vec{X: f, Y: f, Z: f}))
	}
	if sink.Dir != "" {
		if err := os.MkdirAll(sink.Dir, 0o755); err != nil {
			return err
		}
	}
	var header [80]byte
	if len(mats) > 0 {
		header = colorHeader(mats[0].Name, mats[0].Color)
	}
	if err := createSTL(sink.Path(name), header, NewMeshRenderer(s)); err != nil {
		return fmt.Errorf("placing %s: %w", name, err)
	}
	return nil
}
