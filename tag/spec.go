// Package tag assembles nameplate solids: a beveled plate carrying a serial
// number line below an organization name line.
package tag

import (
	"math"
	"strings"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/glyph/sfntfont"
	"github.com/soypat/nameplate/material"
)

// Spec holds every parameter of a tag. Lengths are in millimeters.
type Spec struct {
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`

	// BevelOffset rounds the plate corners. The plate keeps its outer
	// Length and Width. No bevel is applied when BevelSegments is zero.
	BevelOffset   float64 `yaml:"bevel_offset"`
	BevelSegments int     `yaml:"bevel_segments"`

	SerialPrefix string `yaml:"serial_prefix"`
	// Serial is the serial number. A random one is drawn when empty.
	Serial  string `yaml:"serial"`
	OrgText string `yaml:"org_text"`

	SerialLayout nameplate.TextLayoutSpec `yaml:"serial_layout"`
	NameLayout   nameplate.TextLayoutSpec `yaml:"name_layout"`
	// LineGap separates the serial line from the name line above it.
	LineGap float64 `yaml:"line_gap"`

	PlateMaterial material.Material `yaml:"plate_material"`
	TextMaterial  material.Material `yaml:"text_material"`
	// Shrink names a printing material to compensate shrinkage for.
	// Empty disables compensation.
	Shrink string `yaml:"shrink"`
}

// HRSH returns the reference tag of the Hudson River Psychiatric Center
// with both lines inset. Serial is left empty.
func HRSH() Spec {
	const (
		length = 61.9125
		width  = 14.2875
		depth  = 1.5875
		margin = 2
	)
	return Spec{
		Length:        length,
		Width:         width,
		Depth:         depth,
		BevelOffset:   0.1,
		BevelSegments: 10,
		SerialPrefix:  "0008-",
		OrgText:       "Hudson River Psychiatric Center",
		SerialLayout: nameplate.TextLayoutSpec{
			Height:     3.175,
			Depth:      0.5,
			Kerning:    1.4,
			WidthScale: 1.5,
			MaxWidth:   length - 2*margin,
			Anchor:     nameplate.Anchor{Mode: nameplate.AnchorCentered},
			Style:      nameplate.Inset,
			Font:       sfntfont.GoBold,
		},
		NameLayout: nameplate.TextLayoutSpec{
			Height:   3.175,
			Depth:    0.5,
			Kerning:  1,
			MaxWidth: length - 2*margin,
			Anchor:   nameplate.Anchor{Mode: nameplate.AnchorCentered},
			Style:    nameplate.Inset,
			Font:     sfntfont.GoRegular,
		},
		LineGap:       2.7,
		PlateMaterial: material.Metal,
		TextMaterial:  material.Black,
	}
}

// Validate checks every parameter and returns a
// *nameplate.ConfigurationError for the first one out of range. The name
// layout is not checked when OrgText is blank.
func (s Spec) Validate() error {
	const stage = "tag"
	for _, p := range [...]struct {
		name string
		v    float64
	}{{"length", s.Length}, {"width", s.Width}, {"depth", s.Depth}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return &nameplate.ConfigurationError{Stage: stage, Param: p.name, Value: p.v, Reason: "must be positive and finite"}
		}
	}
	if s.BevelSegments < 0 {
		return &nameplate.ConfigurationError{Stage: "bevel", Param: "segments", Value: float64(s.BevelSegments), Reason: "must not be negative"}
	}
	if s.BevelSegments > 0 && !(s.BevelOffset > 0 && s.BevelOffset < math.Min(s.Length, s.Width)/2) {
		return &nameplate.ConfigurationError{Stage: "bevel", Param: "offset", Value: s.BevelOffset, Reason: "must be in (0, min(length, width)/2)"}
	}
	if math.IsNaN(s.LineGap) || math.IsInf(s.LineGap, 0) || s.LineGap < 0 {
		return &nameplate.ConfigurationError{Stage: stage, Param: "line_gap", Value: s.LineGap, Reason: "must be a finite non-negative length"}
	}
	hasName := strings.TrimSpace(s.OrgText) != ""
	for _, l := range [...]struct {
		stage string
		spec  nameplate.TextLayoutSpec
		used  bool
	}{{"serial", s.SerialLayout, true}, {"name", s.NameLayout, hasName}} {
		if !l.used {
			continue
		}
		if err := l.spec.Validate(l.stage); err != nil {
			return err
		}
		if l.spec.Style == nameplate.Inset && l.spec.Depth >= s.Depth {
			return &nameplate.ConfigurationError{Stage: l.stage, Param: "depth", Value: l.spec.Depth, Reason: "inset text must be shallower than the plate"}
		}
	}
	height := s.SerialLayout.Height
	if hasName {
		height += s.LineGap + s.NameLayout.Height
	}
	if height > s.Width {
		return &nameplate.ConfigurationError{Stage: stage, Param: "width", Value: s.Width, Reason: "text lines do not fit on the plate"}
	}
	if s.Shrink != "" {
		if _, ok := material.Shrinkage(s.Shrink); !ok {
			return &nameplate.ConfigurationError{Stage: stage, Param: "shrink", Reason: "unknown material " + s.Shrink}
		}
	}
	return nil
}
