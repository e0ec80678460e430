package glyph

import (
	"fmt"
	"strings"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/layout"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/spatial/r3"
)

// Normalize returns text the way it is rendered on a tag: uppercase.
func Normalize(text string) string {
	return cases.Upper(language.Und).String(text)
}

// BuildText returns the solid of text laid out on a single line.
//
// Text is uppercased and every character is extruded from Z=0 to
// spec.Depth. Characters advance by their advance width times
// spec.Kerning. The line is then scaled so its height equals spec.Height,
// see layout.Fit for the horizontal factor, and moved so its bounding box
// starts at X=0, Y=0.
//
// Text without visible characters yields the empty solid. Runes missing
// from the font fail with a *nameplate.MissingGlyphError.
func BuildText(text string, spec nameplate.TextLayoutSpec, p Provider) (*nameplate.Solid, error) {
	if err := spec.Validate("text"); err != nil {
		return nil, err
	}
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return nameplate.EmptySolid(), nil
	}
	var parts []*nameplate.Solid
	var cursor float64
	for _, r := range text {
		o, err := p.Outline(r, spec.Font)
		if err != nil {
			return nil, fmt.Errorf("text %q: %w", text, err)
		}
		for _, shape := range o.Shapes() {
			s, err := nameplate.Extrude(shape, 0, spec.Depth)
			if err != nil {
				return nil, fmt.Errorf("glyph %q: %w", r, err)
			}
			parts = append(parts, s.Transform(nameplate.Translate3D(r3.Vec{X: cursor})))
		}
		cursor += o.Advance * spec.Kerning
	}
	line := nameplate.Concat(parts...)
	if line.IsEmpty() {
		return line, nil
	}
	line = line.Transform(layout.Fit(line.Bounds(), spec.Height, spec.WidthScale, spec.MaxWidth))
	origin := line.Bounds().Min
	return line.Transform(nameplate.Translate3D(r3.Vec{X: -origin.X, Y: -origin.Y})), nil
}
