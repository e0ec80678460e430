package nameplate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// TextStyle selects how a text solid combines with the plate.
type TextStyle string

const (
	// Inset carves the text into the plate.
	Inset TextStyle = "inset"
	// Raised fuses the text on top of the plate.
	Raised TextStyle = "raised"
)

// AnchorMode selects how a text is positioned horizontally on the plate.
type AnchorMode string

const (
	AnchorCentered AnchorMode = "centered"
	AnchorLeft     AnchorMode = "left"
	AnchorOffset   AnchorMode = "offset"
)

// Anchor positions a text relative to a reference box. Offset is added to
// the anchored position.
type Anchor struct {
	Mode   AnchorMode `yaml:"mode"`
	Offset r2.Vec     `yaml:"offset"`
}

// TextLayoutSpec holds the physical parameters of one line of text.
// Lengths are in millimeters.
type TextLayoutSpec struct {
	// Height is the height of the text bounding box.
	Height float64 `yaml:"height"`
	// Depth is the extrusion depth of the glyphs.
	Depth float64 `yaml:"depth"`
	// Kerning multiplies every glyph advance.
	Kerning float64 `yaml:"kerning"`
	// WidthScale stretches the text horizontally. Zero keeps glyph proportions.
	WidthScale float64 `yaml:"width_scale"`
	// MaxWidth compresses the text horizontally so it is never wider. Zero
	// means unlimited.
	MaxWidth float64 `yaml:"max_width"`

	Anchor Anchor    `yaml:"anchor"`
	Style  TextStyle `yaml:"style"`
	Font   string    `yaml:"font"`
}

// Validate returns a ConfigurationError for the first parameter out of range.
// stage names the text in the error.
func (spec TextLayoutSpec) Validate(stage string) error {
	if err := positive(stage, "height", spec.Height); err != nil {
		return err
	}
	if err := positive(stage, "depth", spec.Depth); err != nil {
		return err
	}
	if err := positive(stage, "kerning", spec.Kerning); err != nil {
		return err
	}
	for _, p := range [...]struct {
		name string
		v    float64
	}{{"width_scale", spec.WidthScale}, {"max_width", spec.MaxWidth}, {"anchor.offset.x", spec.Anchor.Offset.X}, {"anchor.offset.y", spec.Anchor.Offset.Y}} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return configErr(stage, p.name, p.v, "must be finite")
		}
	}
	if spec.WidthScale < 0 {
		return configErr(stage, "width_scale", spec.WidthScale, "must not be negative")
	}
	if spec.MaxWidth < 0 {
		return configErr(stage, "max_width", spec.MaxWidth, "must not be negative")
	}
	switch spec.Anchor.Mode {
	case "", AnchorCentered, AnchorLeft, AnchorOffset:
	default:
		return configErr(stage, "anchor.mode", 0, "unknown mode "+string(spec.Anchor.Mode))
	}
	switch spec.Style {
	case Inset, Raised:
	default:
		return configErr(stage, "style", 0, "unknown style "+string(spec.Style))
	}
	return nil
}
