package nameplate

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

// ConfigurationError is returned when a parameter is out of its valid range.
// Builds abort with this error before any geometry is created.
type ConfigurationError struct {
	Stage  string
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid %s=%g: %s", e.Stage, e.Param, e.Value, e.Reason)
}

// MissingGlyphError is returned when a font has no outline for a rune.
type MissingGlyphError struct {
	Rune rune
	Font string
}

func (e *MissingGlyphError) Error() string {
	return "missing glyph " + strconv.QuoteRune(e.Rune) + " in font " + strconv.Quote(e.Font)
}

// DegenerateGeometryError is returned when an operand is not a valid closed
// solid or a geometric operation could not complete. Stack is set when the
// error was recovered from a panic.
type DegenerateGeometryError struct {
	Stage  string
	Reason string
	Stack  string
}

func (e *DegenerateGeometryError) Error() string {
	return e.Stage + ": degenerate geometry: " + e.Reason
}

func configErr(stage, param string, value float64, reason string) error {
	return &ConfigurationError{Stage: stage, Param: param, Value: value, Reason: reason}
}

// recoverGeometry turns a panic raised during stage into a
// DegenerateGeometryError stored in err. Must be deferred.
func recoverGeometry(stage string, err *error) {
	if a := recover(); a != nil {
		*err = &DegenerateGeometryError{
			Stage:  stage,
			Reason: fmt.Sprintf("%v", a),
			Stack:  string(debug.Stack()),
		}
	}
}
