// Package sfntfont provides glyph outlines from TrueType and OpenType fonts.
package sfntfont

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/glyph"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/gonum/spatial/r2"
	geompath "seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/sfnt"
	sfntglyph "seehuhn.de/go/sfnt/glyph"
)

// Built-in font identifiers.
const (
	GoRegular = "goregular"
	GoBold    = "gobold"
)

// DefaultFlatness is the maximum distance in em between a curve and the
// segments approximating it.
const DefaultFlatness = 1.0 / 1024

var _ glyph.Provider = (*Provider)(nil)

// Provider serves outlines from registered fonts. It is safe for
// concurrent use.
type Provider struct {
	// Flatness overrides DefaultFlatness when positive. It must not be
	// changed once the Provider is in use.
	Flatness float64

	mu    sync.RWMutex
	fonts map[string]*face
}

type face struct {
	font   *sfnt.Font
	lookup interface{ Lookup(rune) sfntglyph.ID }
	upem   float64
}

// New returns a Provider with the Go fonts registered as GoRegular and GoBold.
func New() (*Provider, error) {
	p := &Provider{}
	for id, data := range map[string][]byte{
		GoRegular: goregular.TTF,
		GoBold:    gobold.TTF,
	} {
		if err := p.Register(id, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("font %s: %w", id, err)
		}
	}
	return p, nil
}

// Register parses the font read from r and makes it available as id,
// replacing any font previously registered under id.
func (p *Provider) Register(id string, r io.Reader) error {
	f, err := sfnt.Read(r)
	if err != nil {
		return err
	}
	if f.Outlines == nil {
		return errors.New("font has no outlines")
	}
	sub, err := f.CMapTable.GetBest()
	if err != nil {
		return fmt.Errorf("cmap: %w", err)
	}
	if f.UnitsPerEm == 0 {
		return errors.New("font has zero units per em")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fonts == nil {
		p.fonts = make(map[string]*face)
	}
	p.fonts[id] = &face{font: f, lookup: sub, upem: float64(f.UnitsPerEm)}
	return nil
}

// RegisterFile registers the font file at path as id.
func (p *Provider) RegisterFile(id, path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := p.Register(id, fp); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Outline returns the flattened outline of r in em units.
func (p *Provider) Outline(r rune, font string) (glyph.Outline, error) {
	p.mu.RLock()
	f, ok := p.fonts[font]
	p.mu.RUnlock()
	if !ok {
		return glyph.Outline{}, fmt.Errorf("font %q not registered", font)
	}
	gid := f.lookup.Lookup(r)
	if gid == 0 {
		return glyph.Outline{}, &nameplate.MissingGlyphError{Rune: r, Font: font}
	}
	flatness := p.Flatness
	if flatness <= 0 {
		flatness = DefaultFlatness
	}
	scale := 1 / f.upem
	var (
		contours [][]r2.Vec
		cur      []r2.Vec
		last     vec.Vec2
	)
	emit := func(v vec.Vec2) {
		cur = append(cur, r2.Vec{X: v.X * scale, Y: v.Y * scale})
		last = v
	}
	closeContour := func() {
		if len(cur) >= 3 {
			contours = append(contours, cur)
		}
		cur = nil
	}
	// Flatness is given in em, curves are in font units.
	tol := flatness * f.upem
	for cmd, pts := range f.font.Outlines.Path(gid) {
		switch cmd {
		case geompath.CmdMoveTo:
			closeContour()
			emit(pts[0])
		case geompath.CmdLineTo:
			emit(pts[0])
		case geompath.CmdQuadTo:
			flattenQuadratic(last, pts[0], pts[1], tol, emit)
		case geompath.CmdCubeTo:
			flattenCubic(last, pts[0], pts[1], pts[2], tol, emit)
		case geompath.CmdClose:
			closeContour()
		}
	}
	closeContour()
	return glyph.Outline{
		Contours: contours,
		Advance:  float64(f.font.GlyphWidth(gid)) * scale,
	}, nil
}

// flattenQuadratic calls emit with the points of a polyline approximating
// the quadratic Bézier from p0 to p2, p0 excluded.
func flattenQuadratic(p0, p1, p2 vec.Vec2, flatness float64, emit func(vec.Vec2)) {
	// error vector: e = (P0 - 2*P1 + P2) / 4
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	n := 1
	if l := e.Length(); l > flatness {
		n = int(math.Ceil(math.Sqrt(l / flatness)))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		emit(p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic calls emit with the points of a polyline approximating
// the cubic Bézier from p0 to p3, p0 excluded.
func flattenCubic(p0, p1, p2, p3 vec.Vec2, flatness float64, emit func(vec.Vec2)) {
	d1 := p0.Sub(p1.Mul(2)).Add(p2)
	d2 := p1.Sub(p2.Mul(2)).Add(p3)
	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		// Wang's formula
		if nf := math.Sqrt(3 * m / (4 * flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		emit(p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t)))
	}
}
