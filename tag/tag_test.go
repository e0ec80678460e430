package tag_test

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/glyph"
	"github.com/soypat/nameplate/glyph/sfntfont"
	"github.com/soypat/nameplate/tag"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	providerOnce sync.Once
	provider     glyph.Provider
	providerErr  error
)

func newBuilder(t testing.TB, seed int64) *tag.Builder {
	t.Helper()
	providerOnce.Do(func() {
		var p *sfntfont.Provider
		p, providerErr = sfntfont.New()
		if providerErr == nil {
			provider = glyph.NewCache(p)
		}
	})
	if providerErr != nil {
		t.Fatal(providerErr)
	}
	return &tag.Builder{Provider: provider, Rand: rand.New(rand.NewSource(seed))}
}

func TestHRSH(t *testing.T) {
	spec := tag.HRSH()
	spec.Serial = "17756"
	tg, err := newBuilder(t, 1).Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := nameplate.NewSolid(tg.Solid.Mesh()); err != nil {
		t.Errorf("tag solid is not closed: %v", err)
	}
	size := r3.Sub(tg.Solid.Bounds().Max, tg.Solid.Bounds().Min)
	want := r3.Vec{X: 61.9125, Y: 14.2875, Z: 1.5875}
	if r3.Norm(r3.Sub(size, want)) > 1e-6 {
		t.Errorf("tag size %v, want %v", size, want)
	}
	if tg.Serial != "17756" {
		t.Errorf("serial %q", tg.Serial)
	}
	if len(tg.Regions) != 2 {
		t.Fatalf("got %d text regions, want 2", len(tg.Regions))
	}
	serial, name := tg.Regions[0], tg.Regions[1]
	if serial.Text != "0008-17756" || name.Text != "HUDSON RIVER PSYCHIATRIC CENTER" {
		t.Errorf("region texts %q and %q", serial.Text, name.Text)
	}
	if serial.Bounds.Max.Y >= name.Bounds.Min.Y {
		t.Errorf("serial line %v not below name line %v", serial.Bounds, name.Bounds)
	}
	if gap := name.Bounds.Min.Y - serial.Bounds.Max.Y; math.Abs(gap-2.7) > 1e-6 {
		t.Errorf("line gap %g, want 2.7", gap)
	}
	plate := tg.Plate.Bounds()
	for _, r := range tg.Regions {
		if math.Abs(r.Bounds.Max.Y-r.Bounds.Min.Y-3.175) > 1e-6 {
			t.Errorf("%s line height %g", r.Name, r.Bounds.Max.Y-r.Bounds.Min.Y)
		}
		if r.Bounds.Min.X < plate.Min.X || r.Bounds.Max.X > plate.Max.X ||
			r.Bounds.Min.Y < plate.Min.Y || r.Bounds.Max.Y > plate.Max.Y {
			t.Errorf("%s line %v outside plate %v", r.Name, r.Bounds, plate)
		}
		if math.Abs(r.Bounds.Max.Z-plate.Max.Z) > 1e-9 || math.Abs(r.Bounds.Min.Z-(plate.Max.Z-0.5)) > 1e-9 {
			t.Errorf("%s line not inset 0.5 into the plate: %v", r.Name, r.Bounds)
		}
	}
	// Lines are centered on the plate as a group.
	if mid := (serial.Bounds.Min.Y + name.Bounds.Max.Y) / 2; math.Abs(mid) > 1e-9 {
		t.Errorf("text group center at Y=%g", mid)
	}
	if tg.Solid.Volume() >= tg.Plate.Volume() {
		t.Errorf("inset text removed no material: %g >= %g", tg.Solid.Volume(), tg.Plate.Volume())
	}
	if len(tg.Materials) != 2 || tg.Materials[1].Name != "Black" {
		t.Errorf("materials %+v", tg.Materials)
	}
}

func TestRandomSerial(t *testing.T) {
	b := newBuilder(t, 42)
	spec := tag.HRSH()
	spec.OrgText = "HRPC"
	first, err := b.Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	for _, tg := range []*tag.Tag{first, second} {
		n, err := strconv.Atoi(tg.Serial)
		if err != nil || n < tag.SerialMin || n >= tag.SerialMax {
			t.Errorf("serial %q out of range", tg.Serial)
		}
	}
	if first.Serial == second.Serial {
		t.Errorf("two random serials are both %s", first.Serial)
	}
	if first.Solid.Equal(second.Solid, 0) {
		t.Error("different serials produced identical tags")
	}
	if !first.Plate.Equal(second.Plate, 0) {
		t.Error("plate geometry differs between builds")
	}
	// Same seed, same serials.
	again, err := newBuilder(t, 42).Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if again.Serial != first.Serial {
		t.Errorf("seeded builder drew %s, want %s", again.Serial, first.Serial)
	}
}

func TestRaisedText(t *testing.T) {
	spec := tag.HRSH()
	spec.Serial = "12345"
	spec.OrgText = "HRPC"
	spec.NameLayout.Style = nameplate.Raised
	tg, err := newBuilder(t, 1).Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := nameplate.NewSolid(tg.Solid.Mesh()); err != nil {
		t.Errorf("raised tag solid is not closed: %v", err)
	}
	bb := tg.Solid.Bounds()
	if want := spec.Depth + spec.NameLayout.Depth; math.Abs(bb.Max.Z-want) > 1e-9 {
		t.Errorf("raised text top at %g, want %g", bb.Max.Z, want)
	}
	name := tg.Regions[1]
	if math.Abs(name.Bounds.Min.Z-spec.Depth) > 1e-9 {
		t.Errorf("raised text bottom at %g, want plate top %g", name.Bounds.Min.Z, spec.Depth)
	}
	if math.Abs(bb.Max.X-bb.Min.X-spec.Length) > 1e-6 {
		t.Errorf("tag length %g", bb.Max.X-bb.Min.X)
	}
}

func TestEmptyOrgText(t *testing.T) {
	spec := tag.HRSH()
	spec.Serial = "12345"
	spec.OrgText = "  "
	tg, err := newBuilder(t, 1).Build(spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(tg.Regions) != 1 || tg.Regions[0].Name != "serial" {
		t.Fatalf("regions %+v", tg.Regions)
	}
	if c := (tg.Regions[0].Bounds.Min.Y + tg.Regions[0].Bounds.Max.Y) / 2; math.Abs(c) > 1e-9 {
		t.Errorf("single line not centered: %g", c)
	}
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*tag.Spec){
		"zero length":      func(s *tag.Spec) { s.Length = 0 },
		"negative width":   func(s *tag.Spec) { s.Width = -1 },
		"nan depth":        func(s *tag.Spec) { s.Depth = math.NaN() },
		"negative segment": func(s *tag.Spec) { s.BevelSegments = -1 },
		"huge bevel":       func(s *tag.Spec) { s.BevelOffset = 8 },
		"zero bevel":       func(s *tag.Spec) { s.BevelOffset = 0 },
		"negative gap":     func(s *tag.Spec) { s.LineGap = -1 },
		"deep inset":       func(s *tag.Spec) { s.NameLayout.Depth = s.Depth },
		"text too tall":    func(s *tag.Spec) { s.SerialLayout.Height = 10 },
		"zero kerning":     func(s *tag.Spec) { s.SerialLayout.Kerning = 0 },
		"unknown style":    func(s *tag.Spec) { s.NameLayout.Style = "engraved" },
		"unknown shrink":   func(s *tag.Spec) { s.Shrink = "balsa" },
	} {
		spec := tag.HRSH()
		mod(&spec)
		_, err := newBuilder(t, 1).Build(spec)
		var cfgErr *nameplate.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: got %v, want ConfigurationError", name, err)
		}
	}
	spec := tag.HRSH()
	spec.BevelSegments = 0
	spec.BevelOffset = 0
	if err := spec.Validate(); err != nil {
		t.Errorf("unbeveled tag rejected: %v", err)
	}
}

func TestMissingGlyph(t *testing.T) {
	spec := tag.HRSH()
	spec.Serial = "12345"
	spec.OrgText = "Hudson ☃"
	_, err := newBuilder(t, 1).Build(spec)
	var missing *nameplate.MissingGlyphError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingGlyphError", err)
	}
	if missing.Rune != '☃' {
		t.Errorf("missing rune %q", missing.Rune)
	}
}

func TestBuildBatch(t *testing.T) {
	spec := tag.HRSH()
	spec.OrgText = "HRPC"
	serials := []string{"11111", "", "22222", ""}
	tags, err := newBuilder(t, 7).BuildBatch(spec, serials, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != len(serials) {
		t.Fatalf("got %d tags", len(tags))
	}
	for i, tg := range tags {
		if serials[i] != "" && tg.Serial != serials[i] {
			t.Errorf("tag %d has serial %s, want %s", i, tg.Serial, serials[i])
		}
		if len(tg.Serial) != 5 {
			t.Errorf("tag %d serial %q", i, tg.Serial)
		}
	}
	single, err := newBuilder(t, 1).Build(func() tag.Spec { s := spec; s.Serial = "22222"; return s }())
	if err != nil {
		t.Fatal(err)
	}
	if !single.Solid.Equal(tags[2].Solid, 0) {
		t.Error("batch build differs from single build")
	}
}
