package tag

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/glyph"
	"github.com/soypat/nameplate/layout"
	"github.com/soypat/nameplate/material"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Serial numbers drawn at random lie in [SerialMin, SerialMax).
const (
	SerialMin = 10000
	SerialMax = 99999
)

// Tag is a built nameplate.
type Tag struct {
	// Solid is the plate combined with its text.
	Solid *nameplate.Solid
	// Plate is the beveled plate before any text was applied.
	Plate *nameplate.Solid
	// Serial is the serial number on the tag, without prefix.
	Serial string
	// Regions are the placed text lines, serial first. Lines without
	// visible characters are omitted. Bounds do not include shrink
	// compensation.
	Regions []Region
	// Materials of the plate and of the text, in that order.
	Materials []material.Material
}

// Region is the placement of one text line.
type Region struct {
	Name   string
	Text   string
	Style  nameplate.TextStyle
	Bounds r3.Box
}

// Builder builds tags. Its methods are safe for concurrent use as long as
// Provider is.
type Builder struct {
	Provider glyph.Provider
	// Rand draws serial numbers. Defaults to a source seeded from the clock.
	Rand *rand.Rand
	// Logger receives stage timings at debug level. Defaults to no logging.
	Logger *zap.Logger

	mu sync.Mutex
}

// RandomSerial returns a serial number drawn uniformly from [SerialMin, SerialMax).
func RandomSerial(rng *rand.Rand) string {
	return strconv.Itoa(SerialMin + rng.Intn(SerialMax-SerialMin))
}

func (b *Builder) nextSerial() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Rand == nil {
		b.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return RandomSerial(b.Rand)
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Build validates spec and builds its tag.
func (b *Builder) Build(spec Spec) (*Tag, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	serial := spec.Serial
	if serial == "" {
		serial = b.nextSerial()
	}
	return b.build(spec, serial)
}

// BuildBatch builds one tag per serial using up to workers goroutines.
// Empty serials are replaced by random ones distinct from every other
// serial of the batch, drawn in order before any build starts. Tags are returned in the order of serials. All failures are
// joined in the returned error.
func (b *Builder) BuildBatch(spec Spec, serials []string, workers int) ([]*Tag, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	resolved := make([]string, len(serials))
	used := make(map[string]bool, len(serials))
	for _, s := range serials {
		used[s] = true
	}
	for i, s := range serials {
		for s == "" || (serials[i] == "" && used[s] && len(used) <= SerialMax-SerialMin) {
			s = b.nextSerial()
		}
		used[s] = true
		resolved[i] = s
	}
	tags := make([]*Tag, len(serials))
	errs := make([]error, len(serials))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tags[i], errs[i] = b.build(spec, resolved[i])
				if errs[i] != nil {
					errs[i] = fmt.Errorf("serial %s: %w", resolved[i], errs[i])
				}
			}
		}()
	}
	for i := range resolved {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return tags, errors.Join(errs...)
}

// Plate returns the beveled plate of spec. The plate is pre-inflated by
// the bevel offset so its outer size is exactly Length by Width.
func Plate(spec Spec) (*nameplate.Solid, error) {
	length, width := spec.Length, spec.Width
	if spec.BevelSegments > 0 {
		length += 2 * spec.BevelOffset
		width += 2 * spec.BevelOffset
	}
	slab, err := nameplate.MakeSlab(length, width, spec.Depth)
	if err != nil {
		return nil, err
	}
	return nameplate.Bevel(slab, spec.BevelOffset, spec.BevelSegments)
}

type line struct {
	name  string
	text  string
	spec  nameplate.TextLayoutSpec
	solid *nameplate.Solid
}

func (b *Builder) build(spec Spec, serial string) (*Tag, error) {
	log := b.logger().With(zap.String("serial", serial))
	start := time.Now()
	plate, err := Plate(spec)
	if err != nil {
		return nil, err
	}
	log.Debug("plate built", zap.Int("faces", plate.NumFaces()), zap.Duration("elapsed", time.Since(start)))

	all := []line{
		{name: "serial", text: spec.SerialPrefix + serial, spec: spec.SerialLayout},
		{name: "name", text: spec.OrgText, spec: spec.NameLayout},
	}
	var lines []line
	for _, l := range all {
		if strings.TrimSpace(l.text) == "" {
			log.Debug("empty text line skipped", zap.String("line", l.name))
			continue
		}
		t := time.Now()
		l.solid, err = glyph.BuildText(l.text, l.spec, b.Provider)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", l.name, err)
		}
		if l.solid.IsEmpty() {
			log.Debug("empty text line skipped", zap.String("line", l.name))
			continue
		}
		log.Debug("text built", zap.String("line", l.name), zap.Int("faces", l.solid.NumFaces()), zap.Duration("elapsed", time.Since(t)))
		lines = append(lines, l)
	}

	pb := plate.Bounds()
	boxes := make([]r3.Box, len(lines))
	for i := range lines {
		lines[i].solid = lines[i].solid.Transform(layout.Center(lines[i].solid, pb, lines[i].spec.Anchor))
		boxes[i] = lines[i].solid.Bounds()
	}
	for i, t := range layout.Stack(boxes, spec.LineGap, layout.AxisY) {
		lines[i].solid = lines[i].solid.Transform(t)
		boxes[i] = lines[i].solid.Bounds()
	}
	group := layout.CenterAlong(layout.Group(boxes...), pb, layout.AxisY)

	solid := plate
	regions := make([]Region, 0, len(lines))
	for _, l := range lines {
		text := l.solid.Transform(group)
		t := time.Now()
		switch l.spec.Style {
		case nameplate.Raised:
			text = text.Transform(nameplate.Translate3D(r3.Vec{Z: pb.Max.Z - text.Bounds().Min.Z}))
			solid, err = nameplate.Union(solid, text)
		default:
			solid, err = nameplate.Difference(solid, text)
		}
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", l.name, err)
		}
		log.Debug("text applied", zap.String("line", l.name), zap.String("style", string(l.spec.Style)),
			zap.Int("faces", solid.NumFaces()), zap.Duration("elapsed", time.Since(t)))
		regions = append(regions, Region{Name: l.name, Text: glyph.Normalize(l.text), Style: l.spec.Style, Bounds: text.Bounds()})
	}
	if spec.Shrink != "" {
		m, _ := material.Shrinkage(spec.Shrink)
		solid = m.Scale(solid)
	}
	log.Info("tag built", zap.Int("faces", solid.NumFaces()), zap.Duration("elapsed", time.Since(start)))
	return &Tag{
		Solid:     solid,
		Plate:     plate,
		Serial:    serial,
		Regions:   regions,
		Materials: []material.Material{spec.PlateMaterial, spec.TextMaterial},
	}, nil
}
