// Package glyph turns character outlines into extruded text solids.
package glyph

import (
	"math"
	"sync"

	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Outline is the flattened shape of one character at unit scale, where
// 1.0 is one em. Contours are closed polygon loops of any orientation.
// Holes are told apart from outer loops by how deeply they are nested.
type Outline struct {
	Contours [][]r2.Vec
	// Advance is the horizontal distance to the next character origin.
	Advance float64
}

// Provider looks up character outlines by font identifier. Implementations
// return a *nameplate.MissingGlyphError for runes the font lacks.
type Provider interface {
	Outline(r rune, font string) (Outline, error)
}

// Shapes groups the contours of o into shapes. Contours nested an even
// number of times are outer loops and odd ones are holes of the smallest
// loop enclosing them.
func (o Outline) Shapes() []nameplate.Shape {
	type contour struct {
		pts    d2.Set
		area   float64
		depth  int
		parent int
	}
	var cs []contour
	for _, c := range o.Contours {
		if len(c) < 3 {
			continue
		}
		pts := d2.Set(c)
		cs = append(cs, contour{pts: pts, area: math.Abs(pts.SignedArea()), parent: -1})
	}
	for i := range cs {
		for j := range cs {
			if i == j || cs[j].area <= cs[i].area || !cs[j].pts.ContainsPoint(cs[i].pts[0]) {
				continue
			}
			cs[i].depth++
		}
	}
	shapeOf := make(map[int]int)
	var shapes []nameplate.Shape
	for i, c := range cs {
		if c.depth%2 == 0 {
			shapeOf[i] = len(shapes)
			shapes = append(shapes, nameplate.Shape{Outer: c.pts})
		}
	}
	for _, c := range cs {
		if c.depth%2 == 0 {
			continue
		}
		parent := -1
		for j, p := range cs {
			if p.depth != c.depth-1 || p.area <= c.area || !p.pts.ContainsPoint(c.pts[0]) {
				continue
			}
			if parent < 0 || p.area < cs[parent].area {
				parent = j
			}
		}
		if parent >= 0 {
			s := &shapes[shapeOf[parent]]
			s.Holes = append(s.Holes, c.pts)
		}
	}
	return shapes
}

// Cache memoizes outlines of a Provider. It is safe for concurrent use.
// Returned outlines are shared and must not be modified.
type Cache struct {
	p  Provider
	mu sync.RWMutex
	m  map[cacheKey]Outline
}

type cacheKey struct {
	r    rune
	font string
}

// NewCache returns a Cache in front of p.
func NewCache(p Provider) *Cache {
	return &Cache{p: p, m: make(map[cacheKey]Outline)}
}

func (c *Cache) Outline(r rune, font string) (Outline, error) {
	key := cacheKey{r: r, font: font}
	c.mu.RLock()
	o, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		return o, nil
	}
	o, err := c.p.Outline(r, font)
	if err != nil {
		return Outline{}, err
	}
	c.mu.Lock()
	c.m[key] = o
	c.mu.Unlock()
	return o, nil
}
