package render_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/nameplate"
	"github.com/soypat/nameplate/material"
	"github.com/soypat/nameplate/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// washer returns a 4x3x1 block with a square through hole.
func washer(t testing.TB) *nameplate.Solid {
	t.Helper()
	s, err := nameplate.Extrude(nameplate.Shape{
		Outer: []r2.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}},
		Holes: [][]r2.Vec{{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}}},
	}, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMeshRendererNormals(t *testing.T) {
	model, err := render.RenderAll(render.NewMeshRenderer(washer(t)))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("no triangles rendered")
	}
	// Area weighted normals of a closed surface cancel out.
	var sum r3.Vec
	for _, tri := range model {
		if tri.Degenerate(1e-12) {
			t.Fatalf("degenerate triangle %v", tri)
		}
		n := tri.Normal()
		if math.Abs(r3.Norm(n)-1) > 1e-9 {
			t.Fatalf("normal %v not unit length", n)
		}
		sum = r3.Add(sum, r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0])))
	}
	if r3.Norm(sum) > 1e-9 {
		t.Errorf("surface not closed, normal sum %v", sum)
	}
}

func TestSTLCreateWriteRead(t *testing.T) {
	s := washer(t)
	path := filepath.Join(t.TempDir(), "washer.stl")
	if err := render.CreateSTL(path, render.NewMeshRenderer(s)); err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewMeshRenderer(s))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
	if want := 84 + 50*len(model); len(bfile) != want {
		t.Errorf("file size %d, want %d", len(bfile), want)
	}

	output, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(model) {
		t.Fatalf("read %d triangles, wrote %d", len(output), len(model))
	}
	for i, want := range model {
		for j := range want {
			if r3.Norm(r3.Sub(output[i][j], want[j])) > 1e-6 {
				t.Errorf("triangle %d vertex %d: got %v, want %v", i, j, output[i][j], want[j])
			}
		}
	}
}

func TestSTLReadErrors(t *testing.T) {
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 40))); err == nil {
		t.Error("truncated header accepted")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 84))); err == nil {
		t.Error("zero triangle file accepted")
	}
	var b bytes.Buffer
	if err := render.WriteSTL(&b, []render.Triangle3{{{X: 0}, {X: 1}, {Y: 1}}}); err != nil {
		t.Fatal(err)
	}
	data := b.Bytes()
	if _, err := render.ReadSTL(bytes.NewReader(data[:len(data)-10])); err == nil {
		t.Error("truncated triangle accepted")
	}
	// Flip the stored normal to +X, which disagrees with the +Z winding.
	copy(data[84:96], []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0, 0, 0, 0, 0})
	tris, err := render.ReadSTL(bytes.NewReader(data))
	if !errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("got %v, want ErrNormalMismatch", err)
	}
	if len(tris) != 1 {
		t.Errorf("mismatched normals dropped triangles: %d", len(tris))
	}
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("empty model written")
	}
}

func TestSTLFauxgl(t *testing.T) {
	s := washer(t)
	path := filepath.Join(t.TempDir(), "washer.stl")
	if err := render.CreateSTL(path, render.NewMeshRenderer(s)); err != nil {
		t.Fatal(err)
	}
	mesh, err := fauxgl.LoadSTL(path)
	if err != nil {
		t.Fatal(err)
	}
	model, _ := render.RenderAll(render.NewMeshRenderer(s))
	if len(mesh.Triangles) != len(model) {
		t.Errorf("fauxgl read %d triangles, want %d", len(mesh.Triangles), len(model))
	}
	box := mesh.BoundingBox()
	bb := s.Bounds()
	got := r3.Box{Min: r3.Vec{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z}, Max: r3.Vec{X: box.Max.X, Y: box.Max.Y, Z: box.Max.Z}}
	if r3.Norm(r3.Sub(got.Min, bb.Min)) > 1e-6 || r3.Norm(r3.Sub(got.Max, bb.Max)) > 1e-6 {
		t.Errorf("fauxgl bounds %v, want %v", got, bb)
	}
}

func TestSTLSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := render.STLSink{Dir: dir}
	s := washer(t)
	err := sink.Place("tag-inch", s, render.Inches, []material.Material{material.Black, material.Metal})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(sink.Path("tag-inch"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("COLOR=\x00\x00\x00\xff MATERIAL=Black")) {
		t.Errorf("header %q", data[:32])
	}
	tris, err := render.ReadSTL(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	var maxX float64
	for _, tri := range tris {
		for _, v := range tri {
			maxX = math.Max(maxX, v.X)
		}
	}
	if math.Abs(maxX-4*25.4) > 1e-4 {
		t.Errorf("inch solid not converted to millimeters: max X %g", maxX)
	}

	for name, s := range map[string]*nameplate.Solid{
		"":       s,
		"a/b":    s,
		"hollow": nameplate.EmptySolid(),
	} {
		if err := sink.Place(name, s, render.Millimeters, nil); err == nil {
			t.Errorf("placing %q succeeded", name)
		}
	}
	if err := sink.Place("units", s, render.Units(7), nil); err == nil {
		t.Error("unknown units accepted")
	}
}
