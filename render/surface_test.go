package render_test

import (
	"math"
	"testing"

	"github.com/soypat/muscle/nurbs"
	"github.com/soypat/muscle/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSurfaceRendererCount(t *testing.T) {
	for _, test := range []struct {
		divsU, divsV int
		caps         bool
		want         int
	}{
		{divsU: 4, divsV: 8, caps: false, want: 4 * 8 * 2},
		{divsU: 4, divsV: 8, caps: true, want: 4*8*2 + 2*8},
		{divsU: 1, divsV: 3, caps: true, want: 1*3*2 + 2*3},
	} {
		r, err := render.NewSurfaceRenderer(tube(t), test.divsU, test.divsV, test.caps)
		if err != nil {
			t.Fatal(err)
		}
		model, err := render.RenderAll(r)
		if err != nil {
			t.Fatal(err)
		}
		if len(model) != test.want {
			t.Errorf("%dx%d caps=%v: got %d triangles, want %d", test.divsU, test.divsV, test.caps, len(model), test.want)
		}
	}
}

func TestSurfaceRendererClosed(t *testing.T) {
	r, _ := render.NewSurfaceRenderer(tube(t), 10, 16, true)
	model, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	m, err := render.Weld(model, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Closed() {
		t.Error("capped tube should be closed")
	}
	// 11 rings of 16 vertices plus two cap centers.
	if len(m.Vertices) != 11*16+2 {
		t.Errorf("got %d welded vertices, want %d", len(m.Vertices), 11*16+2)
	}
	open, _ := render.NewSurfaceRenderer(tube(t), 10, 16, false)
	model, _ = render.RenderAll(open)
	m, _ = render.Weld(model, 0)
	if m.Closed() {
		t.Error("uncapped tube should not be closed")
	}
}

func TestSurfaceRendererPlane(t *testing.T) {
	plane := nurbs.NewPlane(r3.Vec{}, r3.Vec{X: 2}, r3.Vec{Y: 1})
	r, err := render.NewSurfaceRenderer(plane, 2, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	// Caps are ignored on open surfaces.
	if len(model) != 8 {
		t.Fatalf("got %d triangles, want 8", len(model))
	}
	var area float64
	for _, tri := range model {
		n := r3.Cross(r3.Sub(tri.V[1], tri.V[0]), r3.Sub(tri.V[2], tri.V[0]))
		area += r3.Norm(n) / 2
		if tri.Normal() != (r3.Vec{Z: 1}) {
			t.Errorf("plane triangle normal %v", tri.Normal())
		}
	}
	if math.Abs(area-2) > 1e-12 {
		t.Errorf("area: got %v, want 2", area)
	}
	grid := r.Grid()
	if len(grid) != 3 || len(grid[0]) != 3 {
		t.Errorf("grid: got %dx%d, want 3x3", len(grid), len(grid[0]))
	}
}

func TestSurfaceRendererInvalid(t *testing.T) {
	if _, err := render.NewSurfaceRenderer(nil, 2, 2, false); err == nil {
		t.Error("expected error for nil surface")
	}
	if _, err := render.NewSurfaceRenderer(tube(t), 0, 8, false); err == nil {
		t.Error("expected error for zero divisions")
	}
	if _, err := render.NewSurfaceRenderer(tube(t), 2, 2, false); err == nil {
		t.Error("expected error for periodic direction with 2 divisions")
	}
}

func TestMeshVolume(t *testing.T) {
	// A single division along the straight tube gives a prism.
	r, _ := render.NewSurfaceRenderer(tube(t), 1, 64, true)
	model, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	m, err := render.Weld(model, 0)
	if err != nil {
		t.Fatal(err)
	}
	grid := r.Grid()
	ring := grid[0]
	var polyArea float64
	for j := range ring {
		a, b := ring[j], ring[(j+1)%len(ring)]
		polyArea += a.X*b.Y - b.X*a.Y
	}
	polyArea /= 2
	want := math.Abs(polyArea) * 3
	if got := math.Abs(m.Volume()); math.Abs(got-want) > 1e-9*want {
		t.Errorf("volume: got %v, want %v", got, want)
	}
	if m.Area() <= 2*math.Abs(polyArea) {
		t.Errorf("area %v should exceed the two caps %v", m.Area(), 2*math.Abs(polyArea))
	}
}

func BenchmarkSurfaceRenderer(b *testing.B) {
	surf := tube(b)
	for i := 0; i < b.N; i++ {
		r, _ := render.NewSurfaceRenderer(surf, 64, 64, true)
		if _, err := render.RenderAll(r); err != nil {
			b.Fatal(err)
		}
	}
}
