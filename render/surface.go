package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/soypat/muscle/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ Renderer = (*SurfaceRenderer)(nil)

// degenerateTol discards triangles that collapse to a segment or a point,
// such as those on a section of zero height.
const degenerateTol = 1e-12

// SurfaceRenderer tessellates a NURBS surface on a regular parameter grid.
type SurfaceRenderer struct {
	surf         *nurbs.Surface
	divsU, divsV int
	caps         bool
	tessellated  bool
	buf          triangle3Buffer
}

// NewSurfaceRenderer returns a Renderer for surf sampled at divsU by divsV
// cells. Periodic directions wrap without duplicating the seam. If caps is
// set and surf is periodic in v, both ends of the tube are closed with a
// triangle fan.
func NewSurfaceRenderer(surf *nurbs.Surface, divsU, divsV int, caps bool) (*SurfaceRenderer, error) {
	if surf == nil {
		return nil, errors.New("nil surface")
	}
	if divsU < 1 || divsV < 1 {
		return nil, fmt.Errorf("invalid tessellation divisions %dx%d", divsU, divsV)
	}
	_, formV := surf.Form()
	if divsV < 3 && formV == nurbs.Periodic {
		return nil, fmt.Errorf("periodic direction needs at least 3 divisions, got %d", divsV)
	}
	return &SurfaceRenderer{
		surf:  surf,
		divsU: divsU,
		divsV: divsV,
		caps:  caps && formV == nurbs.Periodic,
	}, nil
}

// ReadTriangles writes tessellated triangles into t.
func (r *SurfaceRenderer) ReadTriangles(t []Triangle3) (int, error) {
	if !r.tessellated {
		r.tessellate()
		r.tessellated = true
	}
	if r.buf.Len() == 0 {
		return 0, io.EOF
	}
	return r.buf.Read(t), nil
}

// Grid returns the sampled surface points indexed [u][v]. Periodic
// directions omit the seam sample.
func (r *SurfaceRenderer) Grid() [][]r3.Vec {
	formU, formV := r.surf.Form()
	ulo, uhi := r.surf.DomainU()
	vlo, vhi := r.surf.DomainV()
	nu, nv := samples(r.divsU, formU), samples(r.divsV, formV)
	grid := make([][]r3.Vec, nu)
	for i := range grid {
		u := ulo + (uhi-ulo)*float64(i)/float64(r.divsU)
		grid[i] = make([]r3.Vec, nv)
		for j := range grid[i] {
			v := vlo + (vhi-vlo)*float64(j)/float64(r.divsV)
			grid[i][j] = r.surf.Point(u, v)
		}
	}
	return grid
}

func samples(divs int, form nurbs.Form) int {
	if form == nurbs.Periodic {
		return divs
	}
	return divs + 1
}

func (r *SurfaceRenderer) tessellate() {
	formU, formV := r.surf.Form()
	grid := r.Grid()
	nu, nv := len(grid), len(grid[0])
	next := func(i, n int, form nurbs.Form) int {
		if form == nurbs.Periodic {
			return (i + 1) % n
		}
		return i + 1
	}
	for i := 0; i < r.divsU; i++ {
		i1 := next(i, nu, formU)
		for j := 0; j < r.divsV; j++ {
			j1 := next(j, nv, formV)
			r.add(Triangle3{V: [3]r3.Vec{grid[i][j], grid[i1][j], grid[i1][j1]}})
			r.add(Triangle3{V: [3]r3.Vec{grid[i][j], grid[i1][j1], grid[i][j1]}})
		}
	}
	if !r.caps {
		return
	}
	first, last := grid[0], grid[nu-1]
	c0, c1 := ringCenter(first), ringCenter(last)
	for j := range first {
		j1 := (j + 1) % nv
		r.add(Triangle3{V: [3]r3.Vec{c0, first[j], first[j1]}})
		r.add(Triangle3{V: [3]r3.Vec{c1, last[j1], last[j]}})
	}
}

func (r *SurfaceRenderer) add(t Triangle3) {
	if t.Degenerate(degenerateTol) {
		return
	}
	r.buf.Write(t)
}

func ringCenter(ring []r3.Vec) r3.Vec {
	var c r3.Vec
	for _, p := range ring {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(ring)), c)
}
