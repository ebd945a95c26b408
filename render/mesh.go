package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/muscle/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh whose faces share vertices.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Weld merges the vertices of model that fall in the same cell of a grid of
// spacing tol. If tol is 0 it is inferred from the shortest triangle side.
func Weld(model []Triangle3, tol float64) (*Mesh, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	minDist2 := math.MaxFloat64
	maxDist2 := -math.MaxFloat64
	for _, tri := range model {
		for j, vert := range tri.V {
			bb = bb.Include(vert)
			side2 := r3.Norm2(r3.Sub(tri.V[(j+1)%3], vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to weld mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}
	if tol <= 0 {
		return nil, errors.New("mesh has coincident vertices, set a positive tolerance")
	}
	maxDim := d3.Max(bb.Size())
	if maxDim/tol > math.MaxInt64/2 {
		return nil, errors.New("tolerance too small. overflowed int64")
	}
	m := &Mesh{Faces: make([][3]int, len(model))}
	cache := make(map[[3]int64]int)
	ri := 1 / tol
	for i, tri := range model {
		for j, vert := range tri.V {
			v := r3.Scale(ri, vert)
			key := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			idx, ok := cache[key]
			if !ok {
				idx = len(m.Vertices)
				cache[key] = idx
				m.Vertices = append(m.Vertices, vert)
			}
			m.Faces[i][j] = idx
		}
	}
	return m, nil
}

// Triangles returns the faces of the mesh as triangles.
func (m *Mesh) Triangles() []Triangle3 {
	out := make([]Triangle3, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = Triangle3{V: [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}}
	}
	return out
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() d3.Box {
	return d3.Set(m.Vertices).Bounds()
}

// Closed reports whether every edge of the mesh is shared by exactly two
// faces with opposite orientation.
func (m *Mesh) Closed() bool {
	edges := make(map[[2]int]int)
	for _, f := range m.Faces {
		for j := range f {
			edges[[2]int{f[j], f[(j+1)%3]}]++
		}
	}
	for e, n := range edges {
		if n != 1 || edges[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	return true
}

// Volume returns the signed volume enclosed by the mesh. It is only
// meaningful for closed meshes and is positive for outward facing normals.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

// Area returns the total surface area of the mesh.
func (m *Mesh) Area() float64 {
	var area float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		area += r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
	}
	return area / 2
}
