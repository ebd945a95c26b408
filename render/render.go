// Package render tessellates NURBS surfaces into triangles and reads and
// writes triangle meshes.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle with counter clockwise winding.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle. Degenerate triangles
// return the zero vector.
func (t Triangle3) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, n)
}

// Degenerate returns true if two vertices of the triangle are within tol
// of each other or the vertices are collinear.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t.V[0], t.V[1])) <= tol ||
		r3.Norm(r3.Sub(t.V[1], t.V[2])) <= tol ||
		r3.Norm(r3.Sub(t.V[2], t.V[0])) <= tol ||
		r3.Norm(r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))) <= tol*tol
}

// Centroid returns the mean of the triangle vertices.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(r3.Add(t.V[0], t.V[1]), t.V[2]))
}

// Renderer streams triangles. ReadTriangles fills t and returns the number
// of triangles written. It returns io.EOF once no triangles remain.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}
