package snap

import (
	"math"

	"github.com/soypat/muscle/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = kdVertices{}
	_ kdtree.Bounder    = kdVertices{}
	_ kdtree.Comparable = kdVertex{}
)

type vertexTree struct {
	tree *kdtree.Tree
}

func newVertexTree(points []r3.Vec) vertexTree {
	verts := make(kdVertices, len(points))
	for i, p := range points {
		verts[i] = kdVertex{Vec: p, idx: i}
	}
	return vertexTree{tree: kdtree.New(verts, true)}
}

// closest returns the index of the vertex nearest to q, preferring the
// lowest index among equally distant vertices.
func (t vertexTree) closest(q r3.Vec) int {
	query := kdVertex{Vec: q, idx: -1}
	got, dist2 := t.tree.Nearest(query)
	if got == nil || math.IsInf(dist2, 1) || math.IsNaN(dist2) {
		return -1
	}
	best := got.(kdVertex).idx
	// Widen the radius by one ulp so vertices lying exactly on a
	// splitting plane at the nearest distance are still visited.
	keeper := kdtree.NewDistKeeper(math.Nextafter(dist2, math.Inf(1)))
	t.tree.NearestSet(keeper, query)
	for _, c := range keeper.Heap {
		v, ok := c.Comparable.(kdVertex)
		if ok && c.Dist == dist2 && v.idx < best {
			best = v.idx
		}
	}
	return best
}

type kdVertices []kdVertex

type kdVertex struct {
	r3.Vec
	idx int
}

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: d, verts: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k kdVertices) Bounds() *kdtree.Bounding {
	vecs := make(d3.Set, len(k))
	for i, v := range k {
		vecs[i] = v.Vec
	}
	bb := vecs.Bounds()
	return &kdtree.Bounding{
		Min: kdVertex{Vec: bb.Min, idx: -1},
		Max: kdVertex{Vec: bb.Max, idx: -1},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a.Vec, b.(kdVertex).Vec, d)
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Vec, b.(kdVertex).Vec))
}

func kdComp(a, b r3.Vec, dim kdtree.Dim) float64 {
	switch dim {
	case 0:
		return a.X - b.X
	case 1:
		return a.Y - b.Y
	}
	return a.Z - b.Z
}

type kdPlane struct {
	dim   kdtree.Dim
	verts kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.verts[i].Vec, p.verts[j].Vec, p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.verts[i], p.verts[j] = p.verts[j], p.verts[i]
}

func (p kdPlane) Len() int { return len(p.verts) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.verts = p.verts[start:end]
	return p
}
