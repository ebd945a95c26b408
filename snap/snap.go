// Package snap implements a vertex snapping deformer. A deformed point set is
// bound to a driver point set by nearest-vertex search and, once bound, each
// mapped point is pulled toward its driver vertex by its weight.
package snap

import (
	"errors"
	"fmt"

	"github.com/soypat/muscle/internal/d3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the binding state of a Deformer.
type State int

const (
	// Off leaves points untouched.
	Off State = iota
	// Rebind recomputes the vertex mapping on the next Deform call.
	Rebind
	// Bound deforms points using the stored mapping.
	Bound
)

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case Rebind:
		return "rebind"
	case Bound:
		return "bound"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Search selects the nearest-vertex search used when binding.
type Search int

const (
	// BruteForce scans every deformed point for each driver vertex.
	BruteForce Search = iota
	// KDTree indexes the deformed points in a k-d tree. Ties are broken
	// toward the lowest index, matching BruteForce.
	KDTree
)

var (
	// ErrStaleBinding is returned when the stored mapping does not fit the
	// point or driver counts of a Deform call.
	ErrStaleBinding = errors.New("snap: binding does not match geometry, rebind required")
	// ErrSingularTransform is returned when the local to world matrix
	// cannot be inverted.
	ErrSingularTransform = errors.New("snap: local to world transform is singular")
	// ErrBadWeights is returned when the weight count differs from the point count.
	ErrBadWeights = errors.New("snap: weight count does not match point count")
)

// Deformer snaps points onto the vertices of a driver point set.
// The zero value is Off with a zero envelope; use New for usable defaults.
// A Deformer is not safe for concurrent use.
type Deformer struct {
	State    State
	Envelope float64
	Search   Search
	// Map holds, for each deformed point, the index of its driver vertex or -1.
	Map    []int
	Logger *zap.Logger
}

// New returns a Deformer in the Rebind state with an envelope of 1.
func New(logger *zap.Logger) *Deformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deformer{State: Rebind, Envelope: 1, Logger: logger}
}

// ClosestPoint returns the index of the point closest to q. The first of
// equally distant points wins. It returns -1, not 0, when points is empty or
// no distance is finite, so a missing match is never read as the first point.
func ClosestPoint(points []r3.Vec, q r3.Vec) int {
	idx := -1
	best := 9e99
	for i, p := range points {
		if d := r3.Norm(r3.Sub(p, q)); d < best {
			best = d
			idx = i
		}
	}
	return idx
}

// Deform moves points in place. localToWorld is the 16 element row-major
// matrix placing points in world space, nil meaning identity. driver holds
// world space driver vertices. weights scales the pull per point and may be
// nil for a weight of 1 everywhere.
//
// In the Rebind state the mapping is rebuilt first and the state becomes
// Bound. Off returns immediately.
func (d *Deformer) Deform(points []r3.Vec, weights []float64, localToWorld []float64, driver []r3.Vec) error {
	if d.State == Off {
		return nil
	}
	if weights != nil && len(weights) != len(points) {
		return fmt.Errorf("%w: %d weights for %d points", ErrBadWeights, len(weights), len(points))
	}
	if localToWorld != nil && len(localToWorld) != 16 {
		return fmt.Errorf("snap: local to world matrix has %d elements, want 16", len(localToWorld))
	}
	l2w := d3.NewTransform(localToWorld)
	w2l, ok := l2w.Inv()
	if !ok {
		return ErrSingularTransform
	}
	if d.State == Rebind {
		d.bind(points, l2w, driver)
	}
	if d.State != Bound {
		return fmt.Errorf("snap: unknown state %v", d.State)
	}
	if len(d.Map) != len(points) {
		return fmt.Errorf("%w: mapping for %d points, got %d", ErrStaleBinding, len(d.Map), len(points))
	}
	for i, p := range points {
		ww := d.Envelope
		if weights != nil {
			ww *= weights[i]
		}
		m := d.Map[i]
		if ww == 0 || m < 0 {
			continue
		}
		if m >= len(driver) {
			return fmt.Errorf("%w: point %d maps to driver vertex %d of %d", ErrStaleBinding, i, m, len(driver))
		}
		world := l2w.Transform(p)
		world = r3.Add(world, r3.Scale(ww, r3.Sub(driver[m], world)))
		points[i] = w2l.Transform(world)
	}
	return nil
}

// Bind rebuilds the mapping from points to driver vertices and sets the
// state to Bound. Every point starts unmapped; for each driver vertex in
// order its closest point is mapped to it, so later driver vertices
// overwrite earlier ones.
func (d *Deformer) Bind(points []r3.Vec, localToWorld []float64, driver []r3.Vec) error {
	if localToWorld != nil && len(localToWorld) != 16 {
		return fmt.Errorf("snap: local to world matrix has %d elements, want 16", len(localToWorld))
	}
	d.bind(points, d3.NewTransform(localToWorld), driver)
	return nil
}

func (d *Deformer) bind(points []r3.Vec, l2w d3.Transform, driver []r3.Vec) {
	world := make([]r3.Vec, len(points))
	for i, p := range points {
		world[i] = l2w.Transform(p)
	}
	d.Map = make([]int, len(points))
	for i := range d.Map {
		d.Map[i] = -1
	}
	closest := func(q r3.Vec) int { return ClosestPoint(world, q) }
	if d.Search == KDTree && len(world) > 0 {
		closest = newVertexTree(world).closest
	}
	for i, q := range driver {
		if c := closest(q); c >= 0 {
			d.Map[c] = i
		}
	}
	d.State = Bound
	d.logger().Debug("snap binding rebuilt",
		zap.Int("points", len(points)),
		zap.Int("drivers", len(driver)),
		zap.Int("mapped", d.Mapped()),
		zap.Stringer("search", d.Search),
	)
}

// Mapped returns the number of points with a driver vertex.
func (d *Deformer) Mapped() int {
	n := 0
	for _, m := range d.Map {
		if m >= 0 {
			n++
		}
	}
	return n
}

func (s Search) String() string {
	switch s {
	case BruteForce:
		return "bruteforce"
	case KDTree:
		return "kdtree"
	}
	return fmt.Sprintf("Search(%d)", int(s))
}

func (d *Deformer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
