package snap_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/muscle/snap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestClosestPoint(t *testing.T) {
	for _, test := range []struct {
		points []r3.Vec
		q      r3.Vec
		want   int
	}{
		{points: []r3.Vec{{}, {X: 2}, {X: 1}}, q: r3.Vec{X: 1.1}, want: 2},
		{points: []r3.Vec{{X: 1}, {X: -1}}, q: r3.Vec{}, want: 0},
		{points: []r3.Vec{{Y: 5}}, q: r3.Vec{Z: -100}, want: 0},
		{points: nil, q: r3.Vec{}, want: -1},
		{points: []r3.Vec{{X: math.NaN()}, {Y: math.NaN()}}, q: r3.Vec{}, want: -1},
		{points: []r3.Vec{{X: math.NaN()}, {Y: 3}}, q: r3.Vec{}, want: 1},
		{points: []r3.Vec{{X: 1}}, q: r3.Vec{Z: math.Inf(1)}, want: -1},
	} {
		if got := snap.ClosestPoint(test.points, test.q); got != test.want {
			t.Errorf("ClosestPoint(%v, %v): got %d, want %d", test.points, test.q, got, test.want)
		}
	}
}

func TestBindLaterDriverWins(t *testing.T) {
	d := snap.New(nil)
	points := []r3.Vec{{}, {X: 10}, {X: 20}}
	// Both of the first two drivers are closest to point 0.
	driver := []r3.Vec{{X: 0.1}, {X: -0.1}, {X: 19}}
	if err := d.Bind(points, nil, driver); err != nil {
		t.Fatal(err)
	}
	want := []int{1, -1, 2}
	for i := range want {
		if d.Map[i] != want[i] {
			t.Fatalf("map: got %v, want %v", d.Map, want)
		}
	}
	if d.State != snap.Bound {
		t.Errorf("state: got %v, want bound", d.State)
	}
	if d.Mapped() != 2 {
		t.Errorf("mapped: got %d, want 2", d.Mapped())
	}
}

func TestDeformWeights(t *testing.T) {
	d := snap.New(nil)
	points := []r3.Vec{{}, {X: 10}, {X: 20}}
	driver := []r3.Vec{{Y: 1}, {X: 10, Y: 2}}
	weights := []float64{1, 0.5, 1}
	if err := d.Deform(points, weights, nil, driver); err != nil {
		t.Fatal(err)
	}
	want := []r3.Vec{{Y: 1}, {X: 10, Y: 1}, {X: 20}}
	for i := range want {
		if r3.Norm(r3.Sub(points[i], want[i])) > 1e-12 {
			t.Errorf("point %d: got %v, want %v", i, points[i], want[i])
		}
	}
	// Bound state keeps the mapping; a zero envelope leaves points untouched.
	d.Envelope = 0
	before := append([]r3.Vec(nil), points...)
	if err := d.Deform(points, nil, nil, []r3.Vec{{Z: 5}, {Z: 5}}); err != nil {
		t.Fatal(err)
	}
	for i := range points {
		if points[i] != before[i] {
			t.Errorf("zero envelope moved point %d", i)
		}
	}
}

func TestDeformLocalToWorld(t *testing.T) {
	// Scale by 2 and translate by (1,0,0).
	l2w := []float64{
		2, 0, 0, 1,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	points := []r3.Vec{{}, {X: 1}}
	// World positions are (1,0,0) and (3,0,0).
	driver := []r3.Vec{{X: 3, Y: 4}}
	d := snap.New(nil)
	if err := d.Deform(points, nil, l2w, driver); err != nil {
		t.Fatal(err)
	}
	if d.Map[0] != -1 || d.Map[1] != 0 {
		t.Fatalf("map: got %v", d.Map)
	}
	want := r3.Vec{X: 1, Y: 2}
	if r3.Norm(r3.Sub(points[1], want)) > 1e-12 {
		t.Errorf("got %v, want %v", points[1], want)
	}
	if points[0] != (r3.Vec{}) {
		t.Errorf("unmapped point moved to %v", points[0])
	}
}

func TestDeformOff(t *testing.T) {
	var d snap.Deformer
	points := []r3.Vec{{X: 1}}
	if err := d.Deform(points, nil, nil, []r3.Vec{{}}); err != nil {
		t.Fatal(err)
	}
	if points[0] != (r3.Vec{X: 1}) || d.Map != nil {
		t.Error("off deformer modified state")
	}
}

func TestDeformErrors(t *testing.T) {
	d := snap.New(nil)
	points := []r3.Vec{{}, {X: 1}}
	if err := d.Deform(points, []float64{1}, nil, nil); !errors.Is(err, snap.ErrBadWeights) {
		t.Errorf("expected ErrBadWeights, got %v", err)
	}
	if err := d.Deform(points, nil, make([]float64, 16), nil); !errors.Is(err, snap.ErrSingularTransform) {
		t.Errorf("expected ErrSingularTransform, got %v", err)
	}
	if err := d.Deform(points, nil, nil, []r3.Vec{{}, {X: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := d.Deform(points[:1], nil, nil, []r3.Vec{{}}); !errors.Is(err, snap.ErrStaleBinding) {
		t.Errorf("expected ErrStaleBinding for point count, got %v", err)
	}
	if err := d.Deform(points, nil, nil, []r3.Vec{{}}); !errors.Is(err, snap.ErrStaleBinding) {
		t.Errorf("expected ErrStaleBinding for driver count, got %v", err)
	}
}

func TestKDTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	grid := func(n int) []r3.Vec {
		// Integer lattice points produce many equal distances.
		pts := make([]r3.Vec, n)
		for i := range pts {
			pts[i] = r3.Vec{X: float64(rng.Intn(6)), Y: float64(rng.Intn(6)), Z: float64(rng.Intn(6))}
		}
		return pts
	}
	points := grid(300)
	driver := grid(120)
	for i := range driver {
		driver[i] = r3.Add(driver[i], r3.Vec{X: 0.5 * float64(rng.Intn(2))})
	}
	brute := snap.New(nil)
	kd := snap.New(nil)
	kd.Search = snap.KDTree
	if err := brute.Bind(points, nil, driver); err != nil {
		t.Fatal(err)
	}
	if err := kd.Bind(points, nil, driver); err != nil {
		t.Fatal(err)
	}
	for i := range brute.Map {
		if brute.Map[i] != kd.Map[i] {
			t.Fatalf("point %d: brute force maps to %d, k-d tree to %d", i, brute.Map[i], kd.Map[i])
		}
	}
}

func TestBindLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := snap.New(zap.New(core))
	if err := d.Bind([]r3.Vec{{}, {X: 1}}, nil, []r3.Vec{{X: 1}}); err != nil {
		t.Fatal(err)
	}
	entries := logs.FilterMessage("snap binding rebuilt").All()
	if len(entries) != 1 {
		t.Fatalf("got %d binding log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["mapped"]; got != int64(1) {
		t.Errorf("mapped field: got %v, want 1", got)
	}
}
