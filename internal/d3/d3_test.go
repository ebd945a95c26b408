package d3

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTransformInverse(t *testing.T) {
	tf := Basis(r3.Vec{X: 0, Y: 1, Z: 0}, r3.Vec{X: -2, Y: 0, Z: 0}, r3.Vec{X: 0, Y: 0, Z: 3}, r3.Vec{X: 1, Y: 2, Z: 3})
	inv, ok := tf.Inv()
	if !ok {
		t.Fatal("expected invertible transform")
	}
	if !inv.Mul(tf).Equals(Identity(), 1e-12) {
		t.Errorf("inverse times transform not identity: %v", inv.Mul(tf).SliceCopy())
	}
	p := r3.Vec{X: 0.3, Y: -4, Z: 7}
	got := inv.Transform(tf.Transform(p))
	if !EqualWithin(got, p, 1e-12) {
		t.Errorf("round trip got %v, want %v", got, p)
	}
	if _, ok := (Transform{}).Inv(); ok {
		t.Error("zero transform should not be invertible")
	}
}

func TestTransformMulOrder(t *testing.T) {
	scale := NewTransform([]float64{
		2, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	move := Identity().Translate(r3.Vec{X: 1})
	// scale first, then move.
	got := move.Mul(scale).Transform(r3.Vec{X: 1})
	if got != (r3.Vec{X: 3}) {
		t.Errorf("got %v, want {3 0 0}", got)
	}
}

func TestNormalize(t *testing.T) {
	u, l := Normalize(r3.Vec{X: 3, Y: 4})
	if l != 5 || u != (r3.Vec{X: 0.6, Y: 0.8}) {
		t.Errorf("got %v length %g", u, l)
	}
	if _, l := Normalize(r3.Vec{}); l != 0 {
		t.Errorf("zero vector length %g", l)
	}
}

func TestSetBounds(t *testing.T) {
	bb := Set{{X: -1, Y: 2, Z: 0}, {X: 3, Y: -2, Z: 1}}.Bounds()
	want := Box{Min: r3.Vec{X: -1, Y: -2, Z: 0}, Max: r3.Vec{X: 3, Y: 2, Z: 1}}
	if !bb.Equals(want, 0) {
		t.Errorf("got %v, want %v", bb, want)
	}
	if !bb.Contains(bb.Center()) {
		t.Error("box should contain its center")
	}
}
