package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform represents a 3D affine spatial transformation acting on
// column vectors. Elements are stored as given so that products of
// transforms keep every term of the host's row-vector arithmetic.
type Transform struct {
	x00, x01, x02, x03 float64
	x10, x11, x12, x13 float64
	x20, x21, x22, x23 float64
	x30, x31, x32, x33 float64
}

// Identity returns the identity Transform.
func Identity() Transform {
	return Transform{x00: 1, x11: 1, x22: 1, x33: 1}
}

// Transform applies the Transform to the argument vector
// and returns the result.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	// https://github.com/mrdoob/three.js/blob/dev/src/math/Vector3.js#L262
	w := 1 / (t.x30*v.X + t.x31*v.Y + t.x32*v.Z + t.x33)
	return r3.Vec{
		X: (t.x00*v.X + t.x01*v.Y + t.x02*v.Z + t.x03) * w,
		Y: (t.x10*v.X + t.x11*v.Y + t.x12*v.Z + t.x13) * w,
		Z: (t.x20*v.X + t.x21*v.Y + t.x22*v.Z + t.x23) * w,
	}
}

// NewTransform returns a new Transform type and populates its elements
// with values passed in row-major form. If a is nil then NewTransform
// returns the identity.
func NewTransform(a []float64) Transform {
	if a == nil {
		return Identity()
	}
	if len(a) != 16 {
		panic("Transform is initialized with 16 values")
	}
	return Transform{
		x00: a[0], x01: a[1], x02: a[2], x03: a[3],
		x10: a[4], x11: a[5], x12: a[6], x13: a[7],
		x20: a[8], x21: a[9], x22: a[10], x23: a[11],
		x30: a[12], x31: a[13], x32: a[14], x33: a[15],
	}
}

// Basis returns the transform whose columns are a, b and c followed by the
// translation origin. It maps the unit axes onto a, b and c placed at origin.
func Basis(a, b, c, origin r3.Vec) Transform {
	return Transform{
		x00: a.X, x01: b.X, x02: c.X, x03: origin.X,
		x10: a.Y, x11: b.Y, x12: c.Y, x13: origin.Y,
		x20: a.Z, x21: b.Z, x22: c.Z, x23: origin.Z,
		x33: 1,
	}
}

// Translate adds Vec to the positional Transform.
func (t Transform) Translate(v r3.Vec) Transform {
	t.x03 += v.X
	t.x13 += v.Y
	t.x23 += v.Z
	return t
}

// Mul multiplies the Transforms t and b and returns the result.
// The returned transform applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	var m Transform
	m.x00 = t.x00*b.x00 + t.x01*b.x10 + t.x02*b.x20 + t.x03*b.x30
	m.x10 = t.x10*b.x00 + t.x11*b.x10 + t.x12*b.x20 + t.x13*b.x30
	m.x20 = t.x20*b.x00 + t.x21*b.x10 + t.x22*b.x20 + t.x23*b.x30
	m.x30 = t.x30*b.x00 + t.x31*b.x10 + t.x32*b.x20 + t.x33*b.x30
	m.x01 = t.x00*b.x01 + t.x01*b.x11 + t.x02*b.x21 + t.x03*b.x31
	m.x11 = t.x10*b.x01 + t.x11*b.x11 + t.x12*b.x21 + t.x13*b.x31
	m.x21 = t.x20*b.x01 + t.x21*b.x11 + t.x22*b.x21 + t.x23*b.x31
	m.x31 = t.x30*b.x01 + t.x31*b.x11 + t.x32*b.x21 + t.x33*b.x31
	m.x02 = t.x00*b.x02 + t.x01*b.x12 + t.x02*b.x22 + t.x03*b.x32
	m.x12 = t.x10*b.x02 + t.x11*b.x12 + t.x12*b.x22 + t.x13*b.x32
	m.x22 = t.x20*b.x02 + t.x21*b.x12 + t.x22*b.x22 + t.x23*b.x32
	m.x32 = t.x30*b.x02 + t.x31*b.x12 + t.x32*b.x22 + t.x33*b.x32
	m.x03 = t.x00*b.x03 + t.x01*b.x13 + t.x02*b.x23 + t.x03*b.x33
	m.x13 = t.x10*b.x03 + t.x11*b.x13 + t.x12*b.x23 + t.x13*b.x33
	m.x23 = t.x20*b.x03 + t.x21*b.x13 + t.x22*b.x23 + t.x23*b.x33
	m.x33 = t.x30*b.x03 + t.x31*b.x13 + t.x32*b.x23 + t.x33*b.x33
	return m
}

// Det returns the determinant of the Transform.
func (t Transform) Det() float64 {
	return t.x00*t.x11*t.x22*t.x33 - t.x00*t.x11*t.x23*t.x32 +
		t.x00*t.x12*t.x23*t.x31 - t.x00*t.x12*t.x21*t.x33 +
		t.x00*t.x13*t.x21*t.x32 - t.x00*t.x13*t.x22*t.x31 -
		t.x01*t.x12*t.x23*t.x30 + t.x01*t.x12*t.x20*t.x33 -
		t.x01*t.x13*t.x20*t.x32 + t.x01*t.x13*t.x22*t.x30 -
		t.x01*t.x10*t.x22*t.x33 + t.x01*t.x10*t.x23*t.x32 +
		t.x02*t.x13*t.x20*t.x31 - t.x02*t.x13*t.x21*t.x30 +
		t.x02*t.x10*t.x21*t.x33 - t.x02*t.x10*t.x23*t.x31 +
		t.x02*t.x11*t.x23*t.x30 - t.x02*t.x11*t.x20*t.x33 -
		t.x03*t.x10*t.x21*t.x32 + t.x03*t.x10*t.x22*t.x31 -
		t.x03*t.x11*t.x22*t.x30 + t.x03*t.x11*t.x20*t.x32 -
		t.x03*t.x12*t.x20*t.x31 + t.x03*t.x12*t.x21*t.x30
}

// Inv returns the inverse of the transform such that
// t.Inv() * t is the identity Transform.
// If the matrix is singular then Inv returns the zero Transform and false.
func (t Transform) Inv() (Transform, bool) {
	det := t.Det()
	if math.Abs(det) < 1e-16 {
		return Transform{}, false
	}
	d := 1 / det
	var m Transform
	m.x00 = (t.x12*t.x23*t.x31 - t.x13*t.x22*t.x31 + t.x13*t.x21*t.x32 - t.x11*t.x23*t.x32 - t.x12*t.x21*t.x33 + t.x11*t.x22*t.x33) * d
	m.x01 = (t.x03*t.x22*t.x31 - t.x02*t.x23*t.x31 - t.x03*t.x21*t.x32 + t.x01*t.x23*t.x32 + t.x02*t.x21*t.x33 - t.x01*t.x22*t.x33) * d
	m.x02 = (t.x02*t.x13*t.x31 - t.x03*t.x12*t.x31 + t.x03*t.x11*t.x32 - t.x01*t.x13*t.x32 - t.x02*t.x11*t.x33 + t.x01*t.x12*t.x33) * d
	m.x03 = (t.x03*t.x12*t.x21 - t.x02*t.x13*t.x21 - t.x03*t.x11*t.x22 + t.x01*t.x13*t.x22 + t.x02*t.x11*t.x23 - t.x01*t.x12*t.x23) * d
	m.x10 = (t.x13*t.x22*t.x30 - t.x12*t.x23*t.x30 - t.x13*t.x20*t.x32 + t.x10*t.x23*t.x32 + t.x12*t.x20*t.x33 - t.x10*t.x22*t.x33) * d
	m.x11 = (t.x02*t.x23*t.x30 - t.x03*t.x22*t.x30 + t.x03*t.x20*t.x32 - t.x00*t.x23*t.x32 - t.x02*t.x20*t.x33 + t.x00*t.x22*t.x33) * d
	m.x12 = (t.x03*t.x12*t.x30 - t.x02*t.x13*t.x30 - t.x03*t.x10*t.x32 + t.x00*t.x13*t.x32 + t.x02*t.x10*t.x33 - t.x00*t.x12*t.x33) * d
	m.x13 = (t.x02*t.x13*t.x20 - t.x03*t.x12*t.x20 + t.x03*t.x10*t.x22 - t.x00*t.x13*t.x22 - t.x02*t.x10*t.x23 + t.x00*t.x12*t.x23) * d
	m.x20 = (t.x11*t.x23*t.x30 - t.x13*t.x21*t.x30 + t.x13*t.x20*t.x31 - t.x10*t.x23*t.x31 - t.x11*t.x20*t.x33 + t.x10*t.x21*t.x33) * d
	m.x21 = (t.x03*t.x21*t.x30 - t.x01*t.x23*t.x30 - t.x03*t.x20*t.x31 + t.x00*t.x23*t.x31 + t.x01*t.x20*t.x33 - t.x00*t.x21*t.x33) * d
	m.x22 = (t.x01*t.x13*t.x30 - t.x03*t.x11*t.x30 + t.x03*t.x10*t.x31 - t.x00*t.x13*t.x31 - t.x01*t.x10*t.x33 + t.x00*t.x11*t.x33) * d
	m.x23 = (t.x03*t.x11*t.x20 - t.x01*t.x13*t.x20 - t.x03*t.x10*t.x21 + t.x00*t.x13*t.x21 + t.x01*t.x10*t.x23 - t.x00*t.x11*t.x23) * d
	m.x30 = (t.x12*t.x21*t.x30 - t.x11*t.x22*t.x30 - t.x12*t.x20*t.x31 + t.x10*t.x22*t.x31 + t.x11*t.x20*t.x32 - t.x10*t.x21*t.x32) * d
	m.x31 = (t.x01*t.x22*t.x30 - t.x02*t.x21*t.x30 + t.x02*t.x20*t.x31 - t.x00*t.x22*t.x31 - t.x01*t.x20*t.x32 + t.x00*t.x21*t.x32) * d
	m.x32 = (t.x02*t.x11*t.x30 - t.x01*t.x12*t.x30 - t.x02*t.x10*t.x31 + t.x00*t.x12*t.x31 + t.x01*t.x10*t.x32 - t.x00*t.x11*t.x32) * d
	m.x33 = (t.x01*t.x12*t.x20 - t.x02*t.x11*t.x20 + t.x02*t.x10*t.x21 - t.x00*t.x12*t.x21 - t.x01*t.x10*t.x22 + t.x00*t.x11*t.x22) * d
	return m, true
}

// Equals tests the equality of the Transforms to within a tolerance.
func (t Transform) Equals(b Transform, tolerance float64) bool {
	ta, tb := t.SliceCopy(), b.SliceCopy()
	for i := range ta {
		if math.Abs(ta[i]-tb[i]) > tolerance {
			return false
		}
	}
	return true
}

// SliceCopy returns a copy of the Transform's data
// in row major storage format. It returns 16 elements.
func (t Transform) SliceCopy() []float64 {
	return []float64{
		t.x00, t.x01, t.x02, t.x03,
		t.x10, t.x11, t.x12, t.x13,
		t.x20, t.x21, t.x22, t.x23,
		t.x30, t.x31, t.x32, t.x33,
	}
}
