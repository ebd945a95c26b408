package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"
)

// Curve is an open non-rational B-spline curve.
type Curve struct {
	cvs    []r3.Vec
	degree int
	host   []float64
	knots  []float64
}

// NewCurve creates an open curve from control points and host knots.
// The number of host knots must be len(cvs)+degree-1.
func NewCurve(cvs []r3.Vec, hostKnots []float64, degree int) (*Curve, error) {
	knots, err := fullKnots(hostKnots, len(cvs), degree, Open)
	if err != nil {
		return nil, err
	}
	return &Curve{
		cvs:    append([]r3.Vec(nil), cvs...),
		degree: degree,
		host:   append([]float64(nil), hostKnots...),
		knots:  knots,
	}, nil
}

// Degree returns the polynomial degree of the curve.
func (c *Curve) Degree() int { return c.degree }

// CVs returns a copy of the control points.
func (c *Curve) CVs() []r3.Vec { return append([]r3.Vec(nil), c.cvs...) }

// Knots returns a copy of the host knot vector.
func (c *Curve) Knots() []float64 { return append([]float64(nil), c.host...) }

// Domain returns the parametric range of the curve.
func (c *Curve) Domain() (min, max float64) {
	return c.knots[c.degree], c.knots[len(c.cvs)]
}

func (c *Curve) clamp(u float64) float64 {
	lo, hi := c.Domain()
	return math.Max(lo, math.Min(hi, u))
}

// Point evaluates the curve at u. Parameters outside of the domain
// are clamped to the nearest end.
func (c *Curve) Point(u float64) r3.Vec {
	d := c.derivs(c.clamp(u), 0)
	return d[0]
}

// Derivative returns the first derivative of the curve at u.
func (c *Curve) Derivative(u float64) r3.Vec {
	d := c.derivs(c.clamp(u), 1)
	return d[1]
}

func (c *Curve) derivs(u float64, nd int) []r3.Vec {
	n := len(c.cvs) - 1
	p := c.degree
	du := nd
	if du > p {
		du = p
	}
	s := span(n, p, u, c.knots)
	ders := basisDerivs(s, u, p, du, c.knots)
	result := make([]r3.Vec, nd+1)
	for k := 0; k <= du; k++ {
		for j := 0; j <= p; j++ {
			result[k] = r3.Add(result[k], r3.Scale(ders[k][j], c.cvs[s-p+j]))
		}
	}
	return result
}

// Length returns the arc length of the curve. Each non-empty knot span is
// integrated with Gauss-Legendre quadrature of degree+16 points.
func (c *Curve) Length() float64 {
	lo, hi := c.Domain()
	return c.LengthAt(lo, hi)
}

// LengthAt returns the arc length of the curve between parameters a and b.
func (c *Curve) LengthAt(a, b float64) float64 {
	a, b = c.clamp(a), c.clamp(b)
	if a > b {
		a, b = b, a
	}
	speed := func(u float64) float64 {
		return r3.Norm(c.Derivative(u))
	}
	n := c.degree + 16
	var sum float64
	for i := c.degree; i < len(c.cvs); i++ {
		k0, k1 := math.Max(a, c.knots[i]), math.Min(b, c.knots[i+1])
		if k1 <= k0 {
			continue
		}
		sum += quad.Fixed(speed, k0, k1, n, quad.Legendre{}, 0)
	}
	return sum
}

// Sample returns n points evenly spaced in parameter along the curve.
func (c *Curve) Sample(n int) ([]r3.Vec, error) {
	if n < 2 {
		return nil, fmt.Errorf("nurbs: need at least 2 samples, got %d", n)
	}
	lo, hi := c.Domain()
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = c.Point(lo + (hi-lo)*float64(i)/float64(n-1))
	}
	return pts, nil
}
