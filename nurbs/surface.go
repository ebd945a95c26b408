package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// domainTol is the slack allowed when checking whether a parameter lies
	// in an open domain.
	domainTol = 1e-9
	// degenerateTol is the smallest derivative magnitude that yields a frame.
	degenerateTol = 1e-12
)

// Frame is the local differential geometry of a surface at a parameter.
type Frame struct {
	Position r3.Vec
	// Normal is unit(dU x dV).
	Normal   r3.Vec
	TangentU r3.Vec
	TangentV r3.Vec
}

// Surface is a non-rational tensor product B-spline surface.
// Control points are indexed [u][v].
type Surface struct {
	cvs          [][]r3.Vec
	degU, degV   int
	formU, formV Form
	hostU, hostV []float64
	knotsU       []float64
	knotsV       []float64
}

// NewSurface creates a surface from a grid of control points indexed [u][v]
// and host knot vectors. In a periodic direction the last degree control
// points must repeat the first ones.
func NewSurface(cvs [][]r3.Vec, knotsU, knotsV []float64, degU, degV int, formU, formV Form) (*Surface, error) {
	nu := len(cvs)
	if nu == 0 {
		return nil, fmt.Errorf("%w: no control points", ErrInvalidDegree)
	}
	nv := len(cvs[0])
	grid := make([][]r3.Vec, nu)
	for i, row := range cvs {
		if len(row) != nv {
			return nil, fmt.Errorf("nurbs: ragged control grid at row %d: got %d, want %d", i, len(row), nv)
		}
		grid[i] = append([]r3.Vec(nil), row...)
	}
	fu, err := fullKnots(knotsU, nu, degU, formU)
	if err != nil {
		return nil, fmt.Errorf("u direction: %w", err)
	}
	fv, err := fullKnots(knotsV, nv, degV, formV)
	if err != nil {
		return nil, fmt.Errorf("v direction: %w", err)
	}
	if formU == Periodic {
		for k := 0; k < degU; k++ {
			for j := 0; j < nv; j++ {
				if !sameVec(grid[k][j], grid[nu-degU+k][j]) {
					return nil, fmt.Errorf("%w: u row %d", ErrNotPeriodic, nu-degU+k)
				}
			}
		}
	}
	if formV == Periodic {
		for i := 0; i < nu; i++ {
			for k := 0; k < degV; k++ {
				if !sameVec(grid[i][k], grid[i][nv-degV+k]) {
					return nil, fmt.Errorf("%w: v column %d of row %d", ErrNotPeriodic, nv-degV+k, i)
				}
			}
		}
	}
	return &Surface{
		cvs:    grid,
		degU:   degU,
		degV:   degV,
		formU:  formU,
		formV:  formV,
		hostU:  append([]float64(nil), knotsU...),
		hostV:  append([]float64(nil), knotsV...),
		knotsU: fu,
		knotsV: fv,
	}, nil
}

// NewPlane returns a bilinear patch spanning origin + u*uAxis + v*vAxis
// for u and v in [0, 1].
func NewPlane(origin, uAxis, vAxis r3.Vec) *Surface {
	cvs := [][]r3.Vec{
		{origin, r3.Add(origin, vAxis)},
		{r3.Add(origin, uAxis), r3.Add(r3.Add(origin, uAxis), vAxis)},
	}
	s, err := NewSurface(cvs, []float64{0, 1}, []float64{0, 1}, 1, 1, Open, Open)
	if err != nil {
		panic(err) // unreachable: the grid and knots are fixed.
	}
	return s
}

func sameVec(a, b r3.Vec) bool {
	const tol = 1e-12
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// NumCVs returns the control grid dimensions.
func (s *Surface) NumCVs() (nu, nv int) { return len(s.cvs), len(s.cvs[0]) }

// CVs returns a copy of the control grid indexed [u][v].
func (s *Surface) CVs() [][]r3.Vec {
	out := make([][]r3.Vec, len(s.cvs))
	for i := range s.cvs {
		out[i] = append([]r3.Vec(nil), s.cvs[i]...)
	}
	return out
}

// Degree returns the degrees in u and v.
func (s *Surface) Degree() (u, v int) { return s.degU, s.degV }

// Form returns the forms in u and v.
func (s *Surface) Form() (u, v Form) { return s.formU, s.formV }

// Knots returns copies of the host knot vectors in u and v.
func (s *Surface) Knots() (u, v []float64) {
	return append([]float64(nil), s.hostU...), append([]float64(nil), s.hostV...)
}

// DomainU returns the parametric range in u.
func (s *Surface) DomainU() (min, max float64) {
	return s.knotsU[s.degU], s.knotsU[len(s.cvs)]
}

// DomainV returns the parametric range in v.
func (s *Surface) DomainV() (min, max float64) {
	return s.knotsV[s.degV], s.knotsV[len(s.cvs[0])]
}

// param maps t into the domain [lo,hi]. Periodic parameters wrap, open
// parameters are clamped. The second return value reports whether an open
// parameter lay outside of its domain.
func param(t, lo, hi float64, form Form) (float64, bool) {
	if form == Periodic {
		period := hi - lo
		t = math.Mod(t-lo, period)
		if t < 0 {
			t += period
		}
		return lo + t, true
	}
	inside := t >= lo-domainTol && t <= hi+domainTol
	return math.Max(lo, math.Min(hi, t)), inside
}

// Point evaluates the surface at (u,v). Open parameters are clamped to
// their domain and periodic parameters wrap.
func (s *Surface) Point(u, v float64) r3.Vec {
	p, _, _ := s.Derivatives(u, v)
	return p
}

// Derivatives returns the surface point and its first partial derivatives
// at (u,v) (The NURBS Book, algorithm A3.6).
func (s *Surface) Derivatives(u, v float64) (p, du, dv r3.Vec) {
	ulo, uhi := s.DomainU()
	vlo, vhi := s.DomainV()
	u, _ = param(u, ulo, uhi, s.formU)
	v, _ = param(v, vlo, vhi, s.formV)
	nu, nv := s.NumCVs()
	su := span(nu-1, s.degU, u, s.knotsU)
	sv := span(nv-1, s.degV, v, s.knotsV)
	bu := basisDerivs(su, u, s.degU, 1, s.knotsU)
	bv := basisDerivs(sv, v, s.degV, 1, s.knotsV)
	for k := 0; k <= s.degU; k++ {
		row := s.cvs[su-s.degU+k]
		var t0, t1 r3.Vec
		for l := 0; l <= s.degV; l++ {
			cv := row[sv-s.degV+l]
			t0 = r3.Add(t0, r3.Scale(bv[0][l], cv))
			t1 = r3.Add(t1, r3.Scale(bv[1][l], cv))
		}
		p = r3.Add(p, r3.Scale(bu[0][k], t0))
		du = r3.Add(du, r3.Scale(bu[1][k], t0))
		dv = r3.Add(dv, r3.Scale(bu[0][k], t1))
	}
	return p, du, dv
}

// Frame returns the position, unit normal and unit tangents at (u,v).
// Parameters outside of an open domain return ErrOutOfDomain.
func (s *Surface) Frame(u, v float64) (Frame, error) {
	ulo, uhi := s.DomainU()
	vlo, vhi := s.DomainV()
	if _, ok := param(u, ulo, uhi, s.formU); !ok {
		return Frame{}, fmt.Errorf("%w: u=%g not in [%g,%g]", ErrOutOfDomain, u, ulo, uhi)
	}
	if _, ok := param(v, vlo, vhi, s.formV); !ok {
		return Frame{}, fmt.Errorf("%w: v=%g not in [%g,%g]", ErrOutOfDomain, v, vlo, vhi)
	}
	p, du, dv := s.Derivatives(u, v)
	lu, lv := r3.Norm(du), r3.Norm(dv)
	n := r3.Cross(du, dv)
	ln := r3.Norm(n)
	if lu < degenerateTol || lv < degenerateTol || ln < degenerateTol {
		return Frame{}, fmt.Errorf("%w at (%g,%g)", ErrDegenerate, u, v)
	}
	return Frame{
		Position: p,
		Normal:   r3.Scale(1/ln, n),
		TangentU: r3.Scale(1/lu, du),
		TangentV: r3.Scale(1/lv, dv),
	}, nil
}
