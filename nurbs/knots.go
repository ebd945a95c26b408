// Package nurbs implements non-rational B-spline curves and surfaces using
// the host application's knot convention, in which the first and last knot
// of the full knot vector are omitted.
package nurbs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDegree = errors.New("nurbs: invalid degree")
	ErrInvalidKnots  = errors.New("nurbs: invalid knot vector")
	ErrNotPeriodic   = errors.New("nurbs: control points do not wrap for periodic form")
	ErrOutOfDomain   = errors.New("nurbs: parameter outside of domain")
	ErrDegenerate    = errors.New("nurbs: degenerate surface derivatives")
)

// Form is the topological form of a parametric direction.
type Form int

const (
	// Open curves start and end at distinct control points.
	Open Form = iota
	// Periodic curves wrap around: the last degree control points
	// repeat the first degree control points.
	Periodic
)

func (f Form) String() string {
	switch f {
	case Open:
		return "open"
	case Periodic:
		return "periodic"
	}
	return fmt.Sprintf("Form(%d)", int(f))
}

// fullKnots expands host knots (numCVs+degree-1 values) into the full
// knot vector (numCVs+degree+1 values).
func fullKnots(host []float64, numCVs, degree int, form Form) ([]float64, error) {
	if degree < 1 {
		return nil, ErrInvalidDegree
	}
	if numCVs <= degree {
		return nil, fmt.Errorf("%w: need more than %d control points, got %d", ErrInvalidDegree, degree, numCVs)
	}
	if len(host) != numCVs+degree-1 {
		return nil, fmt.Errorf("%w: got %d knots, want %d", ErrInvalidKnots, len(host), numCVs+degree-1)
	}
	mult := 1
	for i := 1; i < len(host); i++ {
		if host[i] < host[i-1] {
			return nil, fmt.Errorf("%w: knots decrease at index %d", ErrInvalidKnots, i)
		}
		if host[i] == host[i-1] {
			mult++
		} else {
			mult = 1
		}
		if mult > degree {
			return nil, fmt.Errorf("%w: knot %v repeats more than %d times", ErrInvalidKnots, host[i], degree)
		}
	}
	n := len(host)
	full := make([]float64, 0, n+2)
	switch form {
	case Open:
		full = append(full, host[0])
		full = append(full, host...)
		full = append(full, host[n-1])
	case Periodic:
		full = append(full, 2*host[0]-host[1])
		full = append(full, host...)
		full = append(full, 2*host[n-1]-host[n-2])
	default:
		return nil, fmt.Errorf("%w: unknown form %v", ErrInvalidKnots, form)
	}
	if full[degree] == full[numCVs] {
		return nil, fmt.Errorf("%w: empty parametric domain", ErrInvalidKnots)
	}
	return full, nil
}

// span returns the knot span index i such that knots[i] <= u < knots[i+1]
// for n+1 control points (The NURBS Book, algorithm A2.1). At the upper
// bound it returns the last span of nonzero length.
func span(n, p int, u float64, knots []float64) int {
	if u >= knots[n+1] {
		for n > p && knots[n] == knots[n+1] {
			n--
		}
		return n
	}
	if u <= knots[p] {
		return p
	}
	low, high := p, n+1
	mid := (low + high) / 2
	for u < knots[mid] || u >= knots[mid+1] {
		if u < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}
