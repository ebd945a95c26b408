package muscle

import (
	"fmt"
	"math"

	"github.com/soypat/muscle/internal/d3"
)

// lengthTol is the smallest backbone length usable as a volume divisor.
const lengthTol = 1e-9

// Dimensions holds the rest heights and widths of the four cross-sections.
type Dimensions struct {
	Heights [4]float64
	Widths  [4]float64
}

// RestDimensions returns the unscaled cross-section dimensions. End widths
// are half the distance between the attachments of each pair.
func RestDimensions(p *Params, r *Resolved) Dimensions {
	e := r.Positions
	return Dimensions{
		Heights: [4]float64{p.RestHeightO, p.RestHeightOv, p.RestHeightIv, p.RestHeightI},
		Widths: [4]float64{
			d3.Distance(e[0], e[1]) / 2,
			p.RestWidthOv,
			p.RestWidthIv,
			d3.Distance(e[2], e[3]) / 2,
		},
	}
}

// Scaled returns the dimensions with every height and width multiplied by f.
func (d Dimensions) Scaled(f float64) Dimensions {
	for i := range d.Heights {
		d.Widths[i] *= f
		d.Heights[i] *= f
	}
	return d
}

// volumeFactor returns sqrt(restLength/length), the factor that keeps the
// muscle volume constant as the backbone stretches.
func volumeFactor(restLength, length float64) (float64, error) {
	if length < lengthTol {
		return 0, fmt.Errorf("%w: backbone length %g", ErrZeroRestLength, length)
	}
	if !(restLength > 0) {
		return 0, fmt.Errorf("%w: stored rest length %g", ErrZeroRestLength, restLength)
	}
	return math.Sqrt(restLength / length), nil
}
