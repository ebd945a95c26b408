package muscle

import (
	"fmt"

	"github.com/soypat/muscle/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// VKnots is the host knot vector around each cross-section loop.
var VKnots = []float64{-2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// backboneKnots is the host knot vector of the single span cubic backbone.
var backboneKnots = []float64{0, 0, 0, 1, 1, 1}

// buildBackbone returns the cubic curve through the section centers.
func buildBackbone(m Midline) (*nurbs.Curve, error) {
	centers := m.SectionCenters()
	return nurbs.NewCurve(centers[:], backboneKnots, 3)
}

// assemble builds the tube surface, open along the backbone and periodic
// around it. U knots are taken from the backbone.
func assemble(sections [4]Section, backbone *nurbs.Curve) (*nurbs.Surface, error) {
	cvs := make([][]r3.Vec, len(sections))
	for i, s := range sections {
		loop := s.CVs()
		cvs[i] = loop[:]
	}
	surf, err := nurbs.NewSurface(cvs, backbone.Knots(), VKnots, 3, 3, nurbs.Open, nurbs.Periodic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}
	return surf, nil
}
