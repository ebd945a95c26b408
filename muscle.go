// Package muscle builds procedural muscle surfaces. Four attachments pinned
// to driving surfaces define a cubic backbone along which four elliptical
// cross-sections are swept, producing a closed NURBS tube that can keep its
// volume as it stretches.
package muscle

import (
	"fmt"

	"github.com/soypat/muscle/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params are the inputs of a muscle evaluation.
type Params struct {
	// CalculateVolume scales the cross-sections by sqrt(RestLength/length).
	CalculateVolume bool
	// Attachments are consumed by position: 0 and 1 form the origin pair,
	// 2 and 3 the insertion pair. Extra attachments are ignored.
	Attachments []Attachment
	// Belly offsets in the tangent, up and out axes of each side.
	OriginOffset    r3.Vec
	InsertionOffset r3.Vec
	// A locked side measures its belly offset from the attachment pair
	// midpoint instead of the default belly point.
	OriginLock    bool
	InsertionLock bool

	RestHeightO  float64
	RestHeightOv float64
	RestHeightIv float64
	RestHeightI  float64
	RestWidthOv  float64
	RestWidthIv  float64
	// RestLength is the stored backbone length used in volume mode.
	RestLength float64
}

// Result is the output of a muscle evaluation.
type Result struct {
	Surface  *nurbs.Surface
	Backbone *nurbs.Curve
	// Length is the live backbone arc length.
	Length float64
	// RestLength is the rest length used by the evaluation. It equals Length
	// when volume mode is off.
	RestLength float64
	// Scale is the volume factor applied to the sections, 1 when volume
	// mode is off.
	Scale       float64
	Midline     Midline
	Sections    [4]Section
	Heights     [4]float64
	Widths      [4]float64
	Attachments Resolved
}

// ControlPoints returns the surface control points ordered section by
// section, each section in loop order.
func (r *Result) ControlPoints() []r3.Vec {
	cvs := make([]r3.Vec, 0, len(r.Sections)*SectionCVs)
	for _, row := range r.Surface.CVs() {
		cvs = append(cvs, row...)
	}
	return cvs
}

// Compute evaluates the muscle described by p. It has no side effects.
func Compute(p Params) (*Result, error) {
	res, err := Resolve(p.Attachments)
	if err != nil {
		return nil, err
	}
	mid, err := BuildMidline(&res, p.OriginOffset, p.InsertionOffset, p.OriginLock, p.InsertionLock)
	if err != nil {
		return nil, err
	}
	backbone, err := buildBackbone(mid)
	if err != nil {
		return nil, fmt.Errorf("%w: backbone: %v", ErrDegenerateGeometry, err)
	}
	length := backbone.Length()

	restLength, scale := length, 1.0
	if p.CalculateVolume {
		restLength = p.RestLength
		scale, err = volumeFactor(restLength, length)
		if err != nil {
			return nil, err
		}
	}
	dims := RestDimensions(&p, &res)
	sections, err := buildSections(&res, mid, dims.Scaled(scale), p.OriginLock, p.InsertionLock)
	if err != nil {
		return nil, err
	}
	surf, err := assemble(sections, backbone)
	if err != nil {
		return nil, err
	}
	return &Result{
		Surface:     surf,
		Backbone:    backbone,
		Length:      length,
		RestLength:  restLength,
		Scale:       scale,
		Midline:     mid,
		Sections:    sections,
		Heights:     dims.Heights,
		Widths:      dims.Widths,
		Attachments: res,
	}, nil
}
