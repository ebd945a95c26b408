package muscle

import (
	"github.com/soypat/muscle/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SectionCVs is the number of control points in a cross-section loop.
const SectionCVs = 11

// template is a unit circle polygon in the XZ plane. The last three points
// repeat the first three to close the periodic loop.
var template = [SectionCVs]r3.Vec{
	{X: -0.424779, Z: -1.025506},
	{X: 0.424779, Z: -1.025506},
	{X: 1.025506, Z: -0.424779},
	{X: 1.025506, Z: 0.424779},
	{X: 0.424779, Z: 1.025506},
	{X: -0.424779, Z: 1.025506},
	{X: -1.025506, Z: 0.424779},
	{X: -1.025506, Z: -0.424779},
	{X: -0.424779, Z: -1.025506},
	{X: 0.424779, Z: -1.025506},
	{X: 1.025506, Z: -0.424779},
}

// Frame is an orthonormal cross-section basis. B runs across the attachment
// pair and A is the height direction.
type Frame struct {
	A, B, C r3.Vec
}

// Section is one elliptical ring of the muscle.
type Section struct {
	Center r3.Vec
	// Height and Width are the ellipse dimensions after volume scaling.
	Height, Width float64
	Frame         Frame
}

// Transform returns the transform taking template points to world space:
// template X scales by -Height along A and template Z by Width along B.
func (s Section) Transform() d3.Transform {
	scale := d3.NewTransform([]float64{
		-s.Height, 0, 0, 0,
		0, 0, s.Width, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
	f := s.Frame
	return d3.Basis(f.A, f.B, f.C, s.Center).Mul(scale)
}

// CVs returns the world space control points of the section loop.
func (s Section) CVs() [SectionCVs]r3.Vec {
	var cvs [SectionCVs]r3.Vec
	t := s.Transform()
	for i, p := range template {
		cvs[i] = t.Transform(p)
	}
	return cvs
}

// symmetricOut returns the mean of (out+p)-e0 and (out+p)-e1.
func symmetricOut(out, p, e0, e1 r3.Vec) r3.Vec {
	op := r3.Add(out, p)
	return r3.Scale(0.5, r3.Add(r3.Sub(op, e0), r3.Sub(op, e1)))
}

// orthonormal completes the frame from the pair direction b and the
// approximate section normal c.
func orthonormal(b, c r3.Vec) (Frame, error) {
	a, err := unit(r3.Cross(b, c), "section height axis")
	if err != nil {
		return Frame{}, err
	}
	b, err = unit(r3.Cross(c, a), "section width axis")
	if err != nil {
		return Frame{}, err
	}
	c, err = unit(c, "section normal")
	if err != nil {
		return Frame{}, err
	}
	return Frame{A: a, B: b, C: c}, nil
}

// buildFrames computes the four section frames. Frames only read section
// centers so all centers must be known beforehand.
func buildFrames(r *Resolved, p [4]r3.Vec, originLock, insertionLock bool) ([4]Frame, error) {
	var frames [4]Frame
	e := r.Positions

	// Origin pair.
	up, err := unit(r3.Add(r.UpVector(0), r.UpVector(1)), "origin up vector")
	if err != nil {
		return frames, err
	}
	dif, err := unit(r3.Sub(e[1], e[0]), "origin pair direction")
	if err != nil {
		return frames, err
	}
	out, err := unit(r3.Cross(up, dif), "origin out vector")
	if err != nil {
		return frames, err
	}
	if frames[0], err = orthonormal(dif, symmetricOut(out, p[0], e[0], e[1])); err != nil {
		return frames, err
	}
	c := r3.Sub(p[0], p[3])
	if originLock {
		c = symmetricOut(out, p[0], e[0], e[1])
	}
	if frames[1], err = orthonormal(dif, c); err != nil {
		return frames, err
	}

	// Insertion pair.
	up, err = unit(r3.Add(r.UpVector(2), r.UpVector(3)), "insertion up vector")
	if err != nil {
		return frames, err
	}
	dif, err = unit(r3.Sub(e[3], e[2]), "insertion pair direction")
	if err != nil {
		return frames, err
	}
	out, err = unit(r3.Scale(-1, r3.Cross(dif, up)), "insertion out vector")
	if err != nil {
		return frames, err
	}
	if frames[3], err = orthonormal(dif, symmetricOut(out, p[3], e[2], e[3])); err != nil {
		return frames, err
	}
	out, err = unit(r3.Cross(up, dif), "insertion out vector")
	if err != nil {
		return frames, err
	}
	c = r3.Sub(p[0], p[3])
	if insertionLock {
		c = symmetricOut(out, p[3], e[2], e[3])
	}
	if frames[2], err = orthonormal(dif, c); err != nil {
		return frames, err
	}
	return frames, nil
}

// buildSections places the four sections on the midline.
func buildSections(r *Resolved, m Midline, dims Dimensions, originLock, insertionLock bool) ([4]Section, error) {
	var sections [4]Section
	centers := m.SectionCenters()
	frames, err := buildFrames(r, centers, originLock, insertionLock)
	if err != nil {
		return sections, err
	}
	for i := range sections {
		sections[i] = Section{
			Center: centers[i],
			Height: dims.Heights[i],
			Width:  dims.Widths[i],
			Frame:  frames[i],
		}
	}
	return sections, nil
}
