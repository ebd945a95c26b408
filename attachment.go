package muscle

import (
	"fmt"
	"strings"

	"github.com/soypat/muscle/internal/d3"
	"github.com/soypat/muscle/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateTol is the length below which a direction cannot be normalized.
const degenerateTol = 1e-12

// Surface is queried for the differential geometry at an attachment.
// *nurbs.Surface implements Surface.
type Surface interface {
	Frame(u, v float64) (nurbs.Frame, error)
}

// UpAxis selects which of an attachment's resolved vectors orients the
// cross-sections on its side.
type UpAxis int

const (
	UpNormal UpAxis = iota
	UpTangentU
	UpTangentV
)

func (a UpAxis) String() string {
	switch a {
	case UpNormal:
		return "normal"
	case UpTangentU:
		return "tangentU"
	case UpTangentV:
		return "tangentV"
	}
	return fmt.Sprintf("UpAxis(%d)", int(a))
}

// ParseUpAxis parses the names returned by UpAxis.String, ignoring case.
func ParseUpAxis(s string) (UpAxis, error) {
	for a := UpNormal; a <= UpTangentV; a++ {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown up axis %q", ErrInvalidAttachment, s)
}

// Attachment pins one end of a muscle to a parametric position on a surface.
type Attachment struct {
	Surface Surface
	U, V    float64
	Up      UpAxis
	// Flip negates the normal and both tangents.
	Flip bool
}

// Resolved holds the world space geometry of the four attachments.
// Indices 0 and 1 are the origin pair, 2 and 3 the insertion pair.
type Resolved struct {
	Positions [4]r3.Vec
	Normals   [4]r3.Vec
	TangentsU [4]r3.Vec
	TangentsV [4]r3.Vec
	Up        [4]UpAxis
}

// Resolve queries the surfaces of the first four attachments. Any further
// attachments are ignored.
func Resolve(attachments []Attachment) (Resolved, error) {
	var r Resolved
	if len(attachments) < 4 {
		return r, fmt.Errorf("%w: need 4 attachments, got %d", ErrInvalidAttachment, len(attachments))
	}
	for i, a := range attachments[:4] {
		if a.Up < UpNormal || a.Up > UpTangentV {
			return r, fmt.Errorf("%w: attachment %d up selector %d", ErrInvalidAttachment, i, a.Up)
		}
		if a.Surface == nil {
			return r, fmt.Errorf("%w: attachment %d has no surface", ErrInvalidAttachment, i)
		}
		f, err := a.Surface.Frame(a.U, a.V)
		if err != nil {
			return r, fmt.Errorf("%w: attachment %d at (%g,%g): %w", ErrInvalidAttachment, i, a.U, a.V, err)
		}
		n, tu, tv := f.Normal, f.TangentU, f.TangentV
		if a.Flip {
			n = r3.Scale(-1, n)
			tu = r3.Scale(-1, tu)
			tv = r3.Scale(-1, tv)
		}
		if r.Normals[i], err = unit(n, "attachment normal"); err != nil {
			return r, fmt.Errorf("attachment %d: %w", i, err)
		}
		if r.TangentsU[i], err = unit(tu, "attachment u tangent"); err != nil {
			return r, fmt.Errorf("attachment %d: %w", i, err)
		}
		if r.TangentsV[i], err = unit(tv, "attachment v tangent"); err != nil {
			return r, fmt.Errorf("attachment %d: %w", i, err)
		}
		if !d3.IsFinite(f.Position) {
			return r, fmt.Errorf("%w: attachment %d position %v", ErrDegenerateGeometry, i, f.Position)
		}
		r.Positions[i] = f.Position
		r.Up[i] = a.Up
	}
	return r, nil
}

// Vectors returns the normals followed by the u tangents and the v tangents.
func (r *Resolved) Vectors() [12]r3.Vec {
	var v [12]r3.Vec
	copy(v[0:4], r.Normals[:])
	copy(v[4:8], r.TangentsU[:])
	copy(v[8:12], r.TangentsV[:])
	return v
}

// UpVector returns the vector chosen by attachment i's up selector.
func (r *Resolved) UpVector(i int) r3.Vec {
	v := r.Vectors()
	return v[int(r.Up[i])*4+i]
}

func unit(v r3.Vec, what string) (r3.Vec, error) {
	u, l := d3.Normalize(v)
	if l < degenerateTol || !d3.IsFinite(u) {
		return r3.Vec{}, fmt.Errorf("%w: %s %v cannot be normalized", ErrDegenerateGeometry, what, v)
	}
	return u, nil
}
