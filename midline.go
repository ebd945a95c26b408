package muscle

import (
	"github.com/soypat/muscle/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Midline indices.
const (
	OriginMid = iota
	OriginBelly
	Center
	InsertionBelly
	InsertionMid
)

// Midline holds the five backbone points of a muscle ordered from origin to
// insertion.
type Midline [5]r3.Vec

// sideAxes returns the local tangent, up and out axes of an attachment pair.
// The up axis always averages the surface normals.
func sideAxes(e0, e1, n0, n1 r3.Vec) (tangent, up, out r3.Vec, err error) {
	if tangent, err = unit(r3.Sub(e1, e0), "attachment pair direction"); err != nil {
		return
	}
	if up, err = unit(r3.Add(n0, n1), "attachment pair normal"); err != nil {
		return
	}
	out, err = unit(r3.Cross(up, tangent), "attachment pair out axis")
	return
}

// offsetFrom returns ref displaced by offset measured in the tangent, up and
// out axes.
func offsetFrom(ref, offset, tangent, up, out r3.Vec) r3.Vec {
	d := r3.Add(r3.Add(r3.Scale(offset.X, tangent), r3.Scale(offset.Y, up)), r3.Scale(offset.Z, out))
	return r3.Add(ref, d)
}

// BuildMidline computes the backbone points from resolved attachments.
// Belly offsets are measured from the default belly point, midway between
// the side midpoint and the center, or from the side midpoint itself when
// that side is locked. The Z component of insertionOffset is negated.
func BuildMidline(r *Resolved, originOffset, insertionOffset r3.Vec, originLock, insertionLock bool) (Midline, error) {
	e := r.Positions
	oMid := d3.Midpoint(e[0], e[1])
	iMid := d3.Midpoint(e[2], e[3])
	center := d3.Midpoint(oMid, iMid)

	oTan, oUp, oOut, err := sideAxes(e[0], e[1], r.Normals[0], r.Normals[1])
	if err != nil {
		return Midline{}, err
	}
	iTan, iUp, iOut, err := sideAxes(e[2], e[3], r.Normals[2], r.Normals[3])
	if err != nil {
		return Midline{}, err
	}
	insertionOffset.Z = -insertionOffset.Z

	oRef := d3.Midpoint(oMid, center)
	if originLock {
		oRef = oMid
	}
	iRef := d3.Midpoint(iMid, center)
	if insertionLock {
		iRef = iMid
	}
	return Midline{
		OriginMid:      oMid,
		OriginBelly:    offsetFrom(oRef, originOffset, oTan, oUp, oOut),
		Center:         center,
		InsertionBelly: offsetFrom(iRef, insertionOffset, iTan, iUp, iOut),
		InsertionMid:   iMid,
	}, nil
}

// SectionCenters returns the midline points that carry cross-sections,
// skipping the geometric center.
func (m Midline) SectionCenters() [4]r3.Vec {
	return [4]r3.Vec{m[OriginMid], m[OriginBelly], m[InsertionBelly], m[InsertionMid]}
}
