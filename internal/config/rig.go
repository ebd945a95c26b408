package config

import (
	"errors"
	"fmt"

	"github.com/soypat/muscle"
	"github.com/soypat/muscle/internal/logger"
	"github.com/soypat/muscle/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Validate checks the config for errors that do not need surface evaluation.
func (c *Config) Validate() error {
	var errs []error
	names := make(map[string]bool, len(c.Surfaces))
	for i, s := range c.Surfaces {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Errorf("surface %d: missing name", i))
		case names[s.Name]:
			errs = append(errs, fmt.Errorf("surface %d: duplicate name %q", i, s.Name))
		}
		names[s.Name] = true
		switch s.Type {
		case SurfacePlane:
		case SurfaceNURBS:
			if len(s.CVs) == 0 {
				errs = append(errs, fmt.Errorf("surface %q: nurbs surface has no control points", s.Name))
			}
		default:
			errs = append(errs, fmt.Errorf("surface %q: unknown type %q", s.Name, s.Type))
		}
	}
	if len(c.Attachments) < 4 {
		errs = append(errs, fmt.Errorf("need 4 attachments, got %d", len(c.Attachments)))
	}
	for i, a := range c.Attachments {
		if !names[a.Surface] {
			errs = append(errs, fmt.Errorf("attachment %d: unknown surface %q", i, a.Surface))
		}
		if a.Up != "" {
			if _, err := muscle.ParseUpAxis(a.Up); err != nil {
				errs = append(errs, fmt.Errorf("attachment %d: %w", i, err))
			}
		}
	}
	m := c.Muscle
	for _, d := range []float64{m.RestHeightO, m.RestHeightOv, m.RestHeightIv, m.RestHeightI, m.RestWidthOv, m.RestWidthIv, m.RestLength} {
		if d < 0 {
			errs = append(errs, errors.New("muscle: rest dimensions must not be negative"))
			break
		}
	}
	if c.Output.DivsU < 1 || c.Output.DivsV < 3 {
		errs = append(errs, fmt.Errorf("output: need divs_u >= 1 and divs_v >= 3, got %d and %d", c.Output.DivsU, c.Output.DivsV))
	}
	if c.Output.Preview != "" && (c.Output.Width <= 0 || c.Output.Height <= 0) {
		errs = append(errs, fmt.Errorf("output: invalid preview size %dx%d", c.Output.Width, c.Output.Height))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BuildSurfaces constructs the named driving surfaces.
func (c *Config) BuildSurfaces() (map[string]*nurbs.Surface, error) {
	surfs := make(map[string]*nurbs.Surface, len(c.Surfaces))
	for _, s := range c.Surfaces {
		surf, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("surface %q: %w", s.Name, err)
		}
		surfs[s.Name] = surf
	}
	return surfs, nil
}

func (s SurfaceConfig) build() (*nurbs.Surface, error) {
	switch s.Type {
	case SurfacePlane:
		return nurbs.NewPlane(s.Origin.Vec(), s.UAxis.Vec(), s.VAxis.Vec()), nil
	case SurfaceNURBS:
		cvs := make([][]r3.Vec, len(s.CVs))
		for i, row := range s.CVs {
			cvs[i] = make([]r3.Vec, len(row))
			for j, p := range row {
				cvs[i][j] = p.Vec()
			}
		}
		return nurbs.NewSurface(cvs, s.KnotsU, s.KnotsV, s.DegreeU, s.DegreeV, form(s.PeriodicU), form(s.PeriodicV))
	}
	return nil, fmt.Errorf("unknown surface type %q", s.Type)
}

// Params converts the config into muscle parameters.
func (c *Config) Params() (muscle.Params, error) {
	if err := c.Validate(); err != nil {
		return muscle.Params{}, err
	}
	surfs, err := c.BuildSurfaces()
	if err != nil {
		return muscle.Params{}, err
	}
	m := c.Muscle
	p := muscle.Params{
		CalculateVolume: m.CalculateVolume,
		Attachments:     make([]muscle.Attachment, len(c.Attachments)),
		OriginOffset:    m.OriginOffset.Vec(),
		InsertionOffset: m.InsertionOffset.Vec(),
		OriginLock:      m.OriginLock,
		InsertionLock:   m.InsertionLock,
		RestHeightO:     m.RestHeightO,
		RestHeightOv:    m.RestHeightOv,
		RestHeightIv:    m.RestHeightIv,
		RestHeightI:     m.RestHeightI,
		RestWidthOv:     m.RestWidthOv,
		RestWidthIv:     m.RestWidthIv,
		RestLength:      m.RestLength,
	}
	for i, a := range c.Attachments {
		up := muscle.UpNormal
		if a.Up != "" {
			up, _ = muscle.ParseUpAxis(a.Up) // Checked by Validate.
		}
		p.Attachments[i] = muscle.Attachment{
			Surface: surfs[a.Surface],
			U:       a.U,
			V:       a.V,
			Up:      up,
			Flip:    a.Flip,
		}
	}
	return p, nil
}

// Vec returns v as an r3.Vec.
func (v Vec3) Vec() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func form(periodic bool) nurbs.Form {
	if periodic {
		return nurbs.Periodic
	}
	return nurbs.Open
}
