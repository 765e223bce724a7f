// Package shadow casts the rectangular footprint of a straight duct run
// into a view plane. The two opening cross sections at the run's ends
// are projected through the view frame, and the minimum (u, v) among
// all projected corners becomes the placement anchor for annotations.
package shadow

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/mepkit/ducttag/pkg/geom"
)

// DuctRun describes one straight run to be cast: a start point, a unit
// axis, the opening dimensions, the run length, and the view frame the
// shadow lands in.
type DuctRun struct {
	Start  v3.Vec
	Axis   v3.Vec
	Width  float64
	Height float64
	Length float64
	Frame  geom.Frame
}

// Opening is the rectangular cross section at one station along a run.
// Corners are ordered top-right, top-left, bottom-left, bottom-right.
type Opening struct {
	Corners [4]v3.Vec
}

// Shadow is the projected footprint of a run: both openings, the 2D
// projections of all eight corners, and the bottom-left anchor point.
// The anchor's view-direction component is fixed at zero.
type Shadow struct {
	Start     Opening
	End       Opening
	Projected []geom.UV
	Anchor    v3.Vec
}

// Cast builds the run's two openings and projects them through the view
// frame. The secondary axis is viewDir x axis and the tertiary axis is
// axis x secondary; a run whose axis is parallel to the view direction
// has no secondary axis and is reported as degenerate before any
// normalization happens.
func Cast(run DuctRun) (*Shadow, error) {
	axis, err := geom.Unit(run.Axis, "shadow.Cast")
	if err != nil {
		return nil, err
	}
	frame, err := run.Frame.Normalized()
	if err != nil {
		return nil, err
	}

	secondary := frame.ViewDir.Cross(axis)
	if secondary.Length() < geom.Tol {
		return nil, &geom.DegenerateError{
			Op:     "shadow.Cast",
			Detail: "duct axis is parallel to the view direction",
		}
	}
	secondary = secondary.Normalize()

	tertiary, err := geom.Unit(axis.Cross(secondary), "shadow.Cast")
	if err != nil {
		return nil, err
	}

	start := buildOpening(run.Start, secondary, tertiary, run.Width, run.Height)
	end := buildOpening(run.Start.Add(axis.MulScalar(run.Length)), secondary, tertiary, run.Width, run.Height)

	s := &Shadow{Start: start, End: end}
	for _, corner := range append(start.Corners[:], end.Corners[:]...) {
		s.Projected = append(s.Projected, frame.Project(corner))
	}

	minU, minV := s.Projected[0].U, s.Projected[0].V
	for _, uv := range s.Projected[1:] {
		if uv.U < minU {
			minU = uv.U
		}
		if uv.V < minV {
			minV = uv.V
		}
	}
	s.Anchor = v3.Vec{X: minU, Y: minV, Z: 0}
	return s, nil
}

// buildOpening places the four corners of a width x height rectangle
// around a center, spanned by the secondary (width) and tertiary
// (height) axes.
func buildOpening(center, secondary, tertiary v3.Vec, width, height float64) Opening {
	w2, h2 := width/2, height/2
	return Opening{Corners: [4]v3.Vec{
		center.Add(secondary.MulScalar(w2)).Add(tertiary.MulScalar(h2)),  // top right
		center.Sub(secondary.MulScalar(w2)).Add(tertiary.MulScalar(h2)),  // top left
		center.Sub(secondary.MulScalar(w2)).Sub(tertiary.MulScalar(h2)),  // bottom left
		center.Add(secondary.MulScalar(w2)).Sub(tertiary.MulScalar(h2)),  // bottom right
	}}
}
