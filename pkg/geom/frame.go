package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// HorizontalRatio is the slope threshold for classifying a projected
// direction as horizontal: |v| <= |u| * HorizontalRatio.
const HorizontalRatio = 0.2

// UV is a 2D point in a view-local frame.
type UV struct {
	U, V float64
}

// Frame is a view-local coordinate system: an origin plus right, up and
// view-direction vectors. The axes are assumed unit-length; callers that
// cannot guarantee that should pass the frame through Normalized before
// projecting, since Project and Unproject do not re-normalize.
type Frame struct {
	Origin  v3.Vec
	Right   v3.Vec
	Up      v3.Vec
	ViewDir v3.Vec
}

// Normalized returns a copy of the frame with unit-length axes, or a
// DegenerateError if any axis is near zero.
func (f Frame) Normalized() (Frame, error) {
	var err error
	if f.Right, err = Unit(f.Right, "Frame.Normalized"); err != nil {
		return Frame{}, err
	}
	if f.Up, err = Unit(f.Up, "Frame.Normalized"); err != nil {
		return Frame{}, err
	}
	if f.ViewDir, err = Unit(f.ViewDir, "Frame.Normalized"); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// At returns a copy of the frame re-anchored at the given origin. Used
// to project points relative to a local center (e.g. a bounding-volume
// center) while keeping the view axes.
func (f Frame) At(origin v3.Vec) Frame {
	f.Origin = origin
	return f
}

// Project flattens a 3D point into (u, v) coordinates relative to the
// frame origin. The view-direction component is discarded, so the
// projection is lossy for points outside the right/up plane.
func (f Frame) Project(p v3.Vec) UV {
	rel := p.Sub(f.Origin)
	return UV{U: rel.Dot(f.Right), V: rel.Dot(f.Up)}
}

// ProjectVector flattens a direction vector into (u, v) components.
// Unlike Project it does not subtract the origin.
func (f Frame) ProjectVector(d v3.Vec) UV {
	return UV{U: d.Dot(f.Right), V: d.Dot(f.Up)}
}

// Unproject reconstructs the 3D point origin + right*u + up*v. For any
// point in the plane spanned by right/up through the origin,
// Unproject(Project(p)) == p within floating tolerance.
func (f Frame) Unproject(uv UV) v3.Vec {
	return f.Origin.Add(f.Right.MulScalar(uv.U)).Add(f.Up.MulScalar(uv.V))
}

// IsHorizontal reports whether a projected direction is horizontal:
// the v component is at most HorizontalRatio of the u component.
// The comparison is inclusive at the boundary.
func IsHorizontal(uv UV) bool {
	return math.Abs(uv.V) <= math.Abs(uv.U)*HorizontalRatio
}
