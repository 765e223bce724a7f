// Package geom provides the view-frame math used to flatten 3D model
// geometry into 2D annotation coordinates: projection into a view-local
// (u, v) plane, inverse projection, orientation classification, and
// cross-section perimeter generation.
//
// All vectors are sdfx v3.Vec values. Functions that would otherwise
// divide by a near-zero length detect the condition first and report a
// DegenerateError instead of producing NaN vectors.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Tol is the tolerance governing degeneracy checks: vectors shorter than
// Tol are treated as zero-length, axes whose cross product is shorter
// than Tol are treated as parallel.
const Tol = 1e-6

// DegenerateError reports an input configuration that produces a
// zero-length vector or undefined cross product.
type DegenerateError struct {
	Op     string // operation that detected the condition
	Detail string
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate geometry in %s: %s", e.Op, e.Detail)
}

// Unit returns v normalized, or a DegenerateError when v is shorter
// than Tol. op names the calling computation for the error message.
func Unit(v v3.Vec, op string) (v3.Vec, error) {
	if v.Length() < Tol {
		return v3.Vec{}, &DegenerateError{Op: op, Detail: "zero-length vector"}
	}
	return v.Normalize(), nil
}

// AngleBetween returns the signed angle from a to b in radians, using
// the Z component of the cross product as the orientation sign.
func AngleBetween(a, b v3.Vec) float64 {
	return math.Atan2(a.Cross(b).Z, a.Dot(b))
}

// AxesForDirection builds a right/up basis perpendicular to the given
// direction. The world Z axis seeds the construction unless the
// direction is near-vertical, in which case world X is used instead.
func AxesForDirection(dir v3.Vec) (right, up v3.Vec, err error) {
	d, err := Unit(dir, "AxesForDirection")
	if err != nil {
		return v3.Vec{}, v3.Vec{}, err
	}
	seed := v3.Vec{Z: 1}
	if math.Abs(d.Z) >= 0.9 {
		seed = v3.Vec{X: 1}
	}
	right, err = Unit(d.Cross(seed), "AxesForDirection")
	if err != nil {
		return v3.Vec{}, v3.Vec{}, err
	}
	up, err = Unit(right.Cross(d), "AxesForDirection")
	if err != nil {
		return v3.Vec{}, v3.Vec{}, err
	}
	return right, up, nil
}
