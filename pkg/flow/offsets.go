package flow

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/mepkit/ducttag/pkg/geom"
)

// Offsets are the cardinal-edge displacements between an element's
// inlet and outlet perimeters, projected on the inlet frame. Positive
// values move in the +right / +up directions of that frame.
type Offsets struct {
	Top     float64
	Bottom  float64
	Left    float64
	Right   float64
	CenterH float64
	CenterV float64
}

// offsetTol is the edge-alignment tolerance used by Classify.
const offsetTol = 0.01

// ComputeOffsets measures how the outlet perimeter sits relative to the
// inlet perimeter. The inlet connector's basis supplies the right/up
// frame when present; otherwise a frame is derived from the inlet-to-
// outlet direction. Returns (nil, nil) when the spec carries no
// parseable shapes.
func ComputeOffsets(pair EndpointPair, spec SizeSpec) (*Offsets, error) {
	if pair.Empty() {
		return nil, nil
	}
	if spec.Inlet.Shape == ShapeNone || spec.Outlet.Shape == ShapeNone {
		return nil, nil
	}

	var right, up v3.Vec
	if pair.Inlet.Basis != nil {
		right = pair.Inlet.Basis.Width
		up = pair.Inlet.Basis.Height
	} else {
		var err error
		right, up, err = geom.AxesForDirection(pair.Axis())
		if err != nil {
			return nil, err
		}
	}

	inRing, err := perimeter(pair.Inlet.Origin, right, up, spec.Inlet)
	if err != nil {
		return nil, err
	}
	outRing, err := perimeter(pair.Outlet.Origin, right, up, spec.Outlet)
	if err != nil {
		return nil, err
	}

	// Cardinal stations sit at fixed ring indices.
	const (
		top    = 0
		rgt    = 90
		bottom = 180
		lft    = 270
	)
	topVal := outRing[top].Sub(inRing[top]).Dot(up)
	bottomVal := outRing[bottom].Sub(inRing[bottom]).Dot(up)
	rightVal := outRing[rgt].Sub(inRing[rgt]).Dot(right)
	leftVal := outRing[lft].Sub(inRing[lft]).Dot(right)

	return &Offsets{
		Top:     topVal,
		Bottom:  bottomVal,
		Left:    leftVal,
		Right:   rightVal,
		CenterH: (rightVal + leftVal) / 2,
		CenterV: (topVal + bottomVal) / 2,
	}, nil
}

func perimeter(center, right, up v3.Vec, size EndSize) ([]v3.Vec, error) {
	switch size.Shape {
	case ShapeRound:
		return geom.RoundPerimeter(center, right, up, size.Diameter), nil
	case ShapeRect:
		return geom.RectPerimeter(center, right, up, size.Width, size.Height), nil
	case ShapeOval:
		return geom.OvalPerimeter(center, right, up, size.Width, size.Height), nil
	}
	return nil, &geom.DegenerateError{Op: "perimeter", Detail: "unknown cross-section shape"}
}

// Classify renders the offsets as a fabrication-style token. Each axis
// reads as an aligned edge (FOB/FOT for bottom/top, FOR/FOL for
// left/right), CL when centered, or a signed magnitude such as "UP 6",
// "DN 12", "IN 4", "OUT 8". An axis flush at both edges is dropped and
// the other axis speaks alone; when both axes carry offsets they join
// as "vertical | horizontal", collapsing to a single "CL" when both
// are centered. Edge alignment outranks centerline centering.
func (o Offsets) Classify() string {
	vFlush := math.Abs(o.Top) < offsetTol && math.Abs(o.Bottom) < offsetTol
	hFlush := math.Abs(o.Left) < offsetTol && math.Abs(o.Right) < offsetTol

	switch {
	case vFlush:
		return o.classifyHorizontal()
	case hFlush:
		return o.classifyVertical()
	}

	vertical := o.classifyVertical()
	horizontal := o.classifyHorizontal()
	if vertical == "CL" && horizontal == "CL" {
		return "CL"
	}
	return vertical + " | " + horizontal
}

func (o Offsets) classifyVertical() string {
	switch {
	case math.Abs(o.Bottom) < offsetTol:
		return "FOB"
	case math.Abs(o.Top) < offsetTol:
		return "FOT"
	case math.Abs(o.CenterV) < offsetTol:
		return "CL"
	}
	mag := math.Max(math.Abs(o.Top), math.Abs(o.Bottom))
	// Positive vertical center offset reads as DN.
	if o.CenterV > 0 {
		return fmt.Sprintf("DN %.0f", mag)
	}
	return fmt.Sprintf("UP %.0f", mag)
}

func (o Offsets) classifyHorizontal() string {
	switch {
	case math.Abs(o.Left) < offsetTol:
		return "FOR"
	case math.Abs(o.Right) < offsetTol:
		return "FOL"
	case math.Abs(o.CenterH) < offsetTol:
		return "CL"
	}
	mag := math.Max(math.Abs(o.Left), math.Abs(o.Right))
	// The dominant edge's sign decides IN/OUT: positive right is OUT.
	if math.Abs(o.Right) >= math.Abs(o.Left) {
		if o.Right > 0 {
			return fmt.Sprintf("OUT %.0f", mag)
		}
		return fmt.Sprintf("IN %.0f", mag)
	}
	if o.Left > 0 {
		return fmt.Sprintf("IN %.0f", mag)
	}
	return fmt.Sprintf("OUT %.0f", mag)
}
