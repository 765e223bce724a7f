package geom_test

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/mepkit/ducttag/pkg/geom"
)

func planFrame() geom.Frame {
	return geom.Frame{
		Right:   v3.Vec{X: 1},
		Up:      v3.Vec{Y: 1},
		ViewDir: v3.Vec{Z: -1},
	}
}

func TestFrameProjectUnprojectRoundTrip(t *testing.T) {
	frame := planFrame().At(v3.Vec{X: 10, Y: -3, Z: 7})

	// Any point in the right/up plane through the origin must survive a
	// project/unproject round trip.
	points := []v3.Vec{
		{X: 10, Y: -3, Z: 7},
		{X: 12.5, Y: -3, Z: 7},
		{X: 10, Y: 4, Z: 7},
		{X: -1, Y: 100, Z: 7},
	}
	for _, p := range points {
		uv := frame.Project(p)
		back := frame.Unproject(uv)
		if !vecClose(back, p) {
			t.Errorf("round trip %v -> (%v, %v) -> %v", p, uv.U, uv.V, back)
		}
	}
}

func TestFrameProjectDropsViewComponent(t *testing.T) {
	frame := planFrame()
	uv := frame.Project(v3.Vec{X: 3, Y: 2, Z: 99})
	if uv.U != 3 || uv.V != 2 {
		t.Errorf("Project = (%v, %v), want (3, 2)", uv.U, uv.V)
	}
}

func TestFrameProjectVector(t *testing.T) {
	frame := planFrame()
	uv := frame.ProjectVector(v3.Vec{X: 4, Y: -1, Z: 2})
	if uv.U != 4 || uv.V != -1 {
		t.Errorf("ProjectVector = (%v, %v), want (4, -1)", uv.U, uv.V)
	}
}

func TestFrameNormalized(t *testing.T) {
	frame := geom.Frame{
		Right:   v3.Vec{X: 10},
		Up:      v3.Vec{Y: 0.5},
		ViewDir: v3.Vec{Z: -2},
	}
	n, err := frame.Normalized()
	if err != nil {
		t.Fatalf("Normalized: %v", err)
	}
	for _, axis := range []v3.Vec{n.Right, n.Up, n.ViewDir} {
		if math.Abs(axis.Length()-1) > eps {
			t.Errorf("axis %v not unit length", axis)
		}
	}

	frame.Up = v3.Vec{}
	if _, err := frame.Normalized(); err == nil {
		t.Error("expected error for zero up axis")
	}
}

func TestIsHorizontal(t *testing.T) {
	tests := []struct {
		name string
		uv   geom.UV
		want bool
	}{
		{"Flat", geom.UV{U: 10, V: 0}, true},
		{"GentleSlope", geom.UV{U: 10, V: 1}, true},
		{"ExactBoundary", geom.UV{U: 10, V: 2}, true},
		{"JustOverBoundary", geom.UV{U: 10, V: 2.0000001}, false},
		{"OverThreshold", geom.UV{U: 10, V: 3}, false},
		{"NegativeSlopeBoundary", geom.UV{U: 10, V: -2}, true},
		{"LeftwardFlat", geom.UV{U: -10, V: 1}, true},
		{"Steep", geom.UV{U: 1, V: 1}, false},
		{"Vertical", geom.UV{U: 0, V: 5}, false},
		{"ZeroVector", geom.UV{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geom.IsHorizontal(tt.uv); got != tt.want {
				t.Errorf("IsHorizontal(%+v) = %v, want %v", tt.uv, got, tt.want)
			}
		})
	}
}
