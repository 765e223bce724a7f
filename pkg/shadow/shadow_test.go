package shadow_test

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/mepkit/ducttag/pkg/geom"
	"github.com/mepkit/ducttag/pkg/shadow"
)

func planFrame() geom.Frame {
	return geom.Frame{
		Right:   v3.Vec{X: 1},
		Up:      v3.Vec{Y: 1},
		ViewDir: v3.Vec{Z: -1},
	}
}

func TestCastPlanView(t *testing.T) {
	// A run along +X seen from above: width spans Y, the projected
	// footprint covers u in [0, 4] and v in [-1, 1].
	s, err := shadow.Cast(shadow.DuctRun{
		Start:  v3.Vec{},
		Axis:   v3.Vec{X: 1},
		Width:  2,
		Height: 1,
		Length: 4,
		Frame:  planFrame(),
	})
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}

	if len(s.Projected) != 8 {
		t.Fatalf("projected %d corners, want 8", len(s.Projected))
	}

	minU, maxU := s.Projected[0].U, s.Projected[0].U
	minV, maxV := s.Projected[0].V, s.Projected[0].V
	for _, uv := range s.Projected[1:] {
		minU = math.Min(minU, uv.U)
		maxU = math.Max(maxU, uv.U)
		minV = math.Min(minV, uv.V)
		maxV = math.Max(maxV, uv.V)
	}
	if minU != 0 || maxU != 4 {
		t.Errorf("u range [%v, %v], want [0, 4]", minU, maxU)
	}
	if minV != -1 || maxV != 1 {
		t.Errorf("v range [%v, %v], want [-1, 1]", minV, maxV)
	}

	want := v3.Vec{X: 0, Y: -1, Z: 0}
	if s.Anchor != want {
		t.Errorf("Anchor = %v, want %v", s.Anchor, want)
	}
}

func TestCastOpeningGeometry(t *testing.T) {
	s, err := shadow.Cast(shadow.DuctRun{
		Start:  v3.Vec{},
		Axis:   v3.Vec{X: 1},
		Width:  2,
		Height: 1,
		Length: 4,
		Frame:  planFrame(),
	})
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}

	// Openings are centered on the run axis at the two stations.
	centerOf := func(o shadow.Opening) v3.Vec {
		sum := v3.Vec{}
		for _, c := range o.Corners {
			sum = sum.Add(c)
		}
		return sum.MulScalar(0.25)
	}
	if c := centerOf(s.Start); c.Sub(v3.Vec{}).Length() > 1e-9 {
		t.Errorf("start opening center = %v, want origin", c)
	}
	if c := centerOf(s.End); c.Sub(v3.Vec{X: 4}).Length() > 1e-9 {
		t.Errorf("end opening center = %v, want (4, 0, 0)", c)
	}

	// Each opening spans width x height.
	diag := s.Start.Corners[0].Sub(s.Start.Corners[2]).Length()
	if want := math.Hypot(2, 1); math.Abs(diag-want) > 1e-9 {
		t.Errorf("opening diagonal = %v, want %v", diag, want)
	}
}

func TestCastUnnormalizedInputs(t *testing.T) {
	// A scaled axis and frame must behave exactly like the unit versions.
	s, err := shadow.Cast(shadow.DuctRun{
		Start:  v3.Vec{},
		Axis:   v3.Vec{X: 17},
		Width:  2,
		Height: 1,
		Length: 4,
		Frame: geom.Frame{
			Right:   v3.Vec{X: 3},
			Up:      v3.Vec{Y: 0.25},
			ViewDir: v3.Vec{Z: -9},
		},
	})
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	want := v3.Vec{X: 0, Y: -1, Z: 0}
	if s.Anchor.Sub(want).Length() > 1e-9 {
		t.Errorf("Anchor = %v, want %v", s.Anchor, want)
	}
}

func TestCastDegenerate(t *testing.T) {
	tests := []struct {
		name string
		run  shadow.DuctRun
	}{
		{
			name: "AxisParallelToView",
			run: shadow.DuctRun{
				Axis: v3.Vec{Z: -1}, Width: 2, Height: 1, Length: 4,
				Frame: planFrame(),
			},
		},
		{
			name: "AxisAntiParallelToView",
			run: shadow.DuctRun{
				Axis: v3.Vec{Z: 1}, Width: 2, Height: 1, Length: 4,
				Frame: planFrame(),
			},
		},
		{
			name: "ZeroAxis",
			run: shadow.DuctRun{
				Axis: v3.Vec{}, Width: 2, Height: 1, Length: 4,
				Frame: planFrame(),
			},
		},
		{
			name: "ZeroFrame",
			run: shadow.DuctRun{
				Axis: v3.Vec{X: 1}, Width: 2, Height: 1, Length: 4,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := shadow.Cast(tt.run)
			if err == nil {
				t.Fatalf("Cast succeeded with %+v", s)
			}
			if _, ok := err.(*geom.DegenerateError); !ok {
				t.Errorf("error %T (%v), want DegenerateError", err, err)
			}
		})
	}
}

func TestCastTiltedRun(t *testing.T) {
	// A run climbing at 45 degrees still projects a finite footprint and
	// keeps the anchor at the minimum projected corner.
	s, err := shadow.Cast(shadow.DuctRun{
		Start:  v3.Vec{},
		Axis:   v3.Vec{X: 1, Z: 1},
		Width:  2,
		Height: 1,
		Length: math.Sqrt2 * 4,
		Frame:  planFrame(),
	})
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	for _, uv := range s.Projected {
		if uv.U < s.Anchor.X-1e-9 || uv.V < s.Anchor.Y-1e-9 {
			t.Errorf("corner (%v, %v) below anchor %v", uv.U, uv.V, s.Anchor)
		}
	}
	if s.Anchor.Z != 0 {
		t.Errorf("Anchor.Z = %v, want 0", s.Anchor.Z)
	}
}
