package flow

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/mepkit/ducttag/pkg/model"
)

func roundConn(diameter float64) model.Connector {
	return model.Connector{Radius: diameter / 2}
}

func rectConn(w, h float64) model.Connector {
	return model.Connector{Width: w, Height: h}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name string
		conn model.Connector
		size EndSize
		want int
	}{
		{"RoundExact", roundConn(12), EndSize{Shape: ShapeRound, Diameter: 12}, scoreExact},
		{"RoundWithinTolerance", roundConn(12.8), EndSize{Shape: ShapeRound, Diameter: 12}, scoreExact},
		{"RoundOutsideTolerance", roundConn(14), EndSize{Shape: ShapeRound, Diameter: 12}, 0},
		{"RoundAgainstRect", roundConn(12), EndSize{Shape: ShapeRect, Width: 12, Height: 12}, 0},
		{"RectExact", rectConn(12, 8), EndSize{Shape: ShapeRect, Width: 12, Height: 8}, scoreExact},
		{"RectSwapped", rectConn(8, 12), EndSize{Shape: ShapeRect, Width: 12, Height: 8}, scoreSwapped},
		{"RectSquareExactBeatsSwap", rectConn(12, 12), EndSize{Shape: ShapeRect, Width: 12, Height: 12}, scoreExact},
		{"RectMismatch", rectConn(20, 20), EndSize{Shape: ShapeRect, Width: 12, Height: 8}, 0},
		{"RectMissingDims", model.Connector{}, EndSize{Shape: ShapeRect, Width: 12, Height: 8}, 0},
		{"OvalExact", rectConn(40, 20), EndSize{Shape: ShapeOval, Width: 40, Height: 20}, scoreExact},
		{"OvalSwapped", rectConn(20, 40), EndSize{Shape: ShapeOval, Width: 40, Height: 20}, scoreSwapped},
		{"NoShape", rectConn(12, 8), EndSize{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchScore(tt.conn, tt.size); got != tt.want {
				t.Errorf("matchScore(%+v, %+v) = %d, want %d", tt.conn, tt.size, got, tt.want)
			}
		})
	}
}

func TestOrderBySize(t *testing.T) {
	spec := ParseSize("40/20-12ø") // oval inlet, round outlet

	ovalEnd := rectConn(40, 20)
	ovalEnd.Origin = v3.Vec{}
	roundEnd := roundConn(12)
	roundEnd.Origin = v3.Vec{X: 10}

	t.Run("KeepsCorrectOrder", func(t *testing.T) {
		pair := OrderBySize(EndpointPair{Inlet: &ovalEnd, Outlet: &roundEnd}, spec)
		if pair.Inlet != &ovalEnd || pair.Outlet != &roundEnd {
			t.Error("correctly ordered pair was reordered")
		}
	})

	t.Run("SwapsReversedOrder", func(t *testing.T) {
		pair := OrderBySize(EndpointPair{Inlet: &roundEnd, Outlet: &ovalEnd}, spec)
		if pair.Inlet != &ovalEnd || pair.Outlet != &roundEnd {
			t.Error("reversed pair was not swapped")
		}
	})

	t.Run("TieKeepsOrder", func(t *testing.T) {
		// A connector matching neither nominal end scores 0 against both.
		blank := model.Connector{}
		other := model.Connector{Origin: v3.Vec{X: 5}}
		pair := OrderBySize(EndpointPair{Inlet: &blank, Outlet: &other}, spec)
		if pair.Inlet != &blank {
			t.Error("tie must keep the original order")
		}
	})

	t.Run("EqualSpecUntouched", func(t *testing.T) {
		equal := ParseSize("12x8")
		pair := OrderBySize(EndpointPair{Inlet: &roundEnd, Outlet: &ovalEnd}, equal)
		if pair.Inlet != &roundEnd {
			t.Error("equal-size spec must not reorder")
		}
	})

	t.Run("NilEnds", func(t *testing.T) {
		pair := OrderBySize(EndpointPair{}, spec)
		if !pair.Empty() {
			t.Error("empty pair must stay empty")
		}
	})
}
