package flow

import (
	"math"

	"github.com/mepkit/ducttag/pkg/model"
)

// MatchTol is the dimension tolerance, in the common linear unit, used
// when comparing connector dimensions to nominal sizes.
const MatchTol = 1.0

// Match scores. A swapped width/height match scores lower than an exact
// one so that a transposed rectangle never outranks a true match.
const (
	scoreExact   = 10
	scoreSwapped = 8
)

// matchScore rates how well a connector's physical dimensions agree
// with a nominal end size. Zero means no match.
func matchScore(c model.Connector, n EndSize) int {
	switch n.Shape {
	case ShapeRound:
		if c.Radius > 0 && math.Abs(c.Diameter()-n.Diameter) <= MatchTol {
			return scoreExact
		}
	case ShapeRect, ShapeOval:
		if c.Width > 0 && c.Height > 0 {
			if math.Abs(c.Width-n.Width) <= MatchTol && math.Abs(c.Height-n.Height) <= MatchTol {
				return scoreExact
			}
			// Width/height axis labels are ambiguous across hosts; a
			// transposed match still counts, at a lower score.
			if math.Abs(c.Width-n.Height) <= MatchTol && math.Abs(c.Height-n.Width) <= MatchTol {
				return scoreSwapped
			}
		}
	}
	return 0
}

// OrderBySize reorders a candidate pair so the physical connector
// dimensions best match the nominal inlet/outlet assignment. The first
// candidate is scored against both nominal ends; when it matches the
// outlet strictly better than the inlet, the pair is swapped. Ties keep
// the original order. Best effort: a pair that matches nothing is
// returned unchanged.
func OrderBySize(pair EndpointPair, spec SizeSpec) EndpointPair {
	if pair.Inlet == nil || pair.Outlet == nil || !spec.Unequal() {
		return pair
	}
	inletScore := matchScore(*pair.Inlet, spec.Inlet)
	outletScore := matchScore(*pair.Inlet, spec.Outlet)
	if inletScore >= outletScore {
		return pair
	}
	return EndpointPair{Inlet: pair.Outlet, Outlet: pair.Inlet}
}
