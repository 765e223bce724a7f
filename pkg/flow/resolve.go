package flow

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/mepkit/ducttag/pkg/connector"
	"github.com/mepkit/ducttag/pkg/geom"
	"github.com/mepkit/ducttag/pkg/model"
)

// EndpointPair is an ordered (inlet, outlet) pair of connector
// descriptors. Both fields are nil when the element carries no
// directional data. The pair holds values, not references into the host
// model.
type EndpointPair struct {
	Inlet  *model.Connector
	Outlet *model.Connector
}

// Empty reports whether no endpoints were resolved.
func (p EndpointPair) Empty() bool {
	return p.Inlet == nil && p.Outlet == nil
}

// Axis returns the inlet-to-outlet displacement.
func (p EndpointPair) Axis() v3.Vec {
	if p.Empty() {
		return v3.Vec{}
	}
	return p.Outlet.Origin.Sub(p.Inlet.Origin)
}

// AngleToHorizontal returns the signed angle between the pair's
// projected direction and the view's right axis.
func (p EndpointPair) AngleToHorizontal(frame geom.Frame) float64 {
	return geom.AngleBetween(frame.Right, p.Axis())
}

// Resolve selects an element's inlet and outlet, in priority order:
//
//  1. Distinguished primary/secondary connectors, when both resolve.
//  2. The farthest pair (by squared distance) among all extracted
//     connectors, when two or more exist.
//  3. A single connector paired with the farther endpoint of the
//     element's location curve.
//  4. The location curve's endpoints in natural start/end order.
//  5. Nothing: an empty pair.
//
// When a SizeSpec with unequal inlet/outlet dimensions is supplied,
// cases 1 and 2 are reordered by size matching. Otherwise case 2 is
// oriented by the inlet's flow basis when both ends carry one: the
// inlet's flow vector must point toward the outlet.
func Resolve(el model.Element, spec *SizeSpec) EndpointPair {
	sized := spec != nil && spec.Unequal()

	// Distinguished end connectors win outright.
	if ec, ok := el.(model.EndConnectors); ok {
		pc, pok := ec.PrimaryConnector()
		sc, sok := ec.SecondaryConnector()
		if pok && sok {
			pair := EndpointPair{Inlet: &pc, Outlet: &sc}
			if sized {
				pair = OrderBySize(pair, *spec)
			}
			return pair
		}
	}

	conns := connector.Extract(el)

	if len(conns) >= 2 {
		i, j := farthestPair(conns)
		inlet, outlet := conns[i], conns[j]
		pair := EndpointPair{Inlet: &inlet, Outlet: &outlet}
		if sized {
			return OrderBySize(pair, *spec)
		}
		return orientByFlow(pair)
	}

	curve, hasCurve := locationCurve(el)

	if len(conns) == 1 && hasCurve {
		c := conns[0]
		far := curve.End
		if c.Origin.Sub(curve.Start).Length2() > c.Origin.Sub(curve.End).Length2() {
			far = curve.Start
		}
		outlet := model.Connector{Origin: far, OwnerID: el.ID()}
		return EndpointPair{Inlet: &c, Outlet: &outlet}
	}

	if hasCurve {
		inlet := model.Connector{Origin: curve.Start, OwnerID: el.ID()}
		outlet := model.Connector{Origin: curve.End, OwnerID: el.ID()}
		return EndpointPair{Inlet: &inlet, Outlet: &outlet}
	}

	return EndpointPair{}
}

// farthestPair returns the indices (i, j), i < j, of the two connectors
// with maximum squared separation. Exhaustive scan; connector counts
// are small. On exact ties the first pair in ascending (i, j) order
// wins.
func farthestPair(conns []model.Connector) (int, int) {
	bi, bj := 0, 1
	best := -1.0
	for i := 0; i < len(conns); i++ {
		for j := i + 1; j < len(conns); j++ {
			d := conns[i].Origin.Sub(conns[j].Origin).Length2()
			if d > best {
				best = d
				bi, bj = i, j
			}
		}
	}
	return bi, bj
}

// orientByFlow swaps the pair when the candidate inlet's flow vector
// points away from the outlet. Without flow bases on both ends the
// discovery order stands; that default is a documented ambiguity, not
// an error.
func orientByFlow(pair EndpointPair) EndpointPair {
	if !pair.Inlet.HasFlow() || !pair.Outlet.HasFlow() {
		return pair
	}
	if pair.Inlet.Basis.Flow.Dot(pair.Axis()) < 0 {
		return EndpointPair{Inlet: pair.Outlet, Outlet: pair.Inlet}
	}
	return pair
}

func locationCurve(el model.Element) (model.Curve, bool) {
	cl, ok := el.(model.CurveLocator)
	if !ok {
		return model.Curve{}, false
	}
	return cl.LocationCurve()
}
