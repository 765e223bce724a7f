package model

import v3 "github.com/deadsy/sdfx/vec/v3"

// Basis is a connector's local orthonormal frame: the width and height
// axes of the opening and the flow axis pointing out of the element.
type Basis struct {
	Width  v3.Vec // basis X
	Height v3.Vec // basis Y
	Flow   v3.Vec // basis Z
}

// Connector describes a point-like flow feature on an element: an
// origin, an optional orientation frame, optional physical dimensions,
// and a weak back-reference to the owning element. Connectors are
// transient values derived fresh from the element on each extraction.
type Connector struct {
	Origin v3.Vec
	Basis  *Basis // nil when the host exposes no coordinate system

	// Physical opening dimensions in the model's linear unit. Zero
	// means not available. Radius is set for round connectors,
	// Width/Height for rectangular ones.
	Width  float64
	Height float64
	Radius float64

	OwnerID string // lookup only, no ownership
}

// HasFlow reports whether the connector carries a flow-direction basis.
func (c Connector) HasFlow() bool {
	return c.Basis != nil && c.Basis.Flow.Length() > 0
}

// Diameter returns the round diameter, or zero for non-round connectors.
func (c Connector) Diameter() float64 {
	return c.Radius * 2
}
