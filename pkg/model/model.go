// Package model defines the collaborator interfaces through which the
// geometric core talks to a host model: elements with optional
// capability surfaces, the active view, the annotation symbol catalog,
// the annotation service, and the transaction scope.
//
// Capabilities are modeled as separate interfaces probed by type
// assertion. A host element implements whichever subset it supports;
// every consumer tolerates any subset being absent.
package model

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Element is the minimal surface every model element exposes. All other
// access patterns are optional capabilities discovered by assertion.
type Element interface {
	ID() string
	Category() string
}

// Curve is a straight location curve between two endpoints.
type Curve struct {
	Start v3.Vec
	End   v3.Vec
}

// Direction returns the unnormalized start-to-end vector.
func (c Curve) Direction() v3.Vec {
	return c.End.Sub(c.Start)
}

// CurveLocator exposes an element's location when it is a simple curve.
type CurveLocator interface {
	LocationCurve() (Curve, bool)
}

// BoundsProvider exposes an element's bounding volume, optionally
// specific to a view. The second return is false when no volume exists.
type BoundsProvider interface {
	BoundingBox(view View) (sdf.Box3, bool)
}

// ConnectorCollection is the collection-with-count connector accessor.
type ConnectorCollection interface {
	ConnectorCount() int
	ConnectorAt(i int) (Connector, error)
}

// ConnectorIterable is the direct-iterable connector accessor.
type ConnectorIterable interface {
	Connectors() []Connector
}

// EndConnectors exposes distinguished primary/secondary connectors.
type EndConnectors interface {
	PrimaryConnector() (Connector, bool)
	SecondaryConnector() (Connector, bool)
}

// ConnectorGetter is the generic accessor-returning-sequence pattern.
type ConnectorGetter interface {
	GetConnectors() ([]Connector, error)
}

// ParameterAccess exposes named string parameters on an element.
type ParameterAccess interface {
	Parameter(name string) (string, bool)
	SetParameter(name, value string) error
}

// View exposes the right/up/view-direction vectors and origin of the
// active view. Vectors are expected to be unit length.
type View interface {
	Origin() v3.Vec
	Right() v3.Vec
	Up() v3.Vec
	ViewDirection() v3.Vec
}

// Symbol is an annotation label type available in the catalog.
type Symbol interface {
	FamilyName() string
	TypeName() string
	IsActive() bool
	Activate() error
}

// SymbolCatalog lists the label symbols available for a category.
type SymbolCatalog interface {
	Symbols(category string) []Symbol
}

// Annotation is a handle to a placed annotation.
type Annotation interface {
	ID() string
	TaggedElementID() string
	FamilyName() string
	SetHeadPosition(p v3.Vec) error
	SetHorizontal() error
	SetLeaderVisible(visible bool) error
}

// AnnotationService creates and lists annotations in the active view.
// Regenerate is the synchronization point required between creating an
// annotation and repositioning its head: the head position is not
// reliable until the model recomputes.
type AnnotationService interface {
	Create(el Element, sym Symbol, at v3.Vec) (Annotation, error)
	AnnotationsInView() []Annotation
	Regenerate()
}

// Transaction is an exclusive mutation scope with explicit start/commit
// and rollback on abort.
type Transaction interface {
	Start(name string) error
	Commit() error
	Rollback() error
}

// ParamError reports a named parameter that is absent or read-only.
// Non-fatal: callers skip the element and log.
type ParamError struct {
	ElementID string
	Name      string
	Reason    string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("parameter %q on element %s: %s", e.Name, e.ElementID, e.Reason)
}
