// Package memmodel is an in-memory implementation of the model
// collaborator interfaces. It backs tests, the CLI, and the scripting
// engine with a model loaded from a YAML snapshot instead of a live
// host session.
package memmodel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"

	"github.com/mepkit/ducttag/pkg/model"
	"github.com/mepkit/ducttag/pkg/tag"
)

// View implements model.View with fixed axes.
type View struct {
	origin  v3.Vec
	right   v3.Vec
	up      v3.Vec
	viewDir v3.Vec
}

// NewView builds a view from its origin and axes.
func NewView(origin, right, up, viewDir v3.Vec) *View {
	return &View{origin: origin, right: right, up: up, viewDir: viewDir}
}

func (v *View) Origin() v3.Vec        { return v.origin }
func (v *View) Right() v3.Vec        { return v.right }
func (v *View) Up() v3.Vec           { return v.up }
func (v *View) ViewDirection() v3.Vec { return v.viewDir }

// Element implements model.Element and every optional capability, each
// backed by optional data: a capability without data reports absence.
type Element struct {
	id       string
	category string
	curve    *model.Curve
	box      *sdf.Box3
	conns    []model.Connector
	primary  int // index into conns, -1 when absent
	second   int
	params   map[string]string
}

// NewElement creates an element with no geometry attached.
func NewElement(id, category string) *Element {
	return &Element{
		id:       id,
		category: category,
		primary:  -1,
		second:   -1,
		params:   make(map[string]string),
	}
}

func (e *Element) ID() string       { return e.id }
func (e *Element) Category() string { return e.category }

// SetCurve attaches a straight location curve.
func (e *Element) SetCurve(start, end v3.Vec) *Element {
	e.curve = &model.Curve{Start: start, End: end}
	return e
}

// SetBounds attaches a bounding volume.
func (e *Element) SetBounds(min, max v3.Vec) *Element {
	e.box = &sdf.Box3{Min: min, Max: max}
	return e
}

// AddConnector appends a connector, stamping the owner reference.
func (e *Element) AddConnector(c model.Connector) *Element {
	c.OwnerID = e.id
	e.conns = append(e.conns, c)
	return e
}

// MarkEnds designates connector indices as primary and secondary.
func (e *Element) MarkEnds(primary, secondary int) *Element {
	e.primary, e.second = primary, secondary
	return e
}

// SetParam stores a named parameter value.
func (e *Element) SetParam(name, value string) *Element {
	e.params[name] = value
	return e
}

func (e *Element) LocationCurve() (model.Curve, bool) {
	if e.curve == nil {
		return model.Curve{}, false
	}
	return *e.curve, true
}

func (e *Element) BoundingBox(view model.View) (sdf.Box3, bool) {
	if e.box == nil {
		return sdf.Box3{}, false
	}
	return *e.box, true
}

func (e *Element) ConnectorCount() int { return len(e.conns) }

func (e *Element) ConnectorAt(i int) (model.Connector, error) {
	if i < 0 || i >= len(e.conns) {
		return model.Connector{}, fmt.Errorf("connector index %d out of range", i)
	}
	return e.conns[i], nil
}

func (e *Element) Connectors() []model.Connector {
	out := make([]model.Connector, len(e.conns))
	copy(out, e.conns)
	return out
}

func (e *Element) PrimaryConnector() (model.Connector, bool) {
	if e.primary < 0 || e.primary >= len(e.conns) {
		return model.Connector{}, false
	}
	return e.conns[e.primary], true
}

func (e *Element) SecondaryConnector() (model.Connector, bool) {
	if e.second < 0 || e.second >= len(e.conns) {
		return model.Connector{}, false
	}
	return e.conns[e.second], true
}

func (e *Element) GetConnectors() ([]model.Connector, error) {
	return e.Connectors(), nil
}

func (e *Element) Parameter(name string) (string, bool) {
	v, ok := e.params[name]
	return v, ok
}

func (e *Element) SetParameter(name, value string) error {
	if _, ok := e.params[name]; !ok {
		return &model.ParamError{ElementID: e.id, Name: name, Reason: "not found"}
	}
	e.params[name] = value
	return nil
}

// Symbol implements model.Symbol.
type Symbol struct {
	family   string
	typeName string
	category string
	active   bool
}

// NewSymbol creates a symbol for a category.
func NewSymbol(family, typeName, category string, active bool) *Symbol {
	return &Symbol{family: family, typeName: typeName, category: category, active: active}
}

func (s *Symbol) FamilyName() string { return s.family }
func (s *Symbol) TypeName() string   { return s.typeName }
func (s *Symbol) IsActive() bool     { return s.active }
func (s *Symbol) Activate() error {
	s.active = true
	return nil
}

// Annotation implements model.Annotation.
type Annotation struct {
	id         string
	elementID  string
	family     string
	Head       v3.Vec
	Horizontal bool
	Leader     bool
}

func (a *Annotation) ID() string              { return a.id }
func (a *Annotation) TaggedElementID() string { return a.elementID }
func (a *Annotation) FamilyName() string      { return a.family }

func (a *Annotation) SetHeadPosition(p v3.Vec) error {
	a.Head = p
	return nil
}

func (a *Annotation) SetHorizontal() error {
	a.Horizontal = true
	return nil
}

func (a *Annotation) SetLeaderVisible(visible bool) error {
	a.Leader = visible
	return nil
}

// Model holds one view's worth of elements, symbols, and annotations.
// It implements model.SymbolCatalog and model.AnnotationService, and
// issues transactions over its annotation store.
type Model struct {
	view        *View
	elements    []*Element
	symbols     []*Symbol
	annotations []*Annotation

	txActive   bool
	checkpoint int
}

// New creates a model with the given view.
func New(view *View) *Model {
	return &Model{view: view}
}

// View returns the active view.
func (m *Model) View() model.View { return m.view }

// AddElement registers an element.
func (m *Model) AddElement(e *Element) {
	m.elements = append(m.elements, e)
}

// AddSymbol registers a label symbol.
func (m *Model) AddSymbol(s *Symbol) {
	m.symbols = append(m.symbols, s)
}

// Elements lists all elements in collector order.
func (m *Model) Elements() []model.Element {
	out := make([]model.Element, len(m.elements))
	for i, e := range m.elements {
		out[i] = e
	}
	return out
}

// Element looks an element up by ID.
func (m *Model) Element(id string) (model.Element, bool) {
	for _, e := range m.elements {
		if e.id == id {
			return e, true
		}
	}
	return nil, false
}

// Symbols implements model.SymbolCatalog.
func (m *Model) Symbols(category string) []model.Symbol {
	var out []model.Symbol
	for _, s := range m.symbols {
		if category == "" || s.category == category {
			out = append(out, s)
		}
	}
	return out
}

// Create implements model.AnnotationService. Annotation mutation is
// only legal inside a transaction.
func (m *Model) Create(el model.Element, sym model.Symbol, at v3.Vec) (model.Annotation, error) {
	if !m.txActive {
		return nil, fmt.Errorf("annotation created outside a transaction")
	}
	family := ""
	if sym != nil {
		family = sym.FamilyName()
	}
	ann := &Annotation{
		id:        uuid.NewString(),
		elementID: el.ID(),
		family:    family,
		Head:      at,
	}
	m.annotations = append(m.annotations, ann)
	return ann, nil
}

// AnnotationsInView implements model.AnnotationService.
func (m *Model) AnnotationsInView() []model.Annotation {
	out := make([]model.Annotation, len(m.annotations))
	for i, a := range m.annotations {
		out[i] = a
	}
	return out
}

// Regenerate implements model.AnnotationService. The in-memory model
// has nothing to recompute.
func (m *Model) Regenerate() {}

// Transaction returns a transaction scoped to this model.
func (m *Model) Transaction() model.Transaction {
	return &tx{m: m}
}

// Services bundles this model's collaborators for a tagging pass.
func (m *Model) Services() tag.Services {
	return tag.Services{
		View:        m.view,
		Catalog:     m,
		Annotations: m,
		Tx:          m.Transaction(),
	}
}

// tx implements model.Transaction with rollback by truncating the
// annotation journal to its start checkpoint.
type tx struct {
	m *Model
}

func (t *tx) Start(name string) error {
	if t.m.txActive {
		return fmt.Errorf("transaction already active")
	}
	t.m.txActive = true
	t.m.checkpoint = len(t.m.annotations)
	return nil
}

func (t *tx) Commit() error {
	if !t.m.txActive {
		return fmt.Errorf("no active transaction")
	}
	t.m.txActive = false
	return nil
}

func (t *tx) Rollback() error {
	if !t.m.txActive {
		return fmt.Errorf("no active transaction")
	}
	t.m.annotations = t.m.annotations[:t.m.checkpoint]
	t.m.txActive = false
	return nil
}
