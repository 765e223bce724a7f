package tag

import (
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"github.com/mepkit/ducttag/pkg/geom"
	"github.com/mepkit/ducttag/pkg/model"
)

// Placer runs tagging passes over elements of one view.
type Placer struct {
	svc   Services
	frame geom.Frame
}

// NewPlacer builds a placer for the given services. Fails when the view
// axes are degenerate.
func NewPlacer(svc Services) (*Placer, error) {
	frame, err := FrameFromView(svc.View)
	if err != nil {
		return nil, err
	}
	return &Placer{svc: svc, frame: frame}, nil
}

// Frame returns the placer's normalized view frame.
func (p *Placer) Frame() geom.Frame {
	return p.frame
}

// FindLabel locates a label symbol by case-insensitive substring match
// against the combined family and type name of the symbols available
// for the category. Returns LabelNotFoundError when nothing matches.
func (p *Placer) FindLabel(category, contains string) (model.Symbol, error) {
	needle := strings.ToLower(contains)
	match, found := lo.Find(p.svc.Catalog.Symbols(category), func(s model.Symbol) bool {
		pool := strings.ToLower(s.FamilyName() + " " + s.TypeName())
		return strings.Contains(pool, needle)
	})
	if !found {
		return nil, &LabelNotFoundError{Needle: contains, Category: category}
	}
	return match, nil
}

// AlreadyTagged reports whether the element already carries an
// annotation of the given family in the active view.
func (p *Placer) AlreadyTagged(el model.Element, familyName string) bool {
	for _, ann := range p.svc.Annotations.AnnotationsInView() {
		if ann.TaggedElementID() == el.ID() && ann.FamilyName() == familyName {
			return true
		}
	}
	return false
}

// TagHorizontal tags every element whose location curve projects as
// horizontal in the view. The whole pass runs inside one transaction;
// a failed label lookup aborts it and rolls back, returning the error
// with no outcomes. Per-element problems never abort the batch.
func (p *Placer) TagHorizontal(elements []model.Element, category, labelContains string) ([]Outcome, error) {
	if err := p.svc.Tx.Start("Tag Horizontal Ducts"); err != nil {
		return nil, err
	}

	sym, err := p.FindLabel(category, labelContains)
	if err != nil {
		// Nothing can be tagged without a label: abort the scope.
		if rbErr := p.svc.Tx.Rollback(); rbErr != nil {
			logger.Errorf("rollback after label lookup failure: %v", rbErr)
		}
		return nil, err
	}

	if !sym.IsActive() {
		if err := sym.Activate(); err != nil {
			if rbErr := p.svc.Tx.Rollback(); rbErr != nil {
				logger.Errorf("rollback after symbol activation failure: %v", rbErr)
			}
			return nil, err
		}
		p.svc.Annotations.Regenerate()
	}

	outcomes := make([]Outcome, 0, len(elements))
	for _, el := range elements {
		var o Outcome
		if category != "" && el.Category() != category {
			// Every input element appears in the report, filtered ones
			// included.
			o = Outcome{ElementID: el.ID(), Status: StatusSkipped, Reason: "category mismatch"}
		} else {
			o = p.placeOne(el, sym)
		}
		switch o.Status {
		case StatusSkipped:
			logger.Debugf("element %s skipped: %s", o.ElementID, o.Reason)
		case StatusFailed:
			logger.Warnf("element %s failed: %s", o.ElementID, o.Reason)
		}
		outcomes = append(outcomes, o)
	}

	if err := p.svc.Tx.Commit(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// placeOne walks one element through the tagging state machine.
func (p *Placer) placeOne(el model.Element, sym model.Symbol) Outcome {
	o := Outcome{ElementID: el.ID()}

	if p.AlreadyTagged(el, sym.FamilyName()) {
		o.Status, o.Reason = StatusSkipped, "already tagged"
		return o
	}

	cl, ok := el.(model.CurveLocator)
	if !ok {
		o.Status, o.Reason = StatusSkipped, "no linear location"
		return o
	}
	curve, ok := cl.LocationCurve()
	if !ok {
		o.Status, o.Reason = StatusSkipped, "no linear location"
		return o
	}

	if !geom.IsHorizontal(p.frame.ProjectVector(curve.Direction())) {
		o.Status, o.Reason = StatusSkipped, "not horizontal"
		return o
	}

	bp, ok := el.(model.BoundsProvider)
	if !ok {
		o.Status, o.Reason = StatusSkipped, "no bounding volume"
		return o
	}
	box, ok := bp.BoundingBox(p.svc.View)
	if !ok {
		o.Status, o.Reason = StatusSkipped, "no bounding volume"
		return o
	}

	// Project the volume's corners relative to its center and anchor
	// the annotation at the bottom-left of the footprint.
	center := box.Center()
	local := p.frame.At(center)
	corners := box.Vertices()
	minU := local.Project(corners[0]).U
	minV := local.Project(corners[0]).V
	for _, c := range corners[1:] {
		uv := local.Project(c)
		if uv.U < minU {
			minU = uv.U
		}
		if uv.V < minV {
			minV = uv.V
		}
	}
	placement := local.Unproject(geom.UV{U: minU, V: minV})

	// Create at a placeholder point first; the head cannot be set
	// reliably until the model regenerates.
	ann, err := p.svc.Annotations.Create(el, sym, center)
	if err != nil {
		o.Status, o.Reason = StatusFailed, err.Error()
		return o
	}
	p.svc.Annotations.Regenerate()

	if err := ann.SetHeadPosition(placement); err != nil {
		o.Status, o.Reason = StatusFailed, err.Error()
		return o
	}
	if err := ann.SetHorizontal(); err != nil {
		o.Status, o.Reason = StatusFailed, err.Error()
		return o
	}
	if err := ann.SetLeaderVisible(false); err != nil {
		o.Status, o.Reason = StatusFailed, err.Error()
		return o
	}
	p.svc.Annotations.Regenerate()

	o.Status = StatusTagged
	return o
}
