// Package tag places annotations on horizontal duct elements in a view.
// It runs a per-element state machine (skip, tag, fail) inside a single
// transaction scope: either the whole batch commits, or a fatal label
// lookup failure rolls back every annotation created in the pass.
package tag

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mepkit/ducttag/pkg/geom"
	"github.com/mepkit/ducttag/pkg/model"
)

// Status is the terminal state of one element in a tagging pass.
type Status int

const (
	StatusSkipped Status = iota
	StatusTagged
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusTagged:
		return "tagged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one element. Reason is set for
// skipped and failed elements.
type Outcome struct {
	ElementID string
	Status    Status
	Reason    string
}

// LabelNotFoundError reports that no annotation symbol matched the
// requested label substring. Fatal: the tagging batch aborts and rolls
// back.
type LabelNotFoundError struct {
	Needle   string
	Category string
}

func (e *LabelNotFoundError) Error() string {
	return fmt.Sprintf("no label found matching %q in category %q", e.Needle, e.Category)
}

// Services bundles the host collaborators one tagging pass needs.
// Passing them explicitly keeps the core free of process-wide bindings.
type Services struct {
	View        model.View
	Catalog     model.SymbolCatalog
	Annotations model.AnnotationService
	Tx          model.Transaction
}

// FrameFromView builds a normalized projection frame from a view's
// origin and axes.
func FrameFromView(v model.View) (geom.Frame, error) {
	return geom.Frame{
		Origin:  v.Origin(),
		Right:   v.Right(),
		Up:      v.Up(),
		ViewDir: v.ViewDirection(),
	}.Normalized()
}

// Summarize counts outcomes by terminal status.
func Summarize(outcomes []Outcome) map[Status]int {
	return lo.CountValuesBy(outcomes, func(o Outcome) Status { return o.Status })
}
