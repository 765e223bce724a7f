// Package flow resolves the directional endpoints of a duct or pipe
// element: which connector is the inlet and which is the outlet. It
// combines connector extraction, farthest-pair search, curve fallbacks,
// and nominal-size disambiguation.
package flow

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Shape classifies a nominal cross section.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeRound
	ShapeRect
	ShapeOval
)

func (s Shape) String() string {
	switch s {
	case ShapeRound:
		return "round"
	case ShapeRect:
		return "rectangle"
	case ShapeOval:
		return "oval"
	default:
		return "none"
	}
}

// EndSize is the nominal dimensions of one end of an element, in a
// single linear unit. Round ends carry Diameter; rectangular and oval
// ends carry Width/Height. Oval ends additionally record the mean
// diameter and flat length.
type EndSize struct {
	Shape    Shape
	Width    float64
	Height   float64
	Diameter float64
	OvalDia  float64
	OvalFlat float64
}

// SizeSpec is the nominal inlet/outlet dimensions of an element,
// typically parsed from a size string such as "12x8", "12ø", "40/20"
// or the compound form "40/20-12ø" (inlet-outlet).
type SizeSpec struct {
	Raw    string
	Inlet  EndSize
	Outlet EndSize
}

var (
	roundPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[øØ]`)
	ovalPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)
	rectPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)`)
)

// ParseSize parses a size string into a SizeSpec. A single token
// applies to both ends; a "-" separates inlet from outlet. Tokens that
// match no known form yield ShapeNone, which the matcher scores zero.
func ParseSize(s string) SizeSpec {
	cleaned := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), `"`, ""))
	spec := SizeSpec{Raw: cleaned}

	inlet, outlet := cleaned, ""
	if i := strings.Index(cleaned, "-"); i >= 0 {
		inlet = strings.TrimSpace(cleaned[:i])
		outlet = strings.TrimSpace(cleaned[i+1:])
	}

	spec.Inlet = parseToken(inlet)
	if outlet != "" {
		spec.Outlet = parseToken(outlet)
	} else {
		spec.Outlet = spec.Inlet
	}
	return spec
}

func parseToken(token string) EndSize {
	if token == "" {
		return EndSize{}
	}
	if m := roundPattern.FindStringSubmatch(token); m != nil {
		d := parseNum(m[1])
		return EndSize{Shape: ShapeRound, Diameter: d}
	}
	if m := ovalPattern.FindStringSubmatch(token); m != nil {
		w, h := parseNum(m[1]), parseNum(m[2])
		return EndSize{
			Shape:    ShapeOval,
			Width:    w,
			Height:   h,
			Diameter: h, // oval minor diameter equals the height
			OvalDia:  (w + h) / 2,
			OvalFlat: math.Abs(w - h),
		}
	}
	if m := rectPattern.FindStringSubmatch(token); m != nil {
		return EndSize{Shape: ShapeRect, Width: parseNum(m[1]), Height: parseNum(m[2])}
	}
	return EndSize{}
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// Unequal reports whether the inlet and outlet nominal sizes differ,
// which is what makes size-based endpoint correction meaningful.
func (s SizeSpec) Unequal() bool {
	return !s.Inlet.equals(s.Outlet)
}

func (e EndSize) equals(o EndSize) bool {
	if e.Shape != o.Shape {
		return false
	}
	return within(e.Width, o.Width) &&
		within(e.Height, o.Height) &&
		within(e.Diameter, o.Diameter)
}

func within(a, b float64) bool {
	return math.Abs(a-b) <= MatchTol
}
