package flow_test

import (
	"testing"

	"github.com/mepkit/ducttag/pkg/flow"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want flow.SizeSpec
	}{
		{
			name: "Round",
			in:   "12ø",
			want: flow.SizeSpec{
				Raw:    "12ø",
				Inlet:  flow.EndSize{Shape: flow.ShapeRound, Diameter: 12},
				Outlet: flow.EndSize{Shape: flow.ShapeRound, Diameter: 12},
			},
		},
		{
			name: "RoundUppercase",
			in:   `14"Ø`,
			want: flow.SizeSpec{
				Raw:    "14ø",
				Inlet:  flow.EndSize{Shape: flow.ShapeRound, Diameter: 14},
				Outlet: flow.EndSize{Shape: flow.ShapeRound, Diameter: 14},
			},
		},
		{
			name: "Rectangle",
			in:   "12x8",
			want: flow.SizeSpec{
				Raw:    "12x8",
				Inlet:  flow.EndSize{Shape: flow.ShapeRect, Width: 12, Height: 8},
				Outlet: flow.EndSize{Shape: flow.ShapeRect, Width: 12, Height: 8},
			},
		},
		{
			name: "RectangleUnicodeTimes",
			in:   "12×12",
			want: flow.SizeSpec{
				Raw:    "12×12",
				Inlet:  flow.EndSize{Shape: flow.ShapeRect, Width: 12, Height: 12},
				Outlet: flow.EndSize{Shape: flow.ShapeRect, Width: 12, Height: 12},
			},
		},
		{
			name: "Oval",
			in:   "40/20",
			want: flow.SizeSpec{
				Raw: "40/20",
				Inlet: flow.EndSize{
					Shape: flow.ShapeOval, Width: 40, Height: 20,
					Diameter: 20, OvalDia: 30, OvalFlat: 20,
				},
				Outlet: flow.EndSize{
					Shape: flow.ShapeOval, Width: 40, Height: 20,
					Diameter: 20, OvalDia: 30, OvalFlat: 20,
				},
			},
		},
		{
			name: "CompoundInletOutlet",
			in:   "40/20-12ø",
			want: flow.SizeSpec{
				Raw: "40/20-12ø",
				Inlet: flow.EndSize{
					Shape: flow.ShapeOval, Width: 40, Height: 20,
					Diameter: 20, OvalDia: 30, OvalFlat: 20,
				},
				Outlet: flow.EndSize{Shape: flow.ShapeRound, Diameter: 12},
			},
		},
		{
			name: "WhitespaceAndCase",
			in:   "  12 X 8  ",
			want: flow.SizeSpec{
				Raw:    "12 x 8",
				Inlet:  flow.EndSize{Shape: flow.ShapeRect, Width: 12, Height: 8},
				Outlet: flow.EndSize{Shape: flow.ShapeRect, Width: 12, Height: 8},
			},
		},
		{
			name: "Unparseable",
			in:   "custom fitting",
			want: flow.SizeSpec{Raw: "custom fitting"},
		},
		{
			name: "Empty",
			in:   "",
			want: flow.SizeSpec{Raw: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flow.ParseSize(tt.in)
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSizeSpecUnequal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"SingleToken", "12x8", false},
		{"SameBothEnds", "12x8-12x8", false},
		{"WithinTolerance", "12x8-12.5x8", false},
		{"DifferentRect", "12x8-20x8", true},
		{"ShapeChange", "12x12-12ø", true},
		{"CompoundOvalRound", "40/20-12ø", true},
		{"Unparseable", "whatever", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flow.ParseSize(tt.in).Unequal(); got != tt.want {
				t.Errorf("ParseSize(%q).Unequal() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShapeString(t *testing.T) {
	tests := []struct {
		shape flow.Shape
		want  string
	}{
		{flow.ShapeNone, "none"},
		{flow.ShapeRound, "round"},
		{flow.ShapeRect, "rectangle"},
		{flow.ShapeOval, "oval"},
	}
	for _, tt := range tests {
		if got := tt.shape.String(); got != tt.want {
			t.Errorf("Shape(%d).String() = %q, want %q", tt.shape, got, tt.want)
		}
	}
}
