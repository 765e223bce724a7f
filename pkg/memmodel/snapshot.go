package memmodel

import (
	"fmt"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"

	"github.com/mepkit/ducttag/pkg/model"
)

// YAML snapshot format. Unknown fields are rejected at decode time so a
// typo in a snapshot surfaces as an error instead of a silently ignored
// key.

type vecYAML [3]float64

func (v vecYAML) vec() v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

type viewYAML struct {
	Origin    vecYAML `yaml:"origin"`
	Right     vecYAML `yaml:"right"`
	Up        vecYAML `yaml:"up"`
	Direction vecYAML `yaml:"direction"`
}

type symbolYAML struct {
	Family   string `yaml:"family"`
	Type     string `yaml:"type"`
	Category string `yaml:"category"`
	Inactive bool   `yaml:"inactive"`
}

type curveYAML struct {
	Start vecYAML `yaml:"start"`
	End   vecYAML `yaml:"end"`
}

type boundsYAML struct {
	Min vecYAML `yaml:"min"`
	Max vecYAML `yaml:"max"`
}

type connectorYAML struct {
	Origin     vecYAML  `yaml:"origin"`
	WidthAxis  *vecYAML `yaml:"width_axis"`
	HeightAxis *vecYAML `yaml:"height_axis"`
	Flow       *vecYAML `yaml:"flow"`
	Width      float64  `yaml:"width"`
	Height     float64  `yaml:"height"`
	Radius     float64  `yaml:"radius"`
	Role       string   `yaml:"role"`
}

type elementYAML struct {
	ID         string          `yaml:"id"`
	Category   string          `yaml:"category"`
	Size       string          `yaml:"size"`
	Curve      *curveYAML      `yaml:"curve"`
	Bounds     *boundsYAML     `yaml:"bounds"`
	Connectors []connectorYAML `yaml:"connectors"`
	Params     map[string]string `yaml:"params"`
}

type snapshotYAML struct {
	View     viewYAML      `yaml:"view"`
	Symbols  []symbolYAML  `yaml:"symbols"`
	Elements []elementYAML `yaml:"elements"`
}

// Load reads a YAML snapshot into a Model.
func Load(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var snap snapshotYAML
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	m := New(NewView(
		snap.View.Origin.vec(),
		snap.View.Right.vec(),
		snap.View.Up.vec(),
		snap.View.Direction.vec(),
	))

	for _, s := range snap.Symbols {
		m.AddSymbol(NewSymbol(s.Family, s.Type, s.Category, !s.Inactive))
	}

	for _, e := range snap.Elements {
		el, err := buildElement(e)
		if err != nil {
			return nil, err
		}
		m.AddElement(el)
	}
	return m, nil
}

// LoadFile reads a YAML snapshot from disk.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func buildElement(e elementYAML) (*Element, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("element with empty id")
	}
	el := NewElement(e.ID, e.Category)

	if e.Curve != nil {
		el.SetCurve(e.Curve.Start.vec(), e.Curve.End.vec())
	}
	if e.Bounds != nil {
		el.SetBounds(e.Bounds.Min.vec(), e.Bounds.Max.vec())
	}
	if e.Size != "" {
		el.SetParam("Size", e.Size)
	}
	for k, v := range e.Params {
		el.SetParam(k, v)
	}

	primary, secondary := -1, -1
	for i, c := range e.Connectors {
		conn := model.Connector{
			Origin: c.Origin.vec(),
			Width:  c.Width,
			Height: c.Height,
			Radius: c.Radius,
		}
		if c.WidthAxis != nil || c.HeightAxis != nil || c.Flow != nil {
			basis := &model.Basis{}
			if c.WidthAxis != nil {
				basis.Width = c.WidthAxis.vec()
			}
			if c.HeightAxis != nil {
				basis.Height = c.HeightAxis.vec()
			}
			if c.Flow != nil {
				basis.Flow = c.Flow.vec()
			}
			conn.Basis = basis
		}

		// Roles form a closed set; anything else is a snapshot error.
		switch c.Role {
		case "":
		case "primary":
			primary = i
		case "secondary":
			secondary = i
		default:
			return nil, fmt.Errorf("element %s: unknown connector role %q", e.ID, c.Role)
		}
		el.AddConnector(conn)
	}
	el.MarkEnds(primary, secondary)
	return el, nil
}
