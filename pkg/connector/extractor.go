// Package connector gathers connector descriptors from a model element.
//
// Host elements expose connectors through several inconsistent access
// patterns. The extractor probes an explicit ordered list of named
// strategies, merges everything the successful ones return, and
// deduplicates by origin position. A strategy that fails contributes
// nothing; probing is never fatal.
package connector

import (
	"math"

	"github.com/mepkit/ducttag/pkg/model"
)

// Strategy is one named connector-access pattern. Probe returns the
// connectors the pattern yields, or an error when the element exposes
// the capability but it misbehaves. Elements lacking the capability
// yield (nil, nil).
type Strategy struct {
	Name  string
	Probe func(el model.Element) ([]model.Connector, error)
}

// Strategies returns the probe list in priority order: the
// collection-with-count accessor, the direct iterable, the
// primary/secondary pair, then the generic getter.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "collection", Probe: probeCollection},
		{Name: "iterable", Probe: probeIterable},
		{Name: "ends", Probe: probeEnds},
		{Name: "getter", Probe: probeGetter},
	}
}

func probeCollection(el model.Element) ([]model.Connector, error) {
	cc, ok := el.(model.ConnectorCollection)
	if !ok {
		return nil, nil
	}
	var out []model.Connector
	for i := 0; i < cc.ConnectorCount(); i++ {
		c, err := cc.ConnectorAt(i)
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}

func probeIterable(el model.Element) ([]model.Connector, error) {
	ci, ok := el.(model.ConnectorIterable)
	if !ok {
		return nil, nil
	}
	return ci.Connectors(), nil
}

func probeEnds(el model.Element) ([]model.Connector, error) {
	ec, ok := el.(model.EndConnectors)
	if !ok {
		return nil, nil
	}
	var out []model.Connector
	if c, ok := ec.PrimaryConnector(); ok {
		out = append(out, c)
	}
	if c, ok := ec.SecondaryConnector(); ok {
		out = append(out, c)
	}
	return out, nil
}

func probeGetter(el model.Element) ([]model.Connector, error) {
	cg, ok := el.(model.ConnectorGetter)
	if !ok {
		return nil, nil
	}
	return cg.GetConnectors()
}

// ProbeResult records the outcome of one strategy for an element.
type ProbeResult struct {
	Strategy   string
	Connectors []model.Connector
	Err        error
}

// Probe runs every strategy against the element and reports each
// outcome. A failing strategy still contributes whatever it gathered
// before the failure.
func Probe(el model.Element) []ProbeResult {
	strategies := Strategies()
	results := make([]ProbeResult, 0, len(strategies))
	for _, s := range strategies {
		conns, err := s.Probe(el)
		results = append(results, ProbeResult{Strategy: s.Name, Connectors: conns, Err: err})
	}
	return results
}

// Extract returns the element's connectors, merged across all
// strategies and deduplicated by origin. The first-seen connector for a
// given origin wins, so higher-priority strategies take precedence.
// Returns an empty slice when no strategy yields anything.
func Extract(el model.Element) []model.Connector {
	var out []model.Connector
	seen := make(map[originKey]struct{})
	for _, r := range Probe(el) {
		for _, c := range r.Connectors {
			key := keyFor(c)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// originKey identifies a connector position to 9 decimal places.
// Origins that agree at that precision collapse to one connector.
type originKey struct {
	x, y, z float64
}

func keyFor(c model.Connector) originKey {
	return originKey{
		x: round9(c.Origin.X),
		y: round9(c.Origin.Y),
		z: round9(c.Origin.Z),
	}
}

func round9(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
