package analysis

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Edge is one undirected, weighted edge of the input graph. The
// (Source, Target) pair is unordered: (A, B) and (B, A) describe the same
// edge, and duplicate pairs are coalesced by the builder by summing their
// weights. Source == Target describes a self-loop.
type Edge struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// E returns an edge with the default weight of 1.
func E(source, target string) Edge {
	return Edge{Source: source, Target: target, Weight: 1}
}

// WE returns an edge with an explicit weight.
func WE(source, target string, weight float64) Edge {
	return Edge{Source: source, Target: target, Weight: weight}
}

// Validate reports whether the edge weight is usable. Negative and
// non-finite weights are rejected; zero is allowed.
func (e Edge) Validate() error {
	if e.Weight < 0 || math.IsInf(e.Weight, 0) || math.IsNaN(e.Weight) {
		return fmt.Errorf("edge %s-%s has weight %v: %w", e.Source, e.Target, e.Weight, ErrInvalidWeight)
	}
	return nil
}

// edgeWire mirrors Edge with an optional weight so that decoding can apply
// the default of 1 when the field is absent. A weight that is present but
// zero stays zero.
type edgeWire struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Weight *float64 `json:"weight" yaml:"weight"`
}

func (w edgeWire) edge() Edge {
	e := Edge{Source: w.Source, Target: w.Target, Weight: 1}
	if w.Weight != nil {
		e.Weight = *w.Weight
	}
	return e
}

// UnmarshalJSON decodes an edge record, defaulting a missing weight to 1.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var w edgeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = w.edge()
	return nil
}

// UnmarshalYAML decodes an edge record, defaulting a missing weight to 1.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	var w edgeWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	*e = w.edge()
	return nil
}
