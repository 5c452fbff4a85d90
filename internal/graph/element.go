// Package graph holds the node and edge records handed to a graph view, their
// Cytoscape.js JSON form and the referential checks run before a view is built.
package graph

import (
	"encoding/json"
	"maps"

	"github.com/cockroachdb/errors"
)

// Kind discriminates the two element variants.
type Kind int

const (
	KindNode Kind = iota
	KindEdge
)

func (k Kind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "node"
}

// Element is either a node or an edge. Source and Target are only meaningful
// for edges; Label, Weight and Attrs only for nodes.
type Element struct {
	Kind   Kind
	ID     string
	Label  string
	Weight *float64
	Source string
	Target string
	// Attrs carries any other data attributes so they survive a round trip.
	Attrs map[string]any
}

func Node(id string) Element {
	return Element{Kind: KindNode, ID: id}
}

func Edge(id, source, target string) Element {
	return Element{Kind: KindEdge, ID: id, Source: source, Target: target}
}

func (e Element) WithLabel(label string) Element {
	e.Label = label
	return e
}

func (e Element) WithWeight(w float64) Element {
	e.Weight = &w
	return e
}

func (e Element) WithAttr(key string, value any) Element {
	attrs := make(map[string]any, len(e.Attrs)+1)
	maps.Copy(attrs, e.Attrs)
	attrs[key] = value
	e.Attrs = attrs
	return e
}

func (e Element) IsNode() bool { return e.Kind == KindNode }
func (e Element) IsEdge() bool { return e.Kind == KindEdge }

// Data looks up a data attribute the way a `data(attr)` style mapper sees it.
func (e Element) Data(attr string) (any, bool) {
	switch attr {
	case "id":
		return e.ID, true
	case "label":
		if e.Label != "" {
			return e.Label, true
		}
	case "weight":
		if e.Weight != nil {
			return *e.Weight, true
		}
	case "source":
		if e.IsEdge() {
			return e.Source, true
		}
	case "target":
		if e.IsEdge() {
			return e.Target, true
		}
	}
	v, ok := e.Attrs[attr]
	return v, ok
}

// Clone returns a copy that shares nothing mutable with e.
func (e Element) Clone() Element {
	if e.Weight != nil {
		w := *e.Weight
		e.Weight = &w
	}
	e.Attrs = maps.Clone(e.Attrs)
	return e
}

func (e Element) data() map[string]any {
	data := make(map[string]any, len(e.Attrs)+4)
	maps.Copy(data, e.Attrs)
	data["id"] = e.ID
	if e.IsEdge() {
		data["source"] = e.Source
		data["target"] = e.Target
		return data
	}
	if e.Label != "" {
		data["label"] = e.Label
	}
	if e.Weight != nil {
		data["weight"] = *e.Weight
	}
	return data
}

type envelope struct {
	Group string                     `json:"group,omitempty"`
	Data  map[string]json.RawMessage `json:"data"`
}

// MarshalJSON writes the Cytoscape element form: {"data": {"id": ...}}.
func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data map[string]any `json:"data"`
	}{e.data()})
}

// UnmarshalJSON reads {"data": {...}}. An element is an edge when its data has
// both source and target, or when its group is "edges".
func (e *Element) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.Data == nil {
		return errors.Wrap(ErrInvalidElement, "missing data object")
	}

	var out Element
	if err := decodeString(env.Data, "id", &out.ID); err != nil {
		return err
	}
	_, hasSource := env.Data["source"]
	_, hasTarget := env.Data["target"]
	if env.Group == "edges" || (hasSource && hasTarget) {
		out.Kind = KindEdge
		if err := decodeString(env.Data, "source", &out.Source); err != nil {
			return err
		}
		if err := decodeString(env.Data, "target", &out.Target); err != nil {
			return err
		}
	}

	for key, raw := range env.Data {
		switch key {
		case "id", "source", "target":
			if out.IsEdge() || key == "id" {
				continue
			}
		case "label":
			if out.IsNode() {
				if err := decodeString(env.Data, key, &out.Label); err != nil {
					return err
				}
				continue
			}
		case "weight":
			if out.IsNode() {
				var w float64
				if err := json.Unmarshal(raw, &w); err != nil {
					return errors.Wrapf(ErrInvalidElement, "element %q: weight is not a number", out.ID)
				}
				out.Weight = &w
				continue
			}
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if out.Attrs == nil {
			out.Attrs = make(map[string]any)
		}
		out.Attrs[key] = v
	}

	*e = out
	return nil
}

func decodeString(data map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := data[key]
	if !ok {
		return errors.Wrapf(ErrInvalidElement, "missing %q", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(ErrInvalidElement, "%q is not a string", key)
	}
	return nil
}

// Counts returns the number of nodes and edges in elements.
func Counts(elements []Element) (nodes, edges int) {
	for _, e := range elements {
		if e.IsEdge() {
			edges++
		} else {
			nodes++
		}
	}
	return nodes, edges
}

// Clone deep-copies a slice of elements.
func Clone(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}
