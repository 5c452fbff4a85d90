package style

import (
	"strings"

	"github.com/psidex/zkgraph/internal/graph"
)

// State is the interaction state an element is drawn in.
type State struct {
	Selected bool
	Grabbed  bool
}

// Matches reports whether a single selector (no commas) applies to e in state.
// Supported: "node", "edge", "*" optionally followed by :selected,
// :unselected and :grabbed. Anything else never matches.
func Matches(selector string, e graph.Element, state State) bool {
	parts := strings.Split(strings.TrimSpace(selector), ":")
	switch parts[0] {
	case "*", "":
	case e.Kind.String():
	default:
		return false
	}

	for _, pseudo := range parts[1:] {
		switch pseudo {
		case "selected":
			if !state.Selected {
				return false
			}
		case "unselected":
			if state.Selected {
				return false
			}
		case "grabbed":
			if !e.IsNode() || !state.Grabbed {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Computed holds resolved property values for one element.
type Computed map[string]any

// Compute applies every rule that matches e in order, later declarations
// overriding earlier ones, and evaluates data mappers against e.
func (s *Stylesheet) Compute(e graph.Element, state State) Computed {
	out := Computed{}
	if s == nil {
		return out
	}
	for _, r := range s.rules {
		if !r.matches(e, state) {
			continue
		}
		for _, d := range r.Declarations {
			if v, ok := d.Value.Eval(e); ok {
				out[d.Property] = v
			}
		}
	}
	return out
}

func (r Rule) matches(e graph.Element, state State) bool {
	for _, sel := range r.Selectors() {
		if Matches(sel, e, state) {
			return true
		}
	}
	return false
}

// String returns the property as text, formatting numbers without a unit.
func (c Computed) String(property string) (string, bool) {
	v, ok := c[property]
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return formatNum(v), true
	}
	return "", false
}

// Float returns the property as a number, accepting "10px" style strings.
func (c Computed) Float(property string) (float64, bool) {
	v, ok := c[property]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// FloatOr is Float with a fallback.
func (c Computed) FloatOr(property string, fallback float64) float64 {
	if f, ok := c.Float(property); ok {
		return f
	}
	return fallback
}

// StringOr is String with a fallback.
func (c Computed) StringOr(property, fallback string) string {
	if s, ok := c.String(property); ok {
		return s
	}
	return fallback
}
