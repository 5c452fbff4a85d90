// Package style models Cytoscape.js stylesheets: ordered rules of selector plus
// declarations. Rules keep their declaration order so the browser cascade sees
// exactly what was declared; Lookup and Compute give the same "later wins"
// answer for code that has to resolve styles without a browser.
package style

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
)

type Declaration struct {
	Property string
	Value    Value
}

// Set builds a declaration from a Go literal, see Of. It panics on values Of
// rejects, so it is meant for literals written in code.
func Set(property string, v any) Declaration {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return Declaration{Property: property, Value: val}
}

type Rule struct {
	Selector     string
	Declarations []Declaration
}

// Selectors splits a group selector such as "node:selected, node:grabbed".
func (r Rule) Selectors() []string {
	parts := strings.Split(r.Selector, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the last declaration of property in the rule.
func (r Rule) Get(property string) (Value, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == property {
			return r.Declarations[i].Value, true
		}
	}
	return Value{}, false
}

func (r Rule) clone() Rule {
	r.Declarations = slices.Clone(r.Declarations)
	return r
}

// MarshalJSON writes {"selector": ..., "style": {...}} keeping declaration order.
func (r Rule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	sel, err := json.Marshal(r.Selector)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"selector":`)
	buf.Write(sel)
	buf.WriteString(`,"style":{`)

	first := true
	for i, d := range r.Declarations {
		if last, _ := r.lastIndex(d.Property); last != i {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		prop, err := json.Marshal(d.Property)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(prop)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (r Rule) lastIndex(property string) (int, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == property {
			return i, true
		}
	}
	return -1, false
}

// Stylesheet is an ordered list of rules. The zero value is empty and usable.
type Stylesheet struct {
	rules []Rule
}

// New starts a stylesheet, to be chained like cytoscape.stylesheet():
//
//	style.New().
//		Selector("node").CSS(style.Set("width", 20)).
//		Selector("edge").CSS(style.Set("line-color", "#383838"))
func New() *Stylesheet {
	return &Stylesheet{}
}

// FromRules builds a stylesheet holding copies of rules.
func FromRules(rules ...Rule) *Stylesheet {
	s := New()
	for _, r := range rules {
		s.rules = append(s.rules, r.clone())
	}
	return s
}

// Selector opens a new rule. Declarations are added with CSS.
func (s *Stylesheet) Selector(selector string) *Stylesheet {
	s.rules = append(s.rules, Rule{Selector: selector})
	return s
}

// CSS appends declarations to the most recently opened rule.
func (s *Stylesheet) CSS(decls ...Declaration) *Stylesheet {
	if len(s.rules) == 0 {
		panic("style: CSS called before Selector")
	}
	last := &s.rules[len(s.rules)-1]
	last.Declarations = append(last.Declarations, decls...)
	return s
}

func (s *Stylesheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns a copy of the rules in declaration order.
func (s *Stylesheet) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.clone()
	}
	return out
}

func (s *Stylesheet) Clone() *Stylesheet {
	if s == nil {
		return New()
	}
	return FromRules(s.rules...)
}

// Lookup returns the value the last rule listing selector gives to property.
// Only exact selector matches count; see Compute for element matching.
func (s *Stylesheet) Lookup(selector, property string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	var (
		found Value
		ok    bool
	)
	for _, r := range s.rules {
		if !slices.Contains(r.Selectors(), selector) {
			continue
		}
		if v, has := r.Get(property); has {
			found, ok = v, true
		}
	}
	return found, ok
}

func (s *Stylesheet) MarshalJSON() ([]byte, error) {
	rules := s.Rules()
	if rules == nil {
		rules = []Rule{}
	}
	return json.Marshal(rules)
}

func (s *Stylesheet) UnmarshalJSON(b []byte) error {
	var raw []struct {
		Selector string                     `json:"selector"`
		Style    map[string]json.RawMessage `json:"style"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.rules = s.rules[:0]
	for _, r := range raw {
		rule := Rule{Selector: r.Selector}
		for _, prop := range sortedKeys(r.Style) {
			var v Value
			if err := json.Unmarshal(r.Style[prop], &v); err != nil {
				return err
			}
			rule.Declarations = append(rule.Declarations, Declaration{Property: prop, Value: v})
		}
		s.rules = append(s.rules, rule)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
