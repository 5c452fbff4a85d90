package style

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/graph"
)

var ErrInvalidValue = errors.New("invalid style value")

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindData
	kindMapData
)

// Value is a declaration value: a literal, or a mapper over element data.
type Value struct {
	kind valueKind
	str  string
	num  float64
	attr string
	in   [2]float64
	out  [2]float64
}

func String(s string) Value  { return Value{kind: kindString, str: s} }
func Number(n float64) Value { return Value{kind: kindNumber, num: n} }

// Data maps the property straight from an element data attribute.
func Data(attr string) Value { return Value{kind: kindData, attr: attr} }

// MapData linearly maps a numeric attribute from [inLo, inHi] onto [outLo, outHi].
func MapData(attr string, inLo, inHi, outLo, outHi float64) Value {
	return Value{kind: kindMapData, attr: attr, in: [2]float64{inLo, inHi}, out: [2]float64{outLo, outHi}}
}

// Of converts a Go literal to a Value. Strings go through Parse, so
// "data(label)" becomes a data mapper.
func Of(v any) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil
	case string:
		return Parse(v)
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case bool:
		return String(strconv.FormatBool(v)), nil
	}
	return Value{}, errors.Wrapf(ErrInvalidValue, "unsupported type %T", v)
}

// Parse reads the string form of a value. Anything that is not a data() or
// mapData() call is a string literal.
func Parse(s string) (Value, error) {
	trimmed := strings.TrimSpace(s)
	name, args, ok := call(trimmed)
	if !ok {
		return String(s), nil
	}

	switch name {
	case "data":
		if len(args) != 1 || args[0] == "" {
			return Value{}, errors.Wrapf(ErrInvalidValue, "%q: data() takes one attribute", s)
		}
		return Data(args[0]), nil
	case "mapData":
		if len(args) != 5 || args[0] == "" {
			return Value{}, errors.Wrapf(ErrInvalidValue, "%q: mapData() takes an attribute and four numbers", s)
		}
		var nums [4]float64
		for i, a := range args[1:] {
			n, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return Value{}, errors.Wrapf(ErrInvalidValue, "%q: %q is not a number", s, a)
			}
			nums[i] = n
		}
		return MapData(args[0], nums[0], nums[1], nums[2], nums[3]), nil
	}
	return String(s), nil
}

func call(s string) (name string, args []string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	name = s[:open]
	for _, a := range strings.Split(s[open+1:len(s)-1], ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, true
}

// String renders the value the way Cytoscape stylesheets spell it.
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return formatNum(v.num)
	case kindData:
		return fmt.Sprintf("data(%s)", v.attr)
	case kindMapData:
		return fmt.Sprintf("mapData(%s, %s, %s, %s, %s)",
			v.attr, formatNum(v.in[0]), formatNum(v.in[1]), formatNum(v.out[0]), formatNum(v.out[1]))
	}
	return v.str
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON writes numbers as JSON numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == kindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.String())
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := Of(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Eval resolves the value for element e. It reports false when the mapper's
// attribute is missing or not numeric, in which case the property is left unset.
func (v Value) Eval(e graph.Element) (any, bool) {
	switch v.kind {
	case kindString:
		return v.str, true
	case kindNumber:
		return v.num, true
	case kindData:
		return e.Data(v.attr)
	}

	raw, ok := e.Data(v.attr)
	if !ok {
		return nil, false
	}
	x, ok := toFloat(raw)
	if !ok {
		return nil, false
	}
	if v.in[1] == v.in[0] {
		return v.out[0], true
	}
	t := (x - v.in[0]) / (v.in[1] - v.in[0])
	t = max(0, min(1, t))
	return v.out[0] + t*(v.out[1]-v.out[0]), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "px"), 64)
		return f, err == nil
	}
	return 0, false
}
