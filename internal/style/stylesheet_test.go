package style

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zkgraph/internal/graph"
)

func TestLookupLaterRuleWins(t *testing.T) {
	s := New().
		Selector("node").CSS(Set("background-color", "#111111"), Set("width", 10)).
		Selector("edge").CSS(Set("line-color", "#222222")).
		Selector("node").CSS(Set("background-color", "#333333"))

	v, ok := s.Lookup("node", "background-color")
	require.True(t, ok)
	assert.Equal(t, "#333333", v.String())

	v, ok = s.Lookup("node", "width")
	require.True(t, ok)
	assert.Equal(t, Number(10), v)

	_, ok = s.Lookup("node", "line-color")
	assert.False(t, ok)
}

func TestLookupWithinRule(t *testing.T) {
	s := New().Selector("edge").CSS(Set("width", 1), Set("width", 4))

	v, ok := s.Lookup("edge", "width")
	require.True(t, ok)
	assert.Equal(t, Number(4), v)
}

func TestLookupGroupSelector(t *testing.T) {
	s := New().Selector("node:selected, node:grabbed").CSS(Set("content", "data(label)"))

	for _, sel := range []string{"node:selected", "node:grabbed"} {
		v, ok := s.Lookup(sel, "content")
		require.True(t, ok, sel)
		assert.Equal(t, Data("label"), v)
	}
	_, ok := s.Lookup("node", "content")
	assert.False(t, ok)
}

func TestCSSBeforeSelectorPanics(t *testing.T) {
	assert.Panics(t, func() { New().CSS(Set("width", 1)) })
}

func TestRulesAreCopies(t *testing.T) {
	s := New().Selector("node").CSS(Set("width", 1))

	rules := s.Rules()
	rules[0].Declarations[0] = Set("width", 99)

	v, _ := s.Lookup("node", "width")
	assert.Equal(t, Number(1), v)

	c := s.Clone()
	c.Selector("edge")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestStylesheetJSON(t *testing.T) {
	s := New().
		Selector("node").CSS(
			Set("height", MapData("weight", 0, 30, 20, 60)),
			Set("color", "#707070"),
			Set("color", "#000000"),
		).
		Selector("edge").CSS(Set("width", 8))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"selector":"node","style":{"height":"mapData(weight, 0, 30, 20, 60)","color":"#000000"}},{"selector":"edge","style":{"width":8}}]`,
		string(b))

	var back Stylesheet
	require.NoError(t, json.Unmarshal(b, &back))
	v, ok := back.Lookup("node", "height")
	require.True(t, ok)
	assert.Equal(t, MapData("weight", 0, 30, 20, 60), v)
}

func TestEmptyStylesheetJSON(t *testing.T) {
	b, err := json.Marshal(New())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestMatches(t *testing.T) {
	node := graph.Node("a")
	edge := graph.Edge("e", "a", "b")

	tests := []struct {
		selector string
		el       graph.Element
		state    State
		want     bool
	}{
		{"node", node, State{}, true},
		{"edge", node, State{}, false},
		{"*", edge, State{}, true},
		{"node:selected", node, State{Selected: true}, true},
		{"node:selected", node, State{}, false},
		{"node:unselected", node, State{}, true},
		{"node:unselected", node, State{Selected: true}, false},
		{"node:grabbed", node, State{Grabbed: true}, true},
		{"edge:grabbed", edge, State{Grabbed: true}, false},
		{"node:hover", node, State{}, false},
		{"node[weight > 3]", node, State{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.selector, tt.el, tt.state))
		})
	}
}

func TestCompute(t *testing.T) {
	s := New().
		Selector("node").CSS(
			Set("height", MapData("weight", 0, 30, 20, 60)),
			Set("color", "#707070"),
			Set("font-size", "10px"),
		).
		Selector("node:unselected").CSS(Set("background-color", "#969696")).
		Selector("node:selected, node:grabbed").CSS(
			Set("content", "data(label)"),
			Set("background-color", "#8BA7BD"),
		).
		Selector("edge").CSS(Set("width", 8))

	n := graph.Node("a").WithLabel("Alpha").WithWeight(15)

	idle := s.Compute(n, State{})
	assert.Equal(t, "#969696", idle["background-color"])
	assert.InDelta(t, 40.0, idle.FloatOr("height", 0), 1e-9)
	assert.InDelta(t, 10.0, idle.FloatOr("font-size", 0), 1e-9)
	_, hasContent := idle["content"]
	assert.False(t, hasContent)

	selected := s.Compute(n, State{Selected: true})
	assert.Equal(t, "#8BA7BD", selected["background-color"])
	assert.Equal(t, "Alpha", selected.StringOr("content", ""))

	e := s.Compute(graph.Edge("e", "a", "b"), State{})
	assert.Equal(t, "8", e.StringOr("width", ""))
	assert.Equal(t, "fallback", e.StringOr("line-color", "fallback"))
}
