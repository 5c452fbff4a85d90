package cytoscape

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/view"
)

func configure(t *testing.T, p view.Preset, elements ...graph.Element) *view.Handle {
	t.Helper()
	h, err := view.Configure(view.DefaultDocument(), view.DefaultContainerID, elements, p)
	require.NoError(t, err)
	return h
}

func sample() []graph.Element {
	return []graph.Element{graph.Node("a").WithLabel("Alpha"), graph.Node("b"), graph.Edge("e0", "a", "b")}
}

func TestOptionsForcePreset(t *testing.T) {
	b, err := Options(configure(t, view.ForcePreset(), sample()...))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, true, got["boxSelectionEnabled"])
	assert.Equal(t, false, got["autounselectify"])
	assert.Equal(t, map[string]any{"name": "cose", "idealEdgeLength": 200.0}, got["layout"])
	assert.Len(t, got["elements"], 3)

	rules := got["style"].([]any)
	require.Len(t, rules, 4)
	first := rules[0].(map[string]any)
	assert.Equal(t, "node", first["selector"])
	assert.Equal(t, "mapData(weight, 0, 30, 20, 60)", first["style"].(map[string]any)["height"])
	third := rules[2].(map[string]any)
	assert.Equal(t, "node:selected, node:grabbed", third["selector"])
}

func TestOptionsEmptyElements(t *testing.T) {
	b, err := Options(configure(t, view.HaystackPreset()))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"elements":[]`)
	assert.Contains(t, string(b), `"layout":{"name":"circle"}`)
}

func TestPageRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPage().Render(&buf, configure(t, view.CirclePreset(), sample()...)))

	out := buf.String()
	assert.Contains(t, out, `<div id="cy" class="zkgraph"></div>`)
	assert.Contains(t, out, `document.getElementById("cy")`)
	assert.Contains(t, out, `"curve-style":"straight"`)
	assert.Contains(t, out, `"label":"Alpha"`)
	assert.Contains(t, out, defaultCDN)
	assert.NotContains(t, out, "window.cy")
	assert.NotContains(t, out, "WebSocket")
}

func TestPageRenderLive(t *testing.T) {
	p := NewPage()
	p.Live = true

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, configure(t, view.ForcePreset())))

	out := buf.String()
	assert.Contains(t, out, "new WebSocket")
	assert.Contains(t, out, `location.host + "/ws"`)
	assert.Contains(t, out, `cy.layout({"name":"cose","idealEdgeLength":200}).run()`)
}

func TestPageEscapesData(t *testing.T) {
	h := configure(t, view.ForcePreset(), graph.Node("x").WithLabel("</script><script>alert(1)</script>"))

	var buf bytes.Buffer
	require.NoError(t, NewPage().Render(&buf, h))
	assert.NotContains(t, buf.String(), "<script>alert(1)")
}

func TestScriptRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Script{}.Render(&buf, configure(t, view.HaystackPreset(), sample()...)))

	out := buf.String()
	firstLine, _, _ := strings.Cut(out, "\n")
	assert.True(t, strings.HasPrefix(firstLine, "let elementsData = ["), firstLine)
	assert.True(t, strings.HasSuffix(firstLine, "];"), firstLine)
	assert.Contains(t, out, `"haystack-radius": 0`)
	assert.Contains(t, out, `"line-color": "#dd0000"`)
	assert.Contains(t, out, "{ elements: elementsData }")
	assert.NotContains(t, out, `"elements"`)
}

func TestSpliceElements(t *testing.T) {
	src := []byte(`let elementsData;
// let elementsData = JSON.parse(` + "`[]`" + `);

let cy = cytoscape({ elements: elementsData });
`)

	out, err := SpliceElements(src, []graph.Element{graph.Node("a"), graph.Node("b"), graph.Edge("e0", "a", "b")})
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	assert.Equal(t, `let elementsData = [{"data":{"id":"a"}},{"data":{"id":"b"}},{"data":{"id":"e0","source":"a","target":"b"}}];`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "// let elementsData"))
	assert.Equal(t, "let cy = cytoscape({ elements: elementsData });", lines[3])

	again, err := SpliceElements(out, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(again), "let elementsData = [];\n"))
}

func TestSpliceElementsNoLine(t *testing.T) {
	_, err := SpliceElements([]byte("const x = 1;\n"), nil)
	assert.ErrorIs(t, err, ErrNoElementsLine)
}
