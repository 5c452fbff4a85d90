package view

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/style"
)

func sampleElements() []graph.Element {
	return []graph.Element{
		graph.Node("a"),
		graph.Node("b"),
		graph.Edge("e0", "a", "b"),
	}
}

func allPresets() []Preset {
	return []Preset{ForcePreset(), CirclePreset(), HaystackPreset()}
}

func TestConfigureEmptyElements(t *testing.T) {
	for _, p := range allPresets() {
		t.Run(p.Name, func(t *testing.T) {
			h, err := Configure(DefaultDocument(), DefaultContainerID, nil, p)
			require.NoError(t, err)
			assert.Equal(t, 0, h.NodeCount())
			assert.Equal(t, 0, h.EdgeCount())
			assert.NotNil(t, h.Elements())
			assert.Empty(t, h.Elements())
		})
	}
}

func TestConfigureForcePreset(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", sampleElements(), ForcePreset())
	require.NoError(t, err)

	assert.Equal(t, 2, h.NodeCount())
	assert.Equal(t, 1, h.EdgeCount())
	assert.Equal(t, LayoutCose, h.Layout().Name)
	assert.Equal(t, 200, h.Layout().IdealEdgeLength)
	assert.True(t, h.Options().BoxSelectionEnabled)
	assert.False(t, h.Options().Autounselectify)

	size, ok := h.NodeStyle("height")
	require.True(t, ok)
	assert.Equal(t, "mapData(weight, 0, 30, 20, 60)", size.String())
}

func TestConfigureCirclePreset(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", sampleElements(), CirclePreset())
	require.NoError(t, err)

	assert.Equal(t, 2, h.NodeCount())
	assert.Equal(t, 1, h.EdgeCount())
	assert.Equal(t, LayoutCircle, h.Layout().Name)
	assert.False(t, h.Options().BoxSelectionEnabled)

	curve, ok := h.EdgeStyle("curve-style")
	require.True(t, ok)
	assert.Equal(t, "straight", curve.String())

	content, ok := h.NodeStyle("content")
	require.True(t, ok)
	assert.Equal(t, style.Data("label"), content)
}

func TestConfigureHaystackPreset(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", sampleElements(), HaystackPreset())
	require.NoError(t, err)

	assert.Equal(t, 2, h.NodeCount())
	assert.Equal(t, 1, h.EdgeCount())
	assert.Equal(t, LayoutCircle, h.Layout().Name)

	curve, _ := h.EdgeStyle("curve-style")
	assert.Equal(t, "haystack", curve.String())
	radius, _ := h.EdgeStyle("haystack-radius")
	assert.Equal(t, style.Number(0), radius)
	color, _ := h.EdgeStyle("line-color")
	assert.Equal(t, "#dd0000", color.String())
}

func TestConfigureMissingContainer(t *testing.T) {
	// The container is checked before the data, so even bad data reports the
	// container problem.
	bad := []graph.Element{graph.Edge("e0", "x", "y")}

	for _, id := range []string{"nope", ""} {
		_, err := Configure(DefaultDocument(), id, bad, ForcePreset())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingContainer)
	}
}

func TestConfigureInvalidElementReference(t *testing.T) {
	elements := append(sampleElements(), graph.Edge("e1", "b", "ghost"))

	_, err := Configure(DefaultDocument(), "cy", elements, CirclePreset())
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrInvalidElementReference)
}

func TestConfigureUnknownLayout(t *testing.T) {
	p := ForcePreset()
	p.Layout.Name = "spiral"

	_, err := Configure(DefaultDocument(), "cy", nil, p)
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestConfigureIsIdempotentAcrossContainers(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<div id="left"></div><div id="right"></div>`))
	require.NoError(t, err)

	left, err := Configure(doc, "left", sampleElements(), HaystackPreset())
	require.NoError(t, err)
	right, err := Configure(doc, "right", sampleElements(), HaystackPreset())
	require.NoError(t, err)

	assert.NotEqual(t, left.ID(), right.ID())
	assert.Equal(t, "left", left.Container())
	assert.Equal(t, "right", right.Container())
	assert.Equal(t, left.Layout(), right.Layout())
	assert.Equal(t, left.Options(), right.Options())
	assert.Equal(t, left.Style().Rules(), right.Style().Rules())
	assert.Equal(t, left.Elements(), right.Elements())
}

func TestHandleDoesNotAliasInputs(t *testing.T) {
	elements := sampleElements()
	p := ForcePreset()

	h, err := Configure(DefaultDocument(), "cy", elements, p)
	require.NoError(t, err)

	elements[0] = graph.Node("changed")
	p.Style.Selector("node").CSS(style.Set("height", 1))

	assert.Equal(t, "a", h.Elements()[0].ID)
	v, _ := h.NodeStyle("height")
	assert.Equal(t, "mapData(weight, 0, 30, 20, 60)", v.String())

	h.Style().Selector("edge").CSS(style.Set("width", 1))
	v, _ = h.EdgeStyle("width")
	assert.Equal(t, style.Number(8), v)
}

func TestConfigureWith(t *testing.T) {
	s := style.New().Selector("edge").CSS(style.Set("line-color", "#00ff00"))
	h, err := ConfigureWith(NewContainers("graph"), "graph", sampleElements(),
		Options{BoxSelectionEnabled: true}, Layout{Name: LayoutCircle}, s)
	require.NoError(t, err)

	assert.Equal(t, "custom", h.PresetName())
	v, _ := h.EdgeStyle("line-color")
	assert.Equal(t, "#00ff00", v.String())

	h, err = ConfigureWith(NewContainers("graph"), "graph", nil, Options{}, Layout{Name: LayoutCose}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Style().Len())
}

func TestHandleAdd(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", nil, ForcePreset())
	require.NoError(t, err)

	var events []Event
	cancel := h.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, h.Add(sampleElements()...))
	assert.Equal(t, 2, h.NodeCount())
	assert.Equal(t, 1, h.EdgeCount())

	err = h.Add(graph.Edge("e1", "a", "ghost"))
	assert.ErrorIs(t, err, graph.ErrInvalidElementReference)
	assert.Equal(t, 1, h.EdgeCount())

	err = h.Add(graph.Node("a"))
	assert.ErrorIs(t, err, graph.ErrDuplicateElement)

	require.NoError(t, h.Add(graph.Node("c"), graph.Edge("e1", "b", "c")))
	assert.Equal(t, 3, h.NodeCount())

	require.Len(t, events, 2)
	assert.Equal(t, EventAdded, events[0].Kind)
	assert.Len(t, events[0].Elements, 3)
	assert.Len(t, events[1].Elements, 2)

	cancel()
	require.NoError(t, h.Add(graph.Node("d")))
	assert.Len(t, events, 2)
}

func TestHandleReplace(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", sampleElements(), CirclePreset())
	require.NoError(t, err)

	var got Event
	h.Subscribe(func(ev Event) { got = ev })

	err = h.Replace([]graph.Element{graph.Edge("e0", "a", "b")})
	assert.ErrorIs(t, err, graph.ErrInvalidElementReference)
	assert.Equal(t, 2, h.NodeCount())

	require.NoError(t, h.Replace([]graph.Element{graph.Node("x")}))
	assert.Equal(t, 1, h.NodeCount())
	assert.Equal(t, 0, h.EdgeCount())
	assert.Equal(t, EventReplaced, got.Kind)
	assert.Equal(t, "reset", got.Kind.String())

	require.NoError(t, h.Replace(nil))
	assert.Equal(t, 0, h.NodeCount())
}

func TestHandleConcurrentAdd(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", nil, ForcePreset())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = h.Add(graph.Node(string(rune('a' + n))))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, h.NodeCount())
}

func TestHandleEventsFollowCommitOrder(t *testing.T) {
	h, err := Configure(DefaultDocument(), "cy", nil, ForcePreset())
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		replay []graph.Element
	)
	resetting := make(chan struct{})
	h.Subscribe(func(ev Event) {
		if ev.Kind == EventReplaced {
			close(resetting)
			time.Sleep(50 * time.Millisecond)
		}
		mu.Lock()
		defer mu.Unlock()
		if ev.Kind == EventReplaced {
			replay = nil
		}
		replay = append(replay, ev.Elements...)
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, h.Replace([]graph.Element{graph.Node("a")}))
	}()
	go func() {
		defer wg.Done()
		<-resetting
		assert.NoError(t, h.Add(graph.Node("b")))
	}()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, h.Elements(), replay)
}
