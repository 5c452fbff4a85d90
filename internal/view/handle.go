package view

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/style"
)

type EventKind int

const (
	// EventAdded carries only the newly added elements.
	EventAdded EventKind = iota
	// EventReplaced carries the full new dataset.
	EventReplaced
)

func (k EventKind) String() string {
	if k == EventReplaced {
		return "reset"
	}
	return "add"
}

type Event struct {
	Kind     EventKind
	Elements []graph.Element
}

type subscriber struct {
	id int
	fn func(Event)
}

// Handle is a configured view. Its layout, options and style are fixed at
// construction; its dataset can grow through Add or be swapped by Replace.
// A Handle is safe for concurrent use.
type Handle struct {
	id        uuid.UUID
	container string
	preset    Preset

	// notifyMu is held from commit through delivery so subscribers see
	// changes in the order they were applied. Taken before mu.
	notifyMu *sync.Mutex
	mu       *sync.RWMutex
	elements []graph.Element
	nodes    int
	edges    int
	subs     []subscriber
	nextSub  int
}

func newHandle(container string, p Preset, elements []graph.Element) *Handle {
	h := &Handle{
		id:        uuid.New(),
		container: container,
		preset:    p.clone(),
		notifyMu:  &sync.Mutex{},
		mu:        &sync.RWMutex{},
	}
	h.setElements(graph.Clone(elements))
	return h
}

func (h *Handle) setElements(elements []graph.Element) {
	if elements == nil {
		elements = []graph.Element{}
	}
	h.elements = elements
	h.nodes, h.edges = graph.Counts(elements)
}

func (h *Handle) ID() string        { return h.id.String() }
func (h *Handle) Container() string { return h.container }
func (h *Handle) Layout() Layout    { return h.preset.Layout }
func (h *Handle) Options() Options  { return h.preset.Options }

// PresetName is the name of the preset the handle was configured from.
func (h *Handle) PresetName() string { return h.preset.Name }

// Preset returns a copy of the handle's view configuration.
func (h *Handle) Preset() Preset { return h.preset.clone() }

// Style returns a copy of the stylesheet.
func (h *Handle) Style() *style.Stylesheet { return h.preset.Style.Clone() }

// NodeStyle looks up a property declared for the plain "node" selector.
func (h *Handle) NodeStyle(property string) (style.Value, bool) {
	return h.preset.Style.Lookup("node", property)
}

// EdgeStyle looks up a property declared for the plain "edge" selector.
func (h *Handle) EdgeStyle(property string) (style.Value, bool) {
	return h.preset.Style.Lookup("edge", property)
}

// Elements returns a copy of the current dataset.
func (h *Handle) Elements() []graph.Element {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return graph.Clone(h.elements)
}

func (h *Handle) NodeCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.nodes
}

func (h *Handle) EdgeCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.edges
}

// Add appends elements. The combined dataset is validated first; on error the
// handle is unchanged.
func (h *Handle) Add(elements ...graph.Element) error {
	if len(elements) == 0 {
		return nil
	}

	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	h.mu.Lock()
	combined := append(slices.Clip(h.elements), graph.Clone(elements)...)
	if err := graph.Validate(combined); err != nil {
		h.mu.Unlock()
		return err
	}
	h.setElements(combined)
	subs := slices.Clone(h.subs)
	h.mu.Unlock()

	h.notify(subs, Event{Kind: EventAdded, Elements: elements})
	return nil
}

// Replace swaps the whole dataset after validating it.
func (h *Handle) Replace(elements []graph.Element) error {
	if err := graph.Validate(elements); err != nil {
		return err
	}

	h.notifyMu.Lock()
	defer h.notifyMu.Unlock()

	h.mu.Lock()
	h.setElements(graph.Clone(elements))
	subs := slices.Clone(h.subs)
	h.mu.Unlock()

	h.notify(subs, Event{Kind: EventReplaced, Elements: elements})
	return nil
}

// Subscribe registers fn to be called after every successful Add or Replace.
// Calls happen on the mutating goroutine, in subscription order, and events
// arrive in the order the changes were applied. fn must not call Add or
// Replace on the same handle. The returned func removes the subscription.
func (h *Handle) Subscribe(fn func(Event)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	id := h.nextSub
	h.subs = append(h.subs, subscriber{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.subs = slices.DeleteFunc(h.subs, func(s subscriber) bool { return s.id == id })
	}
}

func (h *Handle) notify(subs []subscriber, ev Event) {
	for _, s := range subs {
		s.fn(Event{Kind: ev.Kind, Elements: graph.Clone(ev.Elements)})
	}
}
