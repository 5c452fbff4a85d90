// Package graphology renders a view as a serialized graphology graph, the
// format sigma.js front ends load. Positions are left at the origin for the
// front end's own layout to fill in.
package graphology

import (
	"encoding/json"
	"io"

	"github.com/psidex/zkgraph/internal/graphs"
	"github.com/psidex/zkgraph/internal/style"
	"github.com/psidex/zkgraph/internal/view"
)

const (
	defaultNodeSize = 2
	defaultEdgeSize = 1
)

type Graphology struct{}

var _ graphs.Renderer = Graphology{}

func (Graphology) Extension() string { return "graphology.json" }

// Serialize resolves every element's style in the unselected state and maps
// it onto graphology attributes. Node sizes are radii, so halved.
func Serialize(h *view.Handle) SerializedGraph {
	sheet := h.Style()
	g := SerializedGraph{
		Attributes: GraphAttributes{
			Layout:    string(h.Layout().Name),
			Container: h.Container(),
		},
		Nodes: []Node{},
		Edges: []Edge{},
	}

	for _, el := range h.Elements() {
		computed := sheet.Compute(el, style.State{})

		if el.IsEdge() {
			g.Edges = append(g.Edges, Edge{
				Key:    el.ID,
				Source: el.Source,
				Target: el.Target,
				Attributes: EdgeAttributes{
					Size:  computed.FloatOr("width", defaultEdgeSize),
					Color: computed.StringOr("line-color", ""),
				},
			})
			continue
		}

		label := el.Label
		if content, ok := computed.String("content"); ok {
			label = content
		}
		g.Nodes = append(g.Nodes, Node{
			Key: el.ID,
			Attributes: NodeAttributes{
				X:     0,
				Y:     0,
				Size:  computed.FloatOr("width", defaultNodeSize*2) / 2,
				Label: label,
				Color: computed.StringOr("background-color", ""),
			},
		})
	}

	return g
}

func (Graphology) Render(w io.Writer, h *view.Handle) error {
	return json.NewEncoder(w).Encode(Serialize(h))
}
