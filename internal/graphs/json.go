package graphs

import (
	"io"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/view"
)

// JSON renders the handle's dataset in the Cytoscape element format, ready to
// be loaded back with graph.ReadJSON or handed to cytoscape({elements}).
type JSON struct{}

var _ Renderer = JSON{}

func (JSON) Extension() string { return "json" }

func (JSON) Render(w io.Writer, h *view.Handle) error {
	return graph.WriteJSON(w, h.Elements())
}
