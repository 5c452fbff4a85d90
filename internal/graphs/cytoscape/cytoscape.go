// Package cytoscape renders views for Cytoscape.js: a standalone HTML page, an
// options object, or a graph.js script.
package cytoscape

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/graphs"
	"github.com/psidex/zkgraph/internal/style"
	"github.com/psidex/zkgraph/internal/view"
)

// viewOptions is everything cytoscape() needs apart from container and data.
type viewOptions struct {
	BoxSelectionEnabled bool              `json:"boxSelectionEnabled"`
	Autounselectify     bool              `json:"autounselectify"`
	Layout              view.Layout       `json:"layout"`
	Style               *style.Stylesheet `json:"style"`
}

type options struct {
	viewOptions
	Elements []graph.Element `json:"elements"`
}

func newViewOptions(h *view.Handle) viewOptions {
	return viewOptions{
		BoxSelectionEnabled: h.Options().BoxSelectionEnabled,
		Autounselectify:     h.Options().Autounselectify,
		Layout:              h.Layout(),
		Style:               h.Style(),
	}
}

// Options returns the cytoscape() options object for h, elements included but
// without the container, which has to be looked up in the page.
func Options(h *view.Handle) ([]byte, error) {
	return json.Marshal(options{
		viewOptions: newViewOptions(h),
		Elements:    h.Elements(),
	})
}

// Page renders a standalone HTML page that builds the view on load.
type Page struct {
	Title string
	// CDN is the URL Cytoscape.js is loaded from.
	CDN string
	// Live makes the page follow add and reset messages from a websocket at
	// SocketPath on the serving host.
	Live       bool
	SocketPath string
}

var _ graphs.Renderer = (*Page)(nil)

func NewPage() *Page {
	return &Page{Title: "zkgraph", CDN: defaultCDN, SocketPath: "/ws"}
}

func (p Page) Extension() string { return "html" }

func (p Page) Render(w io.Writer, h *view.Handle) error {
	opts, err := Options(h)
	if err != nil {
		return err
	}
	layout, err := json.Marshal(h.Layout())
	if err != nil {
		return err
	}

	cdn := p.CDN
	if cdn == "" {
		cdn = defaultCDN
	}

	return pageTemplate.Execute(w, pageData{
		Title:      p.Title,
		CDN:        cdn,
		Container:  h.Container(),
		Options:    template.JS(opts),
		Layout:     template.JS(layout),
		Live:       p.Live,
		SocketPath: p.SocketPath,
	})
}
