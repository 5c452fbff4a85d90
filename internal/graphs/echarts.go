package graphs

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/zkgraph/internal/style"
	"github.com/psidex/zkgraph/internal/view"
)

const defaultSymbolSize = 10.0

// ECharts renders a view as a go-echarts HTML page. The stylesheet is resolved
// per element in the unselected state, since ECharts has no selector cascade.
type ECharts struct {
	PageTitle string
}

var _ Renderer = (*ECharts)(nil)

func NewECharts() *ECharts {
	return &ECharts{PageTitle: "zkgraph"}
}

func (e ECharts) Extension() string { return "html" }

func (e ECharts) Render(w io.Writer, h *view.Handle) error {
	nodes, links := e.nodesAndLinks(h)

	page := components.NewPage()
	page.PageTitle = e.PageTitle
	page.AddCharts(e.graphBase(h, nodes, links))

	return page.Render(w)
}

func (e ECharts) nodesAndLinks(h *view.Handle) ([]opts.GraphNode, []opts.GraphLink) {
	sheet := h.Style()
	nodes := []opts.GraphNode{}
	links := []opts.GraphLink{}

	for _, el := range h.Elements() {
		if el.IsEdge() {
			links = append(links, opts.GraphLink{
				Source: el.Source,
				Target: el.Target,
			})
			continue
		}

		computed := sheet.Compute(el, style.State{})
		node := opts.GraphNode{
			Name:       el.ID,
			SymbolSize: symbolSize(computed),
		}
		if color, ok := computed.String("background-color"); ok {
			node.ItemStyle = &opts.ItemStyle{Color: color}
		}
		nodes = append(nodes, node)
	}

	return nodes, links
}

// symbolSize averages width and height, since ECharts symbols are square.
func symbolSize(c style.Computed) float64 {
	w := c.FloatOr("width", defaultSymbolSize)
	h := c.FloatOr("height", w)
	return (w + h) / 2
}

func echartsLayout(l view.Layout) string {
	if l.Name == view.LayoutCircle {
		return "circular"
	}
	return "force"
}

func (e ECharts) graphBase(h *view.Handle, nodes []opts.GraphNode, links []opts.GraphLink) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.PageTitle,
			ChartID:   h.Container(),
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)

	_, showLabels := h.NodeStyle("content")
	labelColor := "black"
	if c, ok := h.NodeStyle("color"); ok {
		labelColor = c.String()
	}
	lineColor := ""
	if c, ok := h.EdgeStyle("line-color"); ok {
		lineColor = c.String()
	}

	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    echartsLayout(h.Layout()),
				Draggable: opts.Bool(!h.Options().Autounselectify),
				Roam:      opts.Bool(true),
				Force:     &opts.GraphForce{Repulsion: 400},
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(showLabels),
			Color:    labelColor,
			Position: "bottom",
		}),
		charts.WithLineStyleOpts(opts.LineStyle{
			Color: lineColor,
		}),
	)
	return graph
}
