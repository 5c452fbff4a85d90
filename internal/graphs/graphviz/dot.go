// Package graphviz renders views as static node-link diagrams through Graphviz:
// cose views use the fdp engine, circle views circo.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-graphviz"

	"github.com/psidex/zkgraph/internal/graphs"
	"github.com/psidex/zkgraph/internal/style"
	"github.com/psidex/zkgraph/internal/view"
)

// Graphviz sizes are in inches.
const pxPerInch = 72.0

func engine(l view.Layout) string {
	if l.Name == view.LayoutCircle {
		return "circo"
	}
	return "fdp"
}

// ToDOT converts the handle to an undirected DOT graph with styles resolved in
// the unselected state.
func ToDOT(h *view.Handle) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine(h.Layout()))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  splines=%s;\n", splines(h))
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	sheet := h.Style()
	elements := h.Elements()
	for _, n := range elements {
		if n.IsNode() {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(sheet.Compute(n, style.State{})), ", "))
		}
	}

	buf.WriteString("\n")
	for _, e := range elements {
		if e.IsEdge() {
			attrs := edgeAttrs(sheet.Compute(e, style.State{}))
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func splines(h *view.Handle) string {
	if v, ok := h.EdgeStyle("curve-style"); ok {
		switch v.String() {
		case "bezier", "unbundled-bezier":
			return "true"
		}
	}
	return "line"
}

func nodeAttrs(c style.Computed) []string {
	w := c.FloatOr("width", 30)
	h := c.FloatOr("height", w)
	attrs := []string{
		fmt.Sprintf("width=%s", inches(w)),
		fmt.Sprintf("height=%s", inches(h)),
	}
	if fill, ok := c.String("background-color"); ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if label, ok := c.String("content"); ok && label != "" {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", label))
		if color, ok := c.String("color"); ok {
			attrs = append(attrs, fmt.Sprintf("fontcolor=%q", color))
		}
		if size, ok := c.Float("font-size"); ok {
			attrs = append(attrs, fmt.Sprintf("fontsize=%s", num(size)))
		}
	}
	return attrs
}

func edgeAttrs(c style.Computed) []string {
	attrs := []string{fmt.Sprintf("penwidth=%s", num(c.FloatOr("width", 1)))}
	if color, ok := c.String("line-color"); ok {
		attrs = append(attrs, fmt.Sprintf("color=%q", withOpacity(color, c.FloatOr("opacity", 1))))
	}
	return attrs
}

// withOpacity appends an alpha byte to #rrggbb colours; other forms are
// returned unchanged.
func withOpacity(color string, opacity float64) string {
	if len(color) != 7 || color[0] != '#' || opacity >= 1 {
		return color
	}
	alpha := int(max(0, opacity)*255 + 0.5)
	return fmt.Sprintf("%s%02x", color, alpha)
}

func inches(px float64) string {
	return num(px / pxPerInch)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(err, "render")
	}
	return buf.Bytes(), nil
}

// DOT writes the DOT source.
type DOT struct{}

var _ graphs.Renderer = DOT{}

func (DOT) Extension() string { return "dot" }

func (DOT) Render(w io.Writer, h *view.Handle) error {
	_, err := io.WriteString(w, ToDOT(h))
	return err
}

// SVG lays the graph out with Graphviz and writes the SVG.
type SVG struct{}

var _ graphs.Renderer = SVG{}

func (SVG) Extension() string { return "svg" }

func (SVG) Render(w io.Writer, h *view.Handle) error {
	svg, err := RenderSVG(context.Background(), ToDOT(h))
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}
