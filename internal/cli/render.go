package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/psidex/zkgraph/internal/graphs"
	"github.com/psidex/zkgraph/internal/graphs/cytoscape"
	"github.com/psidex/zkgraph/internal/graphs/graphology"
	"github.com/psidex/zkgraph/internal/graphs/graphviz"
	"github.com/psidex/zkgraph/internal/lib"
)

var ErrUnknownFormat = errors.New("unknown format")

func (c *CLI) page() *cytoscape.Page {
	p := cytoscape.NewPage()
	if c.cfg.View.Title != "" {
		p.Title = c.cfg.View.Title
	}
	if c.cfg.View.CDN != "" {
		p.CDN = c.cfg.View.CDN
	}
	return p
}

func (c *CLI) renderers() map[string]graphs.Renderer {
	echarts := graphs.NewECharts()
	if c.cfg.View.Title != "" {
		echarts.PageTitle = c.cfg.View.Title
	}
	return map[string]graphs.Renderer{
		"html":       c.page(),
		"echarts":    echarts,
		"json":       graphs.JSON{},
		"js":         cytoscape.Script{},
		"dot":        graphviz.DOT{},
		"svg":        graphviz.SVG{},
		"graphology": graphology.Graphology{},
	}
}

func (c *CLI) renderer(format string) (graphs.Renderer, error) {
	renderers := c.renderers()
	if r, ok := renderers[format]; ok {
		return r, nil
	}
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return nil, errors.WithHintf(errors.Wrapf(ErrUnknownFormat, "%q", format), "formats: %s", strings.Join(names, ", "))
}

func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the view presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.cfg.Registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLAYOUT\tBOX SELECTION\tAUTOUNSELECTIFY")
			for _, name := range reg.Names() {
				p, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\n", p.Name, p.Layout.Name, p.Options.BoxSelectionEnabled, p.Options.Autounselectify)
			}
			return tw.Flush()
		},
	}
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		vf     viewFlags
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a view to a file",
		Long: `Render a view to a file. --out is the file name without extension; the
format decides the extension. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.renderer(format)
			if err != nil {
				return err
			}
			h, err := c.buildView(ctx, vf)
			if err != nil {
				return err
			}

			if out == "-" {
				return r.Render(cmd.OutOrStdout(), h)
			}
			path, err := graphs.RenderToFile(r, h, out)
			if err != nil {
				return err
			}
			lib.LoggerFrom(ctx).Info("rendered", "format", format, "file", path)
			return nil
		},
	}
	c.addViewFlags(cmd, &vf)
	cmd.Flags().StringVarP(&format, "format", "f", "html", "html, echarts, json, js, dot, svg or graphology")
	cmd.Flags().StringVarP(&out, "out", "o", "zkgraph", "output file name without extension")
	return cmd
}

func (c *CLI) generateCommand() *cobra.Command {
	var (
		notesDir string
		out      string
		script   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build elements from a notes directory",
		Long: `Build the elements of a notes directory and write them as JSON. With
--script the elementsData line of an existing graph.js is rewritten as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := lib.LoggerFrom(ctx)
			if notesDir == "" {
				notesDir = c.cfg.View.NotesDir
			}
			if notesDir == "" {
				return errors.WithHint(errors.New("no notes directory"), "pass --notes or set view.notes_dir")
			}
			if script == "" {
				script = c.cfg.View.Script
			}

			elements, err := c.loadElements(ctx, viewFlags{notes: notesDir})
			if err != nil {
				return err
			}

			if out == "-" {
				if err := writeElements(cmd.OutOrStdout(), elements); err != nil {
					return err
				}
			} else if out != "" {
				if err := writeElementsFile(out, elements); err != nil {
					return err
				}
				logger.Info("wrote elements", "file", out, "elements", len(elements))
			}

			if script != "" {
				src, err := os.ReadFile(script)
				if err != nil {
					return errors.Wrapf(err, "read %s", script)
				}
				spliced, err := cytoscape.SpliceElements(src, elements)
				if err != nil {
					return errors.Wrapf(err, "splice %s", script)
				}
				if err := os.WriteFile(script, spliced, 0o644); err != nil {
					return errors.Wrapf(err, "write %s", script)
				}
				logger.Info("updated script", "file", script)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&notesDir, "notes", "", "notes directory (default from config)")
	cmd.Flags().StringVarP(&out, "out", "o", "elements.json", "elements file, - for stdout, empty to skip")
	cmd.Flags().StringVar(&script, "script", "", "graph.js whose elementsData line is rewritten")
	return cmd
}
