// Package cli implements the zkgraph command line.
//
// Every command reads the TOML config given by --config first and lets its own
// flags override it. The slog logger travels in the command context, see
// lib.LoggerFrom.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/psidex/zkgraph/internal/config"
	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/notes"
	"github.com/psidex/zkgraph/internal/view"
)

const fetchTimeout = 30 * time.Second

// CLI holds state shared by all commands.
type CLI struct {
	Out io.Writer
	Err io.Writer

	// Getenv and RunBrowser are swapped out in tests.
	Getenv     func(string) string
	RunBrowser func(ctx context.Context, browser, target string) error

	configPath string
	logLevel   string
	cfg        config.Config
}

func New(out, errw io.Writer) *CLI {
	return &CLI{
		Out:        out,
		Err:        errw,
		Getenv:     os.Getenv,
		RunBrowser: runBrowser,
		cfg:        config.Default(),
	}
}

func runBrowser(ctx context.Context, browser, target string) error {
	cmd := exec.CommandContext(ctx, browser, target)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "zkgraph",
		Short:         "zkgraph draws the link graph of a notes collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := lib.ParseSLogLevel(c.logLevel)
			if err != nil {
				return err
			}
			logger := lib.NiceLogger(c.Err, level)
			cmd.SetContext(lib.WithLogger(cmd.Context(), logger))

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			logger.Debug("loaded config", "path", c.configPath)
			return nil
		},
	}
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.showCommand())
	return root
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return New(os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}

// viewFlags are the flags shared by commands that build a view.
type viewFlags struct {
	preset    string
	container string
	elements  string
	notes     string
}

func (c *CLI) addViewFlags(cmd *cobra.Command, f *viewFlags) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "view preset (default from config)")
	cmd.Flags().StringVar(&f.container, "container", "", "container id (default from config)")
	cmd.Flags().StringVar(&f.elements, "elements", "", "elements file, URL or - for stdin (default from config)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "build elements from this notes directory instead")
}

func (f viewFlags) or(cfg config.ViewConfig) viewFlags {
	if f.preset == "" {
		f.preset = cfg.Preset
	}
	if f.container == "" {
		f.container = cfg.Container
	}
	if f.elements == "" {
		f.elements = cfg.Elements
	}
	if f.notes == "" {
		f.notes = cfg.NotesDir
	}
	return f
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// loadElements reads from a notes directory when one is set, else from the
// elements source.
func (c *CLI) loadElements(ctx context.Context, f viewFlags) ([]graph.Element, error) {
	logger := lib.LoggerFrom(ctx)
	switch {
	case f.notes != "":
		coll, err := notes.Scan(f.notes, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("scanned notes", "dir", f.notes, "notes", coll.Len())
		return coll.Elements(), nil
	case f.elements == "-":
		return graph.ReadJSON(os.Stdin)
	case isURL(f.elements):
		return graph.Fetch(ctx, &http.Client{Timeout: fetchTimeout}, f.elements)
	case f.elements == "":
		return nil, errors.WithHint(errors.New("no elements source"), "pass --elements or --notes")
	}
	return graph.ImportJSON(f.elements)
}

func (c *CLI) buildView(ctx context.Context, f viewFlags) (*view.Handle, error) {
	f = f.or(c.cfg.View)

	reg, err := c.cfg.Registry()
	if err != nil {
		return nil, err
	}
	p, err := reg.Lookup(f.preset)
	if err != nil {
		return nil, err
	}
	surface, err := c.cfg.Surface()
	if err != nil {
		return nil, err
	}
	elements, err := c.loadElements(ctx, f)
	if err != nil {
		return nil, err
	}

	h, err := view.Configure(surface, f.container, elements, p)
	if err != nil {
		return nil, err
	}
	lib.LoggerFrom(ctx).Debug("configured view",
		"preset", p.Name,
		"container", h.Container(),
		"nodes", h.NodeCount(),
		"edges", h.EdgeCount(),
	)
	return h, nil
}
