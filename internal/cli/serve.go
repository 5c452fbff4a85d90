package cli

import (
	"github.com/spf13/cobra"

	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/live"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		vf    viewFlags
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live view",
		Long: `Serve the view over HTTP. Connected pages follow elements posted to
/elements and, with --watch, changes to the elements file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := lib.LoggerFrom(ctx)
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("watch") {
				watch = c.cfg.Server.Watch
			}

			h, err := c.buildView(ctx, vf)
			if err != nil {
				return err
			}

			srv := live.NewServer(h, live.ServerConfig{
				Title:        c.cfg.View.Title,
				CDN:          c.cfg.View.CDN,
				WriteTimeout: c.cfg.Server.WriteTimeout.Duration,
			}, logger)

			source := vf.or(c.cfg.View)
			if watch {
				if source.notes != "" || source.elements == "-" || isURL(source.elements) {
					logger.Warn("--watch only follows a local elements file, ignoring")
				} else {
					w, err := live.NewWatcher(h, source.elements, c.cfg.Server.Debounce.Duration, logger)
					if err != nil {
						return err
					}
					go func() {
						if err := w.Run(ctx); err != nil {
							logger.Error("watcher stopped", "err", err)
						}
					}()
					logger.Info("watching", "file", source.elements)
				}
			}

			return srv.ListenAndServe(ctx, addr)
		},
	}
	c.addViewFlags(cmd, &vf)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the elements file when it changes")
	return cmd
}
