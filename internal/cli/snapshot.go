package cli

import (
	"github.com/spf13/cobra"

	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/snapshot"
)

func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		vf     viewFlags
		out    string
		width  int64
		height int64
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a PNG of the view using headless Chrome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := c.buildView(ctx, vf)
			if err != nil {
				return err
			}

			cfg := snapshot.Config{
				Width:   c.cfg.Snapshot.Width,
				Height:  c.cfg.Snapshot.Height,
				Timeout: c.cfg.Snapshot.Timeout.Duration,
				Settle:  c.cfg.Snapshot.Settle.Duration,
			}
			if width > 0 {
				cfg.Width = width
			}
			if height > 0 {
				cfg.Height = height
			}

			res, err := snapshot.WriteFile(ctx, h, *c.page(), cfg, out)
			if err != nil {
				return err
			}
			lib.LoggerFrom(ctx).Info("saved snapshot",
				"file", out,
				"downloaded", res.DownloadedBytes,
				"took", res.Took,
			)
			return nil
		},
	}
	c.addViewFlags(cmd, &vf)
	cmd.Flags().StringVarP(&out, "out", "o", "zkgraph.png", "PNG file to write")
	cmd.Flags().Int64Var(&width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Int64Var(&height, "height", 0, "viewport height (default from config)")
	return cmd
}
