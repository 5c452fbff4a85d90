package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/psidex/zkgraph/internal/lib"
)

var ErrNoBrowser = errors.New("BROWSER is not set")

func (c *CLI) showCommand() *cobra.Command {
	var (
		vf   viewFlags
		page string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Open the rendered page with $BROWSER",
		Long: `Open a rendered page with the program named by $BROWSER. When the page
does not exist yet it is rendered from the view flags first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			browser := c.Getenv("BROWSER")
			if browser == "" {
				return errors.WithHint(ErrNoBrowser, "export BROWSER=firefox, for example")
			}

			if _, err := os.Stat(page); errors.Is(err, os.ErrNotExist) {
				h, err := c.buildView(ctx, vf)
				if err != nil {
					return err
				}
				f, err := os.Create(page)
				if err != nil {
					return errors.Wrapf(err, "create %s", page)
				}
				err = c.page().Render(f, h)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return errors.Wrapf(err, "render %s", page)
				}
				lib.LoggerFrom(ctx).Info("rendered", "file", page)
			} else if err != nil {
				return errors.Wrapf(err, "stat %s", page)
			}

			if err := c.RunBrowser(ctx, browser, page); err != nil {
				return errors.Wrapf(err, "open %s with %s", page, browser)
			}
			return nil
		},
	}
	c.addViewFlags(cmd, &vf)
	cmd.Flags().StringVar(&page, "page", "index.html", "page to open")
	return cmd
}
