// Package snapshot captures rendered views as PNG using headless Chrome.
package snapshot

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/graphs/cytoscape"
	"github.com/psidex/zkgraph/internal/view"
)

type Config struct {
	Width  int64
	Height int64
	// Timeout bounds the whole capture including browser start.
	Timeout time.Duration
	// Settle is how long to wait after the container shows up, giving the
	// layout time to finish.
	Settle time.Duration
}

func DefaultConfig() Config {
	return Config{
		Width:   1280,
		Height:  800,
		Timeout: 30 * time.Second,
		Settle:  time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Settle < 0 {
		c.Settle = 0
	}
	return c
}

type Result struct {
	PNG []byte
	// DownloadedBytes counts encoded bytes of every resource the page loaded.
	DownloadedBytes int64
	Took            time.Duration
}

// Capture loads pageURL, waits until the element with id containerID is
// visible and screenshots the viewport.
func Capture(ctx context.Context, pageURL, containerID string, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	start := time.Now()

	timeoutCtx, timeoutCancel := context.WithTimeout(ctx, cfg.Timeout)
	defer timeoutCancel()

	cctx, cancel := chromedp.NewContext(timeoutCtx)
	defer cancel()

	var downloaded atomic.Int64
	countBytes := func(ctx context.Context) error {
		chromedp.ListenTarget(ctx, func(ev any) {
			if ev, ok := ev.(*network.EventLoadingFinished); ok {
				downloaded.Add(int64(ev.EncodedDataLength))
			}
		})
		return nil
	}

	var png []byte
	err := chromedp.Run(cctx,
		network.Enable(),
		chromedp.ActionFunc(countBytes),
		chromedp.EmulateViewport(cfg.Width, cfg.Height),
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("#"+containerID, chromedp.ByQuery),
		chromedp.Sleep(cfg.Settle),
		chromedp.CaptureScreenshot(&png),
	)
	if err != nil {
		return Result{}, errors.Wrapf(err, "capture %s", pageURL)
	}

	return Result{
		PNG:             png,
		DownloadedBytes: downloaded.Load(),
		Took:            time.Since(start),
	}, nil
}

// CaptureHandle renders h as a standalone page into a temporary file and
// captures it.
func CaptureHandle(ctx context.Context, h *view.Handle, page cytoscape.Page, cfg Config) (Result, error) {
	dir, err := os.MkdirTemp("", "zkgraph-snapshot-*")
	if err != nil {
		return Result{}, errors.Wrap(err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	page.Live = false
	path, err := renderTo(dir, page, h)
	if err != nil {
		return Result{}, err
	}
	return Capture(ctx, FileURL(path), h.Container(), cfg)
}

func renderTo(dir string, page cytoscape.Page, h *view.Handle) (string, error) {
	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create page")
	}
	defer f.Close()
	if err := page.Render(f, h); err != nil {
		return "", errors.Wrap(err, "render page")
	}
	return path, f.Close()
}

// FileURL turns a local path into a file:// URL.
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// WriteFile captures h and writes the PNG to path.
func WriteFile(ctx context.Context, h *view.Handle, page cytoscape.Page, cfg Config, path string) (Result, error) {
	res, err := CaptureHandle(ctx, h, page, cfg)
	if err != nil {
		return res, err
	}
	if err := os.WriteFile(path, res.PNG, 0o644); err != nil {
		return res, errors.Wrapf(err, "write %s", path)
	}
	return res, nil
}
