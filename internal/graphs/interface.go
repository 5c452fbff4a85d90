// Package graphs turns a configured view into files a browser or image viewer
// can open. Each subpackage or type covers one output format.
package graphs

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/view"
)

// Renderer writes a view in one output format.
type Renderer interface {
	// Extension is the file extension without the dot, e.g. "html".
	Extension() string
	// Render must not modify h.
	Render(w io.Writer, h *view.Handle) error
}

// RenderToFile renders h with r into filename plus r's extension and returns
// the path written. filename should be the desired file name without an
// extension.
func RenderToFile(r Renderer, h *view.Handle, filename string) (string, error) {
	path := filename + "." + r.Extension()

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}

	if err := r.Render(f, h); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "render %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", path)
	}
	return path, nil
}
