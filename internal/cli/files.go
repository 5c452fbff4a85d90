package cli

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/graph"
)

func writeElements(w io.Writer, elements []graph.Element) error {
	return graph.WriteJSON(w, elements)
}

func writeElementsFile(path string, elements []graph.Element) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := writeElements(f, elements); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
