package cytoscape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/graphs"
	"github.com/psidex/zkgraph/internal/view"
)

// ErrNoElementsLine is returned by SpliceElements when the script has no
// `let elementsData...;` line to replace.
var ErrNoElementsLine = errors.New("no elementsData declaration found")

var elementsLine = regexp.MustCompile(`(?m)^let elementsData( = .*)?;\r?$`)

// Script renders a graph.js that a host page includes after Cytoscape.js. The
// data sits on its own `let elementsData = ...;` line so SpliceElements can
// refresh it later without touching the rest of the file.
type Script struct{}

var _ graphs.Renderer = Script{}

func (Script) Extension() string { return "js" }

func (Script) Render(w io.Writer, h *view.Handle) error {
	line, err := elementsDecl(h.Elements())
	if err != nil {
		return err
	}
	opts, err := json.MarshalIndent(newViewOptions(h), "  ", "  ")
	if err != nil {
		return err
	}
	container, err := json.Marshal(h.Container())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, `%s

const cy = cytoscape(Object.assign(
  { container: document.getElementById(%s) },
  %s,
  { elements: elementsData }
));
`, line, container, opts)
	return err
}

func elementsDecl(elements []graph.Element) ([]byte, error) {
	if elements == nil {
		elements = []graph.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("let elementsData = ")
	buf.Write(data)
	buf.WriteByte(';')
	return buf.Bytes(), nil
}

// SpliceElements replaces every `let elementsData...;` line in src with one
// declaring elements. json.Marshal escapes <, > and &, so the data can't end
// an enclosing script tag.
func SpliceElements(src []byte, elements []graph.Element) ([]byte, error) {
	if !elementsLine.Match(src) {
		return nil, ErrNoElementsLine
	}
	line, err := elementsDecl(elements)
	if err != nil {
		return nil, err
	}
	return elementsLine.ReplaceAllLiteral(src, line), nil
}
