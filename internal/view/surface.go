package view

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"

	"github.com/psidex/zkgraph/internal/lib"
)

// ErrMissingContainer is returned when a container id does not resolve on the
// surface a view is mounted on.
var ErrMissingContainer = errors.New("missing container")

// DefaultContainerID is the id of the div zkgraph renders its graph into.
const DefaultContainerID = "cy"

// Surface resolves container ids.
type Surface interface {
	// Resolve returns ErrMissingContainer (possibly wrapped) if id is not mounted.
	Resolve(id string) error
}

// Document is a Surface backed by a parsed HTML host document.
type Document struct {
	ids lib.Set[string]
}

var _ Surface = (*Document)(nil)

// ParseDocument reads a host page and indexes the id of every element in it.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse host document")
	}
	return &Document{ids: collectIDs(root)}, nil
}

// LoadDocument parses the host page at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ParseDocument(f)
}

const defaultHost = `<!DOCTYPE html><html><body><div id="` + DefaultContainerID + `"></div></body></html>`

// DefaultDocument is the host page zkgraph's own renderers produce: a single
// div with id DefaultContainerID.
func DefaultDocument() *Document {
	d, err := ParseDocument(strings.NewReader(defaultHost))
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Document) Resolve(id string) error {
	if id == "" {
		return errors.Wrap(ErrMissingContainer, "empty container id")
	}
	if !d.ids.Contains(id) {
		return errors.Wrapf(ErrMissingContainer, "no element with id %q", id)
	}
	return nil
}

// IDs lists every element id in the document, sorted.
func (d *Document) IDs() []string {
	return d.ids.Sorted()
}

// collectIDs walks the tree and records every id attribute of an element node.
func collectIDs(n *html.Node) lib.Set[string] {
	ids := lib.NewSet[string]()

	var visitNode func(*html.Node)
	visitNode = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val != "" {
					ids.Add(attr.Val)
					break
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visitNode(c)
		}
	}

	visitNode(n)

	return ids
}

// Containers is a Surface that knows a fixed set of ids, for callers with no
// host document to hand.
type Containers lib.Set[string]

func NewContainers(ids ...string) Containers {
	return Containers(lib.NewSet(ids...))
}

func (c Containers) Resolve(id string) error {
	if id == "" || !lib.Set[string](c).Contains(id) {
		return errors.Wrapf(ErrMissingContainer, "no container %q", id)
	}
	return nil
}
