package graph

import (
	"github.com/cockroachdb/errors"

	"github.com/psidex/zkgraph/internal/lib"
)

var (
	// ErrInvalidElementReference is returned when an edge names a node that is
	// not part of the dataset.
	ErrInvalidElementReference = errors.New("invalid element reference")
	ErrDuplicateElement        = errors.New("duplicate element id")
	ErrInvalidElement          = errors.New("invalid element")
)

// Validate checks ids are present and unique and that every edge endpoint is a
// node in elements. The first problem found, in input order, is returned.
func Validate(elements []Element) error {
	ids := lib.NewSet[string]()
	nodes := lib.NewSet[string]()
	for _, e := range elements {
		if e.ID == "" {
			return errors.Wrapf(ErrInvalidElement, "%s with empty id", e.Kind)
		}
		if !ids.Add(e.ID) {
			return errors.Wrapf(ErrDuplicateElement, "%s %q", e.Kind, e.ID)
		}
		if e.IsNode() {
			nodes.Add(e.ID)
		}
	}

	for _, e := range elements {
		if !e.IsEdge() {
			continue
		}
		if !nodes.Contains(e.Source) {
			return errors.Wrapf(ErrInvalidElementReference, "edge %q: source %q is not a node", e.ID, e.Source)
		}
		if !nodes.Contains(e.Target) {
			return errors.Wrapf(ErrInvalidElementReference, "edge %q: target %q is not a node", e.ID, e.Target)
		}
	}

	return nil
}
