package view

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

var ErrUnknownLayout = errors.New("unknown layout")

// LayoutName selects one of the layout algorithms provided by the browser library.
type LayoutName string

const (
	// LayoutCose is the force-directed layout.
	LayoutCose LayoutName = "cose"
	// LayoutCircle places nodes on a circle.
	LayoutCircle LayoutName = "circle"
)

func ParseLayout(s string) (LayoutName, error) {
	switch LayoutName(s) {
	case LayoutCose, LayoutCircle:
		return LayoutName(s), nil
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrUnknownLayout, "%q", s),
		"supported layouts are cose and circle",
	)
}

// Layout is chosen once when a view is configured and never recomputed.
type Layout struct {
	Name LayoutName
	// IdealEdgeLength is only meaningful for cose. Zero leaves the library default.
	IdealEdgeLength int
}

// MarshalJSON writes the Cytoscape layout object.
func (l Layout) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name            LayoutName `json:"name"`
		IdealEdgeLength int        `json:"idealEdgeLength,omitempty"`
	}{l.Name, l.IdealEdgeLength})
}

// Options are the interaction flags of a view.
type Options struct {
	// BoxSelectionEnabled allows drag-rectangle multi select.
	BoxSelectionEnabled bool `json:"boxSelectionEnabled"`
	// Autounselectify makes elements unselectable, so clicking empty space has
	// nothing to unselect.
	Autounselectify bool `json:"autounselectify"`
}
