// Package view builds graph views: a container on a host surface, a dataset,
// and a preset holding layout, interaction flags and stylesheet.
package view

import (
	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/style"
)

// Configure mounts a view of elements on the container with id containerID.
//
// The container is resolved first, so a missing container is reported as
// ErrMissingContainer whatever the data looks like. Then the elements are
// validated; an edge naming an unknown node is ErrInvalidElementReference
// from package graph. An empty dataset is fine and gives an empty view.
func Configure(surface Surface, containerID string, elements []graph.Element, p Preset) (*Handle, error) {
	if err := surface.Resolve(containerID); err != nil {
		return nil, err
	}
	if _, err := ParseLayout(string(p.Layout.Name)); err != nil {
		return nil, err
	}
	if err := graph.Validate(elements); err != nil {
		return nil, err
	}
	if p.Style == nil {
		p.Style = style.New()
	}
	return newHandle(containerID, p, elements), nil
}

// ConfigureWith is Configure with the preset spelled out.
func ConfigureWith(
	surface Surface,
	containerID string,
	elements []graph.Element,
	options Options,
	layout Layout,
	stylesheet *style.Stylesheet,
) (*Handle, error) {
	return Configure(surface, containerID, elements, Preset{
		Name:    "custom",
		Layout:  layout,
		Options: options,
		Style:   stylesheet,
	})
}
