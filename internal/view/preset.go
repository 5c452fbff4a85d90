package view

import (
	"github.com/psidex/zkgraph/internal/style"
)

// Preset is a named view configuration: everything except the container and
// the data.
type Preset struct {
	Name    string
	Layout  Layout
	Options Options
	Style   *style.Stylesheet
}

func (p Preset) clone() Preset {
	p.Style = p.Style.Clone()
	return p
}

const (
	PresetForce    = "force"
	PresetCircle   = "circle"
	PresetHaystack = "haystack"
)

// ForcePreset lays notes out force-directed, sizes nodes by weight and only
// labels selected or grabbed nodes.
func ForcePreset() Preset {
	return Preset{
		Name:    PresetForce,
		Layout:  Layout{Name: LayoutCose, IdealEdgeLength: 200},
		Options: Options{BoxSelectionEnabled: true, Autounselectify: false},
		Style: style.New().
			Selector("node").CSS(
				style.Set("height", style.MapData("weight", 0, 30, 20, 60)),
				style.Set("width", style.MapData("weight", 0, 30, 20, 60)),
				style.Set("color", "#707070"),
				style.Set("text-opacity", 1),
				style.Set("text-valign", "bottom"),
				style.Set("text-halign", "center"),
				style.Set("font-size", "10px"),
			).
			Selector("node:unselected").CSS(
				style.Set("background-color", "#969696"),
			).
			Selector("node:selected, node:grabbed").CSS(
				style.Set("content", style.Data("label")),
				style.Set("background-color", "#8BA7BD"),
			).
			Selector("edge").CSS(
				style.Set("curve-style", "straight"),
				style.Set("width", 8),
				style.Set("opacity", 0.5),
				style.Set("line-color", "#383838"),
			),
	}
}

// CirclePreset is a compact circle with small fixed nodes and labels always on.
func CirclePreset() Preset {
	return Preset{
		Name:    PresetCircle,
		Layout:  Layout{Name: LayoutCircle},
		Options: Options{BoxSelectionEnabled: false, Autounselectify: true},
		Style: style.New().
			Selector("node").CSS(
				style.Set("height", 16),
				style.Set("width", 16),
				style.Set("background-color", "#9a9a9a"),
				style.Set("content", style.Data("label")),
				style.Set("color", "#5a5a5a"),
				style.Set("font-size", "8px"),
				style.Set("text-valign", "bottom"),
				style.Set("text-halign", "center"),
			).
			Selector("edge").CSS(
				style.Set("curve-style", "straight"),
				style.Set("width", 2),
				style.Set("opacity", 0.6),
				style.Set("line-color", "#b0b0b0"),
			),
	}
}

// HaystackPreset draws flat grey nodes and red bundled edges on a circle.
func HaystackPreset() Preset {
	return Preset{
		Name:    PresetHaystack,
		Layout:  Layout{Name: LayoutCircle},
		Options: Options{BoxSelectionEnabled: false, Autounselectify: true},
		Style: style.New().
			Selector("node").CSS(
				style.Set("height", 20),
				style.Set("width", 20),
				style.Set("background-color", "#cccccc"),
			).
			Selector("edge").CSS(
				style.Set("curve-style", "haystack"),
				style.Set("haystack-radius", 0),
				style.Set("width", 5),
				style.Set("opacity", 0.5),
				style.Set("line-color", "#dd0000"),
			),
	}
}
