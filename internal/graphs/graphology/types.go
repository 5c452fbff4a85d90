package graphology

type NodeAttributes struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Label string  `json:"label,omitempty"`
	Color string  `json:"color,omitempty"`
}

type Node struct {
	Key        string         `json:"key"`
	Attributes NodeAttributes `json:"attributes"`
}

type EdgeAttributes struct {
	Size  float64 `json:"size"`
	Color string  `json:"color,omitempty"`
}

type Edge struct {
	Key        string         `json:"key"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Attributes EdgeAttributes `json:"attributes"`
}

type GraphAttributes struct {
	Layout    string `json:"layout"`
	Container string `json:"container"`
}

type SerializedGraph struct {
	Attributes GraphAttributes `json:"attributes"`
	Nodes      []Node          `json:"nodes"`
	Edges      []Edge          `json:"edges"`
}
