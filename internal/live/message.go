// Package live serves a view over HTTP and keeps connected pages in sync with
// the handle's dataset through a websocket.
package live

import (
	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/view"
)

const (
	MessageAdd   = "add"
	MessageReset = "reset"
)

// Message is what the page receives over the websocket.
type Message struct {
	Type string          `json:"type"`
	Data []graph.Element `json:"data"`
}

func messageFor(ev view.Event) Message {
	data := ev.Elements
	if data == nil {
		data = []graph.Element{}
	}
	return Message{Type: ev.Kind.String(), Data: data}
}

func resetMessage(elements []graph.Element) Message {
	if elements == nil {
		elements = []graph.Element{}
	}
	return Message{Type: MessageReset, Data: elements}
}
