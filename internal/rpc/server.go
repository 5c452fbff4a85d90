package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/view"
)

// Summary describes a configured view.
type Summary struct {
	ID                  string `json:"id"`
	Container           string `json:"container"`
	Preset              string `json:"preset"`
	Layout              string `json:"layout"`
	BoxSelectionEnabled bool   `json:"boxSelectionEnabled"`
	Autounselectify     bool   `json:"autounselectify"`
	Nodes               int    `json:"nodes"`
	Edges               int    `json:"edges"`
}

func summarize(h *view.Handle) Summary {
	return Summary{
		ID:                  h.ID(),
		Container:           h.Container(),
		Preset:              h.PresetName(),
		Layout:              string(h.Layout().Name),
		BoxSelectionEnabled: h.Options().BoxSelectionEnabled,
		Autounselectify:     h.Options().Autounselectify,
		Nodes:               h.NodeCount(),
		Edges:               h.EdgeCount(),
	}
}

func (s Summary) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":                  s.ID,
		"container":           s.Container,
		"preset":              s.Preset,
		"layout":              s.Layout,
		"boxSelectionEnabled": s.BoxSelectionEnabled,
		"autounselectify":     s.Autounselectify,
		"nodes":               s.Nodes,
		"edges":               s.Edges,
	})
}

// DefaultMaxHandles bounds how many configured handles a Server remembers.
const DefaultMaxHandles = 1024

// Server keeps the handles it configured so they can be described later.
// Once more than maxHandles exist the oldest is forgotten.
type Server struct {
	logger   *slog.Logger
	registry *view.Registry
	surface  view.Surface

	mu         sync.RWMutex
	handles    map[string]*view.Handle
	order      []string
	maxHandles int
}

var _ GraphViewServer = (*Server)(nil)

func NewServer(logger *slog.Logger, registry *view.Registry, surface view.Surface) *Server {
	return &Server{
		logger:     logger,
		registry:   registry,
		surface:    surface,
		handles:    make(map[string]*view.Handle),
		maxHandles: DefaultMaxHandles,
	}
}

// SetMaxHandles changes the retention bound. Values below 1 are ignored.
func (s *Server) SetMaxHandles(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxHandles = n
	s.evict()
}

func (s *Server) evict() {
	for len(s.order) > s.maxHandles {
		delete(s.handles, s.order[0])
		s.order = s.order[1:]
	}
}

// Handle returns a configured handle by id.
func (s *Server) Handle(id string) (*view.Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[id]
	return h, ok
}

// Configure expects {preset, container, elements}. Preset defaults to force
// and container to the default container id.
func (s *Server) Configure(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	presetName := stringField(fields, "preset", view.PresetForce)
	container := stringField(fields, "container", view.DefaultContainerID)

	elements, err := elementsField(fields)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "elements: %s", err)
	}

	p, err := s.registry.Lookup(presetName)
	if err != nil {
		return nil, toStatus(err)
	}

	h, err := view.Configure(s.surface, container, elements, p)
	if err != nil {
		s.logger.Debug("configure rejected", "container", container, "preset", presetName, "err", err)
		return nil, toStatus(err)
	}

	s.mu.Lock()
	s.handles[h.ID()] = h
	s.order = append(s.order, h.ID())
	s.evict()
	s.mu.Unlock()

	s.logger.Info("configured view",
		"id", h.ID(),
		"container", container,
		"preset", presetName,
		"nodes", h.NodeCount(),
		"edges", h.EdgeCount(),
	)
	return summarize(h).toStruct()
}

// Describe expects {id}.
func (s *Server) Describe(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(in.GetFields(), "id", "")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	h, ok := s.Handle(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "no view %q", id)
	}
	return summarize(h).toStruct()
}

func stringField(fields map[string]*structpb.Value, key, fallback string) string {
	if v, ok := fields[key]; ok {
		if s := v.GetStringValue(); s != "" {
			return s
		}
	}
	return fallback
}

func elementsField(fields map[string]*structpb.Value) ([]graph.Element, error) {
	v, ok := fields["elements"]
	if !ok {
		return []graph.Element{}, nil
	}
	raw, err := json.Marshal(v.AsInterface())
	if err != nil {
		return nil, err
	}
	return graph.ReadJSON(bytes.NewReader(raw))
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, view.ErrMissingContainer):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, graph.ErrInvalidElementReference),
		errors.Is(err, graph.ErrDuplicateElement),
		errors.Is(err, graph.ErrInvalidElement),
		errors.Is(err, view.ErrUnknownPreset),
		errors.Is(err, view.ErrUnknownLayout):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func fromStruct(s *structpb.Struct) (Summary, error) {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	err = json.Unmarshal(raw, &sum)
	return sum, err
}
