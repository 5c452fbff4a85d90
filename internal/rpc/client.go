package rpc

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/psidex/zkgraph/internal/graph"
)

// Client calls a GraphView service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

type ConfigureRequest struct {
	Preset    string
	Container string
	Elements  []graph.Element
}

func (c *Client) Configure(ctx context.Context, req ConfigureRequest, opts ...grpc.CallOption) (Summary, error) {
	var buf bytes.Buffer
	if err := graph.WriteJSON(&buf, req.Elements); err != nil {
		return Summary{}, err
	}
	var elements any
	if err := json.Unmarshal(buf.Bytes(), &elements); err != nil {
		return Summary{}, errors.Wrap(err, "encode elements")
	}

	fields := map[string]any{"elements": elements}
	if req.Preset != "" {
		fields["preset"] = req.Preset
	}
	if req.Container != "" {
		fields["container"] = req.Container
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return Summary{}, errors.Wrap(err, "build request")
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, configureMethod, in, out, opts...); err != nil {
		return Summary{}, err
	}
	return fromStruct(out)
}

func (c *Client) Describe(ctx context.Context, id string, opts ...grpc.CallOption) (Summary, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return Summary{}, errors.Wrap(err, "build request")
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, describeMethod, in, out, opts...); err != nil {
		return Summary{}, err
	}
	return fromStruct(out)
}
