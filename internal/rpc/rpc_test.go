package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/view"
)

func newClient(t *testing.T) (*Client, *Server) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(lib.DiscardLogger(), view.NewRegistry(), view.NewContainers("cy", "side"))

	s := grpc.NewServer()
	Register(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn), srv
}

func sample() []graph.Element {
	return []graph.Element{
		graph.Node("a").WithLabel("Alpha").WithWeight(3),
		graph.Node("b"),
		graph.Edge("e0", "a", "b"),
	}
}

func TestConfigurePresets(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	tests := []struct {
		preset string
		layout string
		box    bool
		unsel  bool
	}{
		{view.PresetForce, "cose", true, false},
		{view.PresetCircle, "circle", false, true},
		{view.PresetHaystack, "circle", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			sum, err := client.Configure(ctx, ConfigureRequest{Preset: tt.preset, Elements: sample()})
			require.NoError(t, err)

			assert.NotEmpty(t, sum.ID)
			assert.Equal(t, "cy", sum.Container)
			assert.Equal(t, tt.preset, sum.Preset)
			assert.Equal(t, tt.layout, sum.Layout)
			assert.Equal(t, tt.box, sum.BoxSelectionEnabled)
			assert.Equal(t, tt.unsel, sum.Autounselectify)
			assert.Equal(t, 2, sum.Nodes)
			assert.Equal(t, 1, sum.Edges)
		})
	}
}

func TestConfigureDefaults(t *testing.T) {
	client, srv := newClient(t)

	sum, err := client.Configure(context.Background(), ConfigureRequest{})
	require.NoError(t, err)
	assert.Equal(t, view.PresetForce, sum.Preset)
	assert.Equal(t, 0, sum.Nodes)
	assert.Equal(t, 0, sum.Edges)

	h, ok := srv.Handle(sum.ID)
	require.True(t, ok)
	assert.Equal(t, view.DefaultContainerID, h.Container())
}

func TestConfigureErrors(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ConfigureRequest
		code codes.Code
	}{
		{"missing container", ConfigureRequest{Container: "nope", Elements: sample()}, codes.NotFound},
		{"unknown preset", ConfigureRequest{Preset: "spiral"}, codes.InvalidArgument},
		{"dangling edge", ConfigureRequest{Elements: []graph.Element{graph.Edge("e0", "a", "zz")}}, codes.InvalidArgument},
		{"duplicate id", ConfigureRequest{Elements: []graph.Element{graph.Node("a"), graph.Node("a")}}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Configure(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestMissingContainerBeatsBadData(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.Configure(context.Background(), ConfigureRequest{
		Container: "nope",
		Elements:  []graph.Element{graph.Edge("e0", "a", "zz")},
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDescribe(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	created, err := client.Configure(ctx, ConfigureRequest{Preset: view.PresetCircle, Container: "side", Elements: sample()})
	require.NoError(t, err)

	got, err := client.Describe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = client.Describe(ctx, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Describe(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSameArgumentsSameMetadata(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	one, err := client.Configure(ctx, ConfigureRequest{Preset: view.PresetHaystack, Container: "cy", Elements: sample()})
	require.NoError(t, err)
	two, err := client.Configure(ctx, ConfigureRequest{Preset: view.PresetHaystack, Container: "side", Elements: sample()})
	require.NoError(t, err)

	assert.NotEqual(t, one.ID, two.ID)
	one.ID, two.ID = "", ""
	one.Container, two.Container = "", ""
	assert.Equal(t, one, two)
}

func TestOldestHandlesAreForgotten(t *testing.T) {
	client, srv := newClient(t)
	srv.SetMaxHandles(2)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		s, err := client.Configure(ctx, ConfigureRequest{Elements: sample()})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	_, err := client.Describe(ctx, ids[0])
	assert.Equal(t, codes.NotFound, status.Code(err))
	for _, id := range ids[1:] {
		_, ok := srv.Handle(id)
		assert.True(t, ok, id)
	}
}
