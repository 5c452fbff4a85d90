// Package rpc exposes view configuration over gRPC. Messages are
// google.protobuf.Struct so no generated code is needed.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "zkgraph.GraphView"

const (
	configureMethod = "/" + ServiceName + "/Configure"
	describeMethod  = "/" + ServiceName + "/Describe"
)

// GraphViewServer is implemented by Server.
type GraphViewServer interface {
	Configure(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Describe(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GraphViewServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Configure", Handler: configureHandler},
		{MethodName: "Describe", Handler: describeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "zkgraph.proto",
}

func Register(s grpc.ServiceRegistrar, srv GraphViewServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func configureHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphViewServer).Configure(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: configureMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GraphViewServer).Configure(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func describeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphViewServer).Describe(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: describeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GraphViewServer).Describe(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
