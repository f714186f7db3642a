package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

func aiModelProcessImageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(ImageRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*aiModelServer)
	if interceptor == nil {
		return s.processImage(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/inferd.rpcapi.AIModelService/ProcessImage"}
	handler := func(ctx context.Context, req any) (any, error) {
		return s.processImage(ctx, req.(*ImageRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func aiModelControlModelHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(ModelControlRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*aiModelServer)
	if interceptor == nil {
		return s.controlModel(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/inferd.rpcapi.AIModelService/ControlModel"}
	handler := func(ctx context.Context, req any) (any, error) {
		return s.controlModel(ctx, req.(*ModelControlRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// aiModelServiceDesc hand-mirrors the shape protoc-gen-go-grpc emits for a
// two-method service (spec.md §6.3's AIModelService), without depending on
// a protobuf code generator (see doc.go).
var aiModelServiceDesc = grpc.ServiceDesc{
	ServiceName: "inferd.rpcapi.AIModelService",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ProcessImage", Handler: aiModelProcessImageHandler},
		{MethodName: "ControlModel", Handler: aiModelControlModelHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inferd/rpcapi/aimodel.proto",
}

func statusGetSystemStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(StatusRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*statusServer)
	if interceptor == nil {
		return s.getSystemStatus(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/inferd.rpcapi.StatusService/GetSystemStatus"}
	handler := func(ctx context.Context, req any) (any, error) {
		return s.getSystemStatus(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func statusGetModelPoolsStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(StatusRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*statusServer)
	if interceptor == nil {
		return s.getModelPoolsStatus(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/inferd.rpcapi.StatusService/GetModelPoolsStatus"}
	handler := func(ctx context.Context, req any) (any, error) {
		return s.getModelPoolsStatus(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func statusGetConcurrencyStatsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(StatusRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*statusServer)
	if interceptor == nil {
		return s.getConcurrencyStats(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/inferd.rpcapi.StatusService/GetConcurrencyStats"}
	handler := func(ctx context.Context, req any) (any, error) {
		return s.getConcurrencyStats(ctx, req.(*StatusRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// statusServiceDesc covers StatusService's three read-only methods.
var statusServiceDesc = grpc.ServiceDesc{
	ServiceName: "inferd.rpcapi.StatusService",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSystemStatus", Handler: statusGetSystemStatusHandler},
		{MethodName: "GetModelPoolsStatus", Handler: statusGetModelPoolsStatusHandler},
		{MethodName: "GetConcurrencyStats", Handler: statusGetConcurrencyStatsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inferd/rpcapi/status.proto",
}
