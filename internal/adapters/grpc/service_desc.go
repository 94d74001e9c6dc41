package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "uexcorp.v1.TradeAssistant"

const (
	methodCall          = "/" + ServiceName + "/Call"
	methodListFunctions = "/" + ServiceName + "/ListFunctions"
	methodHealth        = "/" + ServiceName + "/Health"
	methodRecentErrors  = "/" + ServiceName + "/RecentErrors"
	methodLoadHistory   = "/" + ServiceName + "/LoadHistory"
)

// TradeAssistantServer is the server API of the trade assistant service.
// Messages are well-known protobuf types, so no generated code is needed.
//
//   - Call: {name, arguments} -> {operation, text, request_id, failed}
//   - ListFunctions: {} -> {functions: [...], context}
//   - Health: {} -> {status, version, data_loaded, fetched_at, ...}
//   - RecentErrors: {level, request_id, since, limit} -> [entry, ...]
//   - LoadHistory: limit -> [load, ...]
type TradeAssistantServer interface {
	Call(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListFunctions(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Health(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	RecentErrors(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
	LoadHistory(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.ListValue, error)
}

// RegisterTradeAssistantServer registers srv on s
func RegisterTradeAssistantServer(s grpc.ServiceRegistrar, srv TradeAssistantServer) {
	s.RegisterService(&tradeAssistantServiceDesc, srv)
}

var tradeAssistantServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TradeAssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: callHandler},
		{MethodName: "ListFunctions", Handler: listFunctionsHandler},
		{MethodName: "Health", Handler: healthHandler},
		{MethodName: "RecentErrors", Handler: recentErrorsHandler},
		{MethodName: "LoadHistory", Handler: loadHistoryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "uexcorp/v1/trade_assistant.proto",
}

// unary adapts a typed method to the grpc.MethodDesc handler signature
func unary[Req any, Resp any](
	method string,
	newReq func() Req,
	call func(srv TradeAssistantServer, ctx context.Context, req Req) (Resp, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TradeAssistantServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TradeAssistantServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	callHandler = unary(methodCall,
		func() *structpb.Struct { return new(structpb.Struct) },
		TradeAssistantServer.Call)
	listFunctionsHandler = unary(methodListFunctions,
		func() *emptypb.Empty { return new(emptypb.Empty) },
		TradeAssistantServer.ListFunctions)
	healthHandler = unary(methodHealth,
		func() *emptypb.Empty { return new(emptypb.Empty) },
		TradeAssistantServer.Health)
	recentErrorsHandler = unary(methodRecentErrors,
		func() *structpb.Struct { return new(structpb.Struct) },
		TradeAssistantServer.RecentErrors)
	loadHistoryHandler = unary(methodLoadHistory,
		func() *wrapperspb.Int32Value { return new(wrapperspb.Int32Value) },
		TradeAssistantServer.LoadHistory)
)

// tradeAssistantClient is the client stub of the service
type tradeAssistantClient struct {
	cc grpc.ClientConnInterface
}

func (c *tradeAssistantClient) Call(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodCall, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tradeAssistantClient) ListFunctions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListFunctions, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tradeAssistantClient) Health(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodHealth, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tradeAssistantClient) RecentErrors(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodRecentErrors, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tradeAssistantClient) LoadHistory(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, methodLoadHistory, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
