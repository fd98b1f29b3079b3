package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName = "dispatch.v1.DispatchService"

	recommendDroneMethod  = "/" + serviceName + "/RecommendDrone"
	dispatchOrderMethod   = "/" + serviceName + "/DispatchOrder"
	listQueueMethod       = "/" + serviceName + "/ListQueue"
	runDispatchPassMethod = "/" + serviceName + "/RunDispatchPass"
)

// DispatchServiceServer is the server API for dispatch.v1.DispatchService.
type DispatchServiceServer interface {
	RecommendDrone(context.Context, *RecommendDroneRequest) (*RecommendDroneResponse, error)
	DispatchOrder(context.Context, *DispatchOrderRequest) (*DispatchOrderResponse, error)
	ListQueue(context.Context, *ListQueueRequest) (*ListQueueResponse, error)
	RunDispatchPass(context.Context, *RunDispatchPassRequest) (*RunDispatchPassResponse, error)
}

func RegisterDispatchServiceServer(s grpc.ServiceRegistrar, srv DispatchServiceServer) {
	s.RegisterService(&dispatchServiceDesc, srv)
}

// dispatchServiceDesc mirrors dispatch/v1/dispatch.proto; messages travel through the json codec.
var dispatchServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*DispatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RecommendDrone", Handler: recommendDroneHandler},
		{MethodName: "DispatchOrder", Handler: dispatchOrderHandler},
		{MethodName: "ListQueue", Handler: listQueueHandler},
		{MethodName: "RunDispatchPass", Handler: runDispatchPassHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dispatch/v1/dispatch.proto",
}

func recommendDroneHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RecommendDroneRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).RecommendDrone(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: recommendDroneMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).RecommendDrone(ctx, req.(*RecommendDroneRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func dispatchOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DispatchOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).DispatchOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: dispatchOrderMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).DispatchOrder(ctx, req.(*DispatchOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listQueueHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListQueueRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).ListQueue(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listQueueMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).ListQueue(ctx, req.(*ListQueueRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func runDispatchPassHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RunDispatchPassRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatchServiceServer).RunDispatchPass(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: runDispatchPassMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatchServiceServer).RunDispatchPass(ctx, req.(*RunDispatchPassRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// DispatchServiceClient calls dispatch.v1.DispatchService using the JSON codec.
type DispatchServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDispatchServiceClient(cc grpc.ClientConnInterface) *DispatchServiceClient {
	return &DispatchServiceClient{cc: cc}
}

func (c *DispatchServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *DispatchServiceClient) RecommendDrone(ctx context.Context, in *RecommendDroneRequest, opts ...grpc.CallOption) (*RecommendDroneResponse, error) {
	out := new(RecommendDroneResponse)
	if err := c.invoke(ctx, recommendDroneMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchServiceClient) DispatchOrder(ctx context.Context, in *DispatchOrderRequest, opts ...grpc.CallOption) (*DispatchOrderResponse, error) {
	out := new(DispatchOrderResponse)
	if err := c.invoke(ctx, dispatchOrderMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchServiceClient) ListQueue(ctx context.Context, in *ListQueueRequest, opts ...grpc.CallOption) (*ListQueueResponse, error) {
	out := new(ListQueueResponse)
	if err := c.invoke(ctx, listQueueMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispatchServiceClient) RunDispatchPass(ctx context.Context, in *RunDispatchPassRequest, opts ...grpc.CallOption) (*RunDispatchPassResponse, error) {
	out := new(RunDispatchPassResponse)
	if err := c.invoke(ctx, runDispatchPassMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
