package sentry

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pulsesentry.v1.PulseSentryService"

// Full method names.
const (
	ExecuteFullMethodName      = "/" + ServiceName + "/Execute"
	ApplyFeatureFullMethodName = "/" + ServiceName + "/ApplyFeature"
	GetKeyFullMethodName       = "/" + ServiceName + "/GetKey"
	AppInfoFullMethodName      = "/" + ServiceName + "/AppInfo"
)

// ServiceServer is the server API of PulseSentryService.
type ServiceServer interface {
	Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ApplyFeature(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	GetKey(ctx context.Context, req *structpb.Struct) (*structpb.Value, error)
	AppInfo(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes PulseSentryService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Mirrors the descriptor protoc-gen-go-grpc emits.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    unaryHandler(ExecuteFullMethodName, newStruct, ServiceServer.Execute),
		},
		{
			MethodName: "ApplyFeature",
			Handler:    unaryHandler(ApplyFeatureFullMethodName, newStruct, ServiceServer.ApplyFeature),
		},
		{
			MethodName: "GetKey",
			Handler:    unaryHandler(GetKeyFullMethodName, newStruct, ServiceServer.GetKey),
		},
		{
			MethodName: "AppInfo",
			Handler:    unaryHandler(AppInfoFullMethodName, newEmpty, ServiceServer.AppInfo),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterServiceServer registers srv on the gRPC service registrar.
func RegisterServiceServer(registrar grpc.ServiceRegistrar, srv ServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }

func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }

// unaryHandler builds the method handler that decodes the request and
// routes it through the server interceptor chain when one is installed.
func unaryHandler[Req, Resp proto.Message](
	fullMethod string,
	newRequest func() Req,
	call func(ServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(ServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// ServiceClient is the client API of PulseSentryService.
type ServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewServiceClient binds a client to an established connection.
func NewServiceClient(cc grpc.ClientConnInterface) *ServiceClient {
	return &ServiceClient{cc: cc}
}

// Execute submits one command on behalf of a sender.
func (c *ServiceClient) Execute(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ExecuteFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// ApplyFeature submits one feature entry.
func (c *ServiceClient) ApplyFeature(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, ApplyFeatureFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// GetKey reads one raw store value.
func (c *ServiceClient) GetKey(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, GetKeyFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// AppInfo returns the application descriptor.
func (c *ServiceClient) AppInfo(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AppInfoFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
