package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ExtractionServer is the handler contract behind serviceDesc.
type ExtractionServer interface {
	ParseText(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ParseFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var _ ExtractionServer = (*ExtractionService)(nil)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExtractionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ParseText", Handler: parseTextHandler},
		{MethodName: "ParseFile", Handler: parseFileHandler},
		{MethodName: "GetRun", Handler: getRunHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "poextract/v1/extraction.proto",
}

func parseTextHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractionServer).ParseText(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ParseText"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtractionServer).ParseText(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func parseFileHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractionServer).ParseFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ParseFile"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtractionServer).ParseFile(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getRunHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractionServer).GetRun(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetRun"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtractionServer).GetRun(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin caller for the service, used by tests and tooling.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ParseText(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ParseText", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ParseFile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ParseFile", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRun(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetRun", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
