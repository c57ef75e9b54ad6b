package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// The reservation service speaks google.protobuf.Struct messages so that clients can
// call it without generated stubs (grpcurl -d '{...}').
const (
	ReservationServiceName = "skirent.v1.ReservationService"

	ReservationService_Quote_FullMethodName  = "/skirent.v1.ReservationService/Quote"
	ReservationService_Submit_FullMethodName = "/skirent.v1.ReservationService/Submit"
)

type ReservationServiceServer interface {
	// Quote validates and prices a draft without saving it.
	Quote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Submit creates a reservation, or updates the one named by reservation_id.
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedReservationServiceServer can be embedded to have forward compatible implementations.
type UnimplementedReservationServiceServer struct{}

func (UnimplementedReservationServiceServer) Quote(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Quote not implemented")
}

func (UnimplementedReservationServiceServer) Submit(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Submit not implemented")
}

func RegisterReservationServiceServer(s grpc.ServiceRegistrar, srv ReservationServiceServer) {
	s.RegisterService(&ReservationService_ServiceDesc, srv)
}

func reservationQuoteHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).Quote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReservationService_Quote_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).Quote(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func reservationSubmitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReservationService_Submit_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReservationServiceServer).Submit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ReservationService_ServiceDesc is the grpc.ServiceDesc for the reservation service.
var ReservationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ReservationServiceName,
	HandlerType: (*ReservationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Quote",
			Handler:    reservationQuoteHandler,
		},
		{
			MethodName: "Submit",
			Handler:    reservationSubmitHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// ReservationServiceClient is the client API for the reservation service.
type ReservationServiceClient interface {
	Quote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type reservationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReservationServiceClient(cc grpc.ClientConnInterface) ReservationServiceClient {
	return &reservationServiceClient{cc}
}

func (c *reservationServiceClient) Quote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReservationService_Quote_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReservationService_Submit_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
