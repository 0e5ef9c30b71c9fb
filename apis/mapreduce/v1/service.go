package mapreducev1

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "mapreduce.v1.MapReduceService"

// MapReduceServiceClient is the worker side of the task API.
type MapReduceServiceClient interface {
	AskForMapTask(ctx context.Context, in *AskForMapTaskRequest, opts ...grpc.CallOption) (MapReduceService_AskForMapTaskClient, error)
	FinishMapTask(ctx context.Context, in *FinishMapTaskRequest, opts ...grpc.CallOption) (*FinishMapTaskResponse, error)
	AskForReduceTask(ctx context.Context, in *AskForReduceTaskRequest, opts ...grpc.CallOption) (MapReduceService_AskForReduceTaskClient, error)
	FinishReduceTask(ctx context.Context, in *FinishReduceTaskRequest, opts ...grpc.CallOption) (*FinishReduceTaskResponse, error)
}

type mapReduceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMapReduceServiceClient(cc grpc.ClientConnInterface) MapReduceServiceClient {
	return &mapReduceServiceClient{cc}
}

func (c *mapReduceServiceClient) AskForMapTask(ctx context.Context, in *AskForMapTaskRequest, opts ...grpc.CallOption) (MapReduceService_AskForMapTaskClient, error) {
	stream, err := c.cc.NewStream(ctx, &MapReduceService_ServiceDesc.Streams[0], "/"+serviceName+"/AskForMapTask", opts...)
	if err != nil {
		return nil, err
	}
	x := &mapReduceServiceAskForMapTaskClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type MapReduceService_AskForMapTaskClient interface {
	Recv() (*AskForMapTaskResponse, error)
	grpc.ClientStream
}

type mapReduceServiceAskForMapTaskClient struct {
	grpc.ClientStream
}

func (x *mapReduceServiceAskForMapTaskClient) Recv() (*AskForMapTaskResponse, error) {
	m := new(AskForMapTaskResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *mapReduceServiceClient) FinishMapTask(ctx context.Context, in *FinishMapTaskRequest, opts ...grpc.CallOption) (*FinishMapTaskResponse, error) {
	out := new(FinishMapTaskResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/FinishMapTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mapReduceServiceClient) AskForReduceTask(ctx context.Context, in *AskForReduceTaskRequest, opts ...grpc.CallOption) (MapReduceService_AskForReduceTaskClient, error) {
	stream, err := c.cc.NewStream(ctx, &MapReduceService_ServiceDesc.Streams[1], "/"+serviceName+"/AskForReduceTask", opts...)
	if err != nil {
		return nil, err
	}
	x := &mapReduceServiceAskForReduceTaskClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type MapReduceService_AskForReduceTaskClient interface {
	Recv() (*AskForReduceTaskResponse, error)
	grpc.ClientStream
}

type mapReduceServiceAskForReduceTaskClient struct {
	grpc.ClientStream
}

func (x *mapReduceServiceAskForReduceTaskClient) Recv() (*AskForReduceTaskResponse, error) {
	m := new(AskForReduceTaskResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *mapReduceServiceClient) FinishReduceTask(ctx context.Context, in *FinishReduceTaskRequest, opts ...grpc.CallOption) (*FinishReduceTaskResponse, error) {
	out := new(FinishReduceTaskResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/FinishReduceTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MapReduceServiceServer is the coordinator side of the task API.
type MapReduceServiceServer interface {
	AskForMapTask(*AskForMapTaskRequest, MapReduceService_AskForMapTaskServer) error
	FinishMapTask(context.Context, *FinishMapTaskRequest) (*FinishMapTaskResponse, error)
	AskForReduceTask(*AskForReduceTaskRequest, MapReduceService_AskForReduceTaskServer) error
	FinishReduceTask(context.Context, *FinishReduceTaskRequest) (*FinishReduceTaskResponse, error)
}

func RegisterMapReduceServiceServer(s grpc.ServiceRegistrar, srv MapReduceServiceServer) {
	s.RegisterService(&MapReduceService_ServiceDesc, srv)
}

type MapReduceService_AskForMapTaskServer interface {
	Send(*AskForMapTaskResponse) error
	grpc.ServerStream
}

type mapReduceServiceAskForMapTaskServer struct {
	grpc.ServerStream
}

func (x *mapReduceServiceAskForMapTaskServer) Send(m *AskForMapTaskResponse) error {
	return x.ServerStream.SendMsg(m)
}

type MapReduceService_AskForReduceTaskServer interface {
	Send(*AskForReduceTaskResponse) error
	grpc.ServerStream
}

type mapReduceServiceAskForReduceTaskServer struct {
	grpc.ServerStream
}

func (x *mapReduceServiceAskForReduceTaskServer) Send(m *AskForReduceTaskResponse) error {
	return x.ServerStream.SendMsg(m)
}

func askForMapTaskHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(AskForMapTaskRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MapReduceServiceServer).AskForMapTask(m, &mapReduceServiceAskForMapTaskServer{stream})
}

func askForReduceTaskHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(AskForReduceTaskRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MapReduceServiceServer).AskForReduceTask(m, &mapReduceServiceAskForReduceTaskServer{stream})
}

func finishMapTaskHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(FinishMapTaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MapReduceServiceServer).FinishMapTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/FinishMapTask",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MapReduceServiceServer).FinishMapTask(ctx, req.(*FinishMapTaskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func finishReduceTaskHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(FinishReduceTaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MapReduceServiceServer).FinishReduceTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/FinishReduceTask",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MapReduceServiceServer).FinishReduceTask(ctx, req.(*FinishReduceTaskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// MapReduceService_ServiceDesc describes the task API for grpc.RegisterService.
var MapReduceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MapReduceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FinishMapTask",
			Handler:    finishMapTaskHandler,
		},
		{
			MethodName: "FinishReduceTask",
			Handler:    finishReduceTaskHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "AskForMapTask",
			Handler:       askForMapTaskHandler,
			ServerStreams: true,
		},
		{
			StreamName:    "AskForReduceTask",
			Handler:       askForReduceTaskHandler,
			ServerStreams: true,
		},
	},
	Metadata: "mapreduce/v1/mapreduce.proto",
}
