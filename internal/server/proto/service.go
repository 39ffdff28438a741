package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BatchDepositServiceClient is the client API for BatchDepositService.
type BatchDepositServiceClient interface {
	BatchDeposit(ctx context.Context, in *BatchDepositRequest, opts ...grpc.CallOption) (*BatchDepositResponse, error)
	Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error)
	DepositCount(ctx context.Context, in *DepositCountRequest, opts ...grpc.CallOption) (*DepositCountResponse, error)
	DepositList(ctx context.Context, in *DepositListRequest, opts ...grpc.CallOption) (*DepositListResponse, error)
	Balance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error)
	Fund(ctx context.Context, in *FundRequest, opts ...grpc.CallOption) (*FundResponse, error)
	Info(ctx context.Context, in *InfoRequest, opts ...grpc.CallOption) (*InfoResponse, error)
	Receipt(ctx context.Context, in *ReceiptRequest, opts ...grpc.CallOption) (*ReceiptResponse, error)
}

type batchDepositServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBatchDepositServiceClient(cc grpc.ClientConnInterface) BatchDepositServiceClient {
	return &batchDepositServiceClient{cc}
}

func (c *batchDepositServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	req, err := Encode(in)
	if err != nil {
		return err
	}
	resp, err := newMessage(out)
	if err != nil {
		return err
	}
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/"+method, req, resp, opts...); err != nil {
		return err
	}
	return Decode(resp, out)
}

func (c *batchDepositServiceClient) BatchDeposit(ctx context.Context, in *BatchDepositRequest, opts ...grpc.CallOption) (*BatchDepositResponse, error) {
	out := new(BatchDepositResponse)
	if err := c.invoke(ctx, "BatchDeposit", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	out := new(TransferResponse)
	if err := c.invoke(ctx, "Transfer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) DepositCount(ctx context.Context, in *DepositCountRequest, opts ...grpc.CallOption) (*DepositCountResponse, error) {
	out := new(DepositCountResponse)
	if err := c.invoke(ctx, "DepositCount", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) DepositList(ctx context.Context, in *DepositListRequest, opts ...grpc.CallOption) (*DepositListResponse, error) {
	out := new(DepositListResponse)
	if err := c.invoke(ctx, "DepositList", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) Balance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	out := new(BalanceResponse)
	if err := c.invoke(ctx, "Balance", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) Fund(ctx context.Context, in *FundRequest, opts ...grpc.CallOption) (*FundResponse, error) {
	out := new(FundResponse)
	if err := c.invoke(ctx, "Fund", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) Info(ctx context.Context, in *InfoRequest, opts ...grpc.CallOption) (*InfoResponse, error) {
	out := new(InfoResponse)
	if err := c.invoke(ctx, "Info", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *batchDepositServiceClient) Receipt(ctx context.Context, in *ReceiptRequest, opts ...grpc.CallOption) (*ReceiptResponse, error) {
	out := new(ReceiptResponse)
	if err := c.invoke(ctx, "Receipt", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// BatchDepositServiceServer is the server API for BatchDepositService.
type BatchDepositServiceServer interface {
	BatchDeposit(context.Context, *BatchDepositRequest) (*BatchDepositResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	DepositCount(context.Context, *DepositCountRequest) (*DepositCountResponse, error)
	DepositList(context.Context, *DepositListRequest) (*DepositListResponse, error)
	Balance(context.Context, *BalanceRequest) (*BalanceResponse, error)
	Fund(context.Context, *FundRequest) (*FundResponse, error)
	Info(context.Context, *InfoRequest) (*InfoResponse, error)
	Receipt(context.Context, *ReceiptRequest) (*ReceiptResponse, error)
}

// UnimplementedBatchDepositServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedBatchDepositServiceServer struct {
}

func (UnimplementedBatchDepositServiceServer) BatchDeposit(context.Context, *BatchDepositRequest) (*BatchDepositResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BatchDeposit not implemented")
}

func (UnimplementedBatchDepositServiceServer) Transfer(context.Context, *TransferRequest) (*TransferResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Transfer not implemented")
}

func (UnimplementedBatchDepositServiceServer) DepositCount(context.Context, *DepositCountRequest) (*DepositCountResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DepositCount not implemented")
}

func (UnimplementedBatchDepositServiceServer) DepositList(context.Context, *DepositListRequest) (*DepositListResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DepositList not implemented")
}

func (UnimplementedBatchDepositServiceServer) Balance(context.Context, *BalanceRequest) (*BalanceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Balance not implemented")
}

func (UnimplementedBatchDepositServiceServer) Fund(context.Context, *FundRequest) (*FundResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Fund not implemented")
}

func (UnimplementedBatchDepositServiceServer) Info(context.Context, *InfoRequest) (*InfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Info not implemented")
}

func (UnimplementedBatchDepositServiceServer) Receipt(context.Context, *ReceiptRequest) (*ReceiptResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Receipt not implemented")
}

func RegisterBatchDepositServiceServer(s grpc.ServiceRegistrar, srv BatchDepositServiceServer) {
	s.RegisterService(&BatchDepositService_ServiceDesc, srv)
}

// unaryHandler decodes the protobuf request into its message struct and
// encodes the struct returned by the server back into a protobuf message.
func unaryHandler[Req, Resp any](method string, call func(srv BatchDepositServiceServer, ctx context.Context, req *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			raw, err := newMessage(in)
			if err != nil {
				return nil, err
			}
			if err := dec(raw); err != nil {
				return nil, err
			}
			if err := Decode(raw, in); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "%v", err)
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				resp, err := call(srv.(BatchDepositServiceServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				return Encode(resp)
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + method,
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// BatchDepositService_ServiceDesc is the grpc.ServiceDesc for BatchDepositService.
var BatchDepositService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*BatchDepositServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("BatchDeposit", BatchDepositServiceServer.BatchDeposit),
		unaryHandler("Transfer", BatchDepositServiceServer.Transfer),
		unaryHandler("DepositCount", BatchDepositServiceServer.DepositCount),
		unaryHandler("DepositList", BatchDepositServiceServer.DepositList),
		unaryHandler("Balance", BatchDepositServiceServer.Balance),
		unaryHandler("Fund", BatchDepositServiceServer.Fund),
		unaryHandler("Info", BatchDepositServiceServer.Info),
		unaryHandler("Receipt", BatchDepositServiceServer.Receipt),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: fileName,
}
