package server

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
	"github.com/tomknig/ethereum-batch-deposit/internal/sink"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultListLimit = 100

func parseWei(str string) (*uint256.Int, error) {
	if str == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(str)
	if err != nil {
		return nil, fmt.Errorf("invalid value '%s': %v", str, err)
	}
	return v, nil
}

func toReceipt(r *ledger.Receipt) *proto.Receipt {
	res := &proto.Receipt{
		Id:      r.ID,
		Success: r.Success(),
		GasUsed: r.GasUsed,
		Logs:    uint64(len(r.Logs)),
		Error:   r.Err,
	}
	if kind, ok := deposit.KindFromRevert(r.Revert); ok {
		res.Kind = kind.String()
	}
	return res
}

// BatchDeposit implements the proto.BatchDepositServiceServer interface
func (s *Server) BatchDeposit(ctx context.Context, req *proto.BatchDepositRequest) (*proto.BatchDepositResponse, error) {
	from, err := deposit.ParseAddress(req.From)
	if err != nil {
		return nil, err
	}
	withdrawal, err := deposit.ParseAddress(req.WithdrawalAddress)
	if err != nil {
		return nil, err
	}
	value, err := parseWei(req.Value)
	if err != nil {
		return nil, err
	}

	depositReq := &deposit.Request{
		WithdrawalAddress: withdrawal,
		Pubkeys:           req.Pubkeys,
		Signatures:        req.Signatures,
		Value:             value,
	}
	for _, root := range req.DepositDataRoots {
		if len(root) != deposit.RootLength {
			return nil, fmt.Errorf("invalid deposit data root length %d", len(root))
		}
		var r [32]byte
		copy(r[:], root)
		depositReq.DepositDataRoots = append(depositReq.DepositDataRoots, r)
	}

	receipt, err := s.forwarder.BatchDeposit(ctx, from, depositReq, req.Gas)
	if receipt == nil {
		return nil, err
	}
	if err != nil {
		s.logger.Debug("batch deposit reverted", "from", from.String(), "err", err)
	}
	return &proto.BatchDepositResponse{Receipt: toReceipt(receipt)}, nil
}

// Transfer implements the proto.BatchDepositServiceServer interface
func (s *Server) Transfer(ctx context.Context, req *proto.TransferRequest) (*proto.TransferResponse, error) {
	from, err := deposit.ParseAddress(req.From)
	if err != nil {
		return nil, err
	}
	value, err := parseWei(req.Value)
	if err != nil {
		return nil, err
	}
	receipt, err := s.forwarder.Transfer(ctx, from, value)
	if receipt == nil {
		return nil, err
	}
	return &proto.TransferResponse{Receipt: toReceipt(receipt)}, nil
}

// DepositCount implements the proto.BatchDepositServiceServer interface
func (s *Server) DepositCount(ctx context.Context, req *proto.DepositCountRequest) (*proto.DepositCountResponse, error) {
	count, err := s.forwarder.DepositCount()
	if err != nil {
		return nil, err
	}
	total, err := sink.DepositCount(s.ledger.Storage(s.sink))
	if err != nil {
		return nil, err
	}
	return &proto.DepositCountResponse{Count: count, Total: total}, nil
}

// DepositList implements the proto.BatchDepositServiceServer interface
func (s *Server) DepositList(ctx context.Context, req *proto.DepositListRequest) (*proto.DepositListResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	records, err := sink.Deposits(s.ledger.Storage(s.sink), req.Offset, limit)
	if err != nil {
		return nil, err
	}
	resp := &proto.DepositListResponse{
		Deposits: []*proto.Deposit{},
	}
	for _, r := range records {
		resp.Deposits = append(resp.Deposits, &proto.Deposit{
			Index:                 r.Index,
			Pubkey:                r.Pubkey,
			WithdrawalCredentials: r.WithdrawalCredentials[:],
			Amount:                r.Amount,
			Signature:             r.Signature,
			Root:                  r.Root[:],
		})
	}
	return resp, nil
}

// Balance implements the proto.BatchDepositServiceServer interface
func (s *Server) Balance(ctx context.Context, req *proto.BalanceRequest) (*proto.BalanceResponse, error) {
	addr, err := deposit.ParseAddress(req.Address)
	if err != nil {
		return nil, err
	}
	balance, err := s.ledger.Balance(addr)
	if err != nil {
		return nil, err
	}
	return &proto.BalanceResponse{Balance: balance.Dec()}, nil
}

// Fund implements the proto.BatchDepositServiceServer interface
func (s *Server) Fund(ctx context.Context, req *proto.FundRequest) (*proto.FundResponse, error) {
	addr, err := deposit.ParseAddress(req.Address)
	if err != nil {
		return nil, err
	}
	value, err := parseWei(req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Mint(addr, value); err != nil {
		return nil, err
	}
	balance, err := s.ledger.Balance(addr)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account funded", "addr", addr.String(), "value", value.Dec())
	return &proto.FundResponse{Balance: balance.Dec()}, nil
}

// Info implements the proto.BatchDepositServiceServer interface
func (s *Server) Info(ctx context.Context, req *proto.InfoRequest) (*proto.InfoResponse, error) {
	resp := &proto.InfoResponse{
		BatchDeposit:    s.forwarder.Address().String(),
		DepositContract: s.forwarder.DepositContract().String(),
		ForkVersion:     fmt.Sprintf("0x%x", s.forkVersion[:]),
		Gas:             s.config.Gas,
	}
	return resp, nil
}

// Receipt implements the proto.BatchDepositServiceServer interface
func (s *Server) Receipt(ctx context.Context, req *proto.ReceiptRequest) (*proto.ReceiptResponse, error) {
	receipt, ok := s.ledger.Receipt(req.Id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "receipt '%s' not found", req.Id)
	}
	return &proto.ReceiptResponse{Receipt: toReceipt(receipt)}, nil
}
