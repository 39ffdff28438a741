package single

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomknig/ethereum-batch-deposit/e2e/framework"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/depositdata"
	"github.com/tomknig/ethereum-batch-deposit/internal/freeport"
	"github.com/tomknig/ethereum-batch-deposit/internal/server"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
	"github.com/umbracle/ethgo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func init() {
	framework.AddSuites(&framework.TestSuite{
		Cases: []framework.TestCase{new(SingleDeployment)},
	})
}

var (
	payer      = ethgo.HexToAddress("0x9f2b3a1c4d5e6f708192a3b4c5d6e7f809a1b2c3")
	withdrawal = ethgo.HexToAddress("0x1a2b3c4d5e6f708192a3b4c5d6e7f809a1b2c3d4")
)

// SingleDeployment runs batches of increasing size against one server.
type SingleDeployment struct {
}

func (s *SingleDeployment) Run(f *framework.F) {
	config := server.DefaultConfig()
	config.GRPCAddr = freeport.Addr()
	config.Premine = map[string]uint64{
		payer.String(): 1000,
	}

	srv, err := server.NewServer(hclog.NewNullLogger(), config)
	require.NoError(f, err)
	defer srv.Stop()

	conn, err := grpc.Dial(srv.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(f, err)
	defer conn.Close()

	clt := proto.NewBatchDepositServiceClient(conn)
	ctx := context.Background()

	var total uint64
	for _, n := range []int{1, 2, 5} {
		req := newBatch(f, n)

		resp, err := clt.BatchDeposit(ctx, req)
		require.NoError(f, err)
		require.True(f, resp.Receipt.Success, resp.Receipt.Error)

		total += uint64(n)
		count, err := clt.DepositCount(ctx, &proto.DepositCountRequest{})
		require.NoError(f, err)
		assert.Equal(f, total, count.Count)

		f.Logger().Info("batch deposited", "validators", n, "total", total)
	}

	// a batch with the value of a single validator is rejected as a whole
	req := newBatch(f, 3)
	req.Value = deposit.ExpectedValue(1).Dec()

	resp, err := clt.BatchDeposit(ctx, req)
	require.NoError(f, err)
	assert.False(f, resp.Receipt.Success)
	assert.Equal(f, deposit.KindInvalidTransactionAmount.String(), resp.Receipt.Kind)

	count, err := clt.DepositCount(ctx, &proto.DepositCountRequest{})
	require.NoError(f, err)
	assert.Equal(f, total, count.Count)

	// the batch contract never keeps a balance
	balance, err := clt.Balance(ctx, &proto.BalanceRequest{Address: srv.Forwarder().Address().String()})
	require.NoError(f, err)
	assert.Equal(f, "0", balance.Balance)
}

func newBatch(f *framework.F, n int) *proto.BatchDepositRequest {
	datas, err := depositdata.Generate(withdrawal, n, depositdata.MainnetForkVersion)
	require.NoError(f, err)

	req := &proto.BatchDepositRequest{
		From:              payer.String(),
		WithdrawalAddress: withdrawal.String(),
		Value:             deposit.ExpectedValue(n).Dec(),
	}
	for _, d := range datas {
		if err := depositdata.Verify(d, depositdata.MainnetForkVersion); err != nil {
			f.Errorf("invalid deposit data: %v", err)
		}
		req.Pubkeys = append(req.Pubkeys, d.Pubkey)
		req.Signatures = append(req.Signatures, d.Signature)
		req.DepositDataRoots = append(req.DepositDataRoots, d.DepositDataRoot)
	}
	return req
}
