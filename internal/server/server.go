package server

import (
	"fmt"
	"net"

	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/batch"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
	"github.com/tomknig/ethereum-batch-deposit/internal/sink"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
	"google.golang.org/grpc"
)

const (
	// names of the deployments on the ledger
	depositContractName = "deposit"
	batchDepositName    = "batch-deposit"
)

type Server struct {
	proto.UnimplementedBatchDepositServiceServer
	config *Config
	logger hclog.Logger

	store     *state.Store
	ledger    *ledger.Ledger
	sink      ethgo.Address
	forwarder *batch.Forwarder

	forkVersion [4]byte

	grpcServer *grpc.Server
	addr       net.Addr
}

func NewServer(logger hclog.Logger, config *Config) (*Server, error) {
	forkVersion, err := config.forkVersion()
	if err != nil {
		return nil, err
	}

	store, err := state.Open(config.DataDir, logger)
	if err != nil {
		return nil, err
	}

	ledgerConfig := ledger.DefaultConfig()
	if config.Gas != 0 {
		ledgerConfig.DefaultGas = config.Gas
	}
	config.Gas = ledgerConfig.DefaultGas
	l := ledger.New(logger, store, ledgerConfig)

	srv := &Server{
		config:      config,
		logger:      logger,
		store:       store,
		ledger:      l,
		forkVersion: forkVersion,
	}
	if err := srv.setup(); err != nil {
		store.Close()
		return nil, err
	}

	srv.grpcServer = grpc.NewServer()
	proto.RegisterBatchDepositServiceServer(srv.grpcServer, srv)

	lis, err := net.Listen("tcp", config.GRPCAddr)
	if err != nil {
		store.Close()
		return nil, err
	}
	srv.addr = lis.Addr()

	go func() {
		if err := srv.grpcServer.Serve(lis); err != nil {
			logger.Error("failed to serve grpc server", "err", err)
		}
	}()
	logger.Info("GRPC Server started", "addr", srv.addr.String())

	return srv, nil
}

func (s *Server) setup() error {
	sinkAddr, err := s.ledger.Deploy(depositContractName, sink.NewContract())
	if err != nil {
		return err
	}
	forwarder, err := batch.Deploy(s.ledger, batchDepositName, sinkAddr)
	if err != nil {
		return err
	}
	s.sink = sinkAddr
	s.forwarder = forwarder

	s.logger.Info("deposit contract deployed", "addr", sinkAddr.String())
	s.logger.Info("batch deposit contract deployed", "addr", forwarder.Address().String())

	alloc := map[ethgo.Address]*uint256.Int{}
	for addrStr, amount := range s.config.Premine {
		addr, err := deposit.ParseAddress(addrStr)
		if err != nil {
			return fmt.Errorf("invalid premine: %v", err)
		}
		alloc[addr] = uint256.MustFromBig(ethgo.Ether(amount))
	}
	applied, err := s.ledger.Genesis(alloc)
	if err != nil {
		return err
	}
	if applied {
		for addr, value := range alloc {
			s.logger.Info("premine", "addr", addr.String(), "wei", value.Dec())
		}
	} else if len(alloc) != 0 {
		s.logger.Warn("state already initialized, premine skipped")
	}
	return nil
}

// Addr returns the listen address of the grpc api
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Forwarder returns the batch deposit deployment
func (s *Server) Forwarder() *batch.Forwarder {
	return s.forwarder
}

func (s *Server) Stop() {
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("failed to close state", "err", err.Error())
	}
}
