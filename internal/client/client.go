package client

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tomknig/ethereum-batch-deposit/internal/abi"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/umbracle/ethgo"
	"github.com/umbracle/ethgo/jsonrpc"
)

const (
	defaultGasPrice = 1879048192 // 0x70000000
	defaultGasLimit = 5242880    // 0x500000
)

// Client submits batch deposits to a batch deposit contract deployed on
// a remote execution node.
type Client struct {
	client  *jsonrpc.Client
	address ethgo.Address

	// number of receipt polls before giving up
	retries uint64
}

func New(endpoint string, address ethgo.Address) (*Client, error) {
	provider, err := jsonrpc.NewClient(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		client:  provider,
		address: address,
		retries: 120,
	}
	return c, nil
}

// Address returns the address of the batch deposit contract
func (c *Client) Address() ethgo.Address {
	return c.address
}

func (c *Client) transaction(from ethgo.Address, req *deposit.Request) (*ethgo.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	input, err := abi.EncodeBatchDeposit(req)
	if err != nil {
		return nil, err
	}
	txn := &ethgo.Transaction{
		From:     from,
		To:       &c.address,
		Input:    input,
		GasPrice: defaultGasPrice,
		Gas:      defaultGasLimit,
		Value:    abi.Value(req.Value),
	}
	return txn, nil
}

// BatchDeposit sends a batch deposit transaction from an account unlocked
// on the node and waits for it to be included.
func (c *Client) BatchDeposit(from ethgo.Address, req *deposit.Request) (*ethgo.Receipt, error) {
	txn, err := c.transaction(from, req)
	if err != nil {
		return nil, err
	}
	nonce, err := c.client.Eth().GetNonce(from, ethgo.Latest)
	if err != nil {
		return nil, err
	}
	txn.Nonce = nonce

	hash, err := c.client.Eth().SendTransaction(txn)
	if err != nil {
		return nil, err
	}
	receipt, err := c.waitForReceipt(hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != 1 {
		return receipt, fmt.Errorf("batch deposit %s reverted", hash.String())
	}
	return receipt, nil
}

// DepositCount returns the number of deposits forwarded by the contract.
func (c *Client) DepositCount() (uint64, error) {
	msg := &ethgo.CallMsg{
		To:   &c.address,
		Data: abi.EncodeDepositCountCall(),
	}
	res, err := c.client.Eth().Call(msg, ethgo.Latest)
	if err != nil {
		return 0, err
	}
	output, err := hexutil.Decode(res)
	if err != nil {
		return 0, err
	}
	return abi.DecodeDepositCount(output)
}

func (c *Client) waitForReceipt(hash ethgo.Hash) (*ethgo.Receipt, error) {
	var count uint64
	for {
		receipt, err := c.client.Eth().GetTransactionReceipt(hash)
		if err != nil {
			if err.Error() != "not found" {
				return nil, err
			}
		}
		if receipt != nil {
			return receipt, nil
		}
		if count > c.retries {
			break
		}
		time.Sleep(1 * time.Second)
		count++
	}
	return nil, fmt.Errorf("timeout")
}
