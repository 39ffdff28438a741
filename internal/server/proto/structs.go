package proto

// Receipt is the outcome of an invocation on the ledger.
type Receipt struct {
	Id      string `json:"id"`
	Success bool   `json:"success"`
	GasUsed uint64 `json:"gasUsed"`
	Logs    uint64 `json:"logs"`

	// Error is the failure of a reverted invocation and Kind its batch
	// deposit error kind, if any
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type BatchDepositRequest struct {
	From              string   `json:"from"`
	WithdrawalAddress string   `json:"withdrawalAddress"`
	Pubkeys           [][]byte `json:"pubkeys"`
	Signatures        [][]byte `json:"signatures"`
	DepositDataRoots  [][]byte `json:"depositDataRoots"`

	// Value in wei, as a decimal string
	Value string `json:"value"`
	Gas   uint64 `json:"gas"`
}

type BatchDepositResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type TransferRequest struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

type TransferResponse struct {
	Receipt *Receipt `json:"receipt"`
}

type DepositCountRequest struct {
}

type DepositCountResponse struct {
	// Count is the number of deposits forwarded by the batch contract
	Count uint64 `json:"count"`

	// Total is the number of deposits held by the deposit contract
	Total uint64 `json:"total"`
}

type DepositListRequest struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type Deposit struct {
	Index                 uint64 `json:"index"`
	Pubkey                []byte `json:"pubkey"`
	WithdrawalCredentials []byte `json:"withdrawalCredentials"`
	Amount                uint64 `json:"amount"`
	Signature             []byte `json:"signature"`
	Root                  []byte `json:"root"`
}

type DepositListResponse struct {
	Deposits []*Deposit `json:"deposits"`
}

type BalanceRequest struct {
	Address string `json:"address"`
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

type FundRequest struct {
	Address string `json:"address"`
	Value   string `json:"value"`
}

type FundResponse struct {
	Balance string `json:"balance"`
}

type InfoRequest struct {
}

type InfoResponse struct {
	BatchDeposit    string `json:"batchDeposit"`
	DepositContract string `json:"depositContract"`
	ForkVersion     string `json:"forkVersion"`
	Gas             uint64 `json:"gas"`
}

type ReceiptRequest struct {
	Id string `json:"id"`
}

type ReceiptResponse struct {
	Receipt *Receipt `json:"receipt"`
}
