package ledger

// Config are the execution costs and limits of the ledger.
type Config struct {
	// DefaultGas is used when a message does not set a budget
	DefaultGas uint64

	// MaxDepth is the maximum depth of nested calls
	MaxDepth int

	// MaxReceipts is the number of most recent receipts kept in memory
	MaxReceipts int

	TxCost    uint64
	CallCost  uint64
	ValueCost uint64
	ReadCost  uint64
	WriteCost uint64
	LogCost   uint64
}

func DefaultConfig() *Config {
	return &Config{
		DefaultGas:  5242880, // 0x500000
		MaxDepth:    1024,
		MaxReceipts: 1024,
		TxCost:      21000,
		CallCost:    2600,
		ValueCost:   9000,
		ReadCost:    800,
		WriteCost:   5000,
		LogCost:     1500,
	}
}
