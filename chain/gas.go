package chain

import "github.com/gaze-network/uint128"

// TGas is 10^12 gas units.
const TGas uint64 = 1_000_000_000_000

// Config contains runtime economics.
type Config struct {
	// StorageByteCost is the stake in yocto required per byte of storage.
	StorageByteCost uint128.Uint128
	// AccountOverhead is the storage every account is charged for.
	AccountOverhead uint64
	// RecordOverhead is added to the size of every stored record.
	RecordOverhead uint64
	// MaxTxGas is the gas a single transaction may attach.
	MaxTxGas uint64
	// CallBaseGas is charged for every function call.
	CallBaseGas uint64
	// StorageReadGas and StorageWriteGas are charged per storage operation.
	StorageReadGas  uint64
	StorageWriteGas uint64
	// MaxSettleSteps bounds the number of receipts Settle executes.
	MaxSettleSteps int
}

// DefaultConfig returns mainnet-like parameters.
func DefaultConfig() Config {
	return Config{
		StorageByteCost: uint128.From64(10_000_000_000_000_000_000),
		AccountOverhead: 100,
		RecordOverhead:  40,
		MaxTxGas:        300 * TGas,
		CallBaseGas:     TGas,
		StorageReadGas:  TGas / 100,
		StorageWriteGas: TGas / 20,
		MaxSettleSteps:  100_000,
	}
}
