package chain

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

// Account is the runtime record of a single account.
type Account struct {
	// Balance is the native balance in yocto, storage stake included.
	Balance uint128.Uint128
	// CodeHash is the hash of deployed contract code, nil if there is none.
	CodeHash []byte
	// StorageUsage is the number of bytes the account is charged for.
	StorageUsage uint64
}

var _ io.Serializable = (*Account)(nil)

// EncodeBinary implements io.Serializable.
func (a *Account) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(a.Balance.Lo)
	w.WriteU64LE(a.Balance.Hi)
	w.WriteVarBytes(a.CodeHash)
	w.WriteU64LE(a.StorageUsage)
}

// DecodeBinary implements io.Serializable.
func (a *Account) DecodeBinary(r *io.BinReader) {
	a.Balance.Lo = r.ReadU64LE()
	a.Balance.Hi = r.ReadU64LE()
	a.CodeHash = r.ReadVarBytes()
	if len(a.CodeHash) == 0 {
		a.CodeHash = nil
	}
	a.StorageUsage = r.ReadU64LE()
}

// HasCode checks whether a contract is deployed to the account.
func (a *Account) HasCode() bool {
	return a.CodeHash != nil
}

// Locked returns the part of the balance staked for storage.
func (a *Account) Locked(cost uint128.Uint128) uint128.Uint128 {
	return cost.Mul64(a.StorageUsage)
}
