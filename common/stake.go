package common

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
)

var (
	// StorageRate is the stake per byte of storage, 10^19 yocto.
	StorageRate = uint128.From64(10_000_000_000_000_000_000)
	// VaultReserve is added to the code stake of a vault, it covers the vault
	// state and registration costs paid by the vault itself.
	VaultReserve = chain.MustParseU128("20000000000000000000000")
	// CollectionReserve is added to the code stake of a collection.
	CollectionReserve = chain.OneNEAR
	// StoragePerSale is the minimal collection storage deposit, 1000 bytes.
	StoragePerSale = StorageRate.Mul64(1000)
	// FTRegistrationDeposit is paid to a fungible token contract to register
	// an account.
	FTRegistrationDeposit = chain.MustParseU128("1250000000000000000000")
)

// StorageStake returns the native amount an account holding code of the
// given size must be funded with: size*StorageRate + overhead. The product
// can't overflow for any uint64 size, the sum panics for absurd overheads.
func StorageStake(size uint64, overhead uint128.Uint128) uint128.Uint128 {
	return StorageRate.Mul64(size).Add(overhead)
}
