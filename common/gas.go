package common

import "github.com/nspcc-dev/launchpad-contract/chain"

// Gas attached to cross-contract calls.
const (
	GasForInit            = 20 * chain.TGas
	GasForLaunchCallback  = 10 * chain.TGas
	GasForVaultCallback   = 100 * chain.TGas
	GasForSettleCallback  = 10 * chain.TGas
	GasForVaultDeposit    = 10 * chain.TGas
	GasForWithdraw        = 40 * chain.TGas
	GasForStorageDeposit  = 5 * chain.TGas
	GasForStorageWithdraw = 5 * chain.TGas
	GasForFTTransfer      = 10 * chain.TGas
	GasForFTTransferCall  = 35 * chain.TGas
	GasForFTOnTransfer    = 10 * chain.TGas
	GasForResolveTransfer = 10 * chain.TGas
	GasForNFTOnTransfer   = 15 * chain.TGas
	GasForNFTResolve      = 10 * chain.TGas
	GasForNFTOnApprove    = 10 * chain.TGas
)
