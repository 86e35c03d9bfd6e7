package collection

import (
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
)

// Deposit ledger method names.
const (
	MethodStorageBalanceOf = "storage_balance_of"
	MethodFTDepositsOf     = "ft_deposits_of"
)

var code = chain.NewCode(Name, []string{"NEP-171", "NEP-177", "NEP-178", "NEP-181", "NEP-141-receiver"},
	chain.Proc(MethodNew, New),
	chain.Func(MethodMint, Mint).Payable(),
	chain.Proc(MethodOnVaultDeployed, OnVaultDeployed).Private(),
	chain.Proc(MethodOnPaymentSettle, OnPaymentSettled).Private(),
	chain.Proc(MethodBurn, Burn).Payable(),
	chain.Proc(MethodRetry, RetryReconciliation),
	chain.Func(MethodReconciliations, Reconciliations).View(),

	chain.Proc(common.MethodStorageDeposit, StorageDeposit).Payable(),
	chain.Func(MethodStorageBalanceOf, StorageBalanceOf).View(),
	chain.Func(common.MethodFTOnTransfer, FTOnTransfer),
	chain.Func(MethodFTDepositsOf, FTDepositsOf).View(),

	chain.Getter(MethodIndex, Index),
	chain.Getter(MethodTotalSupply, TotalSupply),
	chain.Getter(MethodConfig, CollectionConfig),
	chain.Getter(MethodVaultStake, VaultStakeOf),
	chain.Func(MethodVaultOf, VaultOf).View(),
	chain.Getter("version", Version),

	chain.Proc(MethodNFTTransfer, NFTTransfer).Payable(),
	chain.Func(MethodNFTTransferCall, NFTTransferCall).Payable(),
	chain.Func(MethodNFTResolveTransfer, NFTResolveTransfer).Private(),
	chain.Func(MethodNFTToken, NFTToken).View(),
	chain.Func(MethodNFTApprove, NFTApprove).Payable(),
	chain.Proc(MethodNFTRevoke, NFTRevoke).Payable(),
	chain.Proc(MethodNFTRevokeAll, NFTRevokeAll).Payable(),
	chain.Func(MethodNFTIsApproved, NFTIsApproved).View(),
	chain.Getter(MethodNFTTotalSupply, NFTTotalSupply),
	chain.Func(MethodNFTTokens, NFTTokens).View(),
	chain.Func(MethodNFTSupplyForOwner, NFTSupplyForOwner).View(),
	chain.Func(MethodNFTTokensForOwner, NFTTokensForOwner).View(),
	chain.Getter(MethodNFTMetadata, NFTMetadata),
)

// Code returns collection contract code.
func Code() *chain.Code { return code }
