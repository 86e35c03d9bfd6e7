package common

import "github.com/nspcc-dev/launchpad-contract/chain"

// Fungible token (NEP-141) and storage management (NEP-145) method names.
const (
	MethodFTTransfer        = "ft_transfer"
	MethodFTTransferCall    = "ft_transfer_call"
	MethodFTOnTransfer      = "ft_on_transfer"
	MethodFTResolveTransfer = "ft_resolve_transfer"
	MethodStorageDeposit    = "storage_deposit"
	MethodStorageWithdraw   = "storage_withdraw"
)

// FTTransferArgs are arguments of ft_transfer.
type FTTransferArgs struct {
	ReceiverID string     `json:"receiver_id"`
	Amount     chain.U128 `json:"amount"`
	Memo       *string    `json:"memo,omitempty"`
}

// FTTransferCallArgs are arguments of ft_transfer_call.
type FTTransferCallArgs struct {
	ReceiverID string     `json:"receiver_id"`
	Amount     chain.U128 `json:"amount"`
	Memo       *string    `json:"memo,omitempty"`
	Msg        string     `json:"msg"`
}

// FTOnTransferArgs are arguments of the ft_on_transfer receiver hook. The
// hook returns the unused amount the token contract refunds to the sender.
type FTOnTransferArgs struct {
	SenderID string     `json:"sender_id"`
	Amount   chain.U128 `json:"amount"`
	Msg      string     `json:"msg"`
}

// StorageDepositArgs are arguments of storage_deposit.
type StorageDepositArgs struct {
	AccountID        *string `json:"account_id,omitempty"`
	RegistrationOnly *bool   `json:"registration_only,omitempty"`
}

// StorageWithdrawArgs are arguments of storage_withdraw.
type StorageWithdrawArgs struct {
	Amount *chain.U128 `json:"amount,omitempty"`
}

// AccountArgs are arguments of per-account views.
type AccountArgs struct {
	AccountID string `json:"account_id"`
}

// StorageBalance is the NEP-145 storage balance of an account.
type StorageBalance struct {
	Total     chain.U128 `json:"total"`
	Available chain.U128 `json:"available"`
}
