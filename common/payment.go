package common

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/samber/lo"
)

// MethodDepositNative is the escrow entry point for native deposits.
const MethodDepositNative = "deposit_native"

// PaymentChannel moves value of a single currency out of the executing
// contract. Both variants are promise-based: the returned promise is the
// payment, callers may chain a continuation to observe its result.
type PaymentChannel interface {
	// Currency returns the fungible token contract or "" for native
	// currency.
	Currency() string
	// Pay sends amount to receiver.
	Pay(ic *chain.Context, receiver string, amount uint128.Uint128) *chain.Promise
	// Fund deposits amount into an escrow contract through its deposit
	// entry point. Its result is the amount the escrow accepted for fungible
	// tokens and nothing for native currency.
	Fund(ic *chain.Context, escrow string, amount uint128.Uint128) *chain.Promise
	// Release sends escrowed amount to the claimant.
	Release(ic *chain.Context, claimant string, amount uint128.Uint128) *chain.Promise
	// RegistrationCost returns native deposit the channel attaches per
	// receiver of a Pay or Fund.
	RegistrationCost() uint128.Uint128
}

// NewPaymentChannel returns a channel for the fungible token contract or a
// native one for empty currency.
func NewPaymentChannel(currency string) PaymentChannel {
	if currency == "" {
		return nativeChannel{}
	}
	return fungibleChannel{token: currency}
}

// CurrencyPtr converts stored currency into an optional argument.
func CurrencyPtr(currency string) *string {
	if currency == "" {
		return nil
	}
	return lo.ToPtr(currency)
}

type nativeChannel struct{}

func (nativeChannel) Currency() string { return "" }

func (nativeChannel) Pay(ic *chain.Context, receiver string, amount uint128.Uint128) *chain.Promise {
	return ic.Promise(receiver).Transfer(amount)
}

func (nativeChannel) Fund(ic *chain.Context, escrow string, amount uint128.Uint128) *chain.Promise {
	return ic.Promise(escrow).FunctionCall(MethodDepositNative, nil, amount, GasForVaultDeposit)
}

func (c nativeChannel) Release(ic *chain.Context, claimant string, amount uint128.Uint128) *chain.Promise {
	return c.Pay(ic, claimant, amount)
}

func (nativeChannel) RegistrationCost() uint128.Uint128 { return uint128.Zero }

type fungibleChannel struct {
	token string
}

func (c fungibleChannel) Currency() string { return c.token }

func (c fungibleChannel) register(ic *chain.Context, account string) *chain.Promise {
	return ic.Promise(c.token).FunctionCall(MethodStorageDeposit, StorageDepositArgs{
		AccountID:        lo.ToPtr(account),
		RegistrationOnly: lo.ToPtr(true),
	}, FTRegistrationDeposit, GasForStorageDeposit)
}

func (c fungibleChannel) Pay(ic *chain.Context, receiver string, amount uint128.Uint128) *chain.Promise {
	return c.register(ic, receiver).FunctionCall(MethodFTTransfer, FTTransferArgs{
		ReceiverID: receiver,
		Amount:     chain.U128(amount),
	}, chain.OneYocto, GasForFTTransfer)
}

func (c fungibleChannel) Fund(ic *chain.Context, escrow string, amount uint128.Uint128) *chain.Promise {
	return c.register(ic, escrow).FunctionCall(MethodFTTransferCall, FTTransferCallArgs{
		ReceiverID: escrow,
		Amount:     chain.U128(amount),
	}, chain.OneYocto, GasForFTTransferCall)
}

func (c fungibleChannel) Release(ic *chain.Context, claimant string, amount uint128.Uint128) *chain.Promise {
	return ic.Promise(c.token).
		FunctionCall(MethodFTTransfer, FTTransferArgs{
			ReceiverID: claimant,
			Amount:     chain.U128(amount),
		}, chain.OneYocto, GasForFTTransfer).
		FunctionCall(MethodStorageWithdraw, StorageWithdrawArgs{}, chain.OneYocto, GasForStorageWithdraw)
}

func (fungibleChannel) RegistrationCost() uint128.Uint128 { return FTRegistrationDeposit }
