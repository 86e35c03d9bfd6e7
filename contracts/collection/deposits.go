package collection

import (
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
)

const (
	storageDepositPrefix = 'd'
	ftDepositPrefix      = 'f'
)

// StorageDeposit credits attached deposit to the storage ledger of the
// account, the caller by default. The deposit must be at least
// common.StoragePerSale.
func StorageDeposit(ic *chain.Context, args common.StorageDepositArgs) {
	account := ic.Predecessor()
	if args.AccountID != nil {
		account = *args.AccountID
	}
	common.CheckAccountID(account)

	deposit := ic.AttachedDeposit()
	if deposit.Cmp(common.StoragePerSale) < 0 {
		panic(fmt.Errorf("%w: requires minimum deposit of %s", common.ErrInsufficientDeposit, common.StoragePerSale))
	}
	key := common.Key(storageDepositPrefix, account)
	common.PutU128(ic, key, common.AddU128(common.GetU128(ic, key), deposit))
}

// StorageBalanceOf returns storage deposit of the account.
func StorageBalanceOf(ic *chain.Context, args common.AccountArgs) chain.U128 {
	return chain.NewU128(common.GetU128(ic, common.Key(storageDepositPrefix, args.AccountID)))
}

// FTOnTransfer is the NEP-141 receiver hook crediting pre-deposits for
// future mints. Only the mint currency is accepted, the call must be relayed
// by the token contract on behalf of the transaction signer. The whole amount
// is accepted.
func FTOnTransfer(ic *chain.Context, args common.FTOnTransferArgs) chain.U128 {
	cfg := getConfig(ic)
	if cfg.MintCurrency == "" || ic.Predecessor() != cfg.MintCurrency {
		panic(fmt.Errorf("%w: %s", common.ErrWrongCurrency, ic.Predecessor()))
	}
	common.CheckRelayed(ic)
	signer := ic.Signer()
	if args.SenderID != signer {
		panic(fmt.Errorf("%w: sender %s is not the signer %s", common.ErrUnauthorized, args.SenderID, signer))
	}

	creditFTDeposit(ic, signer, args.Amount.Uint128())
	return chain.NewU128(uint128.Zero)
}

// FTDepositsOf returns token pre-deposit of the account.
func FTDepositsOf(ic *chain.Context, args common.AccountArgs) chain.U128 {
	return chain.NewU128(common.GetU128(ic, common.Key(ftDepositPrefix, args.AccountID)))
}

func creditFTDeposit(ic *chain.Context, account string, amount uint128.Uint128) {
	key := common.Key(ftDepositPrefix, account)
	common.PutU128(ic, key, common.AddU128(common.GetU128(ic, key), amount))
}

func spendFTDeposit(ic *chain.Context, account string, amount uint128.Uint128) {
	key := common.Key(ftDepositPrefix, account)
	balance := common.GetU128(ic, key)
	if balance.Cmp(amount) < 0 {
		panic(fmt.Errorf("%w: %s has %s deposited, price is %s", common.ErrInsufficientDeposit, account, balance, amount))
	}
	common.PutU128(ic, key, balance.Sub(amount))
}
