package fungible

import (
	"encoding/json"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

type (
	// Token holds contract-wide token info.
	Token struct {
		// Storage key for total supply value
		SupplyKey []byte
		// Storage key for metadata
		MetadataKey []byte
	}

	// Account is a registered token holder.
	Account struct {
		// Active balance
		Balance uint128.Uint128
	}

	// Metadata is NEP-148 token metadata.
	Metadata struct {
		Spec     string  `json:"spec"`
		Name     string  `json:"name"`
		Symbol   string  `json:"symbol"`
		Icon     *string `json:"icon,omitempty"`
		Decimals uint8   `json:"decimals"`
	}

	// NewArgs are arguments of new.
	NewArgs struct {
		OwnerID     string     `json:"owner_id"`
		TotalSupply chain.U128 `json:"total_supply"`
		Metadata    Metadata   `json:"metadata"`
	}

	// ResolveTransferArgs are arguments of ft_resolve_transfer.
	ResolveTransferArgs struct {
		SenderID   string     `json:"sender_id"`
		ReceiverID string     `json:"receiver_id"`
		Amount     chain.U128 `json:"amount"`
	}

	// StorageBalanceBounds is the NEP-145 registration cost range.
	StorageBalanceBounds struct {
		Min chain.U128  `json:"min"`
		Max *chain.U128 `json:"max,omitempty"`
	}
)

const (
	// Name is the contract name in the manifest.
	Name = "fungible"
	// MetadataSpec is the supported metadata version.
	MetadataSpec = "ft-1.0.0"

	accountPrefix = 'a'
	ownerKey      = 'O'
)

// Method names besides the ones shared through common.
const (
	MethodNew                  = "new"
	MethodBalanceOf            = "ft_balance_of"
	MethodTotalSupply          = "ft_total_supply"
	MethodMetadata             = "ft_metadata"
	MethodStorageBalanceOf     = "storage_balance_of"
	MethodStorageBalanceBounds = "storage_balance_bounds"
)

var token = Token{
	SupplyKey:   []byte{'T'},
	MetadataKey: []byte{'M'},
}

var code = chain.NewCode(Name, []string{"NEP-141", "NEP-145", "NEP-148"},
	chain.Proc(MethodNew, New),
	chain.Proc(common.MethodFTTransfer, Transfer).Payable(),
	chain.Func(common.MethodFTTransferCall, TransferCall).Payable(),
	chain.Func(common.MethodFTResolveTransfer, ResolveTransfer).Private(),
	chain.Func(MethodBalanceOf, BalanceOf).View(),
	chain.Getter(MethodTotalSupply, TotalSupply),
	chain.Getter(MethodMetadata, TokenMetadata),
	chain.Func(common.MethodStorageDeposit, StorageDeposit).Payable(),
	chain.Func(common.MethodStorageWithdraw, StorageWithdraw).Payable(),
	chain.Func(MethodStorageBalanceOf, StorageBalanceOf).View(),
	chain.Getter(MethodStorageBalanceBounds, StorageBounds),
	chain.Getter("version", Version),
)

// Code returns fungible token contract code.
func Code() *chain.Code { return code }

// EncodeBinary implements io.Serializable.
func (a *Account) EncodeBinary(w *io.BinWriter) {
	common.WriteU128(w, a.Balance)
}

// DecodeBinary implements io.Serializable.
func (a *Account) DecodeBinary(r *io.BinReader) {
	a.Balance = common.ReadU128(r)
}

// New initializes the token: registers the owner and mints the whole supply
// to it.
//
// Produces ft_mint event.
func New(ic *chain.Context, args NewArgs) {
	if ic.Has([]byte{ownerKey}) {
		panic(common.ErrAlreadyInitialized)
	}
	common.CheckAccountID(args.OwnerID)
	if args.Metadata.Spec != MetadataSpec || args.Metadata.Symbol == "" {
		panic(fmt.Errorf("%w: bad token metadata", common.ErrInvalidMetadata))
	}
	meta, err := json.Marshal(args.Metadata)
	if err != nil {
		panic(err)
	}
	ic.Put(token.MetadataKey, meta)
	ic.Put([]byte{ownerKey}, []byte(args.OwnerID))

	supply := args.TotalSupply.Uint128()
	putAccount(ic, args.OwnerID, &Account{Balance: supply})
	common.PutU128(ic, token.SupplyKey, supply)

	emit(ic, EventMint, []MintLog{{OwnerID: args.OwnerID, Amount: args.TotalSupply}})
	ic.Log("fungible token initialized")
}

// Transfer is a NEP-141 standard method that transfers tokens from the
// caller to a registered receiver. Requires exactly one yocto attached.
//
// Produces ft_transfer event.
func Transfer(ic *chain.Context, args common.FTTransferArgs) {
	common.CheckOneYocto(ic)
	token.transfer(ic, ic.Predecessor(), args.ReceiverID, args.Amount.Uint128(), args.Memo)
}

// TransferCall is a NEP-141 standard method that transfers tokens and calls
// ft_on_transfer of the receiver. The unused amount the receiver reports is
// returned to the sender by ft_resolve_transfer, whose result (used amount)
// becomes the result of the call.
func TransferCall(ic *chain.Context, args common.FTTransferCallArgs) *chain.Promise {
	common.CheckOneYocto(ic)
	sender := ic.Predecessor()
	token.transfer(ic, sender, args.ReceiverID, args.Amount.Uint128(), args.Memo)

	return ic.Promise(args.ReceiverID).
		FunctionCall(common.MethodFTOnTransfer, common.FTOnTransferArgs{
			SenderID: sender,
			Amount:   args.Amount,
			Msg:      args.Msg,
		}, uint128.Zero, common.GasForFTOnTransfer).
		Then(ic.Promise(ic.CurrentAccount()).FunctionCall(common.MethodFTResolveTransfer, ResolveTransferArgs{
			SenderID:   sender,
			ReceiverID: args.ReceiverID,
			Amount:     args.Amount,
		}, uint128.Zero, common.GasForResolveTransfer))
}

// ResolveTransfer refunds the amount the receiver didn't use, all of it if
// the receiver hook failed. It returns the used amount.
func ResolveTransfer(ic *chain.Context, args ResolveTransferArgs) chain.U128 {
	amount := args.Amount.Uint128()
	unused := amount

	res := ic.PromiseResult(0)
	if !res.Failed() {
		var v chain.U128
		if err := json.Unmarshal(res.Value, &v); err == nil {
			unused = common.MinU128(v.Uint128(), amount)
		}
	}
	if unused.IsZero() {
		return args.Amount
	}

	receiver, ok := getAccount(ic, args.ReceiverID)
	if !ok {
		return args.Amount
	}
	refund := common.MinU128(unused, receiver.Balance)
	if refund.IsZero() {
		return args.Amount
	}

	if _, ok := getAccount(ic, args.SenderID); ok {
		token.transfer(ic, args.ReceiverID, args.SenderID, refund, nil)
	} else {
		// Sender has unregistered, refund is burnt.
		receiver.Balance = receiver.Balance.Sub(refund)
		putAccount(ic, args.ReceiverID, receiver)
		token.putSupply(ic, common.SubU128(token.getSupply(ic), refund))
		emit(ic, EventBurn, []BurnLog{{OwnerID: args.ReceiverID, Amount: chain.NewU128(refund)}})
	}
	return chain.NewU128(amount.Sub(refund))
}

// BalanceOf is a NEP-141 standard method that returns the balance of the
// account, zero for unregistered ones.
func BalanceOf(ic *chain.Context, args common.AccountArgs) chain.U128 {
	acc, _ := getAccount(ic, args.AccountID)
	return chain.NewU128(acc.Balance)
}

// TotalSupply is a NEP-141 standard method that returns the total supply.
func TotalSupply(ic *chain.Context) chain.U128 {
	return chain.NewU128(token.getSupply(ic))
}

// TokenMetadata is a NEP-148 standard method that returns token metadata.
func TokenMetadata(ic *chain.Context) Metadata {
	var m Metadata
	data := ic.Get(token.MetadataKey)
	if data == nil {
		panic(common.ErrNotInitialized)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Errorf("decode metadata: %w", err))
	}
	return m
}

// StorageDeposit is a NEP-145 standard method that registers the account
// (the caller by default). Registration costs exactly
// common.FTRegistrationDeposit, the excess and deposits for already
// registered accounts are refunded to the caller.
func StorageDeposit(ic *chain.Context, args common.StorageDepositArgs) common.StorageBalance {
	account := ic.Predecessor()
	if args.AccountID != nil {
		account = *args.AccountID
	}
	common.CheckAccountID(account)
	deposit := ic.AttachedDeposit()

	if _, ok := getAccount(ic, account); ok {
		if !deposit.IsZero() {
			ic.Promise(ic.Predecessor()).Transfer(deposit)
		}
		ic.Logf("%s is already registered", account)
		return registered()
	}

	if deposit.Cmp(common.FTRegistrationDeposit) < 0 {
		panic(fmt.Errorf("%w: registration requires %s, got %s",
			common.ErrInsufficientDeposit, common.FTRegistrationDeposit, deposit))
	}
	putAccount(ic, account, &Account{Balance: uint128.Zero})
	if excess := deposit.Sub(common.FTRegistrationDeposit); !excess.IsZero() {
		ic.Promise(ic.Predecessor()).Transfer(excess)
	}
	return registered()
}

// StorageWithdraw is a NEP-145 standard method. Registration is the whole
// storage balance here, so nothing is ever available for withdrawal and any
// non-zero amount is rejected. Requires exactly one yocto attached.
func StorageWithdraw(ic *chain.Context, args common.StorageWithdrawArgs) common.StorageBalance {
	common.CheckOneYocto(ic)
	if _, ok := getAccount(ic, ic.Predecessor()); !ok {
		panic(fmt.Errorf("%w: %s", common.ErrNotRegistered, ic.Predecessor()))
	}
	if args.Amount != nil && !args.Amount.Uint128().IsZero() {
		panic(fmt.Errorf("%w: nothing available to withdraw", common.ErrInvalidAmount))
	}
	return registered()
}

// StorageBalanceOf is a NEP-145 standard method that returns storage balance
// of a registered account or null.
func StorageBalanceOf(ic *chain.Context, args common.AccountArgs) *common.StorageBalance {
	if _, ok := getAccount(ic, args.AccountID); !ok {
		return nil
	}
	b := registered()
	return &b
}

// StorageBounds is a NEP-145 standard method returning registration cost.
func StorageBounds(*chain.Context) StorageBalanceBounds {
	v := chain.NewU128(common.FTRegistrationDeposit)
	return StorageBalanceBounds{Min: v, Max: &v}
}

// Version returns version of the contract.
func Version(*chain.Context) int {
	return common.Version
}

func (t Token) getSupply(ic *chain.Context) uint128.Uint128 {
	return common.GetU128(ic, t.SupplyKey)
}

func (t Token) putSupply(ic *chain.Context, v uint128.Uint128) {
	common.PutU128(ic, t.SupplyKey, v)
}

func (t Token) transfer(ic *chain.Context, from, to string, amount uint128.Uint128, memo *string) {
	if amount.IsZero() {
		panic(fmt.Errorf("%w: zero transfer", common.ErrInvalidAmount))
	}
	if from == to {
		panic(fmt.Errorf("%w: sender and receiver must differ", common.ErrInvalidAmount))
	}
	accFrom, ok := getAccount(ic, from)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrNotRegistered, from))
	}
	accTo, ok := getAccount(ic, to)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrNotRegistered, to))
	}
	if accFrom.Balance.Cmp(amount) < 0 {
		panic(fmt.Errorf("%w: %s has %s, needs %s", chain.ErrNotEnoughBalance, from, accFrom.Balance, amount))
	}

	accFrom.Balance = accFrom.Balance.Sub(amount)
	accTo.Balance = common.AddU128(accTo.Balance, amount)
	putAccount(ic, from, accFrom)
	putAccount(ic, to, accTo)

	emit(ic, EventTransfer, []TransferLog{{
		OldOwnerID: from,
		NewOwnerID: to,
		Amount:     chain.NewU128(amount),
		Memo:       memo,
	}})
}

func registered() common.StorageBalance {
	return common.StorageBalance{
		Total:     chain.NewU128(common.FTRegistrationDeposit),
		Available: chain.NewU128(uint128.Zero),
	}
}

func getAccount(ic *chain.Context, id string) (*Account, bool) {
	acc := new(Account)
	ok := common.GetSerialized(ic, common.Key(accountPrefix, id), acc)
	return acc, ok
}

func putAccount(ic *chain.Context, id string, acc *Account) {
	common.SetSerialized(ic, common.Key(accountPrefix, id), acc)
}
