package vault

import (
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

type (
	// State is the escrow record of a vault.
	State struct {
		// Collection that deployed the vault
		OwnerContract string
		// Fungible token contract, empty for native currency
		Currency string
		// Escrowed amount
		Balance uint128.Uint128
	}

	// InitArgs are arguments of init.
	InitArgs struct {
		Currency *string `json:"currency,omitempty"`
	}

	// WithdrawArgs are arguments of withdraw.
	WithdrawArgs struct {
		Claimant string `json:"claimant"`
	}

	// Info is the vault_info view.
	Info struct {
		OwnerContract string     `json:"owner_contract"`
		Currency      *string    `json:"currency,omitempty"`
		Balance       chain.U128 `json:"balance"`
	}
)

const (
	// Name is the contract name in the manifest.
	Name = "vault"

	stateKey = 'S'
)

// Method names.
const (
	MethodInit     = "init"
	MethodWithdraw = "withdraw"
	MethodInfo     = "vault_info"
)

// EncodeBinary implements io.Serializable.
func (s *State) EncodeBinary(w *io.BinWriter) {
	w.WriteString(s.OwnerContract)
	w.WriteString(s.Currency)
	common.WriteU128(w, s.Balance)
}

// DecodeBinary implements io.Serializable.
func (s *State) DecodeBinary(r *io.BinReader) {
	s.OwnerContract = r.ReadString()
	s.Currency = r.ReadString()
	s.Balance = common.ReadU128(r)
}

var code = chain.NewCode(Name, []string{"NEP-141-receiver"},
	chain.Proc(MethodInit, Init),
	chain.Proc0(common.MethodDepositNative, DepositNative).Payable(),
	chain.Func(common.MethodFTOnTransfer, FTOnTransfer),
	chain.Proc(MethodWithdraw, Withdraw),
	chain.Getter(MethodInfo, VaultInfo),
	chain.Getter("version", Version),
)

// Code returns vault contract code.
func Code() *chain.Code { return code }

// Init sets the caller as the owner contract and the escrow currency. It can
// be called only once.
func Init(ic *chain.Context, args InitArgs) {
	if ic.Has([]byte{stateKey}) {
		panic(common.ErrAlreadyInitialized)
	}
	var currency string
	if args.Currency != nil {
		common.CheckAccountID(*args.Currency)
		currency = *args.Currency
	}
	putState(ic, &State{
		OwnerContract: ic.Predecessor(),
		Currency:      currency,
		Balance:       uint128.Zero,
	})
	ic.Log("vault initialized")
}

// DepositNative adds attached native amount to the escrowed balance. Vaults
// escrowing fungible tokens reject it.
func DepositNative(ic *chain.Context) {
	s := getState(ic)
	if s.Currency != "" {
		panic(fmt.Errorf("%w: vault escrows %s", common.ErrWrongCurrency, s.Currency))
	}
	s.Balance = common.AddU128(s.Balance, ic.AttachedDeposit())
	putState(ic, s)
}

// FTOnTransfer is the NEP-141 receiver hook. It accepts tokens of the vault
// currency relayed by the token contract and returns zero unused amount.
func FTOnTransfer(ic *chain.Context, args common.FTOnTransferArgs) chain.U128 {
	s := getState(ic)
	if s.Currency == "" || ic.Predecessor() != s.Currency {
		panic(fmt.Errorf("%w: %s", common.ErrWrongCurrency, ic.Predecessor()))
	}
	common.CheckRelayed(ic)

	s.Balance = common.AddU128(s.Balance, args.Amount.Uint128())
	putState(ic, s)
	return chain.NewU128(uint128.Zero)
}

// Withdraw releases the whole balance to the claimant and resets it. Can be
// invoked only by the owner contract. Withdrawal of an empty vault does
// nothing.
func Withdraw(ic *chain.Context, args WithdrawArgs) {
	s := getState(ic)
	common.CheckPredecessor(ic, s.OwnerContract)
	common.CheckAccountID(args.Claimant)

	if s.Balance.IsZero() {
		ic.Log("vault is empty")
		return
	}
	common.NewPaymentChannel(s.Currency).Release(ic, args.Claimant, s.Balance)
	ic.Logf("released %s to %s", s.Balance, args.Claimant)

	s.Balance = uint128.Zero
	putState(ic, s)
}

// VaultInfo returns the vault state.
func VaultInfo(ic *chain.Context) Info {
	s := getState(ic)
	return Info{
		OwnerContract: s.OwnerContract,
		Currency:      common.CurrencyPtr(s.Currency),
		Balance:       chain.NewU128(s.Balance),
	}
}

// Version returns the version of the contract.
func Version(*chain.Context) int {
	return common.Version
}

func getState(ic *chain.Context) *State {
	s := new(State)
	if !common.GetSerialized(ic, []byte{stateKey}, s) {
		panic(common.ErrNotInitialized)
	}
	return s
}

func putState(ic *chain.Context, s *State) {
	common.SetSerialized(ic, []byte{stateKey}, s)
}
