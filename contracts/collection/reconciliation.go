package collection

import (
	"encoding/json"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/samber/lo"
)

// Payment legs of a mint.
const (
	// LegVault is the vault deployment, its reconciliation refunds the buyer.
	LegVault = "vault"
	// LegOwner is the payment of the owner share.
	LegOwner = "owner"
	// LegVaultPayment is the funding of the vault.
	LegVaultPayment = "vault_payment"
)

const reconciliationPrefix = 'r'

type (
	// Reconciliation is a failed payment leg awaiting retry.
	Reconciliation struct {
		TokenID string `json:"token_id"`
		Leg     string `json:"leg"`
		// Receiver of the retried payment.
		Account string `json:"account"`
		// Amount in the mint currency.
		Amount chain.U128 `json:"amount"`
		// Native amount returned along with a vault leg.
		Reserved chain.U128 `json:"reserved"`
	}

	// PaymentSettledArgs are arguments of the on_payment_settled callback.
	PaymentSettledArgs struct {
		TokenID string     `json:"token_id"`
		Leg     string     `json:"leg"`
		Account string     `json:"account"`
		Amount  chain.U128 `json:"amount"`
	}

	// RetryArgs are arguments of retry_reconciliation.
	RetryArgs struct {
		TokenID string `json:"token_id"`
		Leg     string `json:"leg"`
	}

	// PageArgs are optional pagination arguments.
	PageArgs struct {
		FromIndex *chain.U128 `json:"from_index,omitempty"`
		Limit     *uint64     `json:"limit,omitempty"`
	}
)

// Method names.
const (
	MethodReconciliations = "reconciliations"
	MethodRetry           = "retry_reconciliation"
)

// OnPaymentSettled observes a payment leg. Failed legs and unused amounts of
// fungible token vault funding are recorded as reconciliations.
func OnPaymentSettled(ic *chain.Context, args PaymentSettledArgs) {
	res := ic.PromiseResult(0)
	if res.Failed() {
		ic.Logf("%s payment of %s to %s failed: %v", args.Leg, args.TokenID, args.Account, res.Err)
		recordReconciliation(ic, args.reconciliation())
		return
	}

	if args.Leg == LegVaultPayment && getConfig(ic).MintCurrency != "" {
		var used chain.U128
		if err := res.Decode(&used); err != nil {
			panic(fmt.Errorf("decode used amount: %w", err))
		}
		if unused := common.SubU128(args.Amount.Uint128(), common.MinU128(used.Uint128(), args.Amount.Uint128())); !unused.IsZero() {
			ic.Logf("vault of %s accepted %s of %s", args.TokenID, used, args.Amount)
			args.Amount = chain.NewU128(unused)
			recordReconciliation(ic, args.reconciliation())
			return
		}
	}
	ic.Logf("%s payment of %s settled", args.Leg, args.TokenID)
}

// RetryReconciliation removes the reconciliation entry and issues it again.
// A vault entry refunds the buyer, payment entries repeat the payment with
// its settle callback. Anyone can retry.
func RetryReconciliation(ic *chain.Context, args RetryArgs) {
	key := reconciliationKey(args.TokenID, args.Leg)
	data := ic.Get(key)
	if data == nil {
		panic(fmt.Errorf("%w: %s/%s", common.ErrNoReconciliation, args.TokenID, args.Leg))
	}
	var r Reconciliation
	if err := json.Unmarshal(data, &r); err != nil {
		panic(fmt.Errorf("decode reconciliation: %w", err))
	}
	ic.Delete(key)

	cfg := getConfig(ic)
	switch r.Leg {
	case LegVault:
		native := r.Reserved.Uint128()
		if cfg.MintCurrency == "" {
			native = common.AddU128(native, r.Amount.Uint128())
		} else {
			creditFTDeposit(ic, r.Account, r.Amount.Uint128())
		}
		if !native.IsZero() {
			ic.Promise(r.Account).Transfer(native)
		}
		ic.Logf("refunded buyer %s of %s", r.Account, r.TokenID)
	case LegOwner, LegVaultPayment:
		issueLeg(ic, cfg, r.TokenID, r.Leg, r.Account, r.Amount.Uint128())
	default:
		panic(fmt.Errorf("%w: unknown leg %s", common.ErrNoReconciliation, r.Leg))
	}
}

// Reconciliations lists pending reconciliations ordered by token id and
// leg.
func Reconciliations(ic *chain.Context, args PageArgs) []Reconciliation {
	var all []Reconciliation
	ic.Find([]byte{reconciliationPrefix}, func(_, v []byte) bool {
		var r Reconciliation
		if err := json.Unmarshal(v, &r); err != nil {
			panic(fmt.Errorf("decode reconciliation: %w", err))
		}
		all = append(all, r)
		return true
	})
	from, size := nonfungible.Page(len(all), args.FromIndex, args.Limit)
	return append([]Reconciliation{}, lo.Subset(all, from, size)...)
}

// issueLeg sends a payment leg through the payment channel followed by its
// settle callback. Zero legs are skipped.
func issueLeg(ic *chain.Context, cfg *Config, tokenID, leg, account string, amount uint128.Uint128) {
	if amount.IsZero() {
		return
	}
	ch := common.NewPaymentChannel(cfg.MintCurrency)
	var p *chain.Promise
	if leg == LegVaultPayment {
		p = ch.Fund(ic, account, amount)
	} else {
		p = ch.Pay(ic, account, amount)
	}
	p.Then(ic.Promise(ic.CurrentAccount()).FunctionCall(MethodOnPaymentSettle, PaymentSettledArgs{
		TokenID: tokenID,
		Leg:     leg,
		Account: account,
		Amount:  chain.NewU128(amount),
	}, uint128.Zero, common.GasForSettleCallback))
}

func (a PaymentSettledArgs) reconciliation() Reconciliation {
	return Reconciliation{
		TokenID:  a.TokenID,
		Leg:      a.Leg,
		Account:  a.Account,
		Amount:   a.Amount,
		Reserved: chain.U128From64(0),
	}
}

func recordReconciliation(ic *chain.Context, r Reconciliation) {
	data, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	ic.Put(reconciliationKey(r.TokenID, r.Leg), data)
}

func reconciliationKey(tokenID, leg string) []byte {
	return common.Key(reconciliationPrefix, tokenID, leg)
}
