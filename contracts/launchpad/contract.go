package launchpad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
)

type (
	// LaunchArgs are arguments of launch.
	LaunchArgs struct {
		Metadata            nonfungible.ContractMetadata `json:"metadata"`
		MintPrice           chain.U128                   `json:"mint_price"`
		MintCurrency        *string                      `json:"mint_currency,omitempty"`
		PaymentSplitPercent uint8                        `json:"payment_split_percent"`
		TotalSupply         *chain.U128                  `json:"total_supply,omitempty"`
	}

	// LaunchedArgs are arguments of the on_launched callback.
	LaunchedArgs struct {
		CollectionID string     `json:"collection_id"`
		OwnerID      string     `json:"owner_id"`
		Stake        chain.U128 `json:"stake"`
	}

	// SymbolArgs are arguments of collection_account_id.
	SymbolArgs struct {
		Symbol string `json:"symbol"`
	}
)

const (
	// Name is the contract name in the manifest.
	Name = "launchpad"

	// EventStandard and EventVersion tag launchpad events.
	EventStandard = "launchpad"
	EventVersion  = "1.0.0"

	// EventLaunch is emitted when a collection is deployed and initialized.
	EventLaunch = "collection_launch"
	// EventLaunchFailed is emitted when a collection deployment fails.
	EventLaunchFailed = "collection_launch_failed"
)

// Method names.
const (
	MethodLaunch              = "launch"
	MethodOnLaunched          = "on_launched"
	MethodCollectionStake     = "collection_stake"
	MethodCollectionAccountID = "collection_account_id"
)

// LaunchLog is the payload entry of launchpad events.
type LaunchLog struct {
	CollectionID string  `json:"collection_id"`
	OwnerID      string  `json:"owner_id"`
	Reason       *string `json:"reason,omitempty"`
}

var code = chain.NewCode(Name, nil,
	chain.Proc(MethodLaunch, Launch).Payable(),
	chain.Proc(MethodOnLaunched, OnLaunched).Private(),
	chain.Getter(MethodCollectionStake, CollectionStakeOf),
	chain.Func(MethodCollectionAccountID, CollectionAccountID).View(),
	chain.Getter("version", Version),
)

// Code returns launchpad contract code.
func Code() *chain.Code { return code }

// CollectionStake returns native amount a launch must attach: the stake for
// the collection code plus common.CollectionReserve.
func CollectionStake() uint128.Uint128 {
	return common.StorageStake(collection.Code().Size(), common.CollectionReserve)
}

// Launch deploys a collection owned by the caller to
// "<lower-cased symbol>.<launchpad>". The attached deposit must cover
// CollectionStake, the excess is refunded. Parameters are validated before
// any promise is issued. The launchpad keeps no state, the outcome is
// reported by on_launched.
func Launch(ic *chain.Context, args LaunchArgs) {
	owner := ic.Predecessor()
	if err := args.Metadata.Validate(); err != nil {
		panic(err)
	}
	if args.PaymentSplitPercent > common.MaxSplitPercent {
		panic(fmt.Errorf("%w: %d", common.ErrInvalidSplit, args.PaymentSplitPercent))
	}
	if args.MintCurrency != nil {
		common.CheckAccountID(*args.MintCurrency)
	}
	collectionID, err := common.SubAccount(ic.CurrentAccount(), strings.ToLower(args.Metadata.Symbol))
	if err != nil {
		panic(err)
	}

	stake := CollectionStake()
	deposit := ic.AttachedDeposit()
	if deposit.Cmp(stake) < 0 {
		panic(fmt.Errorf("%w: attached %s, required %s", common.ErrInsufficientDeposit, deposit, stake))
	}

	ic.Promise(collectionID).
		CreateAccount().
		Transfer(stake).
		DeployContract(collection.Code()).
		FunctionCall(collection.MethodNew, collection.NewArgs{
			OwnerID:             owner,
			Metadata:            args.Metadata,
			MintPrice:           args.MintPrice,
			MintCurrency:        args.MintCurrency,
			PaymentSplitPercent: args.PaymentSplitPercent,
			TotalSupply:         args.TotalSupply,
		}, uint128.Zero, common.GasForInit).
		Then(ic.Promise(ic.CurrentAccount()).FunctionCall(MethodOnLaunched, LaunchedArgs{
			CollectionID: collectionID,
			OwnerID:      owner,
			Stake:        chain.NewU128(stake),
		}, uint128.Zero, common.GasForLaunchCallback))

	if excess := deposit.Sub(stake); !excess.IsZero() {
		ic.Promise(owner).Transfer(excess)
	}
	ic.Logf("launching %s", collectionID)
}

// OnLaunched reports the launch outcome. A failed deployment returns the
// stake to the owner, an account collision is told apart from other
// failures.
//
// Produces collection_launch or collection_launch_failed event.
func OnLaunched(ic *chain.Context, args LaunchedArgs) {
	res := ic.PromiseResult(0)
	if !res.Failed() {
		emit(ic, EventLaunch, LaunchLog{CollectionID: args.CollectionID, OwnerID: args.OwnerID})
		return
	}

	reason := "deployment failed"
	if errors.Is(res.Err, chain.ErrAccountExists) {
		reason = "account already exists"
	}
	ic.Logf("launch of %s: %s: %v", args.CollectionID, reason, res.Err)
	ic.Promise(args.OwnerID).Transfer(args.Stake.Uint128())
	emit(ic, EventLaunchFailed, LaunchLog{CollectionID: args.CollectionID, OwnerID: args.OwnerID, Reason: &reason})
}

// CollectionStakeOf returns CollectionStake.
func CollectionStakeOf(*chain.Context) chain.U128 {
	return chain.NewU128(CollectionStake())
}

// CollectionAccountID returns the account a collection with the symbol is
// deployed to.
func CollectionAccountID(ic *chain.Context, args SymbolArgs) string {
	id, err := common.SubAccount(ic.CurrentAccount(), strings.ToLower(args.Symbol))
	if err != nil {
		panic(err)
	}
	return id
}

// Version returns version of the contract.
func Version(*chain.Context) int {
	return common.Version
}

func emit(ic *chain.Context, name string, entry LaunchLog) {
	ic.Emit(chain.Event{
		Standard: EventStandard,
		Version:  EventVersion,
		Event:    name,
		Data:     []LaunchLog{entry},
	})
}
