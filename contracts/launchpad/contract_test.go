package launchpad_test

import (
	"testing"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/chaintest"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/contracts/launchpad"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newLaunchpad(t *testing.T) (*chaintest.Executor, *chaintest.ContractInvoker) {
	e := chaintest.NewExecutor(t)
	id := e.DeployContract(t, "launchpad", launchpad.Code(), chain.OneNEAR.Mul64(5), "", nil)
	return e, e.Invoker(id, e.NewAccount(t))
}

func launchArgs(symbol string) launchpad.LaunchArgs {
	return launchpad.LaunchArgs{
		Metadata: nonfungible.ContractMetadata{
			Spec:   nonfungible.MetadataSpec,
			Name:   "Collection " + symbol,
			Symbol: symbol,
		},
		MintPrice:           chain.U128From64(1000),
		PaymentSplitPercent: 30,
		TotalSupply:         lo.ToPtr(chain.U128From64(10)),
	}
}

func TestLaunch(t *testing.T) {
	e, lp := newLaunchpad(t)
	owner := lp.Signer
	stake := launchpad.CollectionStake()

	var id string
	lp.View(t, &id, launchpad.MethodCollectionAccountID, launchpad.SymbolArgs{Symbol: "ABC"})
	require.Equal(t, "abc.launchpad.test", id)

	var viewStake chain.U128
	lp.View(t, &viewStake, launchpad.MethodCollectionStake, nil)
	require.Equal(t, stake, viewStake.Uint128())

	before := e.Balance(owner)
	h := lp.WithDeposit(stake.Add(chain.OneNEAR)).Invoke(t, launchpad.MethodLaunch, launchArgs("ABC"))
	require.Empty(t, e.Failures(h))
	require.Equal(t, before.Sub(stake), e.Balance(owner))

	evs := e.Events(h, launchpad.EventLaunch)
	require.Len(t, evs, 1)
	var logs []launchpad.LaunchLog
	require.NoError(t, evs[0].DecodeData(&logs))
	require.Equal(t, []launchpad.LaunchLog{{CollectionID: id, OwnerID: owner}}, logs)

	code, err := e.Chain.Code(id)
	require.NoError(t, err)
	require.Equal(t, collection.Name, code.Name())

	coll := e.Invoker(id, owner)
	var cfg collection.ConfigView
	coll.View(t, &cfg, collection.MethodConfig, nil)
	require.Equal(t, owner, cfg.OwnerID)
	require.EqualValues(t, 10, cfg.TotalSupply.Uint128().Lo)

	buyer := e.NewAccount(t)
	coll.WithSigner(buyer).WithDeposit(collection.VaultStake().Add64(1000)).Invoke(t, collection.MethodMint, collection.MintArgs{
		TokenID:      "7",
		TokenOwnerID: buyer,
	})
	require.True(t, e.Chain.AccountExists("7.abc.launchpad.test"))
}

func TestLaunchCollision(t *testing.T) {
	e, lp := newLaunchpad(t)
	stake := launchpad.CollectionStake()
	lp.WithDeposit(stake).Invoke(t, launchpad.MethodLaunch, launchArgs("abc"))

	other := lp.WithSigner(e.NewAccount(t))
	before := e.Balance(other.Signer)
	h := other.WithDeposit(stake).Invoke(t, launchpad.MethodLaunch, launchArgs("ABC"))
	require.Len(t, e.Failures(h), 1)
	require.Equal(t, before, e.Balance(other.Signer))

	evs := e.Events(h, launchpad.EventLaunchFailed)
	require.Len(t, evs, 1)
	var logs []launchpad.LaunchLog
	require.NoError(t, evs[0].DecodeData(&logs))
	require.Equal(t, "abc.launchpad.test", logs[0].CollectionID)
	require.Equal(t, other.Signer, logs[0].OwnerID)
	require.Equal(t, "account already exists", *logs[0].Reason)
	require.Empty(t, e.Events(h, launchpad.EventLaunch))

	var cfg collection.ConfigView
	e.Invoker("abc.launchpad.test", lp.Signer).View(t, &cfg, collection.MethodConfig, nil)
	require.Equal(t, lp.Signer, cfg.OwnerID)
}

func TestLaunchRejected(t *testing.T) {
	e, lp := newLaunchpad(t)
	stake := launchpad.CollectionStake()
	before := e.Balance(lp.Signer)

	inv := lp.WithDeposit(stake)
	lp.WithDeposit(stake.Sub(chain.OneYocto)).InvokeFail(t, common.ErrInsufficientDeposit, launchpad.MethodLaunch, launchArgs("abc"))

	args := launchArgs("abc")
	args.PaymentSplitPercent = 101
	inv.InvokeFail(t, common.ErrInvalidSplit, launchpad.MethodLaunch, args)

	args = launchArgs("abc")
	args.Metadata.Name = ""
	inv.InvokeFail(t, common.ErrInvalidMetadata, launchpad.MethodLaunch, args)

	args = launchArgs("abc")
	args.MintCurrency = lo.ToPtr("Bad")
	inv.InvokeFail(t, common.ErrInvalidAccountID, launchpad.MethodLaunch, args)

	inv.InvokeFail(t, common.ErrInvalidAccountID, launchpad.MethodLaunch, launchArgs("a.b"))

	require.Equal(t, before, e.Balance(lp.Signer))
	require.False(t, e.Chain.AccountExists("abc.launchpad.test"))

	lp.InvokeFail(t, chain.ErrPrivateMethod, launchpad.MethodOnLaunched, launchpad.LaunchedArgs{
		CollectionID: "abc.launchpad.test",
		OwnerID:      lp.Signer,
		Stake:        chain.NewU128(stake),
	})
}
