package deploy

import (
	"context"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/chaintest"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/fungible"
	"github.com/nspcc-dev/launchpad-contract/contracts/launchpad"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testPrm(t *testing.T, e *chaintest.Executor, holders ...string) Prm {
	return Prm{
		Logger:     zaptest.NewLogger(t),
		Blockchain: e.Chain,
		Actor:      chain.NewActor(e.Chain, e.Root),
		FungibleContract: FungibleContractPrm{
			Metadata: fungible.Metadata{
				Spec:     fungible.MetadataSpec,
				Name:     "Launchpad USD",
				Symbol:   "LUSD",
				Decimals: 6,
			},
			TotalSupply: uint128.From64(1_000_000),
			Holders:     holders,
		},
	}
}

func TestDeploy(t *testing.T) {
	e := chaintest.NewExecutor(t)
	holder := e.NewAccount(t)
	prm := testPrm(t, e, holder, holder)

	res, err := Deploy(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, Result{Fungible: "fungible.test", Launchpad: "launchpad.test"}, res)

	code, err := e.Chain.Code(res.Launchpad)
	require.NoError(t, err)
	require.Equal(t, launchpad.Name, code.Name())

	ft := e.Invoker(res.Fungible, holder)
	var b chain.U128
	ft.View(t, &b, fungible.MethodBalanceOf, common.AccountArgs{AccountID: e.Root})
	require.EqualValues(t, 1_000_000, b.Uint128().Lo)

	var sb *common.StorageBalance
	ft.View(t, &sb, fungible.MethodStorageBalanceOf, common.AccountArgs{AccountID: holder})
	require.NotNil(t, sb)

	t.Run("idempotent", func(t *testing.T) {
		before := e.Balance(e.Root)
		res2, err := Deploy(context.Background(), testPrm(t, e))
		require.NoError(t, err)
		require.Equal(t, res, res2)
		require.Equal(t, before, e.Balance(e.Root))
	})
}

func TestDeployWithoutFungible(t *testing.T) {
	e := chaintest.NewExecutor(t)
	prm := testPrm(t, e)
	prm.FungibleContract.Disabled = true

	res, err := Deploy(context.Background(), prm)
	require.NoError(t, err)
	require.Empty(t, res.Fungible)
	require.False(t, e.Chain.AccountExists("fungible.test"))
	require.True(t, e.Chain.AccountExists(res.Launchpad))
}

func TestDeployCustomStake(t *testing.T) {
	e := chaintest.NewExecutor(t)
	prm := testPrm(t, e)
	prm.FungibleContract.Disabled = true
	prm.LaunchpadContract.Common.Stake = chain.OneNEAR.Mul64(3)

	res, err := Deploy(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, chain.OneNEAR.Mul64(3), e.Balance(res.Launchpad))
}

func TestDeployCodeMismatch(t *testing.T) {
	e := chaintest.NewExecutor(t)
	e.DeployContract(t, "launchpad", vault.Code(), chain.OneNEAR.Mul64(5), "", nil)

	prm := testPrm(t, e)
	prm.FungibleContract.Disabled = true

	_, err := Deploy(context.Background(), prm)
	require.ErrorIs(t, err, errCodeMismatch)
}

func TestDeployCanceled(t *testing.T) {
	e := chaintest.NewExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Deploy(ctx, testPrm(t, e))
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, e.Chain.AccountExists("fungible.test"))
}

func TestAccountID(t *testing.T) {
	id, err := AccountID("operator.near", launchpad.Name)
	require.NoError(t, err)
	require.Equal(t, "launchpad.operator.near", id)

	_, err = AccountID("operator.near", "Bad")
	require.ErrorIs(t, err, common.ErrInvalidAccountID)
}
