package collection_test

import (
	"testing"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/chaintest"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestVaultCollision(t *testing.T) {
	c := newCollection(t)
	stake := collection.VaultStake()
	require.NoError(t, c.e.Chain.CreateAccount("5.coll.test", chain.OneNEAR))

	before := c.e.Balance(c.buyer)
	h := c.mint(t, "5")
	require.Len(t, c.e.Failures(h), 1)
	require.True(t, chain.IsFailure(c.e.Failures(h)[0], chain.ErrAccountExists))

	// The sale is void, the index stays.
	require.EqualValues(t, 1, c.index(t))
	require.Nil(t, c.token(t, "5"))
	require.EqualValues(t, 0, c.supply(t))
	require.Len(t, c.e.Events(h, nonfungible.EventBurn), 1)
	require.Equal(t, before.Sub(price).Sub(stake), c.e.Balance(c.buyer))
	require.Equal(t, chain.OneNEAR, c.e.Balance("5.coll.test"))

	require.Equal(t, []collection.Reconciliation{{
		TokenID:  "5",
		Leg:      collection.LegVault,
		Account:  c.buyer,
		Amount:   chain.NewU128(price),
		Reserved: chain.NewU128(stake),
	}}, c.reconciliations(t))

	retry := c.coll.WithSigner(c.owner)
	retry.Invoke(t, collection.MethodRetry, collection.RetryArgs{TokenID: "5", Leg: collection.LegVault})
	require.Equal(t, before, c.e.Balance(c.buyer))
	require.Empty(t, c.reconciliations(t))
	require.Nil(t, c.token(t, "5"))

	retry.InvokeFail(t, common.ErrNoReconciliation, collection.MethodRetry, collection.RetryArgs{TokenID: "5", Leg: collection.LegVault})
	c.coll.InvokeFail(t, common.ErrTokenNotFound, collection.MethodBurn, collection.TokenArgs{TokenID: "5"})
}

func TestVaultCollisionAfterTransfer(t *testing.T) {
	c := newCollection(t)
	stake := collection.VaultStake()
	require.NoError(t, c.e.Chain.CreateAccount("5.coll.test", chain.OneNEAR))

	// The token changes hands before the vault deployment fails.
	res := c.coll.WithDeposit(price.Add(stake)).InvokeUnsettled(t, collection.MethodMint, collection.MintArgs{
		TokenID:      "5",
		TokenOwnerID: c.buyer,
	})
	require.NoError(t, res.Outcome.Err)
	res = c.coll.WithDeposit(chain.OneYocto).InvokeUnsettled(t, collection.MethodNFTTransfer, collection.TransferArgs{
		ReceiverID: c.owner,
		TokenID:    "5",
	})
	require.NoError(t, res.Outcome.Err)
	require.Equal(t, c.owner, c.token(t, "5").OwnerID)

	before := c.e.Balance(c.buyer)
	c.e.Settle(t)
	require.Nil(t, c.token(t, "5"))
	require.EqualValues(t, 0, c.supply(t))

	rs := c.reconciliations(t)
	require.Len(t, rs, 1)
	require.Equal(t, c.buyer, rs[0].Account)

	c.coll.WithSigner(c.owner).Invoke(t, collection.MethodRetry, collection.RetryArgs{TokenID: "5", Leg: collection.LegVault})
	require.Equal(t, before.Add(price).Add(stake), c.e.Balance(c.buyer))
}

func TestOwnerLegFailure(t *testing.T) {
	c := newCollection(t)
	_, err := chain.NewActor(c.e.Chain, c.owner).Send(c.owner, chain.DeleteAccount(c.e.Root))
	require.NoError(t, err)
	c.e.Settle(t)
	require.False(t, c.e.Chain.AccountExists(c.owner))

	h := c.mint(t, "1")
	fails := c.e.Failures(h)
	require.Len(t, fails, 1)
	require.Equal(t, c.owner, fails[0].Receiver)

	require.Equal(t, []collection.Reconciliation{{
		TokenID:  "1",
		Leg:      collection.LegOwner,
		Account:  c.owner,
		Amount:   chain.U128From64(700),
		Reserved: chain.U128From64(0),
	}}, c.reconciliations(t))

	// The vault leg is independent of the owner leg.
	_, info := c.vault(t, "1")
	require.EqualValues(t, 300, info.Balance.Uint128().Lo)

	t.Run("retry fails again", func(t *testing.T) {
		h := c.coll.Invoke(t, collection.MethodRetry, collection.RetryArgs{TokenID: "1", Leg: collection.LegOwner})
		require.Len(t, c.e.Failures(h), 1)
		require.Len(t, c.reconciliations(t), 1)
	})

	require.NoError(t, c.e.Chain.CreateAccount(c.owner, chaintest.DefaultBalance))
	c.coll.Invoke(t, collection.MethodRetry, collection.RetryArgs{TokenID: "1", Leg: collection.LegOwner})
	require.Equal(t, chaintest.DefaultBalance.Add64(700), c.e.Balance(c.owner))
	require.Empty(t, c.reconciliations(t))
}

func TestReconciliationsPage(t *testing.T) {
	c := newCollection(t)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.e.Chain.CreateAccount(id+".coll.test", chain.OneNEAR))
		c.mint(t, id)
	}

	require.Len(t, c.reconciliations(t), 3)

	var rs []collection.Reconciliation
	c.coll.View(t, &rs, collection.MethodReconciliations, collection.PageArgs{
		FromIndex: lo.ToPtr(chain.U128From64(1)),
		Limit:     lo.ToPtr[uint64](1),
	})
	require.Len(t, rs, 1)
	require.Equal(t, "b", rs[0].TokenID)

	c.coll.InvokeFail(t, chain.ErrPrivateMethod, collection.MethodOnPaymentSettle, collection.PaymentSettledArgs{
		TokenID: "a",
		Leg:     collection.LegOwner,
		Account: c.buyer,
		Amount:  chain.U128From64(1),
	})
	c.coll.InvokeFail(t, chain.ErrPrivateMethod, collection.MethodOnVaultDeployed, collection.VaultDeployedArgs{
		TokenID: "a",
		Buyer:   c.buyer,
	})
}
