package collection_test

import (
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/chaintest"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var price = uint128.From64(1000)

type collectionTest struct {
	e     *chaintest.Executor
	coll  *chaintest.ContractInvoker
	owner string
	buyer string
}

func newCollection(t *testing.T, opts ...func(*collection.NewArgs)) *collectionTest {
	e := chaintest.NewExecutor(t)
	owner := e.NewAccount(t)
	buyer := e.NewAccount(t)

	args := collection.NewArgs{
		OwnerID: owner,
		Metadata: nonfungible.ContractMetadata{
			Spec:   nonfungible.MetadataSpec,
			Name:   "Test collection",
			Symbol: "TST",
		},
		MintPrice:           chain.NewU128(price),
		PaymentSplitPercent: 30,
	}
	for _, o := range opts {
		o(&args)
	}
	id := e.DeployContract(t, "coll", collection.Code(), chain.OneNEAR.Mul64(10), collection.MethodNew, args)
	return &collectionTest{
		e:     e,
		coll:  e.Invoker(id, buyer),
		owner: owner,
		buyer: buyer,
	}
}

func (c *collectionTest) mint(t *testing.T, tokenID string) string {
	return c.coll.WithDeposit(price.Add(collection.VaultStake())).Invoke(t, collection.MethodMint, collection.MintArgs{
		TokenID:      tokenID,
		TokenOwnerID: c.buyer,
	})
}

func (c *collectionTest) index(t *testing.T) uint64 {
	var i chain.U128
	c.coll.View(t, &i, collection.MethodIndex, nil)
	return i.Uint128().Lo
}

func (c *collectionTest) supply(t *testing.T) uint64 {
	var n chain.U128
	c.coll.View(t, &n, collection.MethodNFTTotalSupply, nil)
	return n.Uint128().Lo
}

func (c *collectionTest) token(t *testing.T, id string) *nonfungible.Token {
	var tok *nonfungible.Token
	c.coll.View(t, &tok, collection.MethodNFTToken, collection.TokenArgs{TokenID: id})
	return tok
}

func (c *collectionTest) vault(t *testing.T, tokenID string) (string, vault.Info) {
	var id string
	c.coll.View(t, &id, collection.MethodVaultOf, collection.TokenArgs{TokenID: tokenID})
	var i vault.Info
	c.e.Invoker(id, c.buyer).View(t, &i, vault.MethodInfo, nil)
	return id, i
}

func (c *collectionTest) reconciliations(t *testing.T) []collection.Reconciliation {
	var rs []collection.Reconciliation
	c.coll.View(t, &rs, collection.MethodReconciliations, collection.PageArgs{})
	return rs
}

func TestNew(t *testing.T) {
	c := newCollection(t, func(a *collection.NewArgs) {
		a.TotalSupply = lo.ToPtr(chain.U128From64(5))
	})

	var cfg collection.ConfigView
	c.coll.View(t, &cfg, collection.MethodConfig, nil)
	require.Equal(t, collection.ConfigView{
		OwnerID:             c.owner,
		MintPrice:           chain.NewU128(price),
		PaymentSplitPercent: 30,
		TotalSupply:         chain.U128From64(5),
	}, cfg)

	var meta nonfungible.ContractMetadata
	c.coll.View(t, &meta, collection.MethodNFTMetadata, nil)
	require.Equal(t, "TST", meta.Symbol)

	var stake chain.U128
	c.coll.View(t, &stake, collection.MethodVaultStake, nil)
	require.Equal(t, collection.VaultStake(), stake.Uint128())

	c.coll.InvokeFail(t, common.ErrAlreadyInitialized, collection.MethodNew, collection.NewArgs{})

	t.Run("invalid", func(t *testing.T) {
		e := chaintest.NewExecutor(t)
		id := e.DeployContract(t, "coll", collection.Code(), chain.OneNEAR.Mul64(10), "", nil)
		inv := e.Invoker(id, e.Root)

		meta := nonfungible.ContractMetadata{Spec: nonfungible.MetadataSpec, Name: "x", Symbol: "X"}
		inv.InvokeFail(t, common.ErrInvalidSplit, collection.MethodNew, collection.NewArgs{
			OwnerID:             e.Root,
			Metadata:            meta,
			PaymentSplitPercent: 101,
		})
		inv.InvokeFail(t, common.ErrInvalidMetadata, collection.MethodNew, collection.NewArgs{
			OwnerID:  e.Root,
			Metadata: nonfungible.ContractMetadata{Spec: "nft-2.0.0", Name: "x", Symbol: "X"},
		})
		inv.InvokeFail(t, common.ErrInvalidAccountID, collection.MethodNew, collection.NewArgs{
			OwnerID:  "Owner",
			Metadata: meta,
		})

		_, err := e.Chain.View(id, collection.MethodConfig, nil)
		require.ErrorIs(t, err, common.ErrNotInitialized)
	})
}

func TestMintNative(t *testing.T) {
	c := newCollection(t)
	stake := collection.VaultStake()
	buyerBefore := c.e.Balance(c.buyer)
	ownerBefore := c.e.Balance(c.owner)

	excess := chain.OneNEAR
	var tok nonfungible.Token
	h := c.coll.WithDeposit(price.Add(stake).Add(excess)).InvokeAndDecode(t, &tok, collection.MethodMint, collection.MintArgs{
		TokenID:      "1",
		TokenOwnerID: c.buyer,
	})
	require.Empty(t, c.e.Failures(h))
	require.Equal(t, "1", tok.TokenID)
	require.Len(t, c.e.Events(h, nonfungible.EventMint), 1)

	require.EqualValues(t, 1, c.index(t))
	require.Equal(t, c.buyer, c.token(t, "1").OwnerID)

	require.Equal(t, buyerBefore.Sub(price).Sub(stake), c.e.Balance(c.buyer))
	require.Equal(t, ownerBefore.Add64(700), c.e.Balance(c.owner))

	id, info := c.vault(t, "1")
	require.Equal(t, "1.coll.test", id)
	require.Equal(t, c.coll.Contract, info.OwnerContract)
	require.Nil(t, info.Currency)
	require.Equal(t, uint128.From64(300), info.Balance.Uint128())
	require.Equal(t, stake.Add64(300), c.e.Balance(id))
	require.Empty(t, c.reconciliations(t))

	t.Run("another owner", func(t *testing.T) {
		carol := c.e.NewAccount(t)
		c.coll.WithDeposit(price.Add(stake)).Invoke(t, collection.MethodMint, collection.MintArgs{
			TokenID:      "2",
			TokenOwnerID: carol,
		})
		require.Equal(t, carol, c.token(t, "2").OwnerID)
		require.EqualValues(t, 2, c.index(t))
	})
}

func TestMintRejected(t *testing.T) {
	c := newCollection(t, func(a *collection.NewArgs) {
		a.TotalSupply = lo.ToPtr(chain.U128From64(1))
	})
	stake := collection.VaultStake()
	before := c.e.Balance(c.buyer)

	t.Run("insufficient deposit", func(t *testing.T) {
		c.coll.WithDeposit(price.Add(stake).Sub(chain.OneYocto)).InvokeFail(t, common.ErrInsufficientDeposit, collection.MethodMint, collection.MintArgs{
			TokenID:      "1",
			TokenOwnerID: c.buyer,
		})
		require.Equal(t, before, c.e.Balance(c.buyer))
		require.EqualValues(t, 0, c.index(t))
		require.Nil(t, c.token(t, "1"))
	})

	t.Run("bad token id", func(t *testing.T) {
		c.coll.WithDeposit(price.Add(stake)).InvokeFail(t, common.ErrInvalidAccountID, collection.MethodMint, collection.MintArgs{
			TokenID:      "Token",
			TokenOwnerID: c.buyer,
		})
	})

	c.mint(t, "1")
	require.EqualValues(t, 1, c.index(t))

	t.Run("supply exceeded", func(t *testing.T) {
		before := c.e.Balance(c.buyer)
		c.coll.WithDeposit(price.Add(stake)).InvokeFail(t, common.ErrSupplyExceeded, collection.MethodMint, collection.MintArgs{
			TokenID:      "2",
			TokenOwnerID: c.buyer,
		})
		require.Equal(t, before, c.e.Balance(c.buyer))
		require.EqualValues(t, 1, c.index(t))
	})
}

func TestBurn(t *testing.T) {
	c := newCollection(t)
	c.mint(t, "1")
	vaultID, _ := c.vault(t, "1")

	c.coll.WithSigner(c.owner).InvokeFail(t, common.ErrNotOwner, collection.MethodBurn, collection.TokenArgs{TokenID: "1"})
	require.NotNil(t, c.token(t, "1"))

	before := c.e.Balance(c.buyer)
	res := c.coll.InvokeUnsettled(t, collection.MethodBurn, collection.TokenArgs{TokenID: "1"})
	require.NoError(t, res.Outcome.Err)
	require.Len(t, res.Outcome.EventsByName(nonfungible.EventBurn), 1)

	// The token is gone before the vault releases the escrow.
	require.Nil(t, c.token(t, "1"))
	_, info := c.vault(t, "1")
	require.Equal(t, uint128.From64(300), info.Balance.Uint128())
	require.Equal(t, before, c.e.Balance(c.buyer))

	c.e.Settle(t)
	_, info = c.vault(t, "1")
	require.True(t, info.Balance.Uint128().IsZero())
	require.Equal(t, before.Add64(300), c.e.Balance(c.buyer))
	require.True(t, c.e.Chain.AccountExists(vaultID))

	c.coll.InvokeFail(t, common.ErrTokenNotFound, collection.MethodBurn, collection.TokenArgs{TokenID: "1"})
	c.coll.WithDeposit(price.Add(collection.VaultStake())).InvokeFail(t, common.ErrTokenExists, collection.MethodMint, collection.MintArgs{
		TokenID:      "1",
		TokenOwnerID: c.buyer,
	})

	t.Run("direct withdraw", func(t *testing.T) {
		c.e.Invoker(vaultID, c.buyer).InvokeFail(t, common.ErrUnauthorized, vault.MethodWithdraw, vault.WithdrawArgs{Claimant: c.buyer})
	})
}

func TestBurnAfterTransfer(t *testing.T) {
	c := newCollection(t)
	carol := c.e.NewAccount(t)
	c.mint(t, "1")

	c.coll.WithDeposit(chain.OneYocto).Invoke(t, collection.MethodNFTTransfer, collection.TransferArgs{
		ReceiverID: carol,
		TokenID:    "1",
	})
	c.coll.InvokeFail(t, common.ErrNotOwner, collection.MethodBurn, collection.TokenArgs{TokenID: "1"})

	before := c.e.Balance(carol)
	c.coll.WithSigner(carol).Invoke(t, collection.MethodBurn, collection.TokenArgs{TokenID: "1"})
	require.Equal(t, before.Add64(300), c.e.Balance(carol))
}

func TestZeroSplit(t *testing.T) {
	c := newCollection(t, func(a *collection.NewArgs) {
		a.PaymentSplitPercent = 0
	})
	ownerBefore := c.e.Balance(c.owner)

	h := c.mint(t, "1")
	require.Empty(t, c.e.Failures(h))
	require.Equal(t, ownerBefore.Add(price), c.e.Balance(c.owner))
	_, info := c.vault(t, "1")
	require.True(t, info.Balance.Uint128().IsZero())
}
