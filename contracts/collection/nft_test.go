package collection_test

import (
	"testing"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/internal/testcontracts/nftrecv"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestNFTTransfer(t *testing.T) {
	c := newCollection(t)
	carol := c.e.NewAccount(t)
	c.mint(t, "1")

	args := collection.TransferArgs{ReceiverID: carol, TokenID: "1", Memo: lo.ToPtr("gift")}
	c.coll.InvokeFail(t, common.ErrOneYoctoRequired, collection.MethodNFTTransfer, args)

	h := c.coll.WithDeposit(chain.OneYocto).Invoke(t, collection.MethodNFTTransfer, args)
	require.Equal(t, carol, c.token(t, "1").OwnerID)

	var logs []nonfungible.TransferLog
	require.NoError(t, c.e.Events(h, nonfungible.EventTransfer)[0].DecodeData(&logs))
	require.Equal(t, "gift", *logs[0].Memo)

	var n chain.U128
	c.coll.View(t, &n, collection.MethodNFTSupplyForOwner, common.AccountArgs{AccountID: carol})
	require.EqualValues(t, 1, n.Uint128().Lo)
	c.coll.View(t, &n, collection.MethodNFTTotalSupply, nil)
	require.EqualValues(t, 1, n.Uint128().Lo)

	var toks []nonfungible.Token
	c.coll.View(t, &toks, collection.MethodNFTTokensForOwner, collection.OwnerPageArgs{AccountID: carol})
	require.Len(t, toks, 1)
	c.coll.View(t, &toks, collection.MethodNFTTokensForOwner, collection.OwnerPageArgs{AccountID: c.buyer})
	require.Empty(t, toks)
	c.coll.View(t, &toks, collection.MethodNFTTokens, collection.PageArgs{})
	require.Len(t, toks, 1)
}

func TestNFTApprovals(t *testing.T) {
	c := newCollection(t)
	market := c.e.DeployContract(t, "market", nftrecv.Code(), chain.OneNEAR.Mul64(5), "", nil)
	c.mint(t, "1")

	approve := collection.ApproveArgs{TokenID: "1", AccountID: market, Msg: lo.ToPtr("sale")}
	c.coll.InvokeFail(t, common.ErrInsufficientDeposit, collection.MethodNFTApprove, approve)
	c.coll.WithDeposit(chain.OneYocto).Invoke(t, collection.MethodNFTApprove, approve)

	var call nftrecv.Call
	c.e.Invoker(market, c.buyer).View(t, &call, "get", nil)
	require.Equal(t, nonfungible.MethodOnApprove, call.Method)
	require.Equal(t, "sale", call.Msg)

	var ok bool
	c.coll.View(t, &ok, collection.MethodNFTIsApproved, collection.IsApprovedArgs{TokenID: "1", ApprovedAccountID: market})
	require.True(t, ok)

	revoke := collection.RevokeArgs{TokenID: "1", AccountID: market}
	c.coll.InvokeFail(t, common.ErrOneYoctoRequired, collection.MethodNFTRevoke, revoke)
	c.coll.WithDeposit(chain.OneYocto).Invoke(t, collection.MethodNFTRevoke, revoke)
	c.coll.View(t, &ok, collection.MethodNFTIsApproved, collection.IsApprovedArgs{TokenID: "1", ApprovedAccountID: market})
	require.False(t, ok)

	c.coll.WithDeposit(chain.OneYocto).Invoke(t, collection.MethodNFTApprove, collection.ApproveArgs{TokenID: "1", AccountID: c.owner})
	c.coll.WithDeposit(chain.OneYocto).Invoke(t, collection.MethodNFTRevokeAll, collection.TokenArgs{TokenID: "1"})
	require.Empty(t, c.token(t, "1").ApprovedAccountIDs)
}

func TestNFTTransferCall(t *testing.T) {
	c := newCollection(t)
	recv := c.e.DeployContract(t, "recv", nftrecv.Code(), chain.OneNEAR.Mul64(5), "", nil)
	c.mint(t, "1")
	c.mint(t, "2")

	call := c.coll.WithDeposit(chain.OneYocto)
	call.Invoke(t, collection.MethodNFTTransferCall, collection.TransferCallArgs{
		ReceiverID: recv,
		TokenID:    "1",
		Msg:        nftrecv.MsgReturn,
	})
	require.Equal(t, c.buyer, c.token(t, "1").OwnerID)

	call.Invoke(t, collection.MethodNFTTransferCall, collection.TransferCallArgs{
		ReceiverID: recv,
		TokenID:    "2",
	})
	require.Equal(t, recv, c.token(t, "2").OwnerID)

	// The vault follows the token, the new owner can claim it.
	before := c.e.Balance(recv)
	c.coll.WithSigner(recv).Invoke(t, collection.MethodBurn, collection.TokenArgs{TokenID: "2"})
	require.Equal(t, before.Add64(300), c.e.Balance(recv))
}
