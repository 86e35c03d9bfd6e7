package nonfungible

import (
	"encoding/json"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
)

// Receiver hook and callback method names.
const (
	MethodOnTransfer      = "nft_on_transfer"
	MethodResolveTransfer = "nft_resolve_transfer"
	MethodOnApprove       = "nft_on_approve"
)

// OnTransferArgs are arguments of the nft_on_transfer receiver hook. The
// hook returns true if the token should be returned to the previous owner.
type OnTransferArgs struct {
	SenderID        string `json:"sender_id"`
	PreviousOwnerID string `json:"previous_owner_id"`
	TokenID         string `json:"token_id"`
	Msg             string `json:"msg"`
}

// ResolveTransferArgs are arguments of nft_resolve_transfer.
type ResolveTransferArgs struct {
	PreviousOwnerID    string            `json:"previous_owner_id"`
	ReceiverID         string            `json:"receiver_id"`
	TokenID            string            `json:"token_id"`
	ApprovedAccountIDs map[string]uint64 `json:"approved_account_ids,omitempty"`
}

// OnApproveArgs are arguments of the nft_on_approve hook.
type OnApproveArgs struct {
	TokenID    string `json:"token_id"`
	OwnerID    string `json:"owner_id"`
	ApprovalID uint64 `json:"approval_id"`
	Msg        string `json:"msg"`
}

// TransferCall transfers the token and calls the receiver hook, the result
// is resolved by nft_resolve_transfer of the current contract.
func (l Ledger) TransferCall(ic *chain.Context, sender, receiver, tokenID string, approvalID *uint64, memo *string, msg string) *chain.Promise {
	prevOwner, prevApprovals := l.Transfer(ic, sender, receiver, tokenID, approvalID, memo)
	return ic.Promise(receiver).
		FunctionCall(MethodOnTransfer, OnTransferArgs{
			SenderID:        sender,
			PreviousOwnerID: prevOwner,
			TokenID:         tokenID,
			Msg:             msg,
		}, uint128.Zero, common.GasForNFTOnTransfer).
		Then(ic.Promise(ic.CurrentAccount()).FunctionCall(MethodResolveTransfer, ResolveTransferArgs{
			PreviousOwnerID:    prevOwner,
			ReceiverID:         receiver,
			TokenID:            tokenID,
			ApprovedAccountIDs: prevApprovals,
		}, uint128.Zero, common.GasForNFTResolve))
}

// ResolveTransfer returns the token to its previous owner if the receiver
// hook failed or asked for it. It returns true if the transfer stays.
func (l Ledger) ResolveTransfer(ic *chain.Context, args ResolveTransferArgs) bool {
	res := ic.PromiseResult(0)
	if !res.Failed() {
		var returnToken bool
		if err := json.Unmarshal(res.Value, &returnToken); err == nil && !returnToken {
			return true
		}
	}

	owner, ok := l.OwnerOf(ic, args.TokenID)
	if !ok || owner != args.ReceiverID {
		// Burned or transferred further by the receiver.
		return true
	}

	l.move(ic, args.TokenID, args.ReceiverID, args.PreviousOwnerID)
	if len(args.ApprovedAccountIDs) != 0 {
		l.putApprovals(ic, args.TokenID, args.ApprovedAccountIDs)
	}
	emit(ic, EventTransfer, []TransferLog{{
		OldOwnerID: args.ReceiverID,
		NewOwnerID: args.PreviousOwnerID,
		TokenIDs:   []string{args.TokenID},
	}})
	return false
}

// Approve grants the account a right to transfer the token. Only the owner
// can approve. With msg set, the account's nft_on_approve is called and its
// promise returned.
func (l Ledger) Approve(ic *chain.Context, tokenID, account string, msg *string) *chain.Promise {
	common.CheckAccountID(account)
	owner := l.checkOwner(ic, tokenID)

	nextKey := l.key(prefixNextApproval, tokenID)
	id := getU64(ic, nextKey)
	putU64(ic, nextKey, id+1)

	approvals := l.approvals(ic, tokenID)
	approvals[account] = id
	l.putApprovals(ic, tokenID, approvals)

	if msg == nil {
		return nil
	}
	return ic.Promise(account).FunctionCall(MethodOnApprove, OnApproveArgs{
		TokenID:    tokenID,
		OwnerID:    owner,
		ApprovalID: id,
		Msg:        *msg,
	}, uint128.Zero, common.GasForNFTOnApprove)
}

// Revoke removes approval of the account.
func (l Ledger) Revoke(ic *chain.Context, tokenID, account string) {
	l.checkOwner(ic, tokenID)
	approvals := l.approvals(ic, tokenID)
	if _, ok := approvals[account]; !ok {
		return
	}
	delete(approvals, account)
	l.putApprovals(ic, tokenID, approvals)
}

// RevokeAll removes all approvals of the token.
func (l Ledger) RevokeAll(ic *chain.Context, tokenID string) {
	l.checkOwner(ic, tokenID)
	ic.Delete(l.key(prefixApprovals, tokenID))
}

// IsApproved checks whether the account is approved for the token, with the
// given approval id if it's set.
func (l Ledger) IsApproved(ic *chain.Context, tokenID, account string, approvalID *uint64) bool {
	if _, ok := l.OwnerOf(ic, tokenID); !ok {
		panic(fmt.Errorf("%w: %s", common.ErrTokenNotFound, tokenID))
	}
	id, ok := l.approvals(ic, tokenID)[account]
	if !ok {
		return false
	}
	return approvalID == nil || *approvalID == id
}

func (l Ledger) checkOwner(ic *chain.Context, tokenID string) string {
	owner, ok := l.OwnerOf(ic, tokenID)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrTokenNotFound, tokenID))
	}
	if owner != ic.Predecessor() {
		panic(fmt.Errorf("%w: %s owns %s", common.ErrNotOwner, owner, tokenID))
	}
	return owner
}

func (l Ledger) approvals(ic *chain.Context, tokenID string) map[string]uint64 {
	res := make(map[string]uint64)
	data := ic.Get(l.key(prefixApprovals, tokenID))
	if data == nil {
		return res
	}
	if err := json.Unmarshal(data, &res); err != nil {
		panic(fmt.Errorf("decode %s approvals: %w", tokenID, err))
	}
	return res
}

func (l Ledger) putApprovals(ic *chain.Context, tokenID string, approvals map[string]uint64) {
	key := l.key(prefixApprovals, tokenID)
	if len(approvals) == 0 {
		ic.Delete(key)
		return
	}
	data, err := json.Marshal(approvals)
	if err != nil {
		panic(err)
	}
	ic.Put(key, data)
}
