package collection

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
)

type (
	// TransferArgs are arguments of nft_transfer.
	TransferArgs struct {
		ReceiverID string  `json:"receiver_id"`
		TokenID    string  `json:"token_id"`
		ApprovalID *uint64 `json:"approval_id,omitempty"`
		Memo       *string `json:"memo,omitempty"`
	}

	// TransferCallArgs are arguments of nft_transfer_call.
	TransferCallArgs struct {
		ReceiverID string  `json:"receiver_id"`
		TokenID    string  `json:"token_id"`
		ApprovalID *uint64 `json:"approval_id,omitempty"`
		Memo       *string `json:"memo,omitempty"`
		Msg        string  `json:"msg"`
	}

	// ApproveArgs are arguments of nft_approve.
	ApproveArgs struct {
		TokenID   string  `json:"token_id"`
		AccountID string  `json:"account_id"`
		Msg       *string `json:"msg,omitempty"`
	}

	// RevokeArgs are arguments of nft_revoke.
	RevokeArgs struct {
		TokenID   string `json:"token_id"`
		AccountID string `json:"account_id"`
	}

	// IsApprovedArgs are arguments of nft_is_approved.
	IsApprovedArgs struct {
		TokenID           string  `json:"token_id"`
		ApprovedAccountID string  `json:"approved_account_id"`
		ApprovalID        *uint64 `json:"approval_id,omitempty"`
	}

	// OwnerPageArgs are arguments of nft_tokens_for_owner.
	OwnerPageArgs struct {
		AccountID string      `json:"account_id"`
		FromIndex *chain.U128 `json:"from_index,omitempty"`
		Limit     *uint64     `json:"limit,omitempty"`
	}
)

// NEP-171 method names.
const (
	MethodNFTTransfer        = "nft_transfer"
	MethodNFTTransferCall    = "nft_transfer_call"
	MethodNFTResolveTransfer = nonfungible.MethodResolveTransfer
	MethodNFTToken           = "nft_token"
	MethodNFTApprove         = "nft_approve"
	MethodNFTRevoke          = "nft_revoke"
	MethodNFTRevokeAll       = "nft_revoke_all"
	MethodNFTIsApproved      = "nft_is_approved"
	MethodNFTTotalSupply     = "nft_total_supply"
	MethodNFTTokens          = "nft_tokens"
	MethodNFTSupplyForOwner  = "nft_supply_for_owner"
	MethodNFTTokensForOwner  = "nft_tokens_for_owner"
	MethodNFTMetadata        = "nft_metadata"
)

// NFTTransfer is a NEP-171 standard method. Requires exactly one yocto.
//
// Produces nft_transfer event.
func NFTTransfer(ic *chain.Context, args TransferArgs) {
	common.CheckOneYocto(ic)
	ledger.Transfer(ic, ic.Predecessor(), args.ReceiverID, args.TokenID, args.ApprovalID, args.Memo)
}

// NFTTransferCall is a NEP-171 standard method transferring the token and
// calling nft_on_transfer of the receiver, which may ask to return it.
// Requires exactly one yocto.
func NFTTransferCall(ic *chain.Context, args TransferCallArgs) *chain.Promise {
	common.CheckOneYocto(ic)
	return ledger.TransferCall(ic, ic.Predecessor(), args.ReceiverID, args.TokenID, args.ApprovalID, args.Memo, args.Msg)
}

// NFTResolveTransfer is the private continuation of nft_transfer_call.
func NFTResolveTransfer(ic *chain.Context, args nonfungible.ResolveTransferArgs) bool {
	return ledger.ResolveTransfer(ic, args)
}

// NFTToken returns the token or null.
func NFTToken(ic *chain.Context, args TokenArgs) *nonfungible.Token {
	return ledger.Token(ic, args.TokenID)
}

// NFTApprove approves the account to transfer the token. At least one yocto
// must be attached.
func NFTApprove(ic *chain.Context, args ApproveArgs) *chain.Promise {
	if ic.AttachedDeposit().IsZero() {
		panic(fmt.Errorf("%w: approval requires attached deposit", common.ErrInsufficientDeposit))
	}
	return ledger.Approve(ic, args.TokenID, args.AccountID, args.Msg)
}

// NFTRevoke revokes approval of the account. Requires exactly one yocto.
func NFTRevoke(ic *chain.Context, args RevokeArgs) {
	common.CheckOneYocto(ic)
	ledger.Revoke(ic, args.TokenID, args.AccountID)
}

// NFTRevokeAll revokes all approvals of the token. Requires exactly one
// yocto.
func NFTRevokeAll(ic *chain.Context, args TokenArgs) {
	common.CheckOneYocto(ic)
	ledger.RevokeAll(ic, args.TokenID)
}

// NFTIsApproved checks token approval.
func NFTIsApproved(ic *chain.Context, args IsApprovedArgs) bool {
	return ledger.IsApproved(ic, args.TokenID, args.ApprovedAccountID, args.ApprovalID)
}

// NFTTotalSupply returns the number of existing tokens.
func NFTTotalSupply(ic *chain.Context) chain.U128 {
	return ledger.TotalSupply(ic)
}

// NFTTokens lists existing tokens.
func NFTTokens(ic *chain.Context, args PageArgs) []nonfungible.Token {
	return ledger.Tokens(ic, args.FromIndex, args.Limit)
}

// NFTSupplyForOwner returns the number of tokens of the account.
func NFTSupplyForOwner(ic *chain.Context, args common.AccountArgs) chain.U128 {
	return ledger.SupplyForOwner(ic, args.AccountID)
}

// NFTTokensForOwner lists tokens of the account.
func NFTTokensForOwner(ic *chain.Context, args OwnerPageArgs) []nonfungible.Token {
	return ledger.TokensForOwner(ic, args.AccountID, args.FromIndex, args.Limit)
}

// NFTMetadata returns collection metadata.
func NFTMetadata(ic *chain.Context) nonfungible.ContractMetadata {
	var m nonfungible.ContractMetadata
	data := ic.Get([]byte{metadataKey})
	if data == nil {
		panic(common.ErrNotInitialized)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Errorf("decode metadata: %w", err))
	}
	return m
}
