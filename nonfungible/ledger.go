package nonfungible

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/samber/lo"
)

const (
	prefixOwner        = 'o'
	prefixAccountToken = 't'
	prefixBalance      = 'b'
	prefixMetadata     = 'm'
	prefixApprovals    = 'a'
	prefixNextApproval = 'n'
	prefixUsed         = 'u'
	prefixTotalSupply  = 's'
)

// Ledger keeps NEP-171 token ownership in contract storage under a
// single-byte namespace.
type Ledger struct {
	ns byte
}

// NewLedger returns ledger storing its records under the ns prefix.
func NewLedger(ns byte) Ledger {
	return Ledger{ns: ns}
}

// Token is the NEP-171 token view.
type Token struct {
	TokenID            string            `json:"token_id"`
	OwnerID            string            `json:"owner_id"`
	Metadata           *TokenMetadata    `json:"metadata,omitempty"`
	ApprovedAccountIDs map[string]uint64 `json:"approved_account_ids"`
}

func (l Ledger) key(prefix byte, parts ...string) []byte {
	return append([]byte{l.ns}, common.Key(prefix, parts...)...)
}

// Mint registers a new token. Token ids are never reused, even after burn.
func (l Ledger) Mint(ic *chain.Context, tokenID, ownerID string, meta *TokenMetadata) Token {
	if tokenID == "" {
		panic(fmt.Errorf("%w: empty token id", common.ErrInvalidMetadata))
	}
	common.CheckAccountID(ownerID)
	if ic.Has(l.key(prefixUsed, tokenID)) {
		panic(fmt.Errorf("%w: %s", common.ErrTokenExists, tokenID))
	}
	if meta != nil {
		if err := meta.Validate(); err != nil {
			panic(err)
		}
		data, err := json.Marshal(meta)
		if err != nil {
			panic(err)
		}
		ic.Put(l.key(prefixMetadata, tokenID), data)
	}

	ic.Put(l.key(prefixUsed, tokenID), []byte{1})
	ic.Put(l.key(prefixOwner, tokenID), []byte(ownerID))
	l.updateBalance(ic, tokenID, ownerID, +1)
	l.updateTotalSupply(ic, +1)

	emit(ic, EventMint, []MintLog{{OwnerID: ownerID, TokenIDs: []string{tokenID}}})
	return Token{
		TokenID:            tokenID,
		OwnerID:            ownerID,
		Metadata:           meta,
		ApprovedAccountIDs: map[string]uint64{},
	}
}

// Burn removes the token from every index. Only the owner can burn it.
func (l Ledger) Burn(ic *chain.Context, tokenID, caller string) {
	owner, ok := l.OwnerOf(ic, tokenID)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrTokenNotFound, tokenID))
	}
	if owner != caller {
		panic(fmt.Errorf("%w: %s owns %s", common.ErrNotOwner, owner, tokenID))
	}
	l.remove(ic, tokenID, owner)
}

// Void removes the token on the contract's own authority, whoever owns it
// now. The id stays used. It returns the last owner, false if the token
// doesn't exist.
func (l Ledger) Void(ic *chain.Context, tokenID string) (string, bool) {
	owner, ok := l.OwnerOf(ic, tokenID)
	if !ok {
		return "", false
	}
	l.remove(ic, tokenID, owner)
	return owner, true
}

func (l Ledger) remove(ic *chain.Context, tokenID, owner string) {
	ic.Delete(l.key(prefixOwner, tokenID))
	ic.Delete(l.key(prefixMetadata, tokenID))
	ic.Delete(l.key(prefixApprovals, tokenID))
	ic.Delete(l.key(prefixNextApproval, tokenID))
	l.updateBalance(ic, tokenID, owner, -1)
	l.updateTotalSupply(ic, -1)

	emit(ic, EventBurn, []BurnLog{{OwnerID: owner, TokenIDs: []string{tokenID}}})
}

// OwnerOf returns the owner of an existing token.
func (l Ledger) OwnerOf(ic *chain.Context, tokenID string) (string, bool) {
	v := ic.Get(l.key(prefixOwner, tokenID))
	if v == nil {
		return "", false
	}
	return string(v), true
}

// Token returns token view or nil if there is no such token.
func (l Ledger) Token(ic *chain.Context, tokenID string) *Token {
	owner, ok := l.OwnerOf(ic, tokenID)
	if !ok {
		return nil
	}
	t := &Token{
		TokenID:            tokenID,
		OwnerID:            owner,
		ApprovedAccountIDs: l.approvals(ic, tokenID),
	}
	if data := ic.Get(l.key(prefixMetadata, tokenID)); data != nil {
		t.Metadata = new(TokenMetadata)
		if err := json.Unmarshal(data, t.Metadata); err != nil {
			panic(fmt.Errorf("decode %s metadata: %w", tokenID, err))
		}
	}
	return t
}

// Transfer moves the token from its owner to the receiver on behalf of
// sender, which must be the owner or an approved account. Approvals are
// cleared. The previous owner and its approvals are returned.
func (l Ledger) Transfer(ic *chain.Context, sender, receiver, tokenID string, approvalID *uint64, memo *string) (string, map[string]uint64) {
	common.CheckAccountID(receiver)
	owner, ok := l.OwnerOf(ic, tokenID)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrTokenNotFound, tokenID))
	}
	approvals := l.approvals(ic, tokenID)

	var authorized *string
	if sender != owner {
		id, ok := approvals[sender]
		if !ok {
			panic(fmt.Errorf("%w: %s is neither owner nor approved for %s", common.ErrUnauthorized, sender, tokenID))
		}
		if approvalID != nil && *approvalID != id {
			panic(fmt.Errorf("%w: approval id %d, expected %d", common.ErrUnauthorized, *approvalID, id))
		}
		authorized = lo.ToPtr(sender)
	}
	if owner == receiver {
		panic(fmt.Errorf("%w: current and next owner must differ", common.ErrUnauthorized))
	}

	ic.Delete(l.key(prefixApprovals, tokenID))
	l.move(ic, tokenID, owner, receiver)

	emit(ic, EventTransfer, []TransferLog{{
		AuthorizedID: authorized,
		OldOwnerID:   owner,
		NewOwnerID:   receiver,
		TokenIDs:     []string{tokenID},
		Memo:         memo,
	}})
	return owner, approvals
}

func (l Ledger) move(ic *chain.Context, tokenID, from, to string) {
	ic.Put(l.key(prefixOwner, tokenID), []byte(to))
	l.updateBalance(ic, tokenID, from, -1)
	l.updateBalance(ic, tokenID, to, +1)
}

// updateBalance keeps per-owner token count and token set.
func (l Ledger) updateBalance(ic *chain.Context, tokenID, owner string, diff int) {
	balanceKey := l.key(prefixBalance, owner)
	balance := int64(getU64(ic, balanceKey)) + int64(diff)
	if balance <= 0 {
		ic.Delete(balanceKey)
	} else {
		putU64(ic, balanceKey, uint64(balance))
	}

	accountTokenKey := l.key(prefixAccountToken, owner, tokenID)
	if diff < 0 {
		ic.Delete(accountTokenKey)
	} else {
		ic.Put(accountTokenKey, []byte{1})
	}
}

func (l Ledger) updateTotalSupply(ic *chain.Context, diff int) {
	key := l.key(prefixTotalSupply)
	putU64(ic, key, uint64(int64(getU64(ic, key))+int64(diff)))
}

// TotalSupply returns the number of existing tokens.
func (l Ledger) TotalSupply(ic *chain.Context) chain.U128 {
	return chain.U128From64(getU64(ic, l.key(prefixTotalSupply)))
}

// SupplyForOwner returns the number of tokens the account owns.
func (l Ledger) SupplyForOwner(ic *chain.Context, account string) chain.U128 {
	return chain.U128From64(getU64(ic, l.key(prefixBalance, account)))
}

// Tokens lists existing tokens in token id order.
func (l Ledger) Tokens(ic *chain.Context, fromIndex *chain.U128, limit *uint64) []Token {
	var ids []string
	ic.Find(l.key(prefixOwner), func(k, _ []byte) bool {
		ids = append(ids, string(k))
		return true
	})
	return l.page(ic, ids, fromIndex, limit)
}

// TokensForOwner lists tokens of the account in token id order.
func (l Ledger) TokensForOwner(ic *chain.Context, account string, fromIndex *chain.U128, limit *uint64) []Token {
	var ids []string
	ic.Find(append(l.key(prefixAccountToken, account), 0), func(k, _ []byte) bool {
		ids = append(ids, string(k))
		return true
	})
	return l.page(ic, ids, fromIndex, limit)
}

func (l Ledger) page(ic *chain.Context, ids []string, fromIndex *chain.U128, limit *uint64) []Token {
	from, size := Page(len(ids), fromIndex, limit)
	return lo.Map(lo.Subset(ids, from, size), func(id string, _ int) Token {
		return *l.Token(ic, id)
	})
}

// Page converts optional NEP-181 pagination arguments into a slice window.
// It panics for zero limit.
func Page(total int, fromIndex *chain.U128, limit *uint64) (int, uint) {
	from := uint128.Zero
	if fromIndex != nil {
		from = fromIndex.Uint128()
	}
	if from.Cmp64(uint64(total)) >= 0 {
		return total, 0
	}
	size := uint(total) - uint(from.Lo)
	if limit != nil {
		if *limit == 0 {
			panic(fmt.Errorf("%w: limit must be positive", common.ErrInvalidAmount))
		}
		size = min(size, uint(*limit))
	}
	return int(from.Lo), size
}

func getU64(ic *chain.Context, key []byte) uint64 {
	v := ic.Get(key)
	if len(v) != 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(v)
}

func putU64(ic *chain.Context, key []byte, v uint64) {
	ic.Put(key, binary.LittleEndian.AppendUint64(nil, v))
}
