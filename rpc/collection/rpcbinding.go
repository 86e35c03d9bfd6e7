// Package collection contains RPC wrappers for the Collection contract.
package collection

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/samber/lo"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	View(contract, method string, args any, res any) error
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	Call(contract, method string, args any, deposit uint128.Uint128) (*chain.TxResult, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	id      string
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	id    string
}

// NewReader creates an instance of ContractReader using provided account id
// and the given Invoker.
func NewReader(invoker Invoker, id string) *ContractReader {
	return &ContractReader{invoker, id}
}

// New creates an instance of Contract using provided account id and the
// given Actor.
func New(actor Actor, id string) *Contract {
	return &Contract{ContractReader{actor, id}, actor, id}
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (int, error) {
	var v int
	return v, c.invoker.View(c.id, "version", nil, &v)
}

// Config invokes `collection_config` method of contract.
func (c *ContractReader) Config() (*collection.ConfigView, error) {
	var res collection.ConfigView
	if err := c.invoker.View(c.id, collection.MethodConfig, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Metadata invokes `nft_metadata` method of contract.
func (c *ContractReader) Metadata() (*nonfungible.ContractMetadata, error) {
	var res nonfungible.ContractMetadata
	if err := c.invoker.View(c.id, collection.MethodNFTMetadata, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Index invokes `index` method of contract.
func (c *ContractReader) Index() (uint128.Uint128, error) {
	return c.amount(collection.MethodIndex, nil)
}

// VaultStake invokes `vault_stake` method of contract.
func (c *ContractReader) VaultStake() (uint128.Uint128, error) {
	return c.amount(collection.MethodVaultStake, nil)
}

// Token invokes `nft_token` method of contract. Nil is returned for unknown
// or burned tokens.
func (c *ContractReader) Token(id string) (*nonfungible.Token, error) {
	var res *nonfungible.Token
	return res, c.invoker.View(c.id, collection.MethodNFTToken, collection.TokenArgs{TokenID: id}, &res)
}

// Tokens invokes `nft_tokens` method of contract.
func (c *ContractReader) Tokens(from uint128.Uint128, limit uint64) ([]nonfungible.Token, error) {
	var res []nonfungible.Token
	return res, c.invoker.View(c.id, collection.MethodNFTTokens, pageArgs(from, limit), &res)
}

// TokensForOwner invokes `nft_tokens_for_owner` method of contract.
func (c *ContractReader) TokensForOwner(owner string, from uint128.Uint128, limit uint64) ([]nonfungible.Token, error) {
	p := pageArgs(from, limit)
	var res []nonfungible.Token
	return res, c.invoker.View(c.id, collection.MethodNFTTokensForOwner, collection.OwnerPageArgs{
		AccountID: owner,
		FromIndex: p.FromIndex,
		Limit:     p.Limit,
	}, &res)
}

// VaultOf invokes `vault_of` method of contract.
func (c *ContractReader) VaultOf(tokenID string) (string, error) {
	var res string
	return res, c.invoker.View(c.id, collection.MethodVaultOf, collection.TokenArgs{TokenID: tokenID}, &res)
}

// Reconciliations invokes `reconciliations` method of contract.
func (c *ContractReader) Reconciliations(from uint128.Uint128, limit uint64) ([]collection.Reconciliation, error) {
	var res []collection.Reconciliation
	return res, c.invoker.View(c.id, collection.MethodReconciliations, pageArgs(from, limit), &res)
}

// FTDepositsOf invokes `ft_deposits_of` method of contract.
func (c *ContractReader) FTDepositsOf(account string) (uint128.Uint128, error) {
	return c.amount(collection.MethodFTDepositsOf, common.AccountArgs{AccountID: account})
}

// StorageBalanceOf invokes `storage_balance_of` method of contract.
func (c *ContractReader) StorageBalanceOf(account string) (uint128.Uint128, error) {
	return c.amount(collection.MethodStorageBalanceOf, common.AccountArgs{AccountID: account})
}

func (c *ContractReader) amount(method string, args any) (uint128.Uint128, error) {
	var res chain.U128
	if err := c.invoker.View(c.id, method, args, &res); err != nil {
		return uint128.Zero, err
	}
	return res.Uint128(), nil
}

func pageArgs(from uint128.Uint128, limit uint64) collection.PageArgs {
	var p collection.PageArgs
	if !from.IsZero() {
		p.FromIndex = lo.ToPtr(chain.NewU128(from))
	}
	if limit != 0 {
		p.Limit = &limit
	}
	return p
}

// Mint creates a transaction invoking `nft_mint` method of the contract.
// The deposit must cover the price (native collections) and the vault
// reservation, the excess is refunded.
func (c *Contract) Mint(args collection.MintArgs, deposit uint128.Uint128) (string, error) {
	return send(c.actor.Call(c.id, collection.MethodMint, args, deposit))
}

// Burn creates a transaction invoking `burn` method of the contract.
func (c *Contract) Burn(tokenID string) (string, error) {
	return send(c.actor.Call(c.id, collection.MethodBurn, collection.TokenArgs{TokenID: tokenID}, uint128.Zero))
}

// Retry creates a transaction invoking `retry_reconciliation` method of the
// contract.
func (c *Contract) Retry(tokenID, leg string) (string, error) {
	return send(c.actor.Call(c.id, collection.MethodRetry, collection.RetryArgs{TokenID: tokenID, Leg: leg}, uint128.Zero))
}

// Transfer creates a transaction invoking `nft_transfer` method of the
// contract.
func (c *Contract) Transfer(receiver, tokenID string, memo *string) (string, error) {
	return send(c.actor.Call(c.id, collection.MethodNFTTransfer, collection.TransferArgs{
		ReceiverID: receiver,
		TokenID:    tokenID,
		Memo:       memo,
	}, chain.OneYocto))
}

// Approve creates a transaction invoking `nft_approve` method of the
// contract. The deposit pays for the approval record.
func (c *Contract) Approve(tokenID, account string, msg *string, deposit uint128.Uint128) (string, error) {
	return send(c.actor.Call(c.id, collection.MethodNFTApprove, collection.ApproveArgs{
		TokenID:   tokenID,
		AccountID: account,
		Msg:       msg,
	}, deposit))
}

// StorageDeposit creates a transaction invoking `storage_deposit` method of
// the contract crediting the account (the sender if empty).
func (c *Contract) StorageDeposit(account string, amount uint128.Uint128) (string, error) {
	var args common.StorageDepositArgs
	if account != "" {
		args.AccountID = &account
	}
	return send(c.actor.Call(c.id, common.MethodStorageDeposit, args, amount))
}

func send(res *chain.TxResult, err error) (string, error) {
	if res == nil {
		return "", err
	}
	return res.Hash, err
}
