// Package fungible contains RPC wrappers for the fungible token contract.
package fungible

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/fungible"
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

// BalanceOf invokes `ft_balance_of` method of contract.
func (c *ContractReader) BalanceOf(account string) (uint128.Uint128, error) {
	return c.amount(fungible.MethodBalanceOf, common.AccountArgs{AccountID: account})
}

// TotalSupply invokes `ft_total_supply` method of contract.
func (c *ContractReader) TotalSupply() (uint128.Uint128, error) {
	return c.amount(fungible.MethodTotalSupply, nil)
}

// Metadata invokes `ft_metadata` method of contract.
func (c *ContractReader) Metadata() (*fungible.Metadata, error) {
	var res fungible.Metadata
	if err := c.invoker.View(c.id, fungible.MethodMetadata, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StorageBalanceOf invokes `storage_balance_of` method of contract. Nil is
// returned for unregistered accounts.
func (c *ContractReader) StorageBalanceOf(account string) (*common.StorageBalance, error) {
	var res *common.StorageBalance
	return res, c.invoker.View(c.id, fungible.MethodStorageBalanceOf, common.AccountArgs{AccountID: account}, &res)
}

// StorageBalanceBounds invokes `storage_balance_bounds` method of contract.
func (c *ContractReader) StorageBalanceBounds() (*fungible.StorageBalanceBounds, error) {
	var res fungible.StorageBalanceBounds
	if err := c.invoker.View(c.id, fungible.MethodStorageBalanceBounds, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *ContractReader) amount(method string, args any) (uint128.Uint128, error) {
	var res chain.U128
	if err := c.invoker.View(c.id, method, args, &res); err != nil {
		return uint128.Zero, err
	}
	return res.Uint128(), nil
}

// Init creates a transaction invoking `new` method of the contract.
func (c *Contract) Init(args fungible.NewArgs) (string, error) {
	return send(c.actor.Call(c.id, fungible.MethodNew, args, uint128.Zero))
}

// Register creates a transaction invoking `storage_deposit` method of the
// contract registering the account with the registration deposit attached.
func (c *Contract) Register(account string) (string, error) {
	return send(c.actor.Call(c.id, common.MethodStorageDeposit, common.StorageDepositArgs{
		AccountID:        lo.ToPtr(account),
		RegistrationOnly: lo.ToPtr(true),
	}, common.FTRegistrationDeposit))
}

// Transfer creates a transaction invoking `ft_transfer` method of the
// contract.
func (c *Contract) Transfer(receiver string, amount uint128.Uint128, memo *string) (string, error) {
	return send(c.actor.Call(c.id, common.MethodFTTransfer, common.FTTransferArgs{
		ReceiverID: receiver,
		Amount:     chain.NewU128(amount),
		Memo:       memo,
	}, chain.OneYocto))
}

// TransferCall creates a transaction invoking `ft_transfer_call` method of
// the contract. The receiver hook and the refund run asynchronously, they
// are executed once the chain is settled.
func (c *Contract) TransferCall(receiver string, amount uint128.Uint128, msg string) (string, error) {
	return send(c.actor.Call(c.id, common.MethodFTTransferCall, common.FTTransferCallArgs{
		ReceiverID: receiver,
		Amount:     chain.NewU128(amount),
		Msg:        msg,
	}, chain.OneYocto))
}

func send(res *chain.TxResult, err error) (string, error) {
	if res == nil {
		return "", err
	}
	return res.Hash, err
}
