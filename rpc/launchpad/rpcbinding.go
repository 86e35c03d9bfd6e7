// Package launchpad contains RPC wrappers for the Launchpad contract.
package launchpad

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/contracts/launchpad"
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

// CollectionStake invokes `collection_stake` method of contract.
func (c *ContractReader) CollectionStake() (uint128.Uint128, error) {
	var res chain.U128
	if err := c.invoker.View(c.id, launchpad.MethodCollectionStake, nil, &res); err != nil {
		return uint128.Zero, err
	}
	return res.Uint128(), nil
}

// CollectionAccountID invokes `collection_account_id` method of contract.
func (c *ContractReader) CollectionAccountID(symbol string) (string, error) {
	var res string
	return res, c.invoker.View(c.id, launchpad.MethodCollectionAccountID, launchpad.SymbolArgs{Symbol: symbol}, &res)
}

// Launch creates a transaction invoking `launch` method of the contract. The
// deposit must cover the collection stake, the excess is refunded. The
// collection is available once the chain is settled.
func (c *Contract) Launch(args launchpad.LaunchArgs, deposit uint128.Uint128) (string, error) {
	res, err := c.actor.Call(c.id, launchpad.MethodLaunch, args, deposit)
	if res == nil {
		return "", err
	}
	return res.Hash, err
}
