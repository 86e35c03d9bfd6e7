// Package vault contains RPC wrappers for the Vault contract.
package vault

import (
	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
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

// Info invokes `vault_info` method of contract.
func (c *ContractReader) Info() (*vault.Info, error) {
	var res vault.Info
	if err := c.invoker.View(c.id, vault.MethodInfo, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DepositNative creates a transaction invoking `deposit_native` method of the
// contract with the amount attached. The transaction is sent immediately, its
// hash is returned.
func (c *Contract) DepositNative(amount uint128.Uint128) (string, error) {
	return send(c.actor.Call(c.id, common.MethodDepositNative, nil, amount))
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// Only the owner collection can invoke it successfully.
func (c *Contract) Withdraw(claimant string) (string, error) {
	return send(c.actor.Call(c.id, vault.MethodWithdraw, vault.WithdrawArgs{Claimant: claimant}, uint128.Zero))
}

func send(res *chain.TxResult, err error) (string, error) {
	if res == nil {
		return "", err
	}
	return res.Hash, err
}
