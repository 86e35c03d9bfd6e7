package chain

import (
	"fmt"

	"github.com/gaze-network/uint128"
)

// Promise is a receipt under construction. It is materialised when the call
// that created it finishes successfully and is discarded otherwise.
type Promise struct {
	id       string
	receiver string
	actions  []Action
	deps     []*Promise
	ic       *Context
}

// ID returns the id of the receipt the promise becomes.
func (p *Promise) ID() string { return p.id }

// Receiver returns the account the promise is addressed to.
func (p *Promise) Receiver() string { return p.receiver }

// CreateAccount adds account creation to the batch.
func (p *Promise) CreateAccount() *Promise {
	p.actions = append(p.actions, CreateAccount())
	return p
}

// Transfer adds a native transfer to the batch. The amount is taken from
// the current account immediately.
func (p *Promise) Transfer(amount uint128.Uint128) *Promise {
	p.ic.withdraw(amount)
	p.actions = append(p.actions, Transfer(amount))
	return p
}

// DeployContract adds code deployment to the batch.
func (p *Promise) DeployContract(code *Code) *Promise {
	p.actions = append(p.actions, DeployContract(code))
	return p
}

// FunctionCall adds a method call to the batch. The deposit is taken from
// the current account and the gas from the current call budget immediately.
func (p *Promise) FunctionCall(method string, args any, deposit uint128.Uint128, gas uint64) *Promise {
	p.ic.UseGas(gas)
	p.ic.withdraw(deposit)
	p.actions = append(p.actions, FunctionCall(method, args, deposit, gas))
	return p
}

// Then makes next wait for the result of p and returns next, so chains read
// left to right.
func (p *Promise) Then(next *Promise) *Promise {
	if next.ic != p.ic {
		panic(fmt.Errorf("%w: promises belong to different calls", ErrInvalidPromise))
	}
	next.deps = append(next.deps, p)
	return next
}
