// Package chaintest provides helpers for testing contracts in the chain
// runtime, in the spirit of neo-go neotest: an Executor owning the chain and
// contract invokers bound to a signer.
package chaintest

import (
	"fmt"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Root is the top-level account tests create their accounts under.
const Root = "test"

// DefaultBalance is the balance of accounts made by NewAccount.
var DefaultBalance = chain.OneNEAR.Mul64(1000)

// Executor wraps a chain with the root account.
type Executor struct {
	Chain *chain.Blockchain
	Root  string

	accounts int
}

// NewExecutor creates a chain with a funded root account.
func NewExecutor(t testing.TB) *Executor {
	bc := chain.New(chain.DefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, bc.CreateAccount(Root, chain.OneNEAR.Mul64(1_000_000_000)))
	return &Executor{Chain: bc, Root: Root}
}

// NewAccount creates a genesis sub-account of the root. The balance defaults
// to DefaultBalance.
func (e *Executor) NewAccount(t testing.TB, balance ...uint128.Uint128) string {
	e.accounts++
	id := fmt.Sprintf("acc%d.%s", e.accounts, e.Root)
	b := DefaultBalance
	if len(balance) != 0 {
		b = balance[0]
	}
	require.NoError(t, e.Chain.CreateAccount(id, b))
	return id
}

// DeployContract creates "<name>.<root>" funded with stake, deploys code and
// calls init method with args if init is not empty. The account id is
// returned.
func (e *Executor) DeployContract(t testing.TB, name string, code *chain.Code, stake uint128.Uint128, init string, args any) string {
	id := name + "." + e.Root
	actions := []chain.Action{
		chain.CreateAccount(),
		chain.Transfer(stake),
		chain.DeployContract(code),
	}
	if init != "" {
		actions = append(actions, chain.FunctionCall(init, args, uint128.Zero, 100*chain.TGas))
	}
	_, err := chain.NewActor(e.Chain, e.Root).Send(id, actions...)
	require.NoError(t, err)
	e.Settle(t)
	return id
}

// Settle executes all pending receipts.
func (e *Executor) Settle(t testing.TB) {
	require.NoError(t, e.Chain.Settle())
}

// Balance returns account balance.
func (e *Executor) Balance(id string) uint128.Uint128 {
	return e.Chain.Balance(id)
}

// Transfer sends native amount, the transfer is settled.
func (e *Executor) Transfer(t testing.TB, from, to string, amount uint128.Uint128) {
	_, err := chain.NewActor(e.Chain, from).Send(to, chain.Transfer(amount))
	require.NoError(t, err)
	e.Settle(t)
}

// Failures returns failed outcomes of the transaction.
func (e *Executor) Failures(hash string) []*chain.Outcome {
	var res []*chain.Outcome
	for _, o := range e.Chain.TxOutcomes(hash) {
		if o.Err != nil {
			res = append(res, o)
		}
	}
	return res
}

// Events returns events of the given name emitted by the transaction.
func (e *Executor) Events(hash, name string) []chain.Event {
	var res []chain.Event
	for _, o := range e.Chain.TxOutcomes(hash) {
		res = append(res, o.EventsByName(name)...)
	}
	return res
}

// Logs returns all log lines of the transaction.
func (e *Executor) Logs(hash string) []string {
	var res []string
	for _, o := range e.Chain.TxOutcomes(hash) {
		res = append(res, o.Logs...)
	}
	return res
}

// Invoker returns contract invoker signing with the given account.
func (e *Executor) Invoker(contract, signer string) *ContractInvoker {
	return &ContractInvoker{
		e:        e,
		Contract: contract,
		Signer:   signer,
		Deposit:  uint128.Zero,
		Gas:      e.Chain.Config().MaxTxGas,
	}
}
