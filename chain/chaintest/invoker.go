package chaintest

import (
	"encoding/json"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/stretchr/testify/require"
)

// ContractInvoker calls a single contract on behalf of a signer.
type ContractInvoker struct {
	e *Executor

	Contract string
	Signer   string
	Deposit  uint128.Uint128
	Gas      uint64
}

// WithSigner returns a copy signing with another account.
func (c *ContractInvoker) WithSigner(signer string) *ContractInvoker {
	cp := *c
	cp.Signer = signer
	return &cp
}

// WithDeposit returns a copy attaching the deposit.
func (c *ContractInvoker) WithDeposit(deposit uint128.Uint128) *ContractInvoker {
	cp := *c
	cp.Deposit = deposit
	return &cp
}

// WithGas returns a copy attaching the gas.
func (c *ContractInvoker) WithGas(gas uint64) *ContractInvoker {
	cp := *c
	cp.Gas = gas
	return &cp
}

// Executor returns the executor the invoker belongs to.
func (c *ContractInvoker) Executor() *Executor { return c.e }

// InvokeUnsettled sends the transaction without executing its promises.
func (c *ContractInvoker) InvokeUnsettled(t testing.TB, method string, args any) *chain.TxResult {
	res, err := c.e.Chain.SendTransaction(chain.Transaction{
		Signer:   c.Signer,
		Receiver: c.Contract,
		Actions:  []chain.Action{chain.FunctionCall(method, args, c.Deposit, c.Gas)},
	})
	require.NoError(t, err)
	return res
}

// Invoke calls the method, checks that the call itself succeeded and settles
// all promises. The transaction hash is returned.
func (c *ContractInvoker) Invoke(t testing.TB, method string, args any) string {
	res := c.InvokeUnsettled(t, method, args)
	require.NoError(t, res.Outcome.Err, "%s.%s", c.Contract, method)
	c.e.Settle(t)
	return res.Hash
}

// InvokeAndDecode is Invoke decoding the result of the call into v.
func (c *ContractInvoker) InvokeAndDecode(t testing.TB, v any, method string, args any) string {
	res := c.InvokeUnsettled(t, method, args)
	require.NoError(t, res.Outcome.Err, "%s.%s", c.Contract, method)
	require.NoError(t, res.Outcome.Decode(v))
	c.e.Settle(t)
	return res.Hash
}

// InvokeFail checks that the call fails with target error and settles
// refunds. The failure is returned for further checks.
func (c *ContractInvoker) InvokeFail(t testing.TB, target error, method string, args any) error {
	res := c.InvokeUnsettled(t, method, args)
	require.ErrorIs(t, res.Outcome.Err, target, "%s.%s", c.Contract, method)
	c.e.Settle(t)
	return res.Outcome.Err
}

// View calls a view method decoding the result into v.
func (c *ContractInvoker) View(t testing.TB, v any, method string, args any) {
	b, err := c.e.Chain.View(c.Contract, method, chain.EncodeArgs(args))
	require.NoError(t, err, "%s.%s", c.Contract, method)
	require.NoError(t, json.Unmarshal(b, v), "%s.%s", c.Contract, method)
}
