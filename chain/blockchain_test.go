package chain

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type incArgs struct {
	By uint64 `json:"by"`
}

type sendArgs struct {
	To     string `json:"to"`
	Amount U128   `json:"amount"`
}

type callArgs struct {
	Target string          `json:"target"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

var counterKey = []byte("c")

func readCounter(ic *Context) uint64 {
	b := ic.Get(counterKey)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func counterCode() *Code {
	return NewCode("counter", nil,
		Proc("inc", func(ic *Context, args incArgs) {
			ic.Put(counterKey, u64Bytes(readCounter(ic)+args.By))
			ic.Emit(Event{Standard: "counter", Version: "1.0.0", Event: "inc", Data: []incArgs{args}})
		}),
		Getter("get", readCounter),
		Proc0("fail", func(ic *Context) {
			ic.Put(counterKey, u64Bytes(100))
			panic("boom")
		}),
		Proc0("deposit", func(*Context) {}).Payable(),
		Proc("send", func(ic *Context, args sendArgs) {
			ic.Promise(args.To).Transfer(args.Amount.Uint128())
		}),
		Proc("call", func(ic *Context, args callArgs) {
			ic.Promise(args.Target).FunctionCall(args.Method, args.Args, uint128.Zero, 20*TGas).
				Then(ic.Promise(ic.CurrentAccount()).FunctionCall("on_result", nil, uint128.Zero, 5*TGas))
		}),
		Func("forward", func(ic *Context, args callArgs) *Promise {
			return ic.Promise(args.Target).FunctionCall(args.Method, args.Args, uint128.Zero, 5*TGas)
		}),
		Proc0("on_result", func(ic *Context) {
			res := ic.PromiseResult(0)
			if res.Failed() {
				ic.Put([]byte("r"), []byte("failed"))
				return
			}
			ic.Put([]byte("r"), append([]byte("ok:"), res.Value...))
		}).Private(),
		Getter("last_result", func(ic *Context) string {
			return string(ic.Get([]byte("r")))
		}),
	)
}

func near(n uint64) uint128.Uint128 {
	return OneNEAR.Mul64(n)
}

type testChain struct {
	*Blockchain
	code *Code
}

func newTestChain(t *testing.T) *testChain {
	bc := New(DefaultConfig(), zaptest.NewLogger(t))
	for _, id := range []string{"alice", "bob", "counter", "relay"} {
		require.NoError(t, bc.CreateAccount(id, near(100)))
	}
	c := counterCode()
	require.NoError(t, bc.Deploy("counter", c))
	require.NoError(t, bc.Deploy("relay", c))
	return &testChain{Blockchain: bc, code: c}
}

func (c *testChain) call(t *testing.T, signer, contract, method string, args any, deposit uint128.Uint128) *Outcome {
	res, err := c.SendTransaction(Transaction{
		Signer:   signer,
		Receiver: contract,
		Actions:  []Action{FunctionCall(method, args, deposit, 100*TGas)},
	})
	require.NoError(t, err)
	return res.Outcome
}

func (c *testChain) view(t *testing.T, contract, method string, res any) {
	b, err := c.View(contract, method, nil)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, res))
}

func TestTransfer(t *testing.T) {
	c := newTestChain(t)

	res, err := NewActor(c.Blockchain, "alice").Send("bob", Transfer(near(10)))
	require.NoError(t, err)
	require.NotEmpty(t, res.Hash)
	require.Equal(t, near(90), c.Balance("alice"))
	require.Equal(t, near(110), c.Balance("bob"))

	t.Run("missing receiver", func(t *testing.T) {
		res, err := NewActor(c.Blockchain, "alice").Send("nobody", Transfer(near(1)))
		require.ErrorIs(t, err, ErrAccountNotFound)
		require.Equal(t, near(89), c.Balance("alice"))

		require.Equal(t, 1, c.Pending())
		require.NoError(t, c.Settle())
		require.Equal(t, near(90), c.Balance("alice"))

		outs := c.TxOutcomes(res.Hash)
		require.Len(t, outs, 2)
		require.Equal(t, SystemAccount, outs[1].Predecessor)
	})

	t.Run("not enough balance", func(t *testing.T) {
		_, err := NewActor(c.Blockchain, "alice").Send("bob", Transfer(near(1000)))
		require.ErrorIs(t, err, ErrNotEnoughBalance)
	})
}

func TestCreateAccount(t *testing.T) {
	c := newTestChain(t)
	alice := NewActor(c.Blockchain, "alice")

	_, err := alice.Send("sub.alice", CreateAccount(), Transfer(near(1)))
	require.NoError(t, err)
	require.Equal(t, near(1), c.Balance("sub.alice"))

	t.Run("exists", func(t *testing.T) {
		_, err := alice.Send("sub.alice", CreateAccount(), Transfer(near(1)))
		require.ErrorIs(t, err, ErrAccountExists)
		require.NoError(t, c.Settle())
		require.Equal(t, near(1), c.Balance("sub.alice"))
		require.Equal(t, near(99), c.Balance("alice"))
	})

	t.Run("not a parent", func(t *testing.T) {
		_, err := NewActor(c.Blockchain, "bob").Send("other.alice", CreateAccount(), Transfer(near(1)))
		require.ErrorIs(t, err, ErrCreateAccountNotAllowed)
		require.False(t, c.AccountExists("other.alice"))
	})

	t.Run("deep sub-account", func(t *testing.T) {
		_, err := alice.Send("a.b.alice", CreateAccount())
		require.ErrorIs(t, err, ErrCreateAccountNotAllowed)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := alice.Send("Bad.alice", CreateAccount())
		require.ErrorIs(t, err, ErrInvalidAccountID)
	})
}

func TestDeleteAccount(t *testing.T) {
	c := newTestChain(t)

	_, err := NewActor(c.Blockchain, "bob").Send("bob", DeleteAccount("alice"))
	require.NoError(t, err)
	require.False(t, c.AccountExists("bob"))
	require.NoError(t, c.Settle())
	require.Equal(t, near(200), c.Balance("alice"))

	_, err = NewActor(c.Blockchain, "alice").Send("counter", DeleteAccount("alice"))
	require.ErrorIs(t, err, ErrActorNoPermission)
}

func TestStorageStaking(t *testing.T) {
	c := newTestChain(t)
	cost := c.Config().StorageByteCost
	require.NoError(t, c.CreateAccount("poor", cost.Mul64(c.Config().AccountOverhead)))

	_, err := NewActor(c.Blockchain, "poor").Send("poor", DeployContract(c.code))
	require.ErrorIs(t, err, ErrLackBalanceForState)

	a, err := c.Account("counter")
	require.NoError(t, err)
	usage := a.StorageUsage
	require.Equal(t, c.Config().AccountOverhead+c.code.Size(), usage)

	require.Nil(t, c.call(t, "alice", "counter", "inc", incArgs{By: 1}, uint128.Zero).Err)
	a, err = c.Account("counter")
	require.NoError(t, err)
	require.Equal(t, usage+c.Config().RecordOverhead+uint64(len(counterKey)+8), a.StorageUsage)
}

func TestFunctionCall(t *testing.T) {
	c := newTestChain(t)

	out := c.call(t, "alice", "counter", "inc", incArgs{By: 5}, uint128.Zero)
	require.NoError(t, out.Err)
	require.Len(t, out.Events, 1)
	require.Equal(t, "inc", out.Events[0].Event)

	ev, ok := ParseEvent(out.Logs[0])
	require.True(t, ok)
	var data []incArgs
	require.NoError(t, ev.DecodeData(&data))
	require.Equal(t, []incArgs{{By: 5}}, data)

	var v uint64
	c.view(t, "counter", "get", &v)
	require.EqualValues(t, 5, v)

	t.Run("panic rolls back", func(t *testing.T) {
		out := c.call(t, "alice", "counter", "fail", nil, uint128.Zero)
		require.ErrorIs(t, out.Err, ErrExecution)
		require.ErrorContains(t, out.Err, "boom")
		c.view(t, "counter", "get", &v)
		require.EqualValues(t, 5, v)
	})

	t.Run("deposit to non-payable", func(t *testing.T) {
		out := c.call(t, "alice", "counter", "inc", incArgs{By: 1}, near(1))
		require.ErrorIs(t, out.Err, ErrDepositNotAccepted)
		require.Equal(t, near(99), c.Balance("alice"))
		require.NoError(t, c.Settle())
		require.Equal(t, near(100), c.Balance("alice"))
	})

	t.Run("payable", func(t *testing.T) {
		before := c.Balance("counter")
		require.NoError(t, c.call(t, "alice", "counter", "deposit", nil, near(1)).Err)
		require.Equal(t, before.Add(near(1)), c.Balance("counter"))
	})

	t.Run("private", func(t *testing.T) {
		out := c.call(t, "alice", "counter", "on_result", nil, uint128.Zero)
		require.ErrorIs(t, out.Err, ErrPrivateMethod)
	})

	t.Run("unknown method", func(t *testing.T) {
		out := c.call(t, "alice", "counter", "nope", nil, uint128.Zero)
		require.ErrorIs(t, out.Err, ErrMethodNotFound)
	})

	t.Run("no contract", func(t *testing.T) {
		out := c.call(t, "alice", "bob", "inc", nil, uint128.Zero)
		require.ErrorIs(t, out.Err, ErrContractNotDeployed)
	})

	t.Run("bad arguments", func(t *testing.T) {
		out := c.call(t, "alice", "counter", "inc", []byte(`{"by":"x"}`), uint128.Zero)
		require.ErrorIs(t, out.Err, ErrInvalidArguments)
	})
}

func TestGas(t *testing.T) {
	c := newTestChain(t)

	_, err := c.SendTransaction(Transaction{
		Signer:   "alice",
		Receiver: "counter",
		Actions:  []Action{FunctionCall("inc", incArgs{By: 1}, uint128.Zero, c.Config().MaxTxGas+1)},
	})
	require.ErrorIs(t, err, ErrGasLimitExceeded)

	res, err := c.SendTransaction(Transaction{
		Signer:   "alice",
		Receiver: "counter",
		Actions:  []Action{FunctionCall("inc", incArgs{By: 1}, uint128.Zero, TGas/2)},
	})
	require.NoError(t, err)
	require.ErrorIs(t, res.Outcome.Err, ErrOutOfGas)

	// Gas attached to promises comes from the caller budget.
	res, err = c.SendTransaction(Transaction{
		Signer:   "alice",
		Receiver: "relay",
		Actions: []Action{FunctionCall("call", callArgs{Target: "counter", Method: "get"},
			uint128.Zero, 10*TGas)},
	})
	require.NoError(t, err)
	require.ErrorIs(t, res.Outcome.Err, ErrOutOfGas)
}

func TestPromises(t *testing.T) {
	c := newTestChain(t)
	require.NoError(t, c.call(t, "alice", "counter", "inc", incArgs{By: 7}, uint128.Zero).Err)

	var last string

	t.Run("success callback", func(t *testing.T) {
		out := c.call(t, "alice", "relay", "call", callArgs{Target: "counter", Method: "get"}, uint128.Zero)
		require.NoError(t, out.Err)
		require.Len(t, out.Spawned, 2)
		require.Equal(t, 2, c.Pending())

		c.view(t, "relay", "last_result", &last)
		require.Empty(t, last)

		require.NoError(t, c.Settle())
		require.Zero(t, c.Pending())
		c.view(t, "relay", "last_result", &last)
		require.Equal(t, "ok:7", last)
	})

	t.Run("failure callback", func(t *testing.T) {
		require.NoError(t, c.call(t, "alice", "relay", "call", callArgs{Target: "counter", Method: "fail"}, uint128.Zero).Err)
		require.NoError(t, c.Settle())
		c.view(t, "relay", "last_result", &last)
		require.Equal(t, "failed", last)
	})

	t.Run("forwarded result", func(t *testing.T) {
		fwd, err := json.Marshal(callArgs{Target: "counter", Method: "get"})
		require.NoError(t, err)
		require.NoError(t, c.call(t, "alice", "relay", "call",
			callArgs{Target: "relay", Method: "forward", Args: fwd}, uint128.Zero).Err)
		require.NoError(t, c.Settle())
		c.view(t, "relay", "last_result", &last)
		require.Equal(t, "ok:7", last)
	})

	t.Run("transfer from contract", func(t *testing.T) {
		before := c.Balance("relay")
		out := c.call(t, "alice", "relay", "send", sendArgs{To: "bob", Amount: U128(near(1))}, uint128.Zero)
		require.NoError(t, out.Err)
		require.Equal(t, before.Sub(near(1)), c.Balance("relay"))
		require.Equal(t, near(100), c.Balance("bob"))
		require.NoError(t, c.Settle())
		require.Equal(t, near(101), c.Balance("bob"))
	})

	t.Run("failed transfer is refunded", func(t *testing.T) {
		before := c.Balance("relay")
		require.NoError(t, c.call(t, "alice", "relay", "send", sendArgs{To: "nobody", Amount: U128(near(1))}, uint128.Zero).Err)
		require.NoError(t, c.Settle())
		require.Equal(t, before, c.Balance("relay"))
	})

	t.Run("transfer beyond balance", func(t *testing.T) {
		out := c.call(t, "alice", "relay", "send", sendArgs{To: "bob", Amount: U128(near(1000))}, uint128.Zero)
		require.ErrorIs(t, out.Err, ErrNotEnoughBalance)
	})
}

func TestView(t *testing.T) {
	c := newTestChain(t)

	_, err := c.View("counter", "inc", EncodeArgs(incArgs{By: 1}))
	require.ErrorIs(t, err, ErrReadOnly)

	_, err = c.View("alice", "get", nil)
	require.ErrorIs(t, err, ErrContractNotDeployed)

	_, err = c.View("nobody", "get", nil)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCodeManifest(t *testing.T) {
	c := counterCode()
	m := c.Manifest().ABI.GetMethod("inc", -1)
	require.NotNil(t, m)
	require.Len(t, m.Parameters, 1)
	require.Equal(t, "by", m.Parameters[0].Name)
	require.False(t, m.Safe)

	m = c.Manifest().ABI.GetMethod("get", -1)
	require.NotNil(t, m)
	require.True(t, m.Safe)

	require.Equal(t, c.Hash(), counterCode().Hash())
	require.Panics(t, func() {
		NewCode("dup", nil, Proc0("a", func(*Context) {}), Proc0("a", func(*Context) {}))
	})
}
