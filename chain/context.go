package chain

import (
	"fmt"

	"github.com/gaze-network/uint128"
)

// Context is the execution environment of a single contract call. Contract
// methods receive it as the first argument and use it to read the call
// environment, to access contract storage and to create promises.
//
// Methods panic on failures the same way contract code does, the runtime
// turns the panic into a failed receipt.
type Context struct {
	bc       *Blockchain
	st       *state
	receipt  *Receipt
	deposit  uint128.Uint128
	prepaid  uint64
	used     uint64
	readOnly bool
	inputs   []Result

	promises []*Promise
	returned *Promise
	logs     []string
	events   []Event
}

// CurrentAccount returns the account the contract is deployed to.
func (ic *Context) CurrentAccount() string { return ic.receipt.Receiver }

// Predecessor returns the account that issued the call: a transaction signer
// or a contract that created the promise.
func (ic *Context) Predecessor() string { return ic.receipt.Predecessor }

// Signer returns the signer of the transaction the call descends from.
func (ic *Context) Signer() string { return ic.receipt.Signer }

// AttachedDeposit returns native amount attached to the call. It is already
// credited to the current account.
func (ic *Context) AttachedDeposit() uint128.Uint128 { return ic.deposit }

// AccountBalance returns the balance of the current account.
func (ic *Context) AccountBalance() uint128.Uint128 {
	return ic.self().Balance
}

// StorageUsage returns the number of bytes the current account is charged
// for.
func (ic *Context) StorageUsage() uint64 {
	return ic.self().StorageUsage
}

// StorageByteCost returns the price of one byte of storage.
func (ic *Context) StorageByteCost() uint128.Uint128 {
	return ic.bc.cfg.StorageByteCost
}

// PrepaidGas returns gas attached to the call.
func (ic *Context) PrepaidGas() uint64 { return ic.prepaid }

// UsedGas returns gas used so far, including gas attached to promises.
func (ic *Context) UsedGas() uint64 { return ic.used }

// UseGas charges the call budget. It panics with ErrOutOfGas when the budget
// is exhausted.
func (ic *Context) UseGas(g uint64) {
	ic.used += g
	if ic.used > ic.prepaid || ic.used < g {
		panic(fmt.Errorf("%w: used %s of %s", ErrOutOfGas, GasString(ic.used), GasString(ic.prepaid)))
	}
}

// TxHash returns the hash of the originating transaction.
func (ic *Context) TxHash() string { return ic.receipt.TxHash }

// Get returns a value stored by the contract or nil.
func (ic *Context) Get(key []byte) []byte {
	ic.UseGas(ic.bc.cfg.StorageReadGas)
	v, _ := ic.st.get(ic.CurrentAccount(), key)
	return v
}

// Has checks whether the key is stored.
func (ic *Context) Has(key []byte) bool {
	ic.UseGas(ic.bc.cfg.StorageReadGas)
	_, ok := ic.st.get(ic.CurrentAccount(), key)
	return ok
}

// Put stores a value, storage usage of the account grows accordingly.
func (ic *Context) Put(key, value []byte) {
	ic.checkWritable()
	ic.UseGas(ic.bc.cfg.StorageWriteGas)
	if err := ic.st.put(ic.CurrentAccount(), key, value); err != nil {
		panic(err)
	}
}

// Delete removes a stored value.
func (ic *Context) Delete(key []byte) {
	ic.checkWritable()
	ic.UseGas(ic.bc.cfg.StorageWriteGas)
	if err := ic.st.del(ic.CurrentAccount(), key); err != nil {
		panic(err)
	}
}

// Find iterates over stored records having the prefix in key order, keys are
// passed without the prefix. Iteration stops when f returns false. The
// storage must not be changed from f.
func (ic *Context) Find(prefix []byte, f func(key, value []byte) bool) {
	ic.UseGas(ic.bc.cfg.StorageReadGas)
	ic.st.find(ic.CurrentAccount(), prefix, func(k, v []byte) bool {
		ic.UseGas(ic.bc.cfg.StorageReadGas)
		return f(k, v)
	})
}

// Promise starts a new batch of actions to the receiver.
func (ic *Context) Promise(receiver string) *Promise {
	ic.checkWritable()
	if err := ValidateAccountID(receiver); err != nil {
		panic(err)
	}
	ic.receipt.nonce++
	p := &Promise{
		id:       hashID([]byte(ic.receipt.ID), u64Bytes(ic.receipt.nonce), []byte(receiver)),
		receiver: receiver,
		ic:       ic,
	}
	ic.promises = append(ic.promises, p)
	return p
}

// PromiseResultsCount returns the number of results available to the call.
func (ic *Context) PromiseResultsCount() int { return len(ic.inputs) }

// PromiseResult returns the result of the i-th promise the call waited for.
func (ic *Context) PromiseResult(i int) Result {
	if i < 0 || i >= len(ic.inputs) {
		panic(fmt.Errorf("%w: index %d of %d", ErrPromiseResultNotFound, i, len(ic.inputs)))
	}
	return ic.inputs[i]
}

// Log adds a message to the receipt logs.
func (ic *Context) Log(msg string) {
	ic.logs = append(ic.logs, msg)
}

// Logf is Log with formatting.
func (ic *Context) Logf(format string, args ...any) {
	ic.Log(fmt.Sprintf(format, args...))
}

// Emit logs a structured event.
func (ic *Context) Emit(ev Event) {
	ic.events = append(ic.events, ev)
	ic.Log(ev.String())
}

func (ic *Context) self() *Account {
	a, err := ic.st.account(ic.CurrentAccount())
	if err != nil {
		panic(err)
	}
	return a
}

func (ic *Context) withdraw(amount uint128.Uint128) {
	if amount.IsZero() {
		return
	}
	if err := ic.st.debit(ic.CurrentAccount(), amount); err != nil {
		panic(err)
	}
}

func (ic *Context) checkWritable() {
	if ic.readOnly {
		panic(ErrReadOnly)
	}
}
