/*
Package chain implements a deterministic in-process account-model blockchain
runtime contracts of this repository are executed in.

Accounts are named hierarchically ("collection.launchpad.near"), only the
direct parent can create a sub-account. Every account holds a native balance
in yocto (10^-24 of the native coin) and is charged for the storage it uses:
the account record, its contract code and every stored record. After each
receipt the receiver's balance must cover its storage usage multiplied by
Config.StorageByteCost.

Contracts are sets of Go functions registered with NewCode. A method receives
*Context giving access to the call environment (current account, predecessor,
signer, attached deposit), contract storage, logs and promises. Contract code
reports failures by panicking, the runtime rolls the receipt back.

# Receipts and promises

A transaction produces a receipt which is executed at once. Promises created
during execution become new receipts when the call succeeds; they run later,
in FIFO order, when Step or Settle is called. Promise.Then makes a receipt
wait for the result of another one, the result is available through
Context.PromiseResult whether the dependency succeeded or failed. A method
returning a *Promise passes the outcome of that promise to its own waiters.

Deposits attached to a failed receipt are refunded to its predecessor with a
system refund receipt. Gas is a per-call budget only: it bounds the work a
call and its promises may do, nothing is charged for it.

# Storage layout

Chain state lives in neo-go MemoryStore:

	'a' + account id                    -> Account (neo-go io encoding)
	's' + account id + 0x00 + user key  -> contract record

Every receipt works on a MemCachedStore layered over it, which is persisted
only when the receipt succeeds.

# Events

Context.Emit logs NEP-297 events prefixed with "EVENT_JSON:", they are also
collected in Outcome.Events of successful receipts.
*/
package chain
