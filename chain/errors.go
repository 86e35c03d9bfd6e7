package chain

import "errors"

// Runtime errors. Receipts that fail with one of these keep it reachable
// through errors.Is on Outcome.Err and Result.Err.
var (
	// ErrInvalidAccountID is returned for account ids violating the naming
	// grammar.
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrAccountExists is returned when CreateAccount targets an existing
	// account.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound is returned when an action targets a missing account.
	ErrAccountNotFound = errors.New("account does not exist")
	// ErrCreateAccountNotAllowed is returned when an account other than the
	// direct parent tries to create a sub-account.
	ErrCreateAccountNotAllowed = errors.New("only the direct parent can create a sub-account")
	// ErrActorNoPermission is returned when a deploy or delete action is sent
	// by someone other than the account itself.
	ErrActorNoPermission = errors.New("actor has no permission")
	// ErrContractNotDeployed is returned for calls to accounts without code.
	ErrContractNotDeployed = errors.New("contract is not deployed")
	// ErrMethodNotFound is returned for calls of unknown methods.
	ErrMethodNotFound = errors.New("method not found")
	// ErrInvalidArguments is returned when call arguments can't be decoded.
	ErrInvalidArguments = errors.New("failed to deserialize input")
	// ErrNotEnoughBalance is returned when an account can't cover a transfer
	// or an attached deposit.
	ErrNotEnoughBalance = errors.New("not enough balance")
	// ErrLackBalanceForState is returned when the receiver's balance doesn't
	// cover its storage usage after a receipt.
	ErrLackBalanceForState = errors.New("lack of balance for state")
	// ErrBalanceOverflow is returned when a credit overflows u128.
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrOutOfGas is returned when a call exceeds its prepaid gas.
	ErrOutOfGas = errors.New("exceeded the prepaid gas")
	// ErrGasLimitExceeded is returned for transactions attaching more gas
	// than a single transaction may carry.
	ErrGasLimitExceeded = errors.New("gas limit exceeded")
	// ErrDepositNotAccepted is returned when a deposit is attached to a
	// method that is not payable.
	ErrDepositNotAccepted = errors.New("method doesn't accept deposit")
	// ErrPrivateMethod is returned when a private method is called by
	// another account.
	ErrPrivateMethod = errors.New("method is private")
	// ErrReadOnly is returned when a view call tries to change state or to
	// create promises.
	ErrReadOnly = errors.New("state change is not allowed in a view call")
	// ErrPromiseResultNotFound is returned for out-of-range promise result
	// indexes.
	ErrPromiseResultNotFound = errors.New("promise result not found")
	// ErrInvalidPromise is returned for promises combined across different
	// calls.
	ErrInvalidPromise = errors.New("invalid promise")
	// ErrExecution wraps non-error panics of contract code.
	ErrExecution = errors.New("smart contract panicked")
	// ErrSettleLimit is returned by Settle when the receipt queue doesn't
	// drain within the configured number of steps.
	ErrSettleLimit = errors.New("receipt limit reached while settling")
)
