package common

import (
	"errors"

	"github.com/nspcc-dev/launchpad-contract/chain"
)

// Contract errors. Contracts panic with these (usually wrapped with details),
// callers distinguish them with errors.Is on the failed outcome.
var (
	// ErrInsufficientDeposit is thrown when the attached deposit doesn't
	// cover the required stake or price.
	ErrInsufficientDeposit = errors.New("insufficient deposit")
	// ErrSupplyExceeded is thrown when a mint would exceed the total supply.
	ErrSupplyExceeded = errors.New("total supply exceeded")
	// ErrNotOwner is thrown when the caller doesn't own the token.
	ErrNotOwner = errors.New("caller is not the token owner")
	// ErrUnauthorized is thrown when the caller is not allowed to call the
	// method.
	ErrUnauthorized = errors.New("unauthorized caller")
	// ErrInvalidAccountID is thrown for malformed account ids.
	ErrInvalidAccountID = chain.ErrInvalidAccountID
	// ErrAlreadyInitialized is thrown by repeated initialization.
	ErrAlreadyInitialized = errors.New("contract is already initialized")
	// ErrNotInitialized is thrown by calls to a contract without state.
	ErrNotInitialized = errors.New("contract is not initialized")
	// ErrOverflow is thrown when u128 arithmetic overflows.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrInvalidSplit is thrown for payment split percent above 100.
	ErrInvalidSplit = errors.New("payment split percent must be in [0, 100]")
	// ErrInvalidMetadata is thrown for malformed NFT metadata.
	ErrInvalidMetadata = errors.New("invalid metadata")
	// ErrWrongCurrency is thrown for payments in a currency the contract
	// doesn't accept.
	ErrWrongCurrency = errors.New("wrong currency")
	// ErrNotRelayed is thrown when a token receiver hook is called by the
	// transaction signer instead of the token contract.
	ErrNotRelayed = errors.New("call must come from a cross-contract call")
	// ErrNoReconciliation is thrown by retries of absent reconciliation
	// entries.
	ErrNoReconciliation = errors.New("reconciliation entry not found")
	// ErrOneYoctoRequired is thrown when a method requires exactly one yocto
	// attached.
	ErrOneYoctoRequired = errors.New("requires attached deposit of exactly 1 yoctoNEAR")
	// ErrNotRegistered is thrown when an account is not registered in a
	// token contract.
	ErrNotRegistered = errors.New("account is not registered")
	// ErrInvalidAmount is thrown for zero or malformed amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTokenExists is thrown by mints of already used token ids.
	ErrTokenExists = errors.New("token id is already used")
	// ErrTokenNotFound is thrown for unknown tokens.
	ErrTokenNotFound = errors.New("token not found")
)
