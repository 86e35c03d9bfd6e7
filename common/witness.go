package common

import (
	"fmt"

	"github.com/nspcc-dev/launchpad-contract/chain"
)

// CheckOneYocto panics unless exactly one yocto is attached. Methods moving
// assets require it so they can't be called with a function-call access key.
func CheckOneYocto(ic *chain.Context) {
	if !ic.AttachedDeposit().Equals(chain.OneYocto) {
		panic(ErrOneYoctoRequired)
	}
}

// CheckPredecessor panics with ErrUnauthorized if the call doesn't come from
// the expected account.
func CheckPredecessor(ic *chain.Context, expected string) {
	if p := ic.Predecessor(); p != expected {
		panic(fmt.Errorf("%w: %s, expected %s", ErrUnauthorized, p, expected))
	}
}

// CheckRelayed panics with ErrNotRelayed if a receiver hook is called
// directly by the transaction signer.
func CheckRelayed(ic *chain.Context) {
	if ic.Predecessor() == ic.Signer() {
		panic(ErrNotRelayed)
	}
}
