package common

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/launchpad-contract/chain"
)

// SubAccount derives the account id "<discriminator>.<parent>". The
// discriminator is used verbatim and must be a single id part, the result
// must satisfy the account naming grammar.
func SubAccount(parent, discriminator string) (string, error) {
	if discriminator == "" || strings.ContainsRune(discriminator, '.') {
		return "", fmt.Errorf("%w: bad discriminator %q", ErrInvalidAccountID, discriminator)
	}
	id := discriminator + "." + parent
	if err := chain.ValidateAccountID(id); err != nil {
		return "", err
	}
	return id, nil
}

// CheckAccountID panics with ErrInvalidAccountID if id is malformed.
func CheckAccountID(id string) {
	if err := chain.ValidateAccountID(id); err != nil {
		panic(err)
	}
}
