/*
Package contracts provides access to the launchpad contracts.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/contracts/fungible"
	"github.com/nspcc-dev/launchpad-contract/contracts/launchpad"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
)

const (
	launchpadName  = launchpad.Name
	fungibleName   = fungible.Name
	collectionName = collection.Name // deployed by launchpad.
	vaultName      = vault.Name      // deployed by collections.
)

// Contract groups contract code with its manifest decoded from the code
// image.
type Contract struct {
	Code     *chain.Code
	Manifest manifest.Manifest
}

type source func(name string) (*chain.Code, bool)

var (
	errUnknownContract = errors.New("unknown contract")
	errInvalidManifest = errors.New("invalid manifest")

	codes = map[string]*chain.Code{
		launchpadName:  launchpad.Code(),
		fungibleName:   fungible.Code(),
		collectionName: collection.Code(),
		vaultName:      vault.Code(),
	}

	rootContracts = []string{
		fungibleName,
		launchpadName,
	}
	allContracts = []string{
		fungibleName,
		launchpadName,
		collectionName,
		vaultName,
	}
)

// GetRoot returns contracts deployed by operators. They're returned in the
// order they're supposed to be deployed.
func GetRoot() ([]Contract, error) {
	return read(fromRegistry, rootContracts)
}

// GetAll returns all contracts including the ones deployed by other
// contracts.
func GetAll() ([]Contract, error) {
	return read(fromRegistry, allContracts)
}

// Get returns contract by manifest name.
func Get(name string) (Contract, error) {
	return readContract(fromRegistry, name)
}

// Names returns names of all contracts.
func Names() []string {
	return append([]string{}, allContracts...)
}

func fromRegistry(name string) (*chain.Code, bool) {
	c, ok := codes[name]
	return c, ok
}

// read is the same as GetAll but allows to override the source.
func read(src source, names []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(names))

	for i := range names {
		c, err := readContract(src, names[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", names[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContract(src source, name string) (Contract, error) {
	var c Contract

	code, ok := src(name)
	if !ok {
		return c, fmt.Errorf("%w: %s", errUnknownContract, name)
	}

	err := json.Unmarshal(code.Image(), &c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}
	if c.Manifest.Name != name {
		return c, fmt.Errorf("%w: name %q, expected %q", errInvalidManifest, c.Manifest.Name, name)
	}

	c.Code = code
	return c, nil
}
