package contracts

import (
	"testing"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
	"github.com/stretchr/testify/require"
)

func TestGetRoot(t *testing.T) {
	c, err := GetRoot()
	require.NoError(t, err)
	require.Equal(t, len(rootContracts), len(c))
	require.Equal(t, fungibleName, c[0].Manifest.Name)
	require.Equal(t, launchpadName, c[1].Manifest.Name)
}

func TestGetAll(t *testing.T) {
	c, err := GetAll()
	require.NoError(t, err)
	require.Equal(t, len(allContracts), len(c))

	for i := range c {
		require.Equal(t, allContracts[i], c[i].Manifest.Name)
		require.Equal(t, len(c[i].Manifest.ABI.Methods), len(c[i].Code.Manifest().ABI.Methods))
		require.NotNil(t, c[i].Manifest.ABI.GetMethod("version", -1), c[i].Manifest.Name)
	}
}

func TestGetMissing(t *testing.T) {
	_, err := Get("unknown")
	require.ErrorIs(t, err, errUnknownContract)

	_, err = read(func(string) (*chain.Code, bool) { return nil, false }, rootContracts)
	require.ErrorIs(t, err, errUnknownContract)
}

func TestReadInvalidManifest(t *testing.T) {
	src := func(string) (*chain.Code, bool) { return vault.Code(), true }

	_, err := read(src, []string{vaultName})
	require.NoError(t, err)

	_, err = read(src, []string{launchpadName})
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestViewMethodsAreSafe(t *testing.T) {
	c, err := Get(vaultName)
	require.NoError(t, err)

	m := c.Manifest.ABI.GetMethod(vault.MethodInfo, -1)
	require.NotNil(t, m)
	require.True(t, m.Safe)

	m = c.Manifest.ABI.GetMethod(vault.MethodWithdraw, -1)
	require.NotNil(t, m)
	require.False(t, m.Safe)
}
