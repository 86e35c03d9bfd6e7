package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/dump"
	"github.com/nspcc-dev/launchpad-contract/contracts"
	"github.com/nspcc-dev/launchpad-contract/internal/config"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Sim.Buyers = 2
	cfg.Sim.Mints = 4
	cfg.Sim.BurnEvery = 2
	cfg.Dump.Dir = t.TempDir()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunNative(t *testing.T) {
	cfg := testConfig(t)

	res, err := runSimulation(context.Background(), cfg, zaptest.NewLogger(t), true)
	require.NoError(t, err)
	require.Equal(t, "launchpad.operator", res.Launchpad)
	require.Equal(t, "demo.launchpad.operator", res.Collection)
	require.Equal(t, 4, res.Minted)
	require.Equal(t, 2, res.Burned)
	require.Zero(t, res.Failed)
	require.Zero(t, res.Reconciliations)
	// 70% of four 1 NEAR sales.
	require.Equal(t, chain.OneNEAR.Mul64(28).Div64(10), res.OwnerProceeds)

	require.NotNil(t, res.Dump)
	var found bool
	require.NoError(t, dump.IterateDumps(cfg.Dump.Dir, func(id dump.ID, r *dump.Reader) {
		found = id == *res.Dump
		r.IterateAccounts(func(st dump.AccountState) {
			if st.ID == res.Collection {
				require.Equal(t, "collection", st.Contract)
			}
		})
	}))
	require.True(t, found)
}

func TestRunFungible(t *testing.T) {
	cfg := testConfig(t)
	cfg.Launch.Fungible = true
	cfg.Launch.MintPrice = "10"

	res, err := runSimulation(context.Background(), cfg, zaptest.NewLogger(t), false)
	require.NoError(t, err)
	require.Equal(t, 4, res.Minted)
	require.Zero(t, res.Failed)
	require.Nil(t, res.Dump)
	// 70% of four sales of 10 tokens with 6 decimals.
	require.EqualValues(t, 28_000_000, res.OwnerProceeds.Lo)
}

func TestRunSupplyCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.Launch.TotalSupply = 3
	cfg.Sim.BurnEvery = 0

	res, err := runSimulation(context.Background(), cfg, zaptest.NewLogger(t), false)
	require.NoError(t, err)
	require.Equal(t, 3, res.Minted)
	require.Equal(t, 1, res.Failed)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runSimulation(ctx, testConfig(t), zaptest.NewLogger(t), false)
	require.ErrorIs(t, err, context.Canceled)
}

func TestManifestCmd(t *testing.T) {
	var out bytes.Buffer
	manifestCmd.SetOut(&out)
	require.NoError(t, manifestCmd.RunE(manifestCmd, []string{"vault", "vault"}))

	var ms []manifest.Manifest
	require.NoError(t, json.Unmarshal(out.Bytes(), &ms))
	require.Len(t, ms, 1)
	require.Equal(t, "vault", ms[0].Name)

	_, err := contracts.Get("unknown")
	require.Error(t, err)
}
