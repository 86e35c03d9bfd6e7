package vault_test

import (
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/chaintest"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/fungible"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
	"github.com/stretchr/testify/require"
)

var stake = chain.OneNEAR.Mul64(5)

func newVault(t *testing.T, e *chaintest.Executor, currency *string) *chaintest.ContractInvoker {
	id := e.DeployContract(t, "vault", vault.Code(), stake, vault.MethodInit, vault.InitArgs{Currency: currency})
	return e.Invoker(id, e.Root)
}

func info(t *testing.T, v *chaintest.ContractInvoker) vault.Info {
	var i vault.Info
	v.View(t, &i, vault.MethodInfo, nil)
	return i
}

func TestInit(t *testing.T) {
	e := chaintest.NewExecutor(t)
	v := newVault(t, e, nil)

	i := info(t, v)
	require.Equal(t, e.Root, i.OwnerContract)
	require.Nil(t, i.Currency)
	require.True(t, i.Balance.Uint128().IsZero())

	v.InvokeFail(t, common.ErrAlreadyInitialized, vault.MethodInit, vault.InitArgs{})

	var ver int
	v.View(t, &ver, "version", nil)
	require.Equal(t, common.Version, ver)
}

func TestNotInitialized(t *testing.T) {
	e := chaintest.NewExecutor(t)
	id := e.DeployContract(t, "vault", vault.Code(), stake, "", nil)

	_, err := e.Chain.View(id, vault.MethodInfo, nil)
	require.ErrorIs(t, err, common.ErrNotInitialized)
}

func TestNativeEscrow(t *testing.T) {
	e := chaintest.NewExecutor(t)
	v := newVault(t, e, nil)
	buyer := e.NewAccount(t)
	claimant := e.NewAccount(t)

	deposit := v.WithSigner(buyer).WithDeposit(chain.OneNEAR.Mul64(3))
	deposit.Invoke(t, common.MethodDepositNative, nil)
	deposit.Invoke(t, common.MethodDepositNative, nil)
	require.Equal(t, chain.OneNEAR.Mul64(6), info(t, v).Balance.Uint128())

	t.Run("unauthorized", func(t *testing.T) {
		v.WithSigner(claimant).InvokeFail(t, common.ErrUnauthorized, vault.MethodWithdraw, vault.WithdrawArgs{Claimant: claimant})
		require.Equal(t, chain.OneNEAR.Mul64(6), info(t, v).Balance.Uint128())
	})

	t.Run("ft hook", func(t *testing.T) {
		v.WithSigner(buyer).InvokeFail(t, common.ErrWrongCurrency, common.MethodFTOnTransfer, common.FTOnTransferArgs{
			SenderID: buyer,
			Amount:   chain.U128From64(1),
		})
	})

	before := e.Balance(claimant)
	v.Invoke(t, vault.MethodWithdraw, vault.WithdrawArgs{Claimant: claimant})
	require.Equal(t, before.Add(chain.OneNEAR.Mul64(6)), e.Balance(claimant))
	require.True(t, info(t, v).Balance.Uint128().IsZero())

	h := v.Invoke(t, vault.MethodWithdraw, vault.WithdrawArgs{Claimant: claimant})
	require.Contains(t, e.Logs(h), "vault is empty")
	require.Equal(t, before.Add(chain.OneNEAR.Mul64(6)), e.Balance(claimant))
}

func TestFungibleEscrow(t *testing.T) {
	e := chaintest.NewExecutor(t)
	holder := e.NewAccount(t)
	claimant := e.NewAccount(t)

	ft := e.DeployContract(t, "ft", fungible.Code(), stake, fungible.MethodNew, fungible.NewArgs{
		OwnerID:     holder,
		TotalSupply: chain.U128From64(1000),
		Metadata:    fungible.Metadata{Spec: fungible.MetadataSpec, Name: "Test", Symbol: "TST"},
	})
	v := newVault(t, e, &ft)

	token := e.Invoker(ft, holder)
	for _, acc := range []string{v.Contract, claimant} {
		token.WithDeposit(common.FTRegistrationDeposit).Invoke(t, common.MethodStorageDeposit, common.StorageDepositArgs{AccountID: &acc})
	}
	balanceOf := func(acc string) uint64 {
		var b chain.U128
		token.View(t, &b, fungible.MethodBalanceOf, common.AccountArgs{AccountID: acc})
		return b.Uint128().Lo
	}

	v.WithSigner(holder).WithDeposit(chain.OneNEAR).InvokeFail(t, common.ErrWrongCurrency, common.MethodDepositNative, nil)

	t.Run("hook not relayed", func(t *testing.T) {
		v.WithSigner(ft).InvokeFail(t, common.ErrNotRelayed, common.MethodFTOnTransfer, common.FTOnTransferArgs{
			SenderID: holder,
			Amount:   chain.U128From64(100),
		})
	})

	token.WithDeposit(chain.OneYocto).Invoke(t, common.MethodFTTransferCall, common.FTTransferCallArgs{
		ReceiverID: v.Contract,
		Amount:     chain.U128From64(100),
	})
	require.EqualValues(t, 900, balanceOf(holder))
	require.EqualValues(t, 100, balanceOf(v.Contract))

	i := info(t, v)
	require.Equal(t, ft, *i.Currency)
	require.Equal(t, uint128.From64(100), i.Balance.Uint128())

	h := v.Invoke(t, vault.MethodWithdraw, vault.WithdrawArgs{Claimant: claimant})
	require.Empty(t, e.Failures(h))
	require.EqualValues(t, 100, balanceOf(claimant))
	require.EqualValues(t, 0, balanceOf(v.Contract))
	require.True(t, info(t, v).Balance.Uint128().IsZero())
}
