package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts"
	"github.com/nspcc-dev/launchpad-contract/contracts/fungible"
	"github.com/nspcc-dev/launchpad-contract/contracts/launchpad"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Blockchain groups chain services required to inspect the deployment
// state.
type Blockchain interface {
	// AccountExists checks whether the account is already created.
	AccountExists(id string) bool

	// Code returns the contract deployed to the account. Code returns error
	// wrapping chain.ErrContractNotDeployed if the account has no code.
	Code(id string) (*chain.Code, error)
}

// Actor sends transactions on behalf of the operator.
type Actor interface {
	// Sender returns the operator account, contracts are deployed to its
	// sub-accounts.
	Sender() string

	// Send sends a transaction executing its first receipt.
	Send(receiver string, actions ...chain.Action) (*chain.TxResult, error)

	// Settle executes all pending receipts.
	Settle() error
}

// CommonDeployPrm groups common deployment parameters of the contract.
type CommonDeployPrm struct {
	// Contract code, the embedded one if nil.
	Code *chain.Code

	// Native amount the contract account is funded with. Zero means the code
	// stake plus common.CollectionReserve.
	Stake uint128.Uint128
}

// FungibleContractPrm groups deployment parameters of the fungible token
// contract.
type FungibleContractPrm struct {
	Common CommonDeployPrm

	// Skip the contract, launchpad collections will accept native payments
	// only.
	Disabled bool

	Metadata    fungible.Metadata
	TotalSupply uint128.Uint128

	// Accounts registered at the token, the operator pays for them.
	Holders []string
}

// LaunchpadContractPrm groups deployment parameters of the Launchpad
// contract.
type LaunchpadContractPrm struct {
	Common CommonDeployPrm
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	Blockchain Blockchain

	// Operator account used for transaction signing.
	Actor Actor

	FungibleContract  FungibleContractPrm
	LaunchpadContract LaunchpadContractPrm
}

// Result contains account ids of the deployed contracts.
type Result struct {
	// Empty if the fungible token deployment is disabled.
	Fungible  string
	Launchpad string
}

var errCodeMismatch = errors.New("account holds different contract")

// Deploy deploys root contracts to sub-accounts of the operator:
//  1. fungible token (unless disabled), minting the whole supply to the
//     operator and registering holders
//  2. launchpad
//
// Deploy is idempotent: contracts already deployed with the same code are
// left untouched. An account holding another contract stops the procedure.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	operator := prm.Actor.Sender()

	err := embedDefaults(&prm)
	if err != nil {
		return res, err
	}

	if !prm.FungibleContract.Disabled {
		id, err := AccountID(operator, fungible.Name)
		if err != nil {
			return res, err
		}

		prm.Logger.Info("deploying fungible token contract...", zap.String("account", id))

		deployed, err := syncContract(ctx, prm, id, prm.FungibleContract.Common, fungible.MethodNew, fungible.NewArgs{
			OwnerID:     operator,
			TotalSupply: chain.NewU128(prm.FungibleContract.TotalSupply),
			Metadata:    prm.FungibleContract.Metadata,
		})
		if err != nil {
			return res, fmt.Errorf("deploy fungible token contract: %w", err)
		}
		if deployed {
			prm.Logger.Info("fungible token contract successfully deployed", zap.String("account", id))
		} else {
			prm.Logger.Info("fungible token contract is already deployed", zap.String("account", id))
		}

		err = registerHolders(ctx, prm, id)
		if err != nil {
			return res, fmt.Errorf("register fungible token holders: %w", err)
		}
		res.Fungible = id
	}

	id, err := AccountID(operator, launchpad.Name)
	if err != nil {
		return res, err
	}

	prm.Logger.Info("deploying launchpad contract...", zap.String("account", id))

	deployed, err := syncContract(ctx, prm, id, prm.LaunchpadContract.Common, "", nil)
	if err != nil {
		return res, fmt.Errorf("deploy launchpad contract: %w", err)
	}
	if deployed {
		prm.Logger.Info("launchpad contract successfully deployed", zap.String("account", id))
	} else {
		prm.Logger.Info("launchpad contract is already deployed", zap.String("account", id))
	}
	res.Launchpad = id

	return res, nil
}

func embedDefaults(prm *Prm) error {
	root, err := contracts.GetRoot()
	if err != nil {
		return fmt.Errorf("read embedded contracts: %w", err)
	}
	for _, c := range root {
		switch c.Manifest.Name {
		case fungible.Name:
			if prm.FungibleContract.Common.Code == nil {
				prm.FungibleContract.Common.Code = c.Code
			}
		case launchpad.Name:
			if prm.LaunchpadContract.Common.Code == nil {
				prm.LaunchpadContract.Common.Code = c.Code
			}
		}
	}
	return nil
}

// AccountID returns the account the contract is deployed to by the
// operator.
func AccountID(operator, name string) (string, error) {
	id, err := common.SubAccount(operator, name)
	if err != nil {
		return "", fmt.Errorf("contract account for %s: %w", name, err)
	}
	return id, nil
}

// syncContract deploys the code to the account unless it is already there.
// It reports whether the transaction was sent.
func syncContract(ctx context.Context, prm Prm, id string, c CommonDeployPrm, init string, args any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if prm.Blockchain.AccountExists(id) {
		onChain, err := prm.Blockchain.Code(id)
		if err != nil {
			if errors.Is(err, chain.ErrContractNotDeployed) {
				return false, fmt.Errorf("%w: %s has no code", errCodeMismatch, id)
			}
			return false, fmt.Errorf("get contract code of %s: %w", id, err)
		}
		if !bytes.Equal(onChain.Hash(), c.Code.Hash()) {
			return false, fmt.Errorf("%w: %s holds %s (%s), expected %s",
				errCodeMismatch, id, onChain.Name(), onChain.HashString(), c.Code.HashString())
		}
		prm.Logger.Debug("contract code is up to date",
			zap.String("account", id), zap.String("hash", c.Code.HashString()))
		return false, nil
	}

	stake := c.Stake
	if stake.IsZero() {
		stake = common.StorageStake(c.Code.Size(), common.CollectionReserve)
	}

	actions := []chain.Action{
		chain.CreateAccount(),
		chain.Transfer(stake),
		chain.DeployContract(c.Code),
	}
	if init != "" {
		actions = append(actions, chain.FunctionCall(init, args, uint128.Zero, common.GasForInit))
	}

	res, err := prm.Actor.Send(id, actions...)
	if err != nil {
		return false, err
	}

	prm.Logger.Debug("deployment transaction sent",
		zap.String("hash", res.Hash),
		zap.String("stake", chain.FormatNEAR(stake)))

	return true, prm.Actor.Settle()
}

func registerHolders(ctx context.Context, prm Prm, ft string) error {
	for _, h := range lo.Uniq(prm.FungibleContract.Holders) {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := prm.Actor.Send(ft, chain.FunctionCall(common.MethodStorageDeposit, common.StorageDepositArgs{
			AccountID:        lo.ToPtr(h),
			RegistrationOnly: lo.ToPtr(true),
		}, common.FTRegistrationDeposit, common.GasForStorageDeposit))
		if err != nil {
			return fmt.Errorf("register %s: %w", h, err)
		}

		prm.Logger.Debug("fungible token holder registered", zap.String("account", h))
	}
	return prm.Actor.Settle()
}
