package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/gaze-network/uint128"
	"github.com/google/uuid"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/chain/dump"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/collection"
	"github.com/nspcc-dev/launchpad-contract/contracts/fungible"
	launchpadcontract "github.com/nspcc-dev/launchpad-contract/contracts/launchpad"
	"github.com/nspcc-dev/launchpad-contract/deploy"
	"github.com/nspcc-dev/launchpad-contract/internal/config"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	collectionrpc "github.com/nspcc-dev/launchpad-contract/rpc/collection"
	fungiblerpc "github.com/nspcc-dev/launchpad-contract/rpc/fungible"
	"github.com/nspcc-dev/launchpad-contract/rpc/launchpad"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Deploys the launchpad, launches a collection and mints tokens to simulated buyers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := runSimulation(cmd.Context(), conf, log, dumpState)
		if err != nil {
			return err
		}
		log.Info("simulation finished",
			zap.String("collection", res.Collection),
			zap.Int("minted", res.Minted),
			zap.Int("burned", res.Burned),
			zap.Int("failed", res.Failed),
			zap.Int("reconciliations", res.Reconciliations),
			zap.String("owner_proceeds", res.OwnerProceeds.String()),
			zap.Uint64("receipts", res.Receipts))
		if res.Dump != nil {
			log.Info("state dumped", zap.String("dir", conf.Dump.Dir), zap.Stringer("id", res.Dump))
		}
		return nil
	},
}

var dumpState bool

func init() {
	flags := runCmd.Flags()
	flags.BoolVar(&dumpState, "dump", false, "dump chain state after the simulation")
	flags.String("symbol", "", "collection symbol")
	flags.Int("mints", 0, "number of mints")
	flags.Int("buyers", 0, "number of buyers")
	flags.Bool("fungible", false, "pay with the fungible token")
	bindFlag("launch.symbol", flags.Lookup("symbol"))
	bindFlag("sim.mints", flags.Lookup("mints"))
	bindFlag("sim.buyers", flags.Lookup("buyers"))
	bindFlag("launch.fungible", flags.Lookup("fungible"))
}

// simResult sums up the simulation.
type simResult struct {
	Launchpad  string
	Collection string

	Minted, Burned, Failed int
	Reconciliations        int
	// Mint currency amount received by the collection owner.
	OwnerProceeds uint128.Uint128
	Receipts      uint64

	Dump *dump.ID
}

type simulation struct {
	log *zap.Logger
	cfg config.Config

	bc       *chain.Blockchain
	operator *chain.Actor
	buyers   []*chain.Actor

	price     uint128.Uint128
	ft        string
	ownerFunc func() uint128.Uint128
}

func runSimulation(ctx context.Context, cfg config.Config, log *zap.Logger, withDump bool) (*simResult, error) {
	s, err := newSimulation(cfg, log)
	if err != nil {
		return nil, err
	}

	var res simResult

	var supply uint128.Uint128
	if cfg.Fungible.Enabled {
		supply = lo.Must(cfg.Fungible.Supply())
	}

	dep, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:     log.Named("deploy"),
		Blockchain: s.bc,
		Actor:      s.operator,
		FungibleContract: deploy.FungibleContractPrm{
			Disabled: !cfg.Fungible.Enabled,
			Metadata: fungible.Metadata{
				Spec:     fungible.MetadataSpec,
				Name:     cfg.Fungible.Name,
				Symbol:   cfg.Fungible.Symbol,
				Decimals: cfg.Fungible.Decimals,
			},
			TotalSupply: supply,
			Holders:     lo.Map(s.buyers, func(a *chain.Actor, _ int) string { return a.Sender() }),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("deploy: %w", err)
	}
	res.Launchpad = dep.Launchpad
	if cfg.Launch.Fungible {
		s.ft = dep.Fungible
	}

	res.Collection, err = s.launch(dep.Launchpad)
	if err != nil {
		return nil, fmt.Errorf("launch collection: %w", err)
	}

	if s.ft != "" {
		err = s.predeposit(res.Collection)
		if err != nil {
			return nil, fmt.Errorf("fungible pre-deposits: %w", err)
		}
	}

	before := s.ownerFunc()
	err = s.mint(ctx, res.Collection, &res)
	if err != nil {
		return nil, err
	}
	res.OwnerProceeds = s.ownerFunc().Sub(before)

	rs, err := collectionrpc.NewReader(s.operator, res.Collection).Reconciliations(uint128.Zero, 0)
	if err != nil {
		return nil, fmt.Errorf("get reconciliations: %w", err)
	}
	res.Reconciliations = len(rs)
	res.Receipts = s.bc.Executed()

	if withDump {
		err = os.MkdirAll(cfg.Dump.Dir, 0700)
		if err != nil {
			return nil, fmt.Errorf("create dump dir: %w", err)
		}
		id, err := dump.Snapshot(s.bc, cfg.Dump.Dir, cfg.Dump.Label)
		if err != nil {
			return nil, fmt.Errorf("dump state: %w", err)
		}
		res.Dump = &id
	}

	return &res, nil
}

func newSimulation(cfg config.Config, log *zap.Logger) (*simulation, error) {
	chainCfg, err := cfg.Chain.Config()
	if err != nil {
		return nil, err
	}
	price, err := cfg.MintPrice()
	if err != nil {
		return nil, err
	}

	s := &simulation{
		log:   log,
		cfg:   cfg,
		bc:    chain.New(chainCfg, log.Named("chain")),
		price: price,
	}

	balance := lo.Must(cfg.Operator.BalanceAmount())
	if err := s.bc.CreateAccount(cfg.Operator.Account, balance); err != nil {
		return nil, fmt.Errorf("create operator account: %w", err)
	}
	s.operator = chain.NewActor(s.bc, cfg.Operator.Account)

	buyerBalance := lo.Must(cfg.Sim.BuyerBalanceAmount())
	for i := range cfg.Sim.Buyers {
		id := fmt.Sprintf("buyer%d.%s", i, cfg.Operator.Account)
		if err := s.bc.CreateAccount(id, buyerBalance); err != nil {
			return nil, fmt.Errorf("create buyer account: %w", err)
		}
		s.buyers = append(s.buyers, chain.NewActor(s.bc, id))
	}

	return s, nil
}

func (s *simulation) launch(lpID string) (string, error) {
	lp := launchpad.New(s.operator, lpID)

	stake, err := lp.CollectionStake()
	if err != nil {
		return "", err
	}
	id, err := lp.CollectionAccountID(s.cfg.Launch.Symbol)
	if err != nil {
		return "", err
	}

	args := launchpadcontract.LaunchArgs{
		Metadata: nonfungible.ContractMetadata{
			Spec:   nonfungible.MetadataSpec,
			Name:   s.cfg.Launch.Name,
			Symbol: s.cfg.Launch.Symbol,
		},
		MintPrice:           chain.NewU128(s.price),
		PaymentSplitPercent: s.cfg.Launch.PaymentSplitPercent,
	}
	if s.ft != "" {
		args.MintCurrency = lo.ToPtr(s.ft)
	}
	if s.cfg.Launch.TotalSupply != 0 {
		args.TotalSupply = lo.ToPtr(chain.U128From64(s.cfg.Launch.TotalSupply))
	}

	h, err := lp.Launch(args, stake)
	if err != nil {
		return "", err
	}
	if err := s.operator.Settle(); err != nil {
		return "", err
	}
	if _, err := s.bc.Code(id); err != nil {
		return "", fmt.Errorf("collection is not deployed by %s: %w", h, err)
	}

	s.log.Info("collection launched", zap.String("account", id), zap.String("tx", h))

	owner := s.operator.Sender()
	if s.ft == "" {
		s.ownerFunc = func() uint128.Uint128 { return s.bc.Balance(owner) }
	} else {
		ft := fungiblerpc.NewReader(s.operator, s.ft)
		s.ownerFunc = func() uint128.Uint128 { return lo.Must(ft.BalanceOf(owner)) }
	}
	return id, nil
}

// predeposit registers the collection at the token and funds buyers'
// pre-deposits for all mints they are going to make.
func (s *simulation) predeposit(collID string) error {
	ft := fungiblerpc.New(s.operator, s.ft)
	if _, err := ft.Register(collID); err != nil {
		return fmt.Errorf("register collection: %w", err)
	}

	perBuyer := uint64((s.cfg.Sim.Mints + len(s.buyers) - 1) / len(s.buyers))
	amount := s.price.Mul64(perBuyer)
	if amount.IsZero() {
		return s.operator.Settle()
	}

	for _, b := range s.buyers {
		if _, err := ft.Transfer(b.Sender(), amount, lo.ToPtr("pre-deposit")); err != nil {
			return fmt.Errorf("fund %s: %w", b.Sender(), err)
		}
		if _, err := fungiblerpc.New(b, s.ft).TransferCall(collID, amount, ""); err != nil {
			return fmt.Errorf("pre-deposit of %s: %w", b.Sender(), err)
		}
		if err := s.operator.Settle(); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulation) mint(ctx context.Context, collID string, res *simResult) error {
	vaultStake, err := collectionrpc.NewReader(s.operator, collID).VaultStake()
	if err != nil {
		return fmt.Errorf("get vault stake: %w", err)
	}
	deposit := vaultStake.Add(s.price)
	if s.ft != "" {
		deposit = vaultStake.Add(common.FTRegistrationDeposit.Mul64(2))
	}

	for i := range s.cfg.Sim.Mints {
		if err := ctx.Err(); err != nil {
			return err
		}

		buyer := s.buyers[i%len(s.buyers)]
		coll := collectionrpc.New(buyer, collID)
		tokenID := newTokenID(collID, i)

		_, err := coll.Mint(collection.MintArgs{
			TokenID:      tokenID,
			TokenOwnerID: buyer.Sender(),
		}, deposit)
		if err == nil {
			err = s.bc.Settle()
		}
		if err != nil {
			res.Failed++
			s.log.Warn("mint failed", zap.String("token", tokenID), zap.String("buyer", buyer.Sender()), zap.Error(err))
			if errors.Is(err, chain.ErrSettleLimit) {
				return err
			}
			continue
		}
		res.Minted++
		s.log.Debug("token minted", zap.String("token", tokenID), zap.String("buyer", buyer.Sender()))

		if s.cfg.Sim.BurnEvery > 0 && res.Minted%s.cfg.Sim.BurnEvery == 0 {
			_, err = coll.Burn(tokenID)
			if err == nil {
				err = s.bc.Settle()
			}
			if err != nil {
				s.log.Warn("burn failed", zap.String("token", tokenID), zap.Error(err))
				continue
			}
			res.Burned++
		}
	}
	return nil
}

// newTokenID returns a random token id unless its vault account id is too
// long, sequential ids are used then.
func newTokenID(collID string, i int) string {
	id := uuid.NewString()
	if _, err := common.SubAccount(collID, id); err == nil {
		return id
	}
	return strconv.Itoa(i + 1)
}
