// Package config loads launchpad simulator configuration from a file,
// environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment variables overriding config values, e.g.
// LAUNCHPAD_LAUNCH_SYMBOL.
const EnvPrefix = "LAUNCHPAD"

// Config is the simulator configuration.
type Config struct {
	Logger   Logger   `mapstructure:"logger"`
	Chain    Chain    `mapstructure:"chain"`
	Operator Operator `mapstructure:"operator"`
	Fungible Fungible `mapstructure:"fungible"`
	Launch   Launch   `mapstructure:"launch"`
	Sim      Sim      `mapstructure:"sim"`
	Dump     Dump     `mapstructure:"dump"`
}

// Logger configures zap logging.
type Logger struct {
	Level string `mapstructure:"level"`
	// "console" or "json"
	Encoding string `mapstructure:"encoding"`
}

// Chain holds runtime limits and storage pricing.
type Chain struct {
	// Yocto per byte.
	StorageByteCost string `mapstructure:"storage_byte_cost"`
	// TGas.
	MaxTxGas       uint64 `mapstructure:"max_tx_gas"`
	MaxSettleSteps int    `mapstructure:"max_settle_steps"`
}

// Operator is the genesis account deploying the contracts.
type Operator struct {
	Account string `mapstructure:"account"`
	// NEAR.
	Balance string `mapstructure:"balance"`
}

// Fungible describes the token deployed next to the launchpad.
type Fungible struct {
	Enabled     bool   `mapstructure:"enabled"`
	Name        string `mapstructure:"name"`
	Symbol      string `mapstructure:"symbol"`
	Decimals    uint8  `mapstructure:"decimals"`
	TotalSupply string `mapstructure:"total_supply"`
}

// Launch holds parameters of the launched collection.
type Launch struct {
	Symbol string `mapstructure:"symbol"`
	Name   string `mapstructure:"name"`
	// In NEAR for native collections and in token units otherwise.
	MintPrice string `mapstructure:"mint_price"`
	// Pay with the deployed fungible token instead of the native currency.
	Fungible            bool   `mapstructure:"fungible"`
	PaymentSplitPercent uint8  `mapstructure:"payment_split_percent"`
	TotalSupply         uint64 `mapstructure:"total_supply"`
}

// Sim shapes the simulated mints.
type Sim struct {
	Buyers int `mapstructure:"buyers"`
	Mints  int `mapstructure:"mints"`
	// Burn every n-th minted token, 0 disables burns.
	BurnEvery int `mapstructure:"burn_every"`
	// NEAR.
	BuyerBalance string `mapstructure:"buyer_balance"`
}

// Dump configures state dumps taken after the simulation.
type Dump struct {
	Dir   string `mapstructure:"dir"`
	Label string `mapstructure:"label"`
}

// Default returns configuration used when nothing is overridden.
func Default() Config {
	def := chain.DefaultConfig()
	return Config{
		Logger: Logger{Level: "info", Encoding: "console"},
		Chain: Chain{
			StorageByteCost: def.StorageByteCost.String(),
			MaxTxGas:        def.MaxTxGas / chain.TGas,
			MaxSettleSteps:  def.MaxSettleSteps,
		},
		Operator: Operator{Account: "operator", Balance: "1000000"},
		Fungible: Fungible{
			Enabled:     true,
			Name:        "Launchpad USD",
			Symbol:      "LUSD",
			Decimals:    6,
			TotalSupply: "1000000000",
		},
		Launch: Launch{
			Symbol:              "demo",
			Name:                "Demo collection",
			MintPrice:           "1",
			PaymentSplitPercent: 30,
			TotalSupply:         100,
		},
		Sim: Sim{
			Buyers:       3,
			Mints:        10,
			BurnEvery:    3,
			BuyerBalance: "1000",
		},
		Dump: Dump{Dir: "testdata", Label: "sim"},
	}
}

// Parse reads configuration. The file is optional: an empty path looks for
// "launchpad.yaml" in the working directory and ignores its absence. Values
// are taken from flags, environment, file and defaults in this order. Flags
// are bound to config keys, e.g. "launch.symbol".
func Parse(file string, flags map[string]*pflag.Flag) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("launchpad")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, f := range flags {
		if err := v.BindPFlag(key, f); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var errNotFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &errNotFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// setDefaults registers every key so that environment variables can
// override keys missing from the file.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("logger.level", c.Logger.Level)
	v.SetDefault("logger.encoding", c.Logger.Encoding)
	v.SetDefault("chain.storage_byte_cost", c.Chain.StorageByteCost)
	v.SetDefault("chain.max_tx_gas", c.Chain.MaxTxGas)
	v.SetDefault("chain.max_settle_steps", c.Chain.MaxSettleSteps)
	v.SetDefault("operator.account", c.Operator.Account)
	v.SetDefault("operator.balance", c.Operator.Balance)
	v.SetDefault("fungible.enabled", c.Fungible.Enabled)
	v.SetDefault("fungible.name", c.Fungible.Name)
	v.SetDefault("fungible.symbol", c.Fungible.Symbol)
	v.SetDefault("fungible.decimals", c.Fungible.Decimals)
	v.SetDefault("fungible.total_supply", c.Fungible.TotalSupply)
	v.SetDefault("launch.symbol", c.Launch.Symbol)
	v.SetDefault("launch.name", c.Launch.Name)
	v.SetDefault("launch.mint_price", c.Launch.MintPrice)
	v.SetDefault("launch.fungible", c.Launch.Fungible)
	v.SetDefault("launch.payment_split_percent", c.Launch.PaymentSplitPercent)
	v.SetDefault("launch.total_supply", c.Launch.TotalSupply)
	v.SetDefault("sim.buyers", c.Sim.Buyers)
	v.SetDefault("sim.mints", c.Sim.Mints)
	v.SetDefault("sim.burn_every", c.Sim.BurnEvery)
	v.SetDefault("sim.buyer_balance", c.Sim.BuyerBalance)
	v.SetDefault("dump.dir", c.Dump.Dir)
	v.SetDefault("dump.label", c.Dump.Label)
}

// Validate checks values which can't be checked by decoding.
func (c Config) Validate() error {
	if _, err := c.Chain.Config(); err != nil {
		return err
	}
	if _, err := c.Operator.BalanceAmount(); err != nil {
		return fmt.Errorf("operator balance: %w", err)
	}
	if _, err := c.Sim.BuyerBalanceAmount(); err != nil {
		return fmt.Errorf("buyer balance: %w", err)
	}
	if _, err := c.MintPrice(); err != nil {
		return fmt.Errorf("mint price: %w", err)
	}
	if c.Fungible.Enabled {
		if _, err := c.Fungible.Supply(); err != nil {
			return fmt.Errorf("fungible supply: %w", err)
		}
	} else if c.Launch.Fungible {
		return errors.New("fungible collection requires fungible token")
	}
	if c.Launch.PaymentSplitPercent > 100 {
		return fmt.Errorf("payment split %d%% exceeds 100%%", c.Launch.PaymentSplitPercent)
	}
	if c.Sim.Buyers <= 0 {
		return fmt.Errorf("invalid number of buyers %d", c.Sim.Buyers)
	}
	if c.Sim.Mints < 0 || c.Sim.BurnEvery < 0 {
		return errors.New("negative simulation counters")
	}
	if strings.Contains(c.Dump.Label, "-") {
		return fmt.Errorf("dump label %q contains '-'", c.Dump.Label)
	}
	return nil
}

// Config returns runtime parameters.
func (c Chain) Config() (chain.Config, error) {
	res := chain.DefaultConfig()

	cost, err := chain.ParseU128(c.StorageByteCost)
	if err != nil {
		return res, fmt.Errorf("storage byte cost: %w", err)
	}
	res.StorageByteCost = cost
	if c.MaxTxGas != 0 {
		res.MaxTxGas = c.MaxTxGas * chain.TGas
	}
	if c.MaxSettleSteps != 0 {
		res.MaxSettleSteps = c.MaxSettleSteps
	}
	return res, nil
}

// BalanceAmount returns the operator genesis balance in yocto.
func (o Operator) BalanceAmount() (uint128.Uint128, error) {
	return chain.ParseNEAR(o.Balance)
}

// BuyerBalanceAmount returns the genesis balance of every buyer in yocto.
func (s Sim) BuyerBalanceAmount() (uint128.Uint128, error) {
	return chain.ParseNEAR(s.BuyerBalance)
}

// Supply returns the token supply in minimal units.
func (f Fungible) Supply() (uint128.Uint128, error) {
	return chain.ParseFixed(f.TotalSupply, int(f.Decimals))
}

// MintPrice returns the collection price in minimal units of the mint
// currency.
func (c Config) MintPrice() (uint128.Uint128, error) {
	if c.Launch.Fungible {
		return chain.ParseFixed(c.Launch.MintPrice, int(c.Fungible.Decimals))
	}
	return chain.ParseNEAR(c.Launch.MintPrice)
}

// Build creates the logger.
func (l Logger) Build() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("logger level: %w", err)
	}

	var zc zap.Config
	switch l.Encoding {
	case "json":
		zc = zap.NewProductionConfig()
	case "console", "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown logger encoding %q", l.Encoding)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
