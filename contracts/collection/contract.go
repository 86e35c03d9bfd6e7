package collection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/launchpad-contract/chain"
	"github.com/nspcc-dev/launchpad-contract/common"
	"github.com/nspcc-dev/launchpad-contract/contracts/vault"
	"github.com/nspcc-dev/launchpad-contract/nonfungible"
	"github.com/nspcc-dev/neo-go/pkg/io"
)

type (
	// Config is the immutable collection state set by the initializer.
	Config struct {
		// Receiver of the non-escrowed share of every sale
		OwnerID string
		// Price of a single mint
		MintPrice uint128.Uint128
		// Fungible token contract, empty for native currency
		MintCurrency string
		// Share of the price routed to the vault, percent
		PaymentSplitPercent uint8
		// Mint cap, zero for unlimited
		TotalSupply uint128.Uint128
	}

	// NewArgs are arguments of new.
	NewArgs struct {
		OwnerID             string                       `json:"owner_id"`
		Metadata            nonfungible.ContractMetadata `json:"metadata"`
		MintPrice           chain.U128                   `json:"mint_price"`
		MintCurrency        *string                      `json:"mint_currency,omitempty"`
		PaymentSplitPercent uint8                        `json:"payment_split_percent"`
		TotalSupply         *chain.U128                  `json:"total_supply,omitempty"`
	}

	// MintArgs are arguments of nft_mint.
	MintArgs struct {
		TokenID       string                     `json:"token_id"`
		TokenOwnerID  string                     `json:"token_owner_id"`
		TokenMetadata *nonfungible.TokenMetadata `json:"token_metadata,omitempty"`
	}

	// TokenArgs are arguments of per-token methods.
	TokenArgs struct {
		TokenID string `json:"token_id"`
	}

	// VaultDeployedArgs are arguments of the on_vault_deployed callback.
	VaultDeployedArgs struct {
		TokenID     string     `json:"token_id"`
		Buyer       string     `json:"buyer"`
		VaultAmount chain.U128 `json:"vault_amount"`
		OwnerAmount chain.U128 `json:"owner_amount"`
		// Native amount reserved for the vault, returned to the buyer if
		// the vault can't be deployed.
		Reserved chain.U128 `json:"reserved"`
	}

	// ConfigView is the collection_config view.
	ConfigView struct {
		OwnerID             string     `json:"owner_id"`
		MintPrice           chain.U128 `json:"mint_price"`
		MintCurrency        *string    `json:"mint_currency,omitempty"`
		PaymentSplitPercent uint8      `json:"payment_split_percent"`
		TotalSupply         chain.U128 `json:"total_supply"`
	}
)

const (
	// Name is the contract name in the manifest.
	Name = "collection"

	configKey   = 'S'
	metadataKey = 'M'
	indexKey    = 'x'
	ledgerNS    = 't'
)

// Method names.
const (
	MethodNew             = "new"
	MethodMint            = "nft_mint"
	MethodBurn            = "burn"
	MethodOnVaultDeployed = "on_vault_deployed"
	MethodOnPaymentSettle = "on_payment_settled"
	MethodIndex           = "index"
	MethodTotalSupply     = "total_supply"
	MethodConfig          = "collection_config"
	MethodVaultStake      = "vault_stake"
	MethodVaultOf         = "vault_of"
)

var ledger = nonfungible.NewLedger(ledgerNS)

// EncodeBinary implements io.Serializable.
func (c *Config) EncodeBinary(w *io.BinWriter) {
	w.WriteString(c.OwnerID)
	common.WriteU128(w, c.MintPrice)
	w.WriteString(c.MintCurrency)
	w.WriteB(c.PaymentSplitPercent)
	common.WriteU128(w, c.TotalSupply)
}

// DecodeBinary implements io.Serializable.
func (c *Config) DecodeBinary(r *io.BinReader) {
	c.OwnerID = r.ReadString()
	c.MintPrice = common.ReadU128(r)
	c.MintCurrency = r.ReadString()
	c.PaymentSplitPercent = r.ReadB()
	c.TotalSupply = common.ReadU128(r)
}

// VaultStake returns native amount every vault account is funded with.
func VaultStake() uint128.Uint128 {
	return common.StorageStake(vault.Code().Size(), common.VaultReserve)
}

// New initializes the collection. It can be called only once.
func New(ic *chain.Context, args NewArgs) {
	if ic.Has([]byte{configKey}) {
		panic(common.ErrAlreadyInitialized)
	}
	common.CheckAccountID(args.OwnerID)
	if err := args.Metadata.Validate(); err != nil {
		panic(err)
	}
	if args.PaymentSplitPercent > common.MaxSplitPercent {
		panic(fmt.Errorf("%w: %d", common.ErrInvalidSplit, args.PaymentSplitPercent))
	}

	cfg := &Config{
		OwnerID:             args.OwnerID,
		MintPrice:           args.MintPrice.Uint128(),
		PaymentSplitPercent: args.PaymentSplitPercent,
		TotalSupply:         uint128.Zero,
	}
	if args.MintCurrency != nil {
		common.CheckAccountID(*args.MintCurrency)
		cfg.MintCurrency = *args.MintCurrency
	}
	if args.TotalSupply != nil {
		cfg.TotalSupply = args.TotalSupply.Uint128()
	}

	meta, err := json.Marshal(args.Metadata)
	if err != nil {
		panic(err)
	}
	ic.Put([]byte{metadataKey}, meta)
	common.SetSerialized(ic, []byte{configKey}, cfg)
	ic.Logf("collection %s initialized", args.Metadata.Symbol)
}

// Mint registers a new token and deploys its vault. The caller pays: in
// native mode the attached deposit covers the price and the vault stake, in
// fungible token mode it covers the vault stake and two token registrations
// while the price is taken from the caller's token pre-deposit. The excess
// of the attached deposit is refunded.
//
// Payments to the owner and to the vault are issued by on_vault_deployed
// after the vault is initialized. The mint index and the ledger are updated
// synchronously and are not rolled back if the payments fail.
//
// Produces nft_mint event.
func Mint(ic *chain.Context, args MintArgs) nonfungible.Token {
	cfg := getConfig(ic)
	buyer := ic.Predecessor()

	index := common.GetU128(ic, []byte{indexKey})
	if !cfg.TotalSupply.IsZero() && index.Cmp(cfg.TotalSupply) >= 0 {
		panic(fmt.Errorf("%w: %s of %s minted", common.ErrSupplyExceeded, index, cfg.TotalSupply))
	}
	vaultID, err := common.SubAccount(ic.CurrentAccount(), args.TokenID)
	if err != nil {
		panic(err)
	}
	vaultAmount, ownerAmount, err := common.SplitPayment(cfg.MintPrice, cfg.PaymentSplitPercent)
	if err != nil {
		panic(err)
	}

	ch := common.NewPaymentChannel(cfg.MintCurrency)
	stake := VaultStake()
	reserved := stake
	required := common.AddU128(cfg.MintPrice, stake)
	if ch.Currency() != "" {
		reserved = common.AddU128(stake, common.MulU128(ch.RegistrationCost(), uint128.From64(2)))
		required = reserved
	}
	deposit := ic.AttachedDeposit()
	if deposit.Cmp(required) < 0 {
		panic(fmt.Errorf("%w: attached %s, required %s", common.ErrInsufficientDeposit, deposit, required))
	}
	if ch.Currency() != "" {
		spendFTDeposit(ic, buyer, cfg.MintPrice)
	}

	common.PutU128(ic, []byte{indexKey}, common.AddU128(index, uint128.From64(1)))
	token := ledger.Mint(ic, args.TokenID, args.TokenOwnerID, args.TokenMetadata)

	ic.Promise(vaultID).
		CreateAccount().
		Transfer(stake).
		DeployContract(vault.Code()).
		FunctionCall(vault.MethodInit, vault.InitArgs{Currency: common.CurrencyPtr(cfg.MintCurrency)}, uint128.Zero, common.GasForInit).
		Then(ic.Promise(ic.CurrentAccount()).FunctionCall(MethodOnVaultDeployed, VaultDeployedArgs{
			TokenID:     args.TokenID,
			Buyer:       buyer,
			VaultAmount: chain.NewU128(vaultAmount),
			OwnerAmount: chain.NewU128(ownerAmount),
			Reserved:    chain.NewU128(reserved),
		}, uint128.Zero, common.GasForVaultCallback))

	if excess := deposit.Sub(required); !excess.IsZero() {
		ic.Promise(buyer).Transfer(excess)
	}
	return token
}

// OnVaultDeployed is the continuation of the vault deployment. It issues the
// owner and the vault payment legs as independent siblings, each observed by
// its own on_payment_settled callback. A failed deployment voids the token
// whoever owns it by now and records a vault reconciliation returning the
// payment to the buyer. The mint index is kept.
func OnVaultDeployed(ic *chain.Context, args VaultDeployedArgs) {
	res := ic.PromiseResult(0)
	if res.Failed() {
		kind := "failed"
		if errors.Is(res.Err, chain.ErrAccountExists) {
			kind = "collides with an existing account"
		}
		ic.Logf("vault of %s %s: %v", args.TokenID, kind, res.Err)

		if owner, ok := ledger.Void(ic, args.TokenID); ok {
			ic.Logf("token %s of %s voided", args.TokenID, owner)
		}

		cfg := getConfig(ic)
		recordReconciliation(ic, Reconciliation{
			TokenID:  args.TokenID,
			Leg:      LegVault,
			Account:  args.Buyer,
			Amount:   chain.NewU128(cfg.MintPrice),
			Reserved: args.Reserved,
		})
		return
	}

	cfg := getConfig(ic)
	vaultID, err := common.SubAccount(ic.CurrentAccount(), args.TokenID)
	if err != nil {
		panic(err)
	}
	issueLeg(ic, cfg, args.TokenID, LegOwner, cfg.OwnerID, args.OwnerAmount.Uint128())
	issueLeg(ic, cfg, args.TokenID, LegVaultPayment, vaultID, args.VaultAmount.Uint128())
}

// Burn removes the caller's token from the ledger and instructs its vault to
// release the escrow to the caller. The vault call is not awaited, the burn
// stays even if it fails.
//
// Produces nft_burn event.
func Burn(ic *chain.Context, args TokenArgs) {
	caller := ic.Predecessor()
	ledger.Burn(ic, args.TokenID, caller)

	vaultID, err := common.SubAccount(ic.CurrentAccount(), args.TokenID)
	if err != nil {
		panic(err)
	}
	ic.Promise(vaultID).FunctionCall(vault.MethodWithdraw, vault.WithdrawArgs{Claimant: caller},
		uint128.Zero, common.GasForWithdraw)
}

// Index returns the number of successful mints.
func Index(ic *chain.Context) chain.U128 {
	return chain.NewU128(common.GetU128(ic, []byte{indexKey}))
}

// TotalSupply returns the mint cap, zero means unlimited.
func TotalSupply(ic *chain.Context) chain.U128 {
	return chain.NewU128(getConfig(ic).TotalSupply)
}

// CollectionConfig returns collection parameters.
func CollectionConfig(ic *chain.Context) ConfigView {
	cfg := getConfig(ic)
	return ConfigView{
		OwnerID:             cfg.OwnerID,
		MintPrice:           chain.NewU128(cfg.MintPrice),
		MintCurrency:        common.CurrencyPtr(cfg.MintCurrency),
		PaymentSplitPercent: cfg.PaymentSplitPercent,
		TotalSupply:         chain.NewU128(cfg.TotalSupply),
	}
}

// VaultStakeOf returns the vault stake, see VaultStake.
func VaultStakeOf(*chain.Context) chain.U128 {
	return chain.NewU128(VaultStake())
}

// VaultOf returns the vault account of the token id.
func VaultOf(ic *chain.Context, args TokenArgs) string {
	id, err := common.SubAccount(ic.CurrentAccount(), args.TokenID)
	if err != nil {
		panic(err)
	}
	return id
}

// Version returns version of the contract.
func Version(*chain.Context) int {
	return common.Version
}

func getConfig(ic *chain.Context) *Config {
	cfg := new(Config)
	if !common.GetSerialized(ic, []byte{configKey}, cfg) {
		panic(common.ErrNotInitialized)
	}
	return cfg
}
