package nonfungible

import "github.com/nspcc-dev/launchpad-contract/chain"

// Event standard and version of NEP-171 events.
const (
	EventStandard = "nep171"
	EventVersion  = "1.0.0"
)

// Event names.
const (
	EventMint     = "nft_mint"
	EventBurn     = "nft_burn"
	EventTransfer = "nft_transfer"
)

// MintLog is the payload entry of nft_mint.
type MintLog struct {
	OwnerID  string   `json:"owner_id"`
	TokenIDs []string `json:"token_ids"`
	Memo     *string  `json:"memo,omitempty"`
}

// BurnLog is the payload entry of nft_burn.
type BurnLog struct {
	OwnerID      string   `json:"owner_id"`
	TokenIDs     []string `json:"token_ids"`
	AuthorizedID *string  `json:"authorized_id,omitempty"`
	Memo         *string  `json:"memo,omitempty"`
}

// TransferLog is the payload entry of nft_transfer.
type TransferLog struct {
	AuthorizedID *string  `json:"authorized_id,omitempty"`
	OldOwnerID   string   `json:"old_owner_id"`
	NewOwnerID   string   `json:"new_owner_id"`
	TokenIDs     []string `json:"token_ids"`
	Memo         *string  `json:"memo,omitempty"`
}

func emit(ic *chain.Context, name string, data any) {
	ic.Emit(chain.Event{
		Standard: EventStandard,
		Version:  EventVersion,
		Event:    name,
		Data:     data,
	})
}
