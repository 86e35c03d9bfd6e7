package fungible

import "github.com/nspcc-dev/launchpad-contract/chain"

// Event standard and version of NEP-141 events.
const (
	EventStandard = "nep141"
	EventVersion  = "1.0.0"
)

// Event names.
const (
	EventMint     = "ft_mint"
	EventBurn     = "ft_burn"
	EventTransfer = "ft_transfer"
)

// MintLog is the payload entry of ft_mint.
type MintLog struct {
	OwnerID string     `json:"owner_id"`
	Amount  chain.U128 `json:"amount"`
	Memo    *string    `json:"memo,omitempty"`
}

// BurnLog is the payload entry of ft_burn.
type BurnLog struct {
	OwnerID string     `json:"owner_id"`
	Amount  chain.U128 `json:"amount"`
	Memo    *string    `json:"memo,omitempty"`
}

// TransferLog is the payload entry of ft_transfer.
type TransferLog struct {
	OldOwnerID string     `json:"old_owner_id"`
	NewOwnerID string     `json:"new_owner_id"`
	Amount     chain.U128 `json:"amount"`
	Memo       *string    `json:"memo,omitempty"`
}

func emit(ic *chain.Context, name string, data any) {
	ic.Emit(chain.Event{
		Standard: EventStandard,
		Version:  EventVersion,
		Event:    name,
		Data:     data,
	})
}
