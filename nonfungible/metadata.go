package nonfungible

import (
	"encoding/base64"
	"fmt"

	"github.com/nspcc-dev/launchpad-contract/common"
)

// MetadataSpec is the only supported contract metadata version.
const MetadataSpec = "nft-1.0.0"

// ContractMetadata is NEP-177 contract metadata.
type ContractMetadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon,omitempty"`
	BaseURI       *string `json:"base_uri,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	ReferenceHash *string `json:"reference_hash,omitempty"`
}

// Validate checks metadata consistency.
func (m ContractMetadata) Validate() error {
	if m.Spec != MetadataSpec {
		return fmt.Errorf("%w: spec %q, expected %q", common.ErrInvalidMetadata, m.Spec, MetadataSpec)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", common.ErrInvalidMetadata)
	}
	if m.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", common.ErrInvalidMetadata)
	}
	return checkLinked("reference", m.Reference, m.ReferenceHash)
}

// TokenMetadata is NEP-177 token metadata.
type TokenMetadata struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Media         *string `json:"media,omitempty"`
	MediaHash     *string `json:"media_hash,omitempty"`
	Copies        *uint64 `json:"copies,omitempty"`
	IssuedAt      *string `json:"issued_at,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	StartsAt      *string `json:"starts_at,omitempty"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
	Extra         *string `json:"extra,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	ReferenceHash *string `json:"reference_hash,omitempty"`
}

// Validate checks metadata consistency.
func (m TokenMetadata) Validate() error {
	if err := checkLinked("media", m.Media, m.MediaHash); err != nil {
		return err
	}
	return checkLinked("reference", m.Reference, m.ReferenceHash)
}

// checkLinked checks that a link and its hash are either both present or
// both absent and that the hash is base64-encoded SHA-256.
func checkLinked(name string, link, hash *string) error {
	if (link == nil) != (hash == nil) {
		return fmt.Errorf("%w: %s and %s_hash must be set together", common.ErrInvalidMetadata, name, name)
	}
	if hash == nil {
		return nil
	}
	h, err := base64.StdEncoding.DecodeString(*hash)
	if err != nil {
		return fmt.Errorf("%w: %s_hash: %w", common.ErrInvalidMetadata, name, err)
	}
	if len(h) != 32 {
		return fmt.Errorf("%w: %s_hash must be 32 bytes, got %d", common.ErrInvalidMetadata, name, len(h))
	}
	return nil
}
