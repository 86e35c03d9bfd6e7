package chain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gaze-network/uint128"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
)

// NEARDecimals is the number of decimal places of the native currency.
const NEARDecimals = 24

var (
	// OneYocto is the smallest native amount.
	OneYocto = uint128.From64(1)
	// OneNEAR is 10^24 yocto.
	OneNEAR = MustParseU128("1000000000000000000000000")
)

// U128 is an unsigned 128-bit amount which is encoded in JSON as a decimal
// string, the way balances are passed to and returned from contracts.
type U128 uint128.Uint128

// NewU128 wraps v.
func NewU128(v uint128.Uint128) U128 { return U128(v) }

// U128From64 returns U128 holding v.
func U128From64(v uint64) U128 { return U128(uint128.From64(v)) }

// Uint128 returns the underlying value.
func (x U128) Uint128() uint128.Uint128 { return uint128.Uint128(x) }

// String implements fmt.Stringer.
func (x U128) String() string { return uint128.Uint128(x).String() }

// MarshalJSON implements json.Marshaler.
func (x U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

// UnmarshalJSON implements json.Unmarshaler. Both quoted decimal strings and
// bare JSON numbers are accepted.
func (x *U128) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	v, err := uint128.FromString(s)
	if err != nil {
		return fmt.Errorf("invalid u128 %q: %w", s, err)
	}
	*x = U128(v)
	return nil
}

// ParseU128 parses a decimal string.
func ParseU128(s string) (uint128.Uint128, error) {
	return uint128.FromString(s)
}

// MustParseU128 is ParseU128 panicking on error, for constants.
func MustParseU128(s string) uint128.Uint128 {
	v, err := ParseU128(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseNEAR converts a human-readable native amount ("1.5") into yocto.
func ParseNEAR(s string) (uint128.Uint128, error) {
	return ParseFixed(s, NEARDecimals)
}

// FormatNEAR renders yocto amount as a decimal NEAR string.
func FormatNEAR(v uint128.Uint128) string {
	return FormatFixed(v, NEARDecimals)
}

// ParseFixed converts a decimal string with the given precision into its
// integer representation.
func ParseFixed(s string, precision int) (uint128.Uint128, error) {
	b, err := fixedn.FromString(s, precision)
	if err != nil {
		return uint128.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if b.Sign() < 0 {
		return uint128.Zero, fmt.Errorf("negative amount %q", s)
	}
	v, err := uint128.FromBig(b)
	if err != nil {
		return uint128.Zero, fmt.Errorf("amount %q: %w", s, err)
	}
	return v, nil
}

// FormatFixed renders v as a decimal with the given precision.
func FormatFixed(v uint128.Uint128, precision int) string {
	return fixedn.ToString(v.Big(), precision)
}

// GasString renders gas in TGas for logs.
func GasString(g uint64) string {
	return strconv.FormatFloat(float64(g)/float64(TGas), 'f', -1, 64) + " TGas"
}
