package common

import (
	"fmt"

	"github.com/gaze-network/uint128"
)

// MaxSplitPercent is the largest payment split.
const MaxSplitPercent = 100

// SplitPayment divides price between the vault and the collection owner:
// vault gets floor(price*percent/100), the owner gets the rest.
func SplitPayment(price uint128.Uint128, percent uint8) (vault, owner uint128.Uint128, err error) {
	if percent > MaxSplitPercent {
		return uint128.Zero, uint128.Zero, fmt.Errorf("%w: %d", ErrInvalidSplit, percent)
	}
	prod, overflow := price.MulOverflow(uint128.From64(uint64(percent)))
	if overflow {
		return uint128.Zero, uint128.Zero, fmt.Errorf("%w: %s * %d", ErrOverflow, price, percent)
	}
	vault = prod.Div64(MaxSplitPercent)
	if vault.Cmp(price) > 0 {
		return uint128.Zero, uint128.Zero, fmt.Errorf("%w: vault share exceeds price", ErrOverflow)
	}
	return vault, price.Sub(vault), nil
}

// AddU128 adds amounts panicking with ErrOverflow, for contract code.
func AddU128(a, b uint128.Uint128) uint128.Uint128 {
	s, overflow := a.AddOverflow(b)
	if overflow {
		panic(fmt.Errorf("%w: %s + %s", ErrOverflow, a, b))
	}
	return s
}

// SubU128 subtracts amounts panicking with ErrOverflow on underflow.
func SubU128(a, b uint128.Uint128) uint128.Uint128 {
	if a.Cmp(b) < 0 {
		panic(fmt.Errorf("%w: %s - %s", ErrOverflow, a, b))
	}
	return a.Sub(b)
}

// MulU128 multiplies amounts panicking with ErrOverflow.
func MulU128(a, b uint128.Uint128) uint128.Uint128 {
	p, overflow := a.MulOverflow(b)
	if overflow {
		panic(fmt.Errorf("%w: %s * %s", ErrOverflow, a, b))
	}
	return p
}

// MinU128 returns the smaller amount.
func MinU128(a, b uint128.Uint128) uint128.Uint128 {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}
