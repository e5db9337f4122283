// internal/launch/amount.go
package launch

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const solDecimals = 9

var (
	errNotPositive = errors.New("must be greater than zero")
	errOverflow    = errors.New("overflows u64")
)

// ToRaw scales a UI amount by 10^decimals. The scaled value must be a
// positive whole number that fits u64.
func ToRaw(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.Sign() <= 0 {
		return 0, errNotPositive
	}
	return scale(amount, decimals)
}

// ParseSOL converts a SOL amount such as "0.25" to lamports. Zero is allowed.
func ParseSOL(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid SOL amount %q: %w", raw, err)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("invalid SOL amount %q: negative", raw)
	}
	if amount.IsZero() {
		return 0, nil
	}
	lamports, err := scale(amount, solDecimals)
	if err != nil {
		return 0, fmt.Errorf("invalid SOL amount %q: %w", raw, err)
	}
	return lamports, nil
}

func scale(amount decimal.Decimal, decimals uint8) (uint64, error) {
	scaled := amount.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("has more than %d decimal places", decimals)
	}
	raw := scaled.BigInt()
	if !raw.IsUint64() {
		return 0, errOverflow
	}
	return raw.Uint64(), nil
}
