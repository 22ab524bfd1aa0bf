package svm

import (
	"math/big"
	"strings"

	werrors "github.com/solstice-labs/swallet-node/errors"
)

// NativeDecimals is the decimal count of the native asset (SOL).
const NativeDecimals = 9

var ten = big.NewInt(10)

// ToBaseUnits converts a human decimal amount string into the asset's minimal
// unit: amount * 10^decimals, truncated toward zero. "1.999999" at 6 decimals
// is 1999999; fractional digits beyond the asset's precision are dropped, not
// rounded. Non-positive or malformed amounts map to the invalid-amount cause.
func ToBaseUnits(amount string, decimals uint8) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return 0, werrors.Wrapf(werrors.ErrInvalidAmount, "%q", amount)
	}

	whole := amount
	frac := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return 0, werrors.Wrapf(werrors.ErrInvalidAmount, "%q", amount)
	}

	// Truncate excess fractional digits, pad missing ones with zeros.
	if len(frac) > int(decimals) {
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	base, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return 0, werrors.Wrapf(werrors.ErrInvalidAmount, "%q", amount)
	}
	if base.Sign() <= 0 {
		return 0, werrors.Wrapf(werrors.ErrInvalidAmount, "%q", amount)
	}
	if !base.IsUint64() {
		return 0, werrors.Wrapf(werrors.ErrInvalidAmount, "%q exceeds the representable range", amount)
	}
	return base.Uint64(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
