package number

import (
	"github.com/shopspring/decimal"
)

// NativeToUiDecimal native token units to ui units
func NativeToUiDecimal(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Shift(-decimals)
}

// NativeToUi native token units to ui units, for display
func NativeToUi(amount decimal.Decimal, decimals int32) float64 {
	f, _ := NativeToUiDecimal(amount, decimals).Float64()
	return f
}

// UiToNative ui units to native token units, rounded down
func UiToNative(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Shift(decimals).Floor()
}
