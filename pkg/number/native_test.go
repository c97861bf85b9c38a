package number

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNativeToUi(t *testing.T) {
	assert.Equal(t, 1.5, NativeToUi(decimal.NewFromInt(1500000), 6))
	assert.Equal(t, 0.0, NativeToUi(decimal.Zero, 9))
	assert.Equal(t, "0.000000001", NativeToUiDecimal(decimal.NewFromInt(1), 9).String())
}

func TestUiToNative(t *testing.T) {
	data := map[string]string{
		"1.5":        "1500000",
		"0.0000019":  "1",
		"0.00000099": "0",
		"123":        "123000000",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, v, UiToNative(Decimal(k), 6).String())
		})
	}
}

func TestNativeUiRoundTrip(t *testing.T) {
	for _, d := range []int32{0, 6, 9} {
		native := decimal.NewFromInt(987654321)
		assert.True(t, native.Equal(UiToNative(NativeToUiDecimal(native, d), d)))

		ui := Decimal("12.345678")
		back := NativeToUiDecimal(UiToNative(ui, d), d)
		assert.True(t, back.LessThanOrEqual(ui))
		assert.True(t, ui.Sub(back).LessThan(decimal.New(1, -d)))
	}
}
