package number

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// I80F48FractionalBits number of fractional bits of an I80F48 value
const I80F48FractionalBits = 48

var (
	fivePow48   = new(big.Int).Exp(big.NewInt(5), big.NewInt(I80F48FractionalBits), nil)
	twoPow48    = new(big.Int).Lsh(big.NewInt(1), I80F48FractionalBits)
	i128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)
	i128Max     = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	i128Min     = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	// ErrI80F48Overflow value does not fit in 128 bits
	ErrI80F48Overflow = errors.New("i80f48 overflow")
)

// WrappedI80F48 signed 128-bit fixed point number with 48 fractional bits,
// stored as 16 little-endian two's complement bytes
type WrappedI80F48 struct {
	Value [16]byte `json:"value"`
}

// Mantissa raw signed integer, value = mantissa * 2^-48
func (w WrappedI80F48) Mantissa() *big.Int {
	be := make([]byte, len(w.Value))
	for i, b := range w.Value {
		be[len(be)-1-i] = b
	}

	m := new(big.Int).SetBytes(be)
	if w.Value[15]&0x80 != 0 {
		m.Sub(m, i128Modulus)
	}

	return m
}

// IsZero all bytes are zero
func (w WrappedI80F48) IsZero() bool {
	return w.Value == [16]byte{}
}

// Decimal exact decimal form
func (w WrappedI80F48) Decimal() decimal.Decimal {
	return I80F48ToDecimal(w, 0)
}

func (w WrappedI80F48) String() string {
	return w.Decimal().String()
}

// I80F48ToDecimal decode the fixed point value and divide it by 10^scale.
// 2^-48 = 5^48 * 10^-48, so the conversion is exact.
func I80F48ToDecimal(w WrappedI80F48, scale int32) decimal.Decimal {
	m := w.Mantissa()
	m.Mul(m, fivePow48)
	return decimal.NewFromBigInt(m, -I80F48FractionalBits).Shift(-scale)
}

// DecimalToI80F48 encode d, truncating toward zero at 48 fractional bits
func DecimalToI80F48(d decimal.Decimal) (WrappedI80F48, error) {
	var w WrappedI80F48

	m := new(big.Int).Mul(d.Coefficient(), twoPow48)
	if exp := d.Exponent(); exp >= 0 {
		m.Mul(m, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	} else {
		m.Quo(m, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exp)), nil))
	}

	if m.Cmp(i128Max) > 0 || m.Cmp(i128Min) < 0 {
		return w, ErrI80F48Overflow
	}

	if m.Sign() < 0 {
		m.Add(m, i128Modulus)
	}

	be := m.FillBytes(make([]byte, 16))
	for i, b := range be {
		w.Value[15-i] = b
	}

	return w, nil
}

// I80F48 parse a decimal string into fixed point, zero on invalid input
func I80F48(v string) WrappedI80F48 {
	w, _ := DecimalToI80F48(Decimal(v))
	return w
}
