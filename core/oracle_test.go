package core

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceReadingBias(t *testing.T) {
	p := NewPriceReading(d("100"), d("1"), 0)

	lowest, err := p.Price(PriceBiasLowest)
	require.NoError(t, err)
	assert.True(t, lowest.Equal(d("95.76")), lowest.String())

	highest, err := p.Price(PriceBiasHighest)
	require.NoError(t, err)
	assert.True(t, highest.Equal(d("104.24")), highest.String())

	none, err := p.Price(PriceBiasNone)
	require.NoError(t, err)
	assert.True(t, none.Equal(d("100")))
}

func TestPriceReadingLowestFlooredAtZero(t *testing.T) {
	p := NewPriceReading(d("1"), d("0.3"), 0)

	lowest, err := p.Price(PriceBiasLowest)
	require.NoError(t, err)
	assert.True(t, lowest.IsZero(), lowest.String())

	highest, err := p.Price(PriceBiasHighest)
	require.NoError(t, err)
	assert.True(t, highest.Equal(d("2.272")), highest.String())
}

func TestPriceReadingInvalidBias(t *testing.T) {
	_, err := NewPriceReading(d("1"), d("0"), 0).Price(PriceBias(5))
	assert.ErrorIs(t, err, ErrInvalidPriceBias)
}

func TestPriceReadingOrdering(t *testing.T) {
	samples := [][2]string{{"1", "0"}, {"1", "0.01"}, {"25000", "13.5"}, {"0.0001", "0.00002"}}
	for _, s := range samples {
		p := NewPriceReading(d(s[0]), d(s[1]), 0)
		lowest, _ := p.Price(PriceBiasLowest)
		none, _ := p.Price(PriceBiasNone)
		highest, _ := p.Price(PriceBiasHighest)

		assert.True(t, lowest.LessThanOrEqual(none))
		assert.True(t, none.LessThanOrEqual(highest))
		assert.Equal(t, p.Confidence.IsZero(), lowest.Equal(highest), "price %s conf %s", s[0], s[1])
	}
}

func TestPriceReadingOptions(t *testing.T) {
	p := NewPriceReading(d("100"), d("10"), 0, WithConfidenceMultiplier(d("2")))
	assert.True(t, p.ConfidenceInterval().Equal(d("20")))

	capped := NewPriceReading(d("100"), d("10"), 0, WithMaxConfidenceRatio(d("0.05")))
	assert.True(t, capped.ConfidenceInterval().Equal(d("5")))
	lowest, _ := capped.Price(PriceBiasLowest)
	assert.True(t, lowest.Equal(d("95")))

	reloaded := capped.Reload(d("200"), d("1"), 42)
	assert.True(t, reloaded.ConfidenceInterval().Equal(d("4.24")))
	assert.Equal(t, int64(42), reloaded.Timestamp)
	assert.True(t, capped.Base.Equal(d("100")))
}

type fakeOracle map[solana.PublicKey]PriceRecord

func (o fakeOracle) FetchPrice(_ context.Context, oracleKey solana.PublicKey) (*PriceRecord, error) {
	p, ok := o[oracleKey]
	if !ok {
		return nil, ErrPriceNotFound
	}
	return &p, nil
}

func TestBankReloadPriceData(t *testing.T) {
	bank := newTestBank(solBank, defaultSpec("SOL", solOracle), "20", "0.1")
	oracle := fakeOracle{solOracle: {OracleKey: solOracle, Price: d("25"), Confidence: d("0"), Timestamp: 7}}

	reloaded, err := bank.ReloadPriceData(context.Background(), oracle)
	require.NoError(t, err)

	price, _ := reloaded.Price(PriceBiasLowest)
	assert.True(t, price.Equal(d("25")))

	old, _ := bank.Price(PriceBiasNone)
	assert.True(t, old.Equal(d("20")), "original bank is untouched")

	_, err = newTestBank(ethBank, defaultSpec("ETH", ethOracle), "1", "0").ReloadPriceData(context.Background(), oracle)
	assert.ErrorIs(t, err, ErrPriceNotFound)
}
