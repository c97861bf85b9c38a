package core

import (
	"context"
	"sharelend/pkg/number"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultConfidenceMultiplier confidence is widened by this factor before it
// is applied to a biased price
var DefaultConfidenceMultiplier = decimal.RequireFromString("4.24")

// PriceBias side of the confidence interval a valuation uses
type PriceBias int

const (
	// PriceBiasLowest price minus the confidence interval
	PriceBiasLowest PriceBias = iota
	// PriceBiasNone raw price
	PriceBiasNone
	// PriceBiasHighest price plus the confidence interval
	PriceBiasHighest
)

func (b PriceBias) String() string {
	switch b {
	case PriceBiasLowest:
		return "lowest"
	case PriceBiasNone:
		return "none"
	case PriceBiasHighest:
		return "highest"
	default:
		return "unknown"
	}
}

// PriceReading oracle price with its confidence
type PriceReading struct {
	Base       decimal.Decimal `json:"price"`
	Confidence decimal.Decimal `json:"confidence"`
	Multiplier decimal.Decimal `json:"multiplier"`
	// MaxConfidenceRatio caps the interval at Base * ratio, zero disables the cap
	MaxConfidenceRatio decimal.Decimal `json:"max_confidence_ratio"`
	Timestamp          int64           `json:"timestamp"`
}

// PriceOption customize a PriceReading
type PriceOption func(p *PriceReading)

// WithConfidenceMultiplier override DefaultConfidenceMultiplier
func WithConfidenceMultiplier(m decimal.Decimal) PriceOption {
	return func(p *PriceReading) {
		p.Multiplier = m
	}
}

// WithMaxConfidenceRatio cap the confidence interval relative to the price
func WithMaxConfidenceRatio(r decimal.Decimal) PriceOption {
	return func(p *PriceReading) {
		p.MaxConfidenceRatio = r
	}
}

// NewPriceReading new price reading
func NewPriceReading(base, confidence decimal.Decimal, timestamp int64, opts ...PriceOption) PriceReading {
	p := PriceReading{
		Base:       base,
		Confidence: confidence,
		Multiplier: DefaultConfidenceMultiplier,
		Timestamp:  timestamp,
	}

	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// ConfidenceInterval confidence * multiplier, capped when a max ratio is set
func (p PriceReading) ConfidenceInterval() decimal.Decimal {
	interval := p.Confidence.Mul(p.Multiplier)
	if p.MaxConfidenceRatio.IsPositive() {
		if limit := p.Base.Mul(p.MaxConfidenceRatio); interval.GreaterThan(limit) {
			return limit
		}
	}

	return interval
}

// Price price on the given side of the interval, the lowest side floored at zero
func (p PriceReading) Price(bias PriceBias) (decimal.Decimal, error) {
	switch bias {
	case PriceBiasLowest:
		return number.Max(decimal.Zero, p.Base.Sub(p.ConfidenceInterval())), nil
	case PriceBiasHighest:
		return p.Base.Add(p.ConfidenceInterval()), nil
	case PriceBiasNone:
		return p.Base, nil
	default:
		return decimal.Zero, errors.Wrapf(ErrInvalidPriceBias, "bias %d", int(bias))
	}
}

// Reload replacement reading keeping the multiplier and cap
func (p PriceReading) Reload(base, confidence decimal.Decimal, timestamp int64) PriceReading {
	p.Base = base
	p.Confidence = confidence
	p.Timestamp = timestamp
	return p
}

// IPriceOracle fetches the latest reading of an oracle account
type IPriceOracle interface {
	FetchPrice(ctx context.Context, oracleKey solana.PublicKey) (*PriceRecord, error)
}
