package interest

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// MaxPricision max pricision of derived rates
	MaxPricision int32 = 16
	// MaxApy apy shown to users is capped at this value
	MaxApy = decimal.NewFromInt(3)
	// CompoundingPeriodsPerYear hourly compounding
	CompoundingPeriodsPerYear = 365.25 * 24

	one = decimal.NewFromInt(1)
	u32 = decimal.NewFromInt(math.MaxUint32)
)

// CurveType interest curve flavor
type CurveType uint8

const (
	// CurveLegacy two segment curve driven by optimal utilization
	CurveLegacy CurveType = iota
	// CurveMultipoint piecewise linear curve over encoded points
	CurveMultipoint
)

// RatePoint kink of a multipoint curve. Util is utilization scaled to
// [0, MaxUint32], Rate is apr scaled so that MaxUint32 equals 1000%.
type RatePoint struct {
	Util uint32 `json:"util"`
	Rate uint32 `json:"rate"`
}

// Config interest rate config of a bank
type Config struct {
	OptimalUtilizationRate decimal.Decimal `json:"optimal_utilization_rate"`
	PlateauInterestRate    decimal.Decimal `json:"plateau_interest_rate"`
	MaxInterestRate        decimal.Decimal `json:"max_interest_rate"`

	InsuranceFeeFixedApr decimal.Decimal `json:"insurance_fee_fixed_apr"`
	InsuranceIrFee       decimal.Decimal `json:"insurance_ir_fee"`
	ProtocolFixedFeeApr  decimal.Decimal `json:"protocol_fixed_fee_apr"`
	ProtocolIrFee        decimal.Decimal `json:"protocol_ir_fee"`

	CurveType       CurveType   `json:"curve_type"`
	ZeroUtilRate    uint32      `json:"zero_util_rate"`
	HundredUtilRate uint32      `json:"hundred_util_rate"`
	Points          []RatePoint `json:"points"`
}

// Validate sanity check of the curve parameters
func (c Config) Validate() error {
	if c.CurveType == CurveMultipoint {
		var prev uint32
		for i, p := range c.Points {
			if i > 0 && p.Util <= prev {
				return errors.New("multipoint utilizations must be strictly increasing")
			}
			prev = p.Util
		}
	} else {
		if c.OptimalUtilizationRate.LessThanOrEqual(decimal.Zero) || c.OptimalUtilizationRate.GreaterThanOrEqual(one) {
			return errors.New("optimal utilization rate should be in (0, 1)")
		}

		if c.PlateauInterestRate.GreaterThan(c.MaxInterestRate) {
			return errors.New("plateau interest rate should not exceed max interest rate")
		}
	}

	for _, fee := range []decimal.Decimal{c.InsuranceFeeFixedApr, c.InsuranceIrFee, c.ProtocolFixedFeeApr, c.ProtocolIrFee} {
		if fee.IsNegative() {
			return errors.New("fees should not be negative")
		}
	}

	return nil
}

// UtilizationRate utilization rate
// utilization_rate = total_liabilities / total_deposits
func UtilizationRate(totalDeposits, totalLiabilities decimal.Decimal) decimal.Decimal {
	if totalDeposits.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return totalLiabilities.Div(totalDeposits)
}

// Curve base interest rate at utilization u
func (c Config) Curve(u decimal.Decimal) decimal.Decimal {
	if c.CurveType == CurveMultipoint {
		return c.multipointCurve(u)
	}

	opt := c.OptimalUtilizationRate
	if u.LessThanOrEqual(opt) {
		if opt.IsZero() {
			return decimal.Zero
		}
		return u.Mul(c.MaxInterestRate).Div(opt)
	}

	span := one.Sub(opt)
	if span.LessThanOrEqual(decimal.Zero) {
		return c.MaxInterestRate
	}

	excess := u.Sub(opt).Div(span)
	return c.PlateauInterestRate.Add(excess.Mul(c.MaxInterestRate.Sub(c.PlateauInterestRate)))
}

func (c Config) multipointCurve(u decimal.Decimal) decimal.Decimal {
	if u.LessThanOrEqual(decimal.Zero) {
		return decodeRate(c.ZeroUtilRate)
	}
	if u.GreaterThanOrEqual(one) {
		return decodeRate(c.HundredUtilRate)
	}

	prevUtil, prevRate := decimal.Zero, decodeRate(c.ZeroUtilRate)
	for _, p := range c.Points {
		util, rate := decodeUtil(p.Util), decodeRate(p.Rate)
		if u.LessThanOrEqual(util) {
			return lerp(u, prevUtil, prevRate, util, rate)
		}
		prevUtil, prevRate = util, rate
	}

	return lerp(u, prevUtil, prevRate, one, decodeRate(c.HundredUtilRate))
}

// Rates lending and borrowing apr
// lending_rate = curve(u) * u
// borrowing_rate = curve(u) * (1 + insurance_fee_fixed_apr + protocol_fixed_fee_apr) + insurance_ir_fee + protocol_ir_fee
func (c Config) Rates(totalDeposits, totalLiabilities decimal.Decimal) (lending, borrowing decimal.Decimal) {
	u := UtilizationRate(totalDeposits, totalLiabilities)
	base := c.Curve(u)

	lending = base.Mul(u).Truncate(MaxPricision)

	multiplier := one.Add(c.InsuranceFeeFixedApr).Add(c.ProtocolFixedFeeApr)
	borrowing = base.Mul(multiplier).Add(c.InsuranceIrFee).Add(c.ProtocolIrFee).Truncate(MaxPricision)
	return lending, borrowing
}

// AprToApy compound apr hourly over a year, capped at MaxApy
func AprToApy(apr decimal.Decimal) decimal.Decimal {
	f, _ := apr.Float64()
	apy := math.Pow(1+f/CompoundingPeriodsPerYear, CompoundingPeriodsPerYear) - 1
	if math.IsNaN(apy) || math.IsInf(apy, 0) {
		return MaxApy
	}

	d := decimal.NewFromFloat(apy)
	if d.GreaterThan(MaxApy) {
		return MaxApy
	}
	return d.Truncate(MaxPricision)
}

func decodeUtil(v uint32) decimal.Decimal {
	return decimal.NewFromInt(int64(v)).Div(u32)
}

func decodeRate(v uint32) decimal.Decimal {
	return decimal.NewFromInt(int64(v)).Mul(decimal.NewFromInt(10)).Div(u32)
}

// EncodeUtil inverse of the utilization encoding of a RatePoint
func EncodeUtil(u decimal.Decimal) uint32 {
	return uint32(u.Mul(u32).Round(0).IntPart())
}

// EncodeRate inverse of the rate encoding of a RatePoint
func EncodeRate(r decimal.Decimal) uint32 {
	return uint32(r.Mul(u32).Div(decimal.NewFromInt(10)).Round(0).IntPart())
}

func lerp(x, x0, y0, x1, y1 decimal.Decimal) decimal.Decimal {
	if x1.Equal(x0) {
		return y1
	}
	return y0.Add(y1.Sub(y0).Mul(x.Sub(x0)).Div(x1.Sub(x0)))
}
